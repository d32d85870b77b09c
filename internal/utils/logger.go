// Package utils provides logging constructors and version retrieval.
package utils

import "go.uber.org/zap"

// NewApplicationLogger constructs a zap logger for human-readable console
// output, used by non-interactive commands.
func NewApplicationLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.StacktraceKey = ""
	config.EncoderConfig.MessageKey = "message"
	return config.Build()
}

// NewFileLogger constructs a JSON logger writing to the given file. The
// interactive view owns the terminal, so its diagnostics go to a file
// instead of stderr.
func NewFileLogger(path string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	return config.Build()
}
