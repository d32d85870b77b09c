// Package config resolves application settings from files and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// LocalConfigFileName is looked up in the working directory.
	LocalConfigFileName = ".repolens.yaml"

	globalConfigDirectory = ".config/repolens"
	globalConfigFileName  = "config.yaml"

	envBaseURL = "REPOLENS_API_URL"
	envToken   = "REPOLENS_API_TOKEN"
	envLogFile = "REPOLENS_LOG_FILE"

	// DefaultBaseURL addresses a locally running analysis server.
	DefaultBaseURL = "http://localhost:8080"
)

// LoadOptions controls how configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// Config holds application settings.
type Config struct {
	API APIConfig `mapstructure:"api"`
	Log LogConfig `mapstructure:"log"`
}

// APIConfig addresses the stack analysis server.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	Token          string `mapstructure:"token"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Timeout converts the configured seconds; zero disables the client timeout.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogConfig selects the diagnostics sink for the interactive view.
type LogConfig struct {
	File string `mapstructure:"file"`
}

// Load resolves configuration from the global file, the local file, and the
// environment, later sources winning field by field. A .env file in the
// current directory is honored before the environment is read.
func Load(options LoadOptions) (Config, error) {
	_ = godotenv.Load()

	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}

	var merged Config
	if homeDirectory, err := os.UserHomeDir(); err == nil && homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, globalConfigDirectory, globalConfigFileName)
		globalConfig, loadErr := loadFromPath(globalPath)
		if loadErr != nil {
			return Config{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath := options.ExplicitFilePath
	if localPath == "" {
		localPath = filepath.Join(workingDirectory, LocalConfigFileName)
	} else if !filepath.IsAbs(localPath) {
		localPath = filepath.Join(workingDirectory, localPath)
	}
	localConfig, loadErr := loadFromPath(localPath)
	if loadErr != nil {
		return Config{}, loadErr
	}
	merged = merged.Merge(localConfig)

	merged = merged.Merge(fromEnvironment())
	if merged.API.BaseURL == "" {
		merged.API.BaseURL = DefaultBaseURL
	}
	return merged, nil
}

func fromEnvironment() Config {
	var config Config
	config.API.BaseURL = os.Getenv(envBaseURL)
	config.API.Token = os.Getenv(envToken)
	config.Log.File = os.Getenv(envLogFile)
	return config
}

func loadFromPath(path string) (Config, error) {
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return Config{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetConfigFile(path)
	if readErr := reader.ReadInConfig(); readErr != nil {
		return Config{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config Config
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return Config{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver, non-zero fields winning.
func (c Config) Merge(override Config) Config {
	result := c
	result.API = result.API.merge(override.API)
	result.Log = result.Log.merge(override.Log)
	return result
}

func (c APIConfig) merge(override APIConfig) APIConfig {
	result := c
	if override.BaseURL != "" {
		result.BaseURL = override.BaseURL
	}
	if override.Token != "" {
		result.Token = override.Token
	}
	if override.TimeoutSeconds > 0 {
		result.TimeoutSeconds = override.TimeoutSeconds
	}
	return result
}

func (c LogConfig) merge(override LogConfig) LogConfig {
	result := c
	if override.File != "" {
		result.File = override.File
	}
	return result
}
