// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/repolens/repolens/internal/config"
	"github.com/repolens/repolens/internal/listing"
	"github.com/repolens/repolens/internal/repo"
	"github.com/repolens/repolens/internal/report"
	"github.com/repolens/repolens/internal/tui"
	"github.com/repolens/repolens/internal/utils"
)

const (
	apiURLFlagName  = "api-url"
	tokenFlagName   = "token"
	timeoutFlagName = "timeout"
	logFileFlagName = "log-file"
	configFlagName  = "config"
	formatFlagName  = "format"
	versionFlagName = "version"

	versionTemplate = "repolens version: %s\n"

	rootUse              = "repolens"
	rootShortDescription = "repolens renders repository file trees and stack analysis"
	rootLongDescription  = `repolens fetches a repository's file listing from the stack analysis
server, reveals it as a navigable tree, and summarizes the extension
breakdown. The view command opens the interactive terminal view; the
report command prints the same analysis for scripting.

Repositories are addressed as "id=owner/name", or "owner/name" when the
server id is unknown.`

	viewUse              = "view <repository>..."
	viewAlias            = "v"
	viewShortDescription = "open the interactive repository view (" + viewAlias + ")"
	viewUsageExample     = `  # Inspect one repository
  repolens view 42=acme/widget

  # Cycle through several with tab
  repolens view 42=acme/widget 7=acme/api`

	reportUse              = "report <repository>..."
	reportAlias            = "r"
	reportShortDescription = "print tree and extension breakdown (" + reportAlias + ")"
	reportUsageExample     = `  # Raw tree plus breakdown
  repolens report 42=acme/widget

  # JSON documents for several repositories
  repolens report --format json 42=acme/widget 7=acme/api`

	apiURLFlagDescription  = "stack analysis server base URL"
	tokenFlagDescription   = "bearer token for the server"
	timeoutFlagDescription = "request timeout in seconds (0 disables)"
	logFileFlagDescription = "write view diagnostics to this file"
	configFlagDescription  = "configuration file path"
	formatFlagDescription  = "output format (raw or json)"
	versionFlagDescription = "display application version"

	invalidFormatMessage = "invalid format value '%s'"
)

// Execute runs the repolens application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.ApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createViewCommand(),
		createReportCommand(),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// serverOptions stores flags shared by the view and report commands.
type serverOptions struct {
	apiURL         string
	token          string
	timeoutSeconds int
	configPath     string
}

// addServerFlags registers the shared server flags on the command.
func addServerFlags(command *cobra.Command, options *serverOptions) {
	command.Flags().StringVar(&options.apiURL, apiURLFlagName, "", apiURLFlagDescription)
	command.Flags().StringVar(&options.token, tokenFlagName, "", tokenFlagDescription)
	command.Flags().IntVar(&options.timeoutSeconds, timeoutFlagName, 0, timeoutFlagDescription)
	command.Flags().StringVar(&options.configPath, configFlagName, "", configFlagDescription)
}

// resolveConfig loads files and environment, then overlays flag values.
func resolveConfig(options serverOptions, logFile string) (config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{ExplicitFilePath: options.configPath})
	if err != nil {
		return config.Config{}, err
	}
	var override config.Config
	override.API.BaseURL = options.apiURL
	override.API.Token = options.token
	override.API.TimeoutSeconds = options.timeoutSeconds
	override.Log.File = logFile
	return cfg.Merge(override), nil
}

func newListingClient(cfg config.Config, logger *zap.Logger) *listing.Client {
	return listing.New(listing.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   cfg.API.Token,
		Timeout: cfg.API.Timeout(),
	}, logger)
}

// createViewCommand returns the view subcommand.
func createViewCommand() *cobra.Command {
	var options serverOptions
	var logFile string

	viewCommand := &cobra.Command{
		Use:     viewUse,
		Aliases: []string{viewAlias},
		Short:   viewShortDescription,
		Example: viewUsageExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			cfg, err := resolveConfig(options, logFile)
			if err != nil {
				return err
			}
			logger, err := viewLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			model := tui.New(tui.Config{
				Repos:  repo.ParseAll(arguments),
				Lister: newListingClient(cfg, logger),
				Logger: logger,
			})
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
			_, err = program.Run()
			return err
		},
	}
	addServerFlags(viewCommand, &options)
	viewCommand.Flags().StringVar(&logFile, logFileFlagName, "", logFileFlagDescription)
	return viewCommand
}

// viewLogger picks the diagnostics sink for the interactive view. The view
// owns the terminal, so without a log file diagnostics are dropped.
func viewLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.Log.File == "" {
		return zap.NewNop(), nil
	}
	return utils.NewFileLogger(cfg.Log.File)
}

// createReportCommand returns the report subcommand.
func createReportCommand() *cobra.Command {
	var options serverOptions
	var outputFormat = report.FormatRaw

	reportCommand := &cobra.Command{
		Use:     reportUse,
		Aliases: []string{reportAlias},
		Short:   reportShortDescription,
		Example: reportUsageExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			outputFormatLower := strings.ToLower(outputFormat)
			if outputFormatLower != report.FormatRaw && outputFormatLower != report.FormatJSON {
				return fmt.Errorf(invalidFormatMessage, outputFormat)
			}
			cfg, err := resolveConfig(options, "")
			if err != nil {
				return err
			}
			logger, err := utils.NewApplicationLogger()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			client := newListingClient(cfg, logger)
			results := report.Collect(command.Context(), client, repo.ParseAll(arguments))
			return report.Write(command.OutOrStdout(), results, outputFormatLower, logger)
		},
	}
	addServerFlags(reportCommand, &options)
	reportCommand.Flags().StringVar(&outputFormat, formatFlagName, report.FormatRaw, formatFlagDescription)
	return reportCommand
}
