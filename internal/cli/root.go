package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/amlscreen/internal/config"
	"github.com/rshade/amlscreen/internal/logging"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// baseLogger is logger without the cli component tag, handed to servers
// that tag their own.
var baseLogger zerolog.Logger //nolint:gochecknoglobals // Set with logger in setupLogging

// NewRootCmd creates the root Cobra command for the amlscreen CLI.
// It loads configuration, wires up logging and tracing, and registers the
// tui, search, serve and config subcommands. Run without a subcommand on a
// terminal it opens the interactive screen.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithStdout(ver, func() bool { return isTerminal(os.Stdout) })
}

// NewRootCmdWithStdout creates the root command with an explicit terminal
// probe for testability.
func NewRootCmdWithStdout(ver string, stdoutIsTTY func() bool) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:     "amlscreen",
		Short:   "AML screening lookups from the terminal or browser",
		Long:    "amlscreen: look up a person by name and date of birth against an AML screening API",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd, wantsInteractive(cmd, stdoutIsTTY))
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !stdoutIsTTY() {
				return cmd.Help()
			}
			return runInteractive(cmd, formValues{})
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "path to a YAML config overlay merged over the global config")
	cmd.PersistentFlags().String("endpoint", "", "screening API endpoint (overrides config and AMLSCREEN_ENDPOINT)")
	cmd.PersistentFlags().String("token", "", "CRM token forwarded upstream (overrides config and AMLSCREEN_TOKEN)")
	cmd.AddCommand(NewTUICmd(), NewSearchCmd(), NewServeCmd(), newConfigCmd())

	return cmd
}

// loadConfig builds the effective configuration and installs it as the
// global config. Precedence: flags > env > --config overlay > global file.
func loadConfig(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	switch {
	case err == nil:
	case isConfigInit(cmd):
		// init exists to replace a broken file.
		cfg = config.New()
	default:
		return fmt.Errorf("loading configuration: %w", err)
	}

	if cmd.Flags().Changed("endpoint") {
		cfg.Upstream.Endpoint, _ = cmd.Flags().GetString("endpoint")
	}
	if cmd.Flags().Changed("token") {
		cfg.Upstream.Token, _ = cmd.Flags().GetString("token")
	}

	config.SetGlobalConfig(cfg)
	return nil
}

func isConfigInit(cmd *cobra.Command) bool {
	return cmd.Name() == "init" && cmd.HasParent() && cmd.Parent().Name() == "config"
}

// wantsInteractive reports whether cmd will take over the terminal.
func wantsInteractive(cmd *cobra.Command, stdoutIsTTY func() bool) bool {
	switch cmd.Name() {
	case "tui":
		return true
	case cmd.Root().Name():
		return stdoutIsTTY()
	default:
		return false
	}
}

const rootCmdExample = `  # Open the interactive screening form
  amlscreen

  # Screen one person and print the profile
  amlscreen search --name "Jane Roe" --dob 1980-02-03

  # Machine-readable output, non-zero exit on a match
  amlscreen search --name "Jane Roe" --output json --fail-on-match

  # Serve the browser form on localhost:8080
  amlscreen serve --addr 127.0.0.1:8080

  # Initialize configuration
  amlscreen config init`

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigValidateCmd(), NewConfigShowCmd())
	return cmd
}
