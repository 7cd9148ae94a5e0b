package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/amlscreen/internal/config"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validates the effective configuration: the config file, the --config
overlay, environment overrides and flags.

This includes:
- YAML syntax of the config file
- Schema version compatibility
- Upstream endpoint URL and timeout
- Output format, logging level and format
- Server listen address`,
		Example: `  # Validate current configuration
  amlscreen config validate

  # Validate and show detailed information
  amlscreen config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
// A config file that does not parse has already failed in loadConfig.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cmd.Printf("✅ Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Config file: %s\n", cfg.ConfigPath())
	cmd.Printf("  Upstream endpoint: %s\n", cfg.Upstream.Endpoint)
	cmd.Printf("  Upstream token: %s\n", cfg.RedactedToken())
	if cfg.Upstream.Timeout > 0 {
		cmd.Printf("  Upstream timeout: %s\n", cfg.Upstream.Timeout)
	} else {
		cmd.Println("  Upstream timeout: none")
	}
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Logging format: %s\n", cfg.Logging.Format)
	if cfg.Logging.File != "" {
		cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	}
	cmd.Printf("  Server address: %s\n", cfg.Server.Addr)
}
