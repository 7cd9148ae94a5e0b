package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/amlscreen/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates $AMLSCREEN_HOME/config.yaml (default ~/.amlscreen/config.yaml)
with default values. Environment overrides are not written to the file.

On a terminal an existing file is only replaced after confirmation.`,
		Example: `  # Create the configuration file
  amlscreen config init

  # Overwrite an existing file without asking
  amlscreen config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")

	return cmd
}

// initGlobalConfig writes the default config to the config directory.
func initGlobalConfig(cmd *cobra.Command, force bool) error {
	dir, err := config.GetConfigDir()
	if err != nil {
		return fmt.Errorf("resolving config directory: %w", err)
	}

	cfg := config.Default()
	cfg.SetConfigPath(filepath.Join(dir, "config.yaml"))

	if !force {
		_, statErr := os.Stat(cfg.ConfigPath())
		switch {
		case statErr == nil:
			if !ConfirmOverwrite(cmd.OutOrStdout(), cmd.InOrStdin(), cfg.ConfigPath()).Accepted {
				return errors.New("configuration file already exists, use --force to overwrite")
			}
		case !os.IsNotExist(statErr):
			return fmt.Errorf("cannot access config path %s: %w", cfg.ConfigPath(), statErr)
		}
	}

	if err = cfg.Save(); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", cfg.ConfigPath())

	return nil
}
