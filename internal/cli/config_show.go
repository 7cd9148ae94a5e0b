package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rshade/amlscreen/internal/config"
)

// NewConfigShowCmd creates the command printing the effective configuration.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Long: `Prints the configuration after the config file, the --config overlay,
environment overrides and flags have been applied. The upstream token is
masked.`,
		Example: `  amlscreen config show
  AMLSCREEN_ENDPOINT=https://staging.example.com/search amlscreen config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			shown := *config.GetGlobalConfig()
			if shown.Upstream.Token != "" {
				shown.Upstream.Token = shown.RedactedToken()
			}

			data, err := yaml.Marshal(&shown)
			if err != nil {
				return fmt.Errorf("marshalling config: %w", err)
			}
			cmd.Print(string(data))
			return nil
		},
	}
}
