package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/amlscreen/internal/config"
	"github.com/rshade/amlscreen/internal/tui"
)

// formValues prefill the interactive form.
type formValues struct {
	name string
	dob  string
}

// NewTUICmd creates the interactive screening command.
func NewTUICmd() *cobra.Command {
	var values formValues

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive screening form",
		Example: `  # Start with an empty form
  amlscreen tui

  # Prefill the form
  amlscreen tui --name "Jane Roe" --dob 1980-02-03`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd, values)
		},
	}

	cmd.Flags().StringVar(&values.name, "name", "", "prefill the name field")
	cmd.Flags().StringVar(&values.dob, "dob", "", "prefill the date of birth field")

	return cmd
}

func runInteractive(cmd *cobra.Command, values formValues) error {
	ctx := cmd.Context()

	client, err := newScreeningClient(config.GetGlobalConfig(), nil)
	if err != nil {
		return err
	}

	model := tui.NewSearchModel(ctx, client)
	model.Prefill(values.name, values.dob)

	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	if _, err = p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}
