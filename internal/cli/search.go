package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/amlscreen/internal/config"
	"github.com/rshade/amlscreen/internal/logging"
	"github.com/rshade/amlscreen/internal/profile"
	"github.com/rshade/amlscreen/internal/screening"
	"github.com/rshade/amlscreen/internal/session"
)

// searchParams holds the flags of the search command.
type searchParams struct {
	name        string
	dob         string
	output      string
	plain       bool
	failOnMatch bool
}

// NewSearchCmd creates the one-shot search command.
func NewSearchCmd() *cobra.Command {
	var params searchParams

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Screen one person and print the result",
		Long: `Runs a single screening lookup and prints the first match as a profile.

An empty result set is a successful search. Upstream failures are reported
with the same messages as the interactive screen and exit with status 1.
With --fail-on-match a returned match exits with status 2.`,
		Example: `  # Screen by name and date of birth
  amlscreen search --name "Jane Roe" --dob 1980-02-03

  # JSON for scripts
  amlscreen search --name "Jane Roe" --output json

  # Gate a pipeline on a clean result
  amlscreen search --name "Jane Roe" --fail-on-match`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSearch(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.name, "name", "", "full name to screen (required)")
	cmd.Flags().StringVar(&params.dob, "dob", "", "date of birth, YYYY-MM-DD")
	cmd.Flags().StringVarP(&params.output, "output", "o", "",
		"output format: table or json (default from config)")
	cmd.Flags().BoolVar(&params.plain, "plain", false, "disable styling in table output")
	cmd.Flags().BoolVar(&params.failOnMatch, "fail-on-match", false,
		fmt.Sprintf("exit with status %d when a match record is returned", ExitCodeMatchFound))
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runSearch(cmd *cobra.Command, params searchParams) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	client, err := newScreeningClient(config.GetGlobalConfig(), nil)
	if err != nil {
		return err
	}

	m := session.New()
	ticket, err := m.Submit(params.name, params.dob)
	if err != nil {
		var verr *screening.ValidationError
		if errors.As(err, &verr) {
			return errors.New(verr.Message)
		}
		return err
	}

	log.Debug().
		Str("endpoint", client.Endpoint()).
		Bool("with_dob", ticket.Query.DateOfBirth != "").
		Msg("running screening lookup")

	if err = m.Run(ctx, client, ticket); err != nil {
		return fmt.Errorf("applying screening result: %w", err)
	}
	snap := m.Snapshot()

	if err = RenderSearchOutput(cmd.OutOrStdout(), params.output, snap, params.plain); err != nil {
		return err
	}

	switch snap.State {
	case session.StateFailed:
		return &LookupFailedError{Message: snap.Message, Err: snap.Err}
	case session.StatePopulated:
		if params.failOnMatch {
			p, _ := profile.Build(snap.Response)
			return &MatchFoundError{
				ExitCode: ExitCodeMatchFound,
				Caption:  p.Header.Caption,
				Tier:     string(p.Header.Tier),
			}
		}
	case session.StateIdle, session.StateLoading, session.StateEmpty:
	}
	return nil
}
