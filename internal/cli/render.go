package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rshade/amlscreen/internal/config"
	"github.com/rshade/amlscreen/internal/profile"
	"github.com/rshade/amlscreen/internal/screening"
	"github.com/rshade/amlscreen/internal/session"
	"github.com/rshade/amlscreen/internal/tui"
)

// searchResult is the JSON document written by `search --output json`.
type searchResult struct {
	State   string           `json:"state"`
	Query   *queryJSON       `json:"query,omitempty"`
	Summary *profile.Summary `json:"summary,omitempty"`
	Profile *profile.Profile `json:"profile,omitempty"`
	Error   *errorJSON       `json:"error,omitempty"`
}

type queryJSON struct {
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
}

type errorJSON struct {
	Kind       screening.Kind `json:"kind"`
	Message    string         `json:"message"`
	StatusCode int            `json:"status_code,omitempty"`
}

func isValidOutputFormat(format string) bool {
	return format == config.OutputTable || format == config.OutputJSON
}

// RenderSearchOutput writes a finished lookup in the requested format.
// Table output is styled on a terminal and plain otherwise.
func RenderSearchOutput(w io.Writer, outputFormat string, snap session.Snapshot, plain bool) error {
	format := config.GetOutputFormat(outputFormat)
	if !isValidOutputFormat(format) {
		return fmt.Errorf("unsupported output format: %s", format)
	}

	if format == config.OutputJSON {
		return renderJSON(w, snap)
	}

	switch tui.DetectOutputMode(false, false, plain) {
	case tui.OutputModeInteractive, tui.OutputModeStyled:
		return renderStyledOutput(w, snap, tui.TerminalWidth())
	case tui.OutputModePlain:
		return renderPlainOutput(w, snap)
	default:
		return renderPlainOutput(w, snap)
	}
}

func buildSearchResult(snap session.Snapshot) searchResult {
	out := searchResult{State: snap.State.String()}
	if snap.Query != nil {
		out.Query = &queryJSON{Name: snap.Query.Name, DateOfBirth: snap.Query.DateOfBirth}
	}

	switch snap.State {
	case session.StateFailed:
		e := &errorJSON{Kind: screening.KindOf(snap.Err), Message: snap.Message}
		var ue *screening.UpstreamError
		if errors.As(snap.Err, &ue) {
			e.StatusCode = ue.StatusCode
		}
		out.Error = e
	case session.StateEmpty:
		s := profile.BuildSummary(snap.Response)
		out.Summary = &s
	case session.StatePopulated:
		if p, ok := profile.Build(snap.Response); ok {
			out.Summary = &p.Summary
			out.Profile = &p
		}
	case session.StateIdle, session.StateLoading:
	}
	return out
}

func renderJSON(w io.Writer, snap session.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(buildSearchResult(snap)); err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	return nil
}

func renderStyledOutput(w io.Writer, snap session.Snapshot, width int) error {
	var out string
	switch snap.State {
	case session.StatePopulated:
		p, _ := profile.Build(snap.Response)
		out = tui.RenderProfile(p, width)
	case session.StateEmpty:
		out = tui.RenderEmpty(snap.Response, width)
	case session.StateFailed:
		// Reported through the returned error.
		return nil
	case session.StateIdle, session.StateLoading:
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}

// renderPlainOutput renders the profile as aligned, uncoloured text.
func renderPlainOutput(w io.Writer, snap session.Snapshot) error {
	switch snap.State {
	case session.StatePopulated:
		p, _ := profile.Build(snap.Response)
		return writePlainProfile(w, p)
	case session.StateEmpty:
		s := profile.BuildSummary(snap.Response)
		writePlainSummary(w, s)
		fmt.Fprintln(w)
		fmt.Fprintln(w, profile.EmptyTitle)
		fmt.Fprintln(w, profile.EmptyHeading)
		fmt.Fprintln(w, profile.EmptyDetail)
		return nil
	case session.StateFailed, session.StateIdle, session.StateLoading:
	}
	return nil
}

func writePlainSummary(w io.Writer, s profile.Summary) {
	fmt.Fprintf(w, "Total Results: %s    Status: %s\n", s.TotalResults, s.Status)
	fmt.Fprintf(w, "Query: %s\n", s.Query)
}

func writePlainProfile(w io.Writer, p profile.Profile) error {
	writePlainSummary(w, p.Summary)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s\n%s  score %s  %s\n", p.Header.Caption, p.Header.Tier, p.Header.Score, p.Header.ID)

	writeSection(w, profile.SectionBasic)
	if err := writeFields(w, p.Basic); err != nil {
		return err
	}
	if p.HasPositions() {
		writeSection(w, profile.SectionPositions)
		writeBullets(w, p.Positions)
	}
	if p.HasEducation() {
		writeSection(w, profile.SectionEducation)
		writeBullets(w, p.Education)
	}

	writeSection(w, profile.SectionSanctions)
	fmt.Fprintln(w, p.Sanctions.Banner)
	fmt.Fprintln(w, p.Sanctions.Summary)
	if len(p.Sanctions.Datasets) > 0 {
		fmt.Fprintln(w, "  "+strings.Join(p.Sanctions.Datasets, ", "))
	}

	if p.HasNotes() {
		writeSection(w, profile.SectionNotes)
		for _, n := range p.Notes {
			fmt.Fprintf(w, "  [%s] %s\n", n.Title, n.Content)
		}
	}
	if p.HasNames() {
		writeSection(w, profile.SectionNames)
		for _, t := range p.Names {
			fmt.Fprintf(w, "  - %s (%s)\n", t.Text, t.Kind)
		}
	}
	if p.HasAddresses() {
		writeSection(w, profile.SectionAddresses)
		writeBullets(w, p.Addresses)
	}

	writeSection(w, profile.SectionRecord)
	return writeFields(w, p.Record)
}

func writeSection(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", strings.ToUpper(title), strings.Repeat("=", len(title)))
}

func writeBullets(w io.Writer, items []string) {
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func writeFields(w io.Writer, fields []profile.Field) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range fields {
		fmt.Fprintf(tw, "  %s:\t%s\n", f.Label, f.Value)
	}
	return tw.Flush()
}
