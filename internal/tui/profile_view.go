package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/amlscreen/internal/profile"
	"github.com/rshade/amlscreen/internal/screening"
)

// severityStyle maps a tier badge severity to its style.
func severityStyle(s profile.Severity) lipgloss.Style {
	switch s {
	case profile.SeverityOK:
		return OKStyle
	case profile.SeverityWarning:
		return WarningStyle
	case profile.SeverityCritical:
		return CriticalStyle
	default:
		return CriticalStyle
	}
}

// RenderTierBadge renders the match tier in its severity colour.
func RenderTierBadge(h profile.Header) string {
	return severityStyle(h.Severity).Render(string(h.Tier))
}

// RenderProfile renders the full profile view at the given width.
func RenderProfile(p profile.Profile, width int) string {
	if width <= borderPadding {
		width = defaultWidth
	}
	inner := width - borderPadding

	sections := []string{
		renderSummary(p.Summary),
		renderHeader(p.Header),
		renderFields(profile.SectionBasic, p.Basic),
	}
	if p.HasPositions() {
		sections = append(sections, renderList(profile.SectionPositions, p.Positions))
	}
	if p.HasEducation() {
		sections = append(sections, renderList(profile.SectionEducation, p.Education))
	}
	sections = append(sections, renderSanctions(p.Sanctions))
	if p.HasNotes() {
		sections = append(sections, renderNotes(p.Notes, inner))
	}
	if p.HasNames() {
		sections = append(sections, renderNames(p.Names, inner))
	}
	if p.HasAddresses() {
		sections = append(sections, renderList(profile.SectionAddresses, p.Addresses))
	}
	sections = append(sections, renderFields(profile.SectionRecord, p.Record))

	return BoxStyle.Width(inner).Render(strings.Join(sections, "\n\n"))
}

func renderSummary(s profile.Summary) string {
	var sb strings.Builder
	sb.WriteString(LabelStyle.Render("Total Results: "))
	sb.WriteString(ValueStyle.Render(s.TotalResults))
	sb.WriteString(LabelStyle.Render("    Status: "))
	sb.WriteString(ValueStyle.Render(s.Status))
	sb.WriteString("\n")
	sb.WriteString(LabelStyle.Render("Query: "))
	sb.WriteString(ValueStyle.Render(s.Query))
	return sb.String()
}

func renderHeader(h profile.Header) string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render(h.Caption))
	sb.WriteString("\n")
	sb.WriteString(RenderTierBadge(h))
	sb.WriteString(SubtleStyle.Render(fmt.Sprintf("  score %s  %s", h.Score, h.ID)))
	return sb.String()
}

func renderFields(title string, fields []profile.Field) string {
	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render(strings.ToUpper(title)))
	for _, f := range fields {
		sb.WriteString("\n")
		sb.WriteString(LabelStyle.Width(labelWidth).Render(f.Label + ":"))
		sb.WriteString(ValueStyle.Render(f.Value))
	}
	return sb.String()
}

func renderList(title string, items []string) string {
	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render(strings.ToUpper(title)))
	for _, item := range items {
		sb.WriteString("\n ")
		sb.WriteString(IconBullet)
		sb.WriteString(" ")
		sb.WriteString(item)
	}
	return sb.String()
}

func renderSanctions(s profile.Sanctions) string {
	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render(strings.ToUpper(profile.SectionSanctions)))
	sb.WriteString("\n")
	sb.WriteString(CriticalStyle.Render(IconWarning + " " + s.Banner))
	sb.WriteString("\n")
	sb.WriteString(LabelStyle.Render(s.Summary))
	if len(s.Datasets) > 0 {
		tags := make([]string, len(s.Datasets))
		for i, d := range s.Datasets {
			tags[i] = WarningStyle.Render("[" + d + "]")
		}
		sb.WriteString("\n")
		sb.WriteString(strings.Join(tags, " "))
	}
	return sb.String()
}

func renderNotes(notes []profile.Note, width int) string {
	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render(strings.ToUpper(profile.SectionNotes)))
	body := lipgloss.NewStyle().Width(width - 2).PaddingLeft(2)
	for _, n := range notes {
		sb.WriteString("\n")
		sb.WriteString(ValueStyle.Render(string(n.Title)))
		sb.WriteString("\n")
		sb.WriteString(body.Render(n.Content))
	}
	return sb.String()
}

func renderNames(tags []profile.Tag, width int) string {
	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render(strings.ToUpper(profile.SectionNames)))
	sb.WriteString("\n")

	rendered := make([]string, len(tags))
	for i, t := range tags {
		if t.Kind == profile.TagAlias {
			rendered[i] = AliasStyle.Render(t.Text)
		} else {
			rendered[i] = ValueStyle.Render(t.Text)
		}
	}
	sb.WriteString(lipgloss.NewStyle().Width(width).Render(strings.Join(rendered, SubtleStyle.Render(" | "))))
	return sb.String()
}

// RenderEmpty renders the successful no-match view.
func RenderEmpty(resp *screening.SearchResponse, width int) string {
	if width <= borderPadding {
		width = defaultWidth
	}
	s := profile.BuildSummary(resp)

	var sb strings.Builder
	sb.WriteString(renderSummary(s))
	sb.WriteString("\n\n")
	sb.WriteString(OKStyle.Render(IconCheck + " " + profile.EmptyTitle))
	sb.WriteString("\n")
	sb.WriteString(ValueStyle.Render(profile.EmptyHeading))
	sb.WriteString("\n")
	sb.WriteString(LabelStyle.Render(profile.EmptyDetail))
	return BoxStyle.Width(width - borderPadding).Render(sb.String())
}

// RenderFailure renders a humanized error with the available actions.
func RenderFailure(message string, canRetry bool, width int) string {
	if width <= borderPadding {
		width = defaultWidth
	}
	var sb strings.Builder
	sb.WriteString(CriticalStyle.Render(IconCross + " Search failed"))
	sb.WriteString("\n")
	sb.WriteString(message)
	sb.WriteString("\n\n")
	if canRetry {
		sb.WriteString(HelpStyle.Render("r: try again • n: new search • q: quit"))
	} else {
		sb.WriteString(HelpStyle.Render("n: new search • q: quit"))
	}
	return ErrorBoxStyle.Width(width - borderPadding).Render(sb.String())
}

// RenderLoadingIndicator renders the in-flight message beside a spinner frame.
func RenderLoadingIndicator(spinnerFrame, name string) string {
	loadingStyle := lipgloss.NewStyle().
		Foreground(ColorSpinner).
		Bold(true)
	return fmt.Sprintf("\n %s %s\n", spinnerFrame,
		loadingStyle.Render(fmt.Sprintf("Screening %q...", name)))
}
