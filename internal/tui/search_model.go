package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/amlscreen/internal/logging"
	"github.com/rshade/amlscreen/internal/profile"
	"github.com/rshade/amlscreen/internal/screening"
	"github.com/rshade/amlscreen/internal/session"
)

// Form fields.
const (
	fieldName = iota
	fieldDOB
	fieldCount
)

const (
	inputCharLimit = 128
	inputWidth     = 40
	chromeHeight   = 4 // title + help lines around the viewport
)

// searchResultMsg carries a finished lookup back to the model.
type searchResultMsg struct {
	ticket session.Ticket
	resp   *screening.SearchResponse
	err    error
}

// SearchModel is the Bubble Tea model for interactive screening.
type SearchModel struct {
	ctx      context.Context
	screener session.Screener
	machine  *session.Machine

	inputs []textinput.Model
	focus  int

	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap

	width    int
	height   int
	quitting bool
}

// NewSearchModel returns a model in the idle state with an empty form.
func NewSearchModel(ctx context.Context, screener session.Screener, opts ...session.Option) *SearchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorSpinner)

	m := &SearchModel{
		ctx:      ctx,
		screener: screener,
		machine:  session.New(opts...),
		inputs:   newFormInputs(),
		spinner:  sp,
		viewport: viewport.New(defaultWidth, defaultHeight-chromeHeight),
		help:     help.New(),
		keys:     newKeyMap(),
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.inputs[fieldName].Focus()
	return m
}

func newFormInputs() []textinput.Model {
	inputs := make([]textinput.Model, fieldCount)

	name := textinput.New()
	name.Prompt = ""
	name.Placeholder = "Full name"
	name.CharLimit = inputCharLimit
	name.Width = inputWidth
	inputs[fieldName] = name

	dob := textinput.New()
	dob.Prompt = ""
	dob.Placeholder = "YYYY-MM-DD (optional)"
	dob.CharLimit = len(screening.DateLayout)
	dob.Width = inputWidth
	inputs[fieldDOB] = dob

	return inputs
}

// Prefill sets the form values without submitting.
func (m *SearchModel) Prefill(name, dateOfBirth string) {
	m.inputs[fieldName].SetValue(name)
	m.inputs[fieldDOB].SetValue(dateOfBirth)
}

// Snapshot exposes the current session state.
func (m *SearchModel) Snapshot() session.Snapshot {
	return m.machine.Snapshot()
}

// Init initializes the model.
func (m *SearchModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model state.
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)
		m.refreshViewport()
		return m, nil

	case searchResultMsg:
		return m.handleResult(msg)

	case spinner.TickMsg:
		if m.machine.State() != session.StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	if m.machine.State() == session.StateIdle {
		return m, m.updateInputs(msg)
	}
	return m, nil
}

func (m *SearchModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Abort) {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.machine.State() {
	case session.StateIdle:
		return m.handleFormKey(msg)

	case session.StateLoading:
		switch {
		case key.Matches(msg, m.keys.Reset):
			return m, m.reset()
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		}

	case session.StateFailed:
		switch {
		case key.Matches(msg, m.keys.Retry):
			return m, m.retry()
		case key.Matches(msg, m.keys.Reset):
			return m, m.reset()
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		}

	case session.StateEmpty, session.StatePopulated:
		switch {
		case key.Matches(msg, m.keys.Reset):
			return m, m.reset()
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Scroll):
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m *SearchModel) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m, m.submit()
	case key.Matches(msg, m.keys.Next):
		return m, m.setFocus((m.focus + 1) % fieldCount)
	case key.Matches(msg, m.keys.Prev):
		return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case key.Matches(msg, m.keys.Clear):
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
		return m, m.setFocus(fieldName)
	}
	return m, m.updateInputs(msg)
}

func (m *SearchModel) setFocus(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

func (m *SearchModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}

func (m *SearchModel) submit() tea.Cmd {
	ticket, err := m.machine.Submit(m.inputs[fieldName].Value(), m.inputs[fieldDOB].Value())
	if err != nil {
		var verr *screening.ValidationError
		if errors.As(err, &verr) && verr.Field == screening.FieldDateOfBirth {
			return m.setFocus(fieldDOB)
		}
		return m.setFocus(fieldName)
	}
	return m.start(ticket)
}

func (m *SearchModel) retry() tea.Cmd {
	ticket, err := m.machine.Retry()
	if err != nil {
		return nil
	}
	return m.start(ticket)
}

func (m *SearchModel) start(ticket session.Ticket) tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	logging.FromContext(m.ctx).Debug().
		Str("component", "tui").
		Uint64("generation", ticket.Generation).
		Msg("screening lookup started")
	return tea.Batch(m.spinner.Tick, m.lookup(ticket))
}

// lookup runs the screener for ticket off the update loop.
func (m *SearchModel) lookup(ticket session.Ticket) tea.Cmd {
	// Capture references before the command runs to avoid sharing model fields.
	ctx := m.ctx
	screener := m.screener

	return func() tea.Msg {
		resp, err := screener.Search(ctx, ticket.Query)
		return searchResultMsg{ticket: ticket, resp: resp, err: err}
	}
}

func (m *SearchModel) reset() tea.Cmd {
	m.machine.Reset()
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.viewport.SetContent("")
	m.viewport.GotoTop()
	return tea.Batch(m.setFocus(fieldName), textinput.Blink)
}

func (m *SearchModel) handleResult(msg searchResultMsg) (tea.Model, tea.Cmd) {
	if err := m.machine.Complete(msg.ticket, msg.resp, msg.err); err != nil {
		logging.FromContext(m.ctx).Debug().
			Str("component", "tui").
			Uint64("generation", msg.ticket.Generation).
			Msg("discarding stale screening response")
		return m, nil
	}
	m.viewport.GotoTop()
	m.refreshViewport()
	return m, nil
}

func (m *SearchModel) refreshViewport() {
	snap := m.machine.Snapshot()
	switch snap.State {
	case session.StatePopulated:
		if p, ok := profile.Build(snap.Response); ok {
			m.viewport.SetContent(RenderProfile(p, m.width))
		}
	case session.StateEmpty:
		m.viewport.SetContent(RenderEmpty(snap.Response, m.width))
	case session.StateIdle, session.StateLoading, session.StateFailed:
	}
}

// View renders the current view.
func (m *SearchModel) View() string {
	if m.quitting {
		return ""
	}

	snap := m.machine.Snapshot()

	var sb strings.Builder
	sb.WriteString(TitleStyle.Render("AML Screening"))
	sb.WriteString("\n")

	switch snap.State {
	case session.StateIdle:
		sb.WriteString(m.renderForm(snap))
	case session.StateLoading:
		name := ""
		if snap.Query != nil {
			name = snap.Query.Name
		}
		sb.WriteString(RenderLoadingIndicator(m.spinner.View(), name))
	case session.StateFailed:
		sb.WriteString(RenderFailure(snap.Message, snap.CanRetry(), m.width))
	case session.StateEmpty, session.StatePopulated:
		sb.WriteString(m.viewport.View())
	}

	sb.WriteString("\n")
	sb.WriteString(m.help.ShortHelpView(m.bindings(snap.State)))
	return sb.String()
}

func (m *SearchModel) renderForm(snap session.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(LabelStyle.Width(labelWidth).Render("Name:"))
	sb.WriteString(m.inputs[fieldName].View())
	sb.WriteString("\n")
	sb.WriteString(LabelStyle.Width(labelWidth).Render("Date of Birth:"))
	sb.WriteString(m.inputs[fieldDOB].View())
	sb.WriteString("\n")
	if snap.ValidationMessage != "" {
		sb.WriteString("\n")
		sb.WriteString(CriticalStyle.Render(snap.ValidationMessage))
		sb.WriteString("\n")
	}
	return sb.String()
}

// bindings returns the live key bindings for state, in help order.
func (m *SearchModel) bindings(state session.State) []key.Binding {
	switch state {
	case session.StateIdle:
		return []key.Binding{m.keys.Submit, m.keys.Next, m.keys.Clear, m.keys.Abort}
	case session.StateLoading:
		return []key.Binding{m.keys.Reset, m.keys.Quit}
	case session.StateFailed:
		return []key.Binding{m.keys.Retry, m.keys.Reset, m.keys.Quit}
	case session.StateEmpty, session.StatePopulated:
		return []key.Binding{m.keys.Scroll, m.keys.Reset, m.keys.Quit}
	default:
		return []key.Binding{m.keys.Abort}
	}
}
