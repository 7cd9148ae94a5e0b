package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/amlscreen/internal/screening"
	"github.com/rshade/amlscreen/internal/session"
)

// fakeScreener returns canned results and records the queries it saw.
type fakeScreener struct {
	mu      sync.Mutex
	resp    *screening.SearchResponse
	err     error
	queries []screening.Query
}

func (f *fakeScreener) Search(_ context.Context, q screening.Query) (*screening.SearchResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	return f.resp, f.err
}

func populatedResponse() *screening.SearchResponse {
	return &screening.SearchResponse{
		Query:  screening.QueryEcho{Properties: screening.Properties{screening.PropName: {"Jane Roe"}}},
		Total:  screening.Total{Value: 1, Relation: "eq"},
		Status: 200,
		Results: []screening.MatchRecord{{
			ID:       "NK-1",
			Score:    0.85,
			Caption:  "Jane Roe",
			Datasets: []string{"us_ofac_sdn"},
			Properties: screening.Properties{
				screening.PropName:  {"Jane Roe"},
				screening.PropAlias: {"J. Roe"},
			},
		}},
	}
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // Test clock.

func newTestModel(s session.Screener) *SearchModel {
	return NewSearchModel(context.Background(), s, session.WithClock(func() time.Time { return fixedNow }))
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// currentTicket rebuilds the in-flight ticket from the session snapshot.
func currentTicket(t *testing.T, m *SearchModel) session.Ticket {
	t.Helper()
	snap := m.Snapshot()
	require.Equal(t, session.StateLoading, snap.State)
	require.NotNil(t, snap.Query)
	return session.Ticket{Generation: snap.Generation, Query: *snap.Query}
}

// runLookup executes the lookup command for the in-flight ticket and feeds
// the result back into the model.
func runLookup(t *testing.T, m *SearchModel) {
	t.Helper()
	msg := m.lookup(currentTicket(t, m))()
	m.Update(msg)
}

func TestNewSearchModel(t *testing.T) {
	m := newTestModel(&fakeScreener{})

	require.NotNil(t, m)
	assert.Equal(t, session.StateIdle, m.Snapshot().State)
	assert.Equal(t, fieldName, m.focus)
	assert.True(t, m.inputs[fieldName].Focused())
	assert.NotNil(t, m.Init())
}

func TestSearchModel_Validation(t *testing.T) {
	t.Run("empty name stays idle", func(t *testing.T) {
		fs := &fakeScreener{}
		m := newTestModel(fs)

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		snap := m.Snapshot()
		assert.Equal(t, session.StateIdle, snap.State)
		assert.Equal(t, "Name is required.", snap.ValidationMessage)
		assert.Contains(t, m.View(), "Name is required.")
		assert.Empty(t, fs.queries)
		_ = cmd
	})

	t.Run("future date focuses date field", func(t *testing.T) {
		m := newTestModel(&fakeScreener{})
		m.inputs[fieldName].SetValue("Jane Roe")
		m.inputs[fieldDOB].SetValue("2030-01-01")

		m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		assert.Equal(t, session.StateIdle, m.Snapshot().State)
		assert.Equal(t, fieldDOB, m.focus)
		assert.Contains(t, m.Snapshot().ValidationMessage, "future")
	})
}

func TestSearchModel_FocusCycling(t *testing.T) {
	m := newTestModel(&fakeScreener{})

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, fieldDOB, m.focus)
	assert.True(t, m.inputs[fieldDOB].Focused())
	assert.False(t, m.inputs[fieldName].Focused())

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, fieldName, m.focus)

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, fieldDOB, m.focus)
}

func TestSearchModel_TypingIntoForm(t *testing.T) {
	m := newTestModel(&fakeScreener{})

	m.Update(keyRunes("q"))
	m.Update(keyRunes("r"))

	assert.Equal(t, "qr", m.inputs[fieldName].Value())
	assert.False(t, m.quitting, "q inside the form is text, not quit")
}

func TestSearchModel_Populated(t *testing.T) {
	fs := &fakeScreener{resp: populatedResponse()}
	m := newTestModel(fs)
	m.inputs[fieldName].SetValue("  Jane Roe ")
	m.inputs[fieldDOB].SetValue("1980/02/03")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, session.StateLoading, m.Snapshot().State)
	assert.Contains(t, m.View(), "Jane Roe")

	runLookup(t, m)

	require.Len(t, fs.queries, 1)
	assert.Equal(t, screening.Query{Name: "Jane Roe", DateOfBirth: "1980-02-03"}, fs.queries[0])

	snap := m.Snapshot()
	assert.Equal(t, session.StatePopulated, snap.State)
	require.NotNil(t, snap.Record)
	assert.Equal(t, "NK-1", snap.Record.ID)

	view := m.View()
	assert.Contains(t, view, "High Match")
	assert.Contains(t, view, "BASIC INFORMATION")
}

func TestSearchModel_Empty(t *testing.T) {
	fs := &fakeScreener{resp: &screening.SearchResponse{Status: 200}}
	m := newTestModel(fs)
	m.inputs[fieldName].SetValue("Nobody")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runLookup(t, m)

	assert.Equal(t, session.StateEmpty, m.Snapshot().State)
	assert.Contains(t, m.View(), "No Records Found")
}

func TestSearchModel_FailureRetryReset(t *testing.T) {
	fs := &fakeScreener{err: screening.NewStatusError(401)}
	m := newTestModel(fs)
	m.inputs[fieldName].SetValue("Jane Roe")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	runLookup(t, m)

	snap := m.Snapshot()
	require.Equal(t, session.StateFailed, snap.State)
	assert.Equal(t, screening.MessageAuthentication, snap.Message)
	assert.Contains(t, m.View(), "try again")

	// Retry reuses the stored query.
	fs.err = nil
	fs.resp = populatedResponse()
	_, cmd := m.Update(keyRunes("r"))
	require.NotNil(t, cmd)
	runLookup(t, m)
	assert.Equal(t, session.StatePopulated, m.Snapshot().State)
	require.Len(t, fs.queries, 2)
	assert.Equal(t, fs.queries[0], fs.queries[1])

	// New search clears everything.
	m.Update(keyRunes("n"))
	snap = m.Snapshot()
	assert.Equal(t, session.StateIdle, snap.State)
	assert.Nil(t, snap.Query)
	assert.Nil(t, snap.Response)
	assert.Empty(t, m.inputs[fieldName].Value())
}

func TestSearchModel_StaleResponseDiscarded(t *testing.T) {
	fs := &fakeScreener{resp: populatedResponse()}
	m := newTestModel(fs)
	m.inputs[fieldName].SetValue("Jane Roe")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	stale := currentTicket(t, m)

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, session.StateIdle, m.Snapshot().State)

	m.Update(m.lookup(stale)())
	assert.Equal(t, session.StateIdle, m.Snapshot().State)
	assert.Nil(t, m.Snapshot().Response)
}

func TestSearchModel_EnterWhileLoadingIgnored(t *testing.T) {
	fs := &fakeScreener{resp: populatedResponse()}
	m := newTestModel(fs)
	m.inputs[fieldName].SetValue("Jane Roe")

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	gen := m.Snapshot().Generation

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Equal(t, gen, m.Snapshot().Generation)
}

func TestSearchModel_Quit(t *testing.T) {
	t.Run("ctrl+c from the form", func(t *testing.T) {
		m := newTestModel(&fakeScreener{})
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		assert.True(t, m.quitting)
		assert.Empty(t, m.View())
	})

	t.Run("q from a result", func(t *testing.T) {
		m := newTestModel(&fakeScreener{resp: &screening.SearchResponse{Status: 200}})
		m.inputs[fieldName].SetValue("x")
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		runLookup(t, m)

		_, cmd := m.Update(keyRunes("q"))
		require.NotNil(t, cmd)
		assert.True(t, m.quitting)
	})
}

func TestSearchModel_WindowResize(t *testing.T) {
	m := newTestModel(&fakeScreener{})

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
	assert.Equal(t, 120, m.viewport.Width)
	assert.Equal(t, 40-chromeHeight, m.viewport.Height)
}

func TestSearchModel_Bindings(t *testing.T) {
	m := newTestModel(&fakeScreener{})

	assert.Len(t, m.bindings(session.StateIdle), 4)
	assert.Len(t, m.bindings(session.StateFailed), 3)
	assert.Contains(t, m.bindings(session.StateFailed), m.keys.Retry)
	assert.NotContains(t, m.bindings(session.StatePopulated), m.keys.Retry)
}
