// Package session implements the request lifecycle of a screening view.
//
// A Machine moves through Idle → Loading → Failed | EmptyResult | Populated
// and back to Idle on reset. Every transition that issues or abandons a
// request bumps a generation counter; responses carry the generation of the
// request that produced them through a Ticket, so a response that arrives
// after a reset or retry is discarded instead of overwriting newer state.
//
// A Machine is owned by exactly one view and is not safe for concurrent use.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/rshade/amlscreen/internal/logging"
	"github.com/rshade/amlscreen/internal/screening"
)

// State is the lifecycle state of a view.
type State int

const (
	// StateIdle shows the input form.
	StateIdle State = iota
	// StateLoading means one request is in flight.
	StateLoading
	// StateFailed shows a humanized error with retry and reset.
	StateFailed
	// StateEmpty means the lookup succeeded with no match records.
	StateEmpty
	// StatePopulated shows the first match record.
	StatePopulated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateFailed:
		return "failed"
	case StateEmpty:
		return "empty"
	case StatePopulated:
		return "populated"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the state ends a request cycle.
func (s State) IsTerminal() bool {
	return s == StateFailed || s == StateEmpty || s == StatePopulated
}

// Transition errors.
var (
	ErrBusy              = errors.New("a search is already in progress")
	ErrInvalidTransition = errors.New("transition not allowed from current state")
	ErrStaleResponse     = errors.New("response belongs to an abandoned request")
)

// Screener performs a remote lookup. *screening.Client implements it.
type Screener interface {
	Search(ctx context.Context, q screening.Query) (*screening.SearchResponse, error)
}

// Ticket identifies one issued request.
type Ticket struct {
	Generation uint64
	Query      screening.Query
}

// Snapshot is the view state at one point in time. Its scalar fields and
// Query are copies; Response and Record share the machine's decoded result
// and are read-only. The machine never mutates a result after storing it,
// so a snapshot stays valid across later transitions.
type Snapshot struct {
	State             State
	Query             *screening.Query
	Response          *screening.SearchResponse
	Record            *screening.MatchRecord
	Message           string // humanized failure, set in StateFailed
	Err               error  // raw failure, set in StateFailed
	ValidationMessage string // inline form error, set in StateIdle
	Generation        uint64
}

// CanRetry reports whether a retry transition is available.
func (s Snapshot) CanRetry() bool {
	return s.State == StateFailed && s.Query != nil
}

// Machine is the state of one screening view.
type Machine struct {
	state      State
	query      *screening.Query
	response   *screening.SearchResponse
	err        error
	message    string
	validation string
	generation uint64
	now        func() time.Time
}

// Option customizes a Machine.
type Option func(*Machine)

// WithClock sets the clock used to reject future dates of birth.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		if now != nil {
			m.now = now
		}
	}
}

// New returns a Machine in StateIdle.
func New(opts ...Option) *Machine {
	m := &Machine{state: StateIdle, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Snapshot returns the current view state; see Snapshot for what is shared.
func (m *Machine) Snapshot() Snapshot {
	s := Snapshot{
		State:             m.state,
		Response:          m.response,
		Message:           m.message,
		Err:               m.err,
		ValidationMessage: m.validation,
		Generation:        m.generation,
	}
	if m.query != nil {
		q := *m.query
		s.Query = &q
	}
	if m.state == StatePopulated {
		s.Record = m.response.First()
	}
	return s
}

// Submit validates the form input and moves Idle → Loading. A validation
// failure keeps the machine in Idle with an inline message and is returned
// as *screening.ValidationError; nothing is sent upstream.
func (m *Machine) Submit(name, dateOfBirth string) (Ticket, error) {
	switch m.state {
	case StateIdle:
	case StateLoading:
		return Ticket{}, ErrBusy
	case StateFailed, StateEmpty, StatePopulated:
		return Ticket{}, ErrInvalidTransition
	}

	q, err := screening.NewQuery(name, dateOfBirth, m.now())
	if err != nil {
		m.validation = screening.Humanize(err)
		return Ticket{}, err
	}

	m.validation = ""
	m.query = &q
	return m.begin(), nil
}

// Retry moves Failed → Loading reusing the last query.
func (m *Machine) Retry() (Ticket, error) {
	if m.state != StateFailed || m.query == nil {
		return Ticket{}, ErrInvalidTransition
	}
	return m.begin(), nil
}

func (m *Machine) begin() Ticket {
	m.generation++
	m.state = StateLoading
	m.response = nil
	m.err = nil
	m.message = ""
	return Ticket{Generation: m.generation, Query: *m.query}
}

// Reset returns to Idle from any state and clears query, response and
// error. An in-flight request is abandoned: its response will be stale.
func (m *Machine) Reset() {
	m.generation++
	m.state = StateIdle
	m.query = nil
	m.response = nil
	m.err = nil
	m.message = ""
	m.validation = ""
}

// Resolve applies a successful response for t.
func (m *Machine) Resolve(t Ticket, resp *screening.SearchResponse) error {
	if !m.current(t) {
		return ErrStaleResponse
	}

	m.response = resp
	if resp.IsEmpty() {
		m.state = StateEmpty
	} else {
		m.state = StatePopulated
	}
	return nil
}

// Fail applies a failed lookup for t.
func (m *Machine) Fail(t Ticket, err error) error {
	if !m.current(t) {
		return ErrStaleResponse
	}

	m.state = StateFailed
	m.err = err
	m.message = screening.Humanize(err)
	return nil
}

// Complete applies the outcome of a lookup for t, dispatching on err.
func (m *Machine) Complete(t Ticket, resp *screening.SearchResponse, err error) error {
	if err != nil {
		return m.Fail(t, err)
	}
	return m.Resolve(t, resp)
}

func (m *Machine) current(t Ticket) bool {
	return m.state == StateLoading && t.Generation == m.generation
}

// Run performs the lookup for t and applies its outcome. It blocks until
// the screener returns; there is no retry and no timeout of its own.
func (m *Machine) Run(ctx context.Context, s Screener, t Ticket) error {
	resp, err := s.Search(ctx, t.Query)
	applyErr := m.Complete(t, resp, err)
	if applyErr != nil {
		logging.FromContext(ctx).Debug().
			Str("component", "session").
			Uint64("generation", t.Generation).
			Msg("discarding stale screening response")
	}
	return applyErr
}
