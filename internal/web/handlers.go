package web

import (
	"bytes"
	"net/http"

	"github.com/rshade/amlscreen/internal/logging"
	"github.com/rshade/amlscreen/internal/profile"
	"github.com/rshade/amlscreen/internal/session"
)

// Form field names.
const (
	formName = "name"
	formDOB  = "dob"
)

// maxFormBytes bounds the size of a submitted form.
const maxFormBytes = 64 << 10

// page is the data rendered by the page template.
type page struct {
	State      string
	Name       string
	DOB        string
	Validation string
	Message    string
	CanRetry   bool
	Summary    profile.Summary
	Profile    *profile.Profile
	Version    string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, page{State: session.StateIdle.String()})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// handleSearch serves both /search and /retry: in this stateless server a
// retry is a resubmission of the failed query's fields.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form submission", http.StatusBadRequest)
		return
	}
	name := r.PostForm.Get(formName)
	dob := r.PostForm.Get(formDOB)

	m := session.New(session.WithClock(s.now))
	ticket, err := m.Submit(name, dob)
	if err != nil {
		snap := m.Snapshot()
		s.render(w, r, http.StatusUnprocessableEntity, page{
			State:      snap.State.String(),
			Name:       name,
			DOB:        dob,
			Validation: snap.ValidationMessage,
		})
		return
	}

	ctx := r.Context()
	if runErr := m.Run(ctx, s.screener, ticket); runErr != nil {
		// A fresh machine has no competing request, so this is unexpected.
		logging.FromContext(ctx).Error().Err(runErr).Msg("applying screening result")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	snap := m.Snapshot()
	s.render(w, r, statusFor(snap), pageFor(snap))
}

// statusFor maps the finished lookup to an HTTP status.
func statusFor(snap session.Snapshot) int {
	if snap.State == session.StateFailed {
		return http.StatusBadGateway
	}
	return http.StatusOK
}

// pageFor builds the page model for a finished lookup.
func pageFor(snap session.Snapshot) page {
	p := page{State: snap.State.String()}
	if snap.Query != nil {
		p.Name = snap.Query.Name
		p.DOB = snap.Query.DateOfBirth
	}

	switch snap.State {
	case session.StateFailed:
		p.Message = snap.Message
		p.CanRetry = snap.CanRetry()
	case session.StateEmpty:
		p.Summary = profile.BuildSummary(snap.Response)
	case session.StatePopulated:
		if prof, ok := profile.Build(snap.Response); ok {
			p.Profile = &prof
			p.Summary = prof.Summary
		}
	case session.StateIdle, session.StateLoading:
	}
	return p
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, p page) {
	p.Version = s.version

	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "page.html", p); err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Msg("rendering page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

//nolint:gochecknoglobals // Read-only template helpers.
var funcMap = map[string]any{
	"severityClass": func(sev profile.Severity) string {
		return "badge-" + string(sev)
	},
	"isAlias": func(t profile.Tag) bool {
		return t.Kind == profile.TagAlias
	},
}
