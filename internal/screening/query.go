package screening

import (
	"strings"
	"time"
)

// DateLayout is the canonical date-of-birth format sent upstream.
const DateLayout = "2006-01-02"

// acceptedDateLayouts are tried in order when parsing operator input.
//
//nolint:gochecknoglobals // Read-only lookup table.
var acceptedDateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"2006.01.02",
}

// Form field names reported by ValidationError.
const (
	FieldName        = "name"
	FieldDateOfBirth = "dateOfBirth"
)

// Query is a validated identity lookup. Build it with NewQuery.
type Query struct {
	Name        string
	DateOfBirth string // canonical YYYY-MM-DD, empty when unknown
}

// NewQuery validates raw form input. The name is trimmed and required.
// The date of birth is optional; when present it must be a real calendar
// date that is not after now.
func NewQuery(name, dateOfBirth string, now time.Time) (Query, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Query{}, &ValidationError{Field: FieldName, Message: "Name is required."}
	}

	dob, err := canonicalDate(strings.TrimSpace(dateOfBirth), now)
	if err != nil {
		return Query{}, err
	}

	return Query{Name: name, DateOfBirth: dob}, nil
}

// canonicalDate parses s at day granularity. time.Parse rejects days that
// do not exist in the month, so 2021-04-31 and 2023-02-29 fail here.
func canonicalDate(s string, now time.Time) (string, error) {
	if s == "" {
		return "", nil
	}

	for _, layout := range acceptedDateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}

		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if t.After(today) {
			return "", &ValidationError{
				Field:   FieldDateOfBirth,
				Message: "Date of birth cannot be in the future.",
			}
		}
		return t.Format(DateLayout), nil
	}

	return "", &ValidationError{
		Field:   FieldDateOfBirth,
		Message: "Date of birth must be a valid date (YYYY-MM-DD).",
	}
}
