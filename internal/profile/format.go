package profile

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Placeholder is shown for any missing value.
const Placeholder = "N/A"

// DisplayDateLayout renders dates as "March 12, 1975".
const DisplayDateLayout = "January 2, 2006"

// printer groups thousands in counts shown to the operator.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// parseDateLayouts are tried in order by FormatDate.
//
//nolint:gochecknoglobals // Read-only lookup table.
var parseDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// First returns the first value or Placeholder.
func First(values []string) string {
	return FirstOr(values, Placeholder)
}

// FirstOr returns the first value or def.
func FirstOr(values []string, def string) string {
	if len(values) == 0 {
		return def
	}
	return values[0]
}

// Join returns all values separated by ", ", or Placeholder when that
// comes out empty.
func Join(values []string) string {
	if joined := strings.Join(values, ", "); joined != "" {
		return joined
	}
	return Placeholder
}

// FormatDate renders an ISO date or datetime in long form. The calendar
// date is taken as written, without converting time zones. Input that does
// not parse is returned unchanged.
func FormatDate(s string) string {
	trimmed := strings.TrimSpace(s)
	for _, layout := range parseDateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(DisplayDateLayout)
		}
	}
	return s
}

// FormatCount renders n with thousands separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}
