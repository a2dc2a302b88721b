package chrono

import (
	"strings"
	"time"
)

// Instant layouts tried in order. Layouts carrying an offset or zone
// abbreviation are absolute; the rest are read in the default location.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	time.UnixDate,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Monday, January 2, 2006 15:04:05",
	"January 2, 2006 15:04:05",
	"January 2, 2006 15:04",
	"January 2, 2006",
	"Jan 2, 2006 15:04:05",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// Date-only ISO strings are read as UTC midnight.
var utcDateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006",
}

// ParseInstant parses s as an absolute instant. Accepted forms include
// RFC 3339 with or without offset, date-only ISO, RFC 1123 and common
// English month-name and slash-separated dates. The result has millisecond
// precision.
func (e *Engine) ParseInstant(s string) (time.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, newError("", "time", s, ErrInvalidInstant)
	}
	for _, layout := range utcDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Truncate(time.Millisecond), nil
		}
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, v, e.local); err == nil {
			return t.Truncate(time.Millisecond), nil
		}
	}
	return time.Time{}, newError("", "time", s, ErrInvalidInstant)
}

// instant parses s for field, or returns now when s is empty. The returned
// label is s, or the ISO rendering of now.
func (e *Engine) instant(s, field string) (time.Time, string, error) {
	if strings.TrimSpace(s) == "" {
		now := e.Now().Truncate(time.Millisecond)
		return now, ISOString(now), nil
	}
	t, err := e.ParseInstant(s)
	if err != nil {
		return time.Time{}, "", newError("", field, s, ErrInvalidInstant)
	}
	return t, s, nil
}
