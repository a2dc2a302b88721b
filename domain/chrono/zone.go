package chrono

import (
	"fmt"
	"strings"
	"time"
)

// Local is the display sentinel meaning "host default timezone".
// It is never handed to a ZoneResolver.
const Local = "local"

// ZoneResolver maps timezone identifiers to locations. It is the single
// source of truth for whether a timezone is valid.
type ZoneResolver interface {
	Resolve(name string) (*time.Location, error)
}

// ZoneResolverFunc adapts a function to ZoneResolver.
type ZoneResolverFunc func(name string) (*time.Location, error)

// Resolve calls f.
func (f ZoneResolverFunc) Resolve(name string) (*time.Location, error) { return f(name) }

// LoadLocation resolves names with time.LoadLocation, rejecting the
// empty string and "Local" which LoadLocation would otherwise accept.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimezone, err)
	}
	return loc, nil
}

// IsLocal reports whether name means "no explicit timezone": empty or the
// exact "local" sentinel. Other spellings go to the resolver.
func IsLocal(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || name == Local
}

// UTCOffset renders the offset of loc at t as UTC±HH:MM.
//
// The offset is derived by reading t as a wall clock in UTC and in loc and
// differencing the two readings to the second. The magnitude is then
// truncated to whole minutes, so -4:56:02 renders as -04:56.
func UTCOffset(t time.Time, loc *time.Location) string {
	u := t.UTC()
	l := t.In(loc)
	wallUTC := time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second(), 0, time.UTC)
	wallLoc := time.Date(l.Year(), l.Month(), l.Day(), l.Hour(), l.Minute(), l.Second(), 0, time.UTC)
	seconds := int(wallLoc.Sub(wallUTC) / time.Second)
	if seconds < 0 {
		return "UTC" + formatOffset(-(-seconds / 60), true)
	}
	return "UTC" + formatOffset(seconds/60, true)
}

// formatOffset renders minutes as ±HH:MM, or as ±H[:MM] when padded is false.
func formatOffset(minutes int, padded bool) string {
	sign := "+"
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	h, m := minutes/60, minutes%60
	if padded {
		return fmt.Sprintf("%s%02d:%02d", sign, h, m)
	}
	if m == 0 {
		return fmt.Sprintf("%s%d", sign, h)
	}
	return fmt.Sprintf("%s%d:%02d", sign, h, m)
}

// ZoneAbbreviation returns the short name of the zone in effect at t.
// Zones whose tzdata abbreviation is numeric are rendered as GMT±H[:MM].
func ZoneAbbreviation(t time.Time) string {
	name, offset := t.Zone()
	if name != "" && name[0] != '+' && name[0] != '-' {
		return name
	}
	if offset == 0 {
		return "GMT"
	}
	return "GMT" + formatOffset(offset/60, false)
}
