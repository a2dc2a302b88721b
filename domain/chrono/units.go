package chrono

import (
	"sort"
	"strings"
)

// Unit is a duration unit.
type Unit string

// Duration units.
const (
	Milliseconds Unit = "milliseconds"
	Seconds      Unit = "seconds"
	Minutes      Unit = "minutes"
	Hours        Unit = "hours"
	Days         Unit = "days"
	Weeks        Unit = "weeks"
)

// msPerUnit is the conversion table. Every factor is an integer so
// conversions introduce no rounding beyond float64 itself.
var msPerUnit = map[Unit]float64{
	Milliseconds: 1,
	Seconds:      1e3,
	Minutes:      6e4,
	Hours:        3.6e6,
	Days:         8.64e7,
	Weeks:        6.048e8,
}

// ParseUnit matches s case-insensitively against the duration units.
func ParseUnit(s string) (Unit, error) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := msPerUnit[u]; !ok {
		return "", newError("", "unit", s, ErrUnknownUnit)
	}
	return u, nil
}

// MillisecondsPer returns the number of milliseconds in one u.
func (u Unit) MillisecondsPer() float64 {
	return msPerUnit[u]
}

// ToMilliseconds converts amount of unit into milliseconds.
func ToMilliseconds(amount float64, unit string) (float64, error) {
	u, err := ParseUnit(unit)
	if err != nil {
		return 0, err
	}
	return amount * msPerUnit[u], nil
}

// FromMilliseconds converts ms into unit. The quotient is not truncated:
// 1500 milliseconds is 1.5 seconds.
func FromMilliseconds(ms float64, unit string) (float64, error) {
	u, err := ParseUnit(unit)
	if err != nil {
		return 0, err
	}
	return ms / msPerUnit[u], nil
}

// Units returns the supported duration units, smallest first.
func Units() []Unit {
	units := make([]Unit, 0, len(msPerUnit))
	for u := range msPerUnit {
		units = append(units, u)
	}
	sort.Slice(units, func(i, j int) bool {
		return msPerUnit[units[i]] < msPerUnit[units[j]]
	})
	return units
}

// TimestampUnit is the resolution of an epoch timestamp.
type TimestampUnit string

// Timestamp units.
const (
	TimestampSeconds      TimestampUnit = "seconds"
	TimestampMilliseconds TimestampUnit = "milliseconds"
)

var timestampUnits = map[string]TimestampUnit{
	"seconds":      TimestampSeconds,
	"milliseconds": TimestampMilliseconds,
}

// ParseTimestampUnit matches s case-insensitively. Empty means milliseconds.
func ParseTimestampUnit(s string) (TimestampUnit, error) {
	if strings.TrimSpace(s) == "" {
		return TimestampMilliseconds, nil
	}
	u, ok := timestampUnits[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", newError("", "unit", s, ErrUnknownUnit)
	}
	return u, nil
}
