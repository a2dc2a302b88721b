package chrono

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MaxSearchDays is the number of calendar days NextOccurrence inspects.
const MaxSearchDays = 365

const millisPerDay = 8.64e7

var timeOfDayPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// OccurrencePattern is a conjunction of optional calendar constraints.
// At least one field must be set.
type OccurrencePattern struct {
	// DayOfWeek is 0 (Sunday) through 6 (Saturday).
	DayOfWeek *int
	// DayOfMonth is 1 through 31.
	DayOfMonth *int
	// TimeOfDay is "HH:mm".
	TimeOfDay string
}

// NextOccurrenceRequest locates the next day after BaseTime matching Pattern.
type NextOccurrenceRequest struct {
	Pattern  OccurrencePattern
	BaseTime string
	Timezone string
}

// NextOccurrenceResult is the outcome of NextOccurrence.
type NextOccurrenceResult struct {
	BaseTime          string `json:"baseTime"`
	TargetDescription string `json:"targetDescription"`
	NextOccurrence    string `json:"nextOccurrence"`
	DaysUntil         int    `json:"daysUntil"`
	Timezone          string `json:"timezone"`
}

type timeOfDay struct {
	hour, minute int
	set          bool
}

// parseTimeOfDay validates an HH:mm string. Empty is valid and unset.
func parseTimeOfDay(s string) (timeOfDay, error) {
	if s == "" {
		return timeOfDay{}, nil
	}
	m := timeOfDayPattern.FindStringSubmatch(s)
	if m == nil {
		return timeOfDay{}, newError("", "time", s, ErrInvalidTimeOfDay)
	}
	h, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if h > 23 || minute > 59 {
		return timeOfDay{}, newError("", "time", s, ErrInvalidTimeOfDay)
	}
	return timeOfDay{hour: h, minute: minute, set: true}, nil
}

// Validate checks the pattern's fields and ranges.
func (p OccurrencePattern) Validate() error {
	if p.DayOfWeek == nil && p.DayOfMonth == nil && p.TimeOfDay == "" {
		return newError("", "", "", ErrMissingConstraint)
	}
	if p.DayOfWeek != nil && (*p.DayOfWeek < 0 || *p.DayOfWeek > 6) {
		return &Error{Field: "dayOfWeek", Value: strconv.Itoa(*p.DayOfWeek), Msg: "dayOfWeek must be between 0 (Sunday) and 6 (Saturday)", Err: ErrInvalidConstraintRange}
	}
	if p.DayOfMonth != nil && (*p.DayOfMonth < 1 || *p.DayOfMonth > 31) {
		return &Error{Field: "dayOfMonth", Value: strconv.Itoa(*p.DayOfMonth), Msg: "dayOfMonth must be between 1 and 31", Err: ErrInvalidConstraintRange}
	}
	_, err := parseTimeOfDay(p.TimeOfDay)
	return err
}

// matches reports whether the calendar day of t satisfies every day constraint.
func (p OccurrencePattern) matches(t time.Time) bool {
	if p.DayOfWeek != nil && int(t.Weekday()) != *p.DayOfWeek {
		return false
	}
	if p.DayOfMonth != nil && t.Day() != *p.DayOfMonth {
		return false
	}
	return true
}

// Describe renders the pattern, e.g. "Next Monday on the 15th at 09:00".
func (p OccurrencePattern) Describe() string {
	var b strings.Builder
	b.WriteString("Next")
	if p.DayOfWeek != nil {
		b.WriteString(" ")
		b.WriteString(time.Weekday(*p.DayOfWeek).String())
	}
	if p.DayOfMonth != nil {
		if p.DayOfWeek != nil {
			b.WriteString(" on the")
		}
		b.WriteString(" ")
		b.WriteString(Ordinal(*p.DayOfMonth))
	}
	if p.TimeOfDay != "" {
		b.WriteString(" at ")
		b.WriteString(p.TimeOfDay)
	}
	return b.String()
}

// Ordinal renders n with its English ordinal suffix: 1st, 2nd, 3rd, 4th,
// 11th, 12th, 13th, 21st.
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(n) + suffix
}

// NextOccurrence finds the first calendar day strictly after the base
// time's date that satisfies the pattern, searching at most MaxSearchDays
// days. The base time's clock time is kept unless the pattern sets one.
// Calendar days are those of the requested timezone, or of the default
// location for "local".
func (e *Engine) NextOccurrence(req NextOccurrenceRequest) (NextOccurrenceResult, error) {
	p := req.Pattern
	if err := p.Validate(); err != nil {
		return NextOccurrenceResult{}, withOp(OpNextOccurrence, err)
	}
	tod, _ := parseTimeOfDay(p.TimeOfDay)

	loc, err := e.zone(req.Timezone, "timezone")
	if err != nil {
		return NextOccurrenceResult{}, withOp(OpNextOccurrence, err)
	}
	loc = e.orLocal(loc)

	base, label, err := e.instant(req.BaseTime, "baseTime")
	if err != nil {
		return NextOccurrenceResult{}, withOp(OpNextOccurrence, err)
	}

	wall := base.In(loc)
	y, m, d := wall.Date()
	for i := 1; i <= MaxSearchDays; i++ {
		// noon is never skipped by a DST transition
		day := time.Date(y, m, d+i, 12, 0, 0, 0, loc)
		if !p.matches(day) {
			continue
		}

		target := time.Date(day.Year(), day.Month(), day.Day(), wall.Hour(), wall.Minute(), wall.Second(), wall.Nanosecond(), loc)
		if tod.set {
			target = time.Date(day.Year(), day.Month(), day.Day(), tod.hour, tod.minute, 0, 0, loc)
		}
		days := math.Floor(float64(target.UnixMilli()-base.UnixMilli()) / millisPerDay)

		return NextOccurrenceResult{
			BaseTime:          label,
			TargetDescription: p.Describe(),
			NextOccurrence:    ISOString(target),
			DaysUntil:         int(days),
			Timezone:          zoneLabel(req.Timezone),
		}, nil
	}
	return NextOccurrenceResult{}, &Error{Op: OpNextOccurrence, Value: p.Describe(), Field: "pattern", Err: ErrSearchExhausted}
}
