package chrono

import (
	"strconv"
	"time"
)

// MaxBusinessDays is the largest accepted magnitude of a business-day offset.
const MaxBusinessDays = 100_000

// BusinessDaysRequest offsets a start date by a number of (business) days.
type BusinessDaysRequest struct {
	StartDate string
	Days      int
	// ExcludeWeekends defaults to true when nil.
	ExcludeWeekends *bool
}

// BusinessDaysResult is the outcome of BusinessDays.
type BusinessDaysResult struct {
	StartDate        string `json:"startDate"`
	Days             int    `json:"days"`
	ResultDate       string `json:"resultDate"`
	ExcludedWeekends bool   `json:"excludedWeekends"`
	TotalDaysSpanned int    `json:"totalDaysSpanned"`
}

// IsWeekend reports whether d is Saturday or Sunday.
func IsWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

// BusinessDays walks from the start date one calendar day at a time in the
// direction of Days. When weekends are excluded, Saturdays and Sundays are
// stepped over without counting. Days are stepped on the wall clock of the
// default location.
func (e *Engine) BusinessDays(req BusinessDaysRequest) (BusinessDaysResult, error) {
	start, err := e.ParseInstant(req.StartDate)
	if err != nil {
		return BusinessDaysResult{}, newError(OpBusinessDays, "startDate", req.StartDate, ErrInvalidInstant)
	}
	if req.Days > MaxBusinessDays || req.Days < -MaxBusinessDays {
		return BusinessDaysResult{}, newError(OpBusinessDays, "days", strconv.Itoa(req.Days), ErrInvalidConstraintRange)
	}
	exclude := true
	if req.ExcludeWeekends != nil {
		exclude = *req.ExcludeWeekends
	}

	result, spanned := addBusinessDays(start.In(e.local), req.Days, exclude)

	return BusinessDaysResult{
		StartDate:        req.StartDate,
		Days:             req.Days,
		ResultDate:       ISOString(result),
		ExcludedWeekends: exclude,
		TotalDaysSpanned: spanned,
	}, nil
}

// addBusinessDays returns the offset date and the number of calendar days
// stepped to reach it.
func addBusinessDays(t time.Time, days int, excludeWeekends bool) (time.Time, int) {
	step := 1
	if days < 0 {
		step = -1
		days = -days
	}
	spanned := 0
	for days > 0 {
		t = t.AddDate(0, 0, step)
		spanned++
		if excludeWeekends && IsWeekend(t.Weekday()) {
			continue
		}
		days--
	}
	return t, spanned
}
