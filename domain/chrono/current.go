package chrono

import "time"

// CurrentTimeRequest formats the current instant.
type CurrentTimeRequest struct {
	Format       string
	Timezone     string
	CustomFormat string
}

// CurrentTimeResult is the outcome of CurrentTime.
type CurrentTimeResult struct {
	Time     string `json:"time"`
	Format   Format `json:"format"`
	Timezone string `json:"timezone"`
}

// CurrentTime renders the clock's current instant.
func (e *Engine) CurrentTime(req CurrentTimeRequest) (CurrentTimeResult, error) {
	loc, err := e.zone(req.Timezone, "timezone")
	if err != nil {
		return CurrentTimeResult{}, withOp(OpCurrentTime, err)
	}
	spec, err := e.ParseFormatSpec(req.Format, req.CustomFormat)
	if err != nil {
		return CurrentTimeResult{}, withOp(OpCurrentTime, err)
	}
	return CurrentTimeResult{
		Time:     e.render(e.Now().Truncate(time.Millisecond), spec, loc),
		Format:   spec.Kind,
		Timezone: zoneLabel(req.Timezone),
	}, nil
}

// TimestampResult is the outcome of Timestamp.
type TimestampResult struct {
	Timestamp int64         `json:"timestamp"`
	Unit      TimestampUnit `json:"unit"`
}

// Timestamp returns the current epoch timestamp in seconds (floored) or
// milliseconds. An empty unit means milliseconds.
func (e *Engine) Timestamp(unit string) (TimestampResult, error) {
	u, err := ParseTimestampUnit(unit)
	if err != nil {
		return TimestampResult{}, withOp(OpTimestamp, err)
	}
	ms := e.Now().UnixMilli()
	ts := ms
	if u == TimestampSeconds {
		ts = floorDiv(ms, 1000)
	}
	return TimestampResult{Timestamp: ts, Unit: u}, nil
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
