package chrono

import (
	"math"
	"time"
)

// maxEpochMillis bounds representable instants to ±100,000,000 days
// around the epoch.
const maxEpochMillis = 8.64e15

// AddTimeRequest adds a signed duration to a base instant.
type AddTimeRequest struct {
	Amount       float64
	Unit         string
	BaseTime     string
	Format       string
	CustomFormat string
	Timezone     string
}

// AddTimeResult is the outcome of AddTime.
type AddTimeResult struct {
	OriginalTime string  `json:"originalTime"`
	ResultTime   string  `json:"resultTime"`
	Amount       float64 `json:"amount"`
	Unit         Unit    `json:"unit"`
	Format       Format  `json:"format"`
	Timezone     string  `json:"timezone"`
}

// AddTime computes base + amount*unit and formats the result.
// Inputs are validated in order: unit, timezone, format, base time.
func (e *Engine) AddTime(req AddTimeRequest) (AddTimeResult, error) {
	unit, err := ParseUnit(req.Unit)
	if err != nil {
		return AddTimeResult{}, withOp(OpAddTime, err)
	}
	loc, err := e.zone(req.Timezone, "timezone")
	if err != nil {
		return AddTimeResult{}, withOp(OpAddTime, err)
	}
	spec, err := e.ParseFormatSpec(req.Format, req.CustomFormat)
	if err != nil {
		return AddTimeResult{}, withOp(OpAddTime, err)
	}
	base, original, err := e.instant(req.BaseTime, "baseTime")
	if err != nil {
		return AddTimeResult{}, withOp(OpAddTime, err)
	}

	ms := math.Trunc(float64(base.UnixMilli()) + req.Amount*unit.MillisecondsPer())
	if math.IsNaN(ms) || math.Abs(ms) > maxEpochMillis {
		return AddTimeResult{}, &Error{Op: OpAddTime, Field: "amount", Msg: "result is outside the representable time range", Err: ErrInvalidInstant}
	}
	result := time.UnixMilli(int64(ms))

	return AddTimeResult{
		OriginalTime: original,
		ResultTime:   e.render(result, spec, loc),
		Amount:       req.Amount,
		Unit:         unit,
		Format:       spec.Kind,
		Timezone:     zoneLabel(req.Timezone),
	}, nil
}

// TimeDiffRequest measures the elapsed time between two instants.
type TimeDiffRequest struct {
	StartTime string
	EndTime   string
	Unit      string
}

// TimeDiffResult is the outcome of TimeDiff. Difference is end minus start.
type TimeDiffResult struct {
	StartTime          string  `json:"startTime"`
	EndTime            string  `json:"endTime"`
	Difference         float64 `json:"difference"`
	Unit               Unit    `json:"unit"`
	AbsoluteDifference float64 `json:"absoluteDifference"`
}

// TimeDiff computes end − start in the requested unit (milliseconds by
// default). The difference is positive when end is later than start.
func (e *Engine) TimeDiff(req TimeDiffRequest) (TimeDiffResult, error) {
	start, err := e.ParseInstant(req.StartTime)
	if err != nil {
		return TimeDiffResult{}, newError(OpTimeDiff, "startTime", req.StartTime, ErrInvalidInstant)
	}
	end, err := e.ParseInstant(req.EndTime)
	if err != nil {
		return TimeDiffResult{}, newError(OpTimeDiff, "endTime", req.EndTime, ErrInvalidInstant)
	}
	unit := Milliseconds
	if req.Unit != "" {
		if unit, err = ParseUnit(req.Unit); err != nil {
			return TimeDiffResult{}, withOp(OpTimeDiff, err)
		}
	}

	diff := float64(end.UnixMilli()-start.UnixMilli()) / unit.MillisecondsPer()
	return TimeDiffResult{
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		Difference:         diff,
		Unit:               unit,
		AbsoluteDifference: math.Abs(diff),
	}, nil
}
