package chrono

import (
	"strings"
	"time"
)

// ConvertTimezoneRequest re-renders one instant under two timezone labels.
type ConvertTimezoneRequest struct {
	Time         string
	FromTimezone string
	ToTimezone   string
	Format       string
	CustomFormat string
}

// ConvertTimezoneResult is the outcome of ConvertTimezone.
type ConvertTimezoneResult struct {
	OriginalTime      string `json:"originalTime"`
	OriginalTimezone  string `json:"originalTimezone"`
	ConvertedTime     string `json:"convertedTime"`
	ConvertedTimezone string `json:"convertedTimezone"`
	Format            Format `json:"format"`
}

// ConvertTimezone renders the instant in ToTimezone. The instant itself is
// not re-anchored: FromTimezone only labels and renders the original.
// Inputs are validated in order: time, target zone, source zone, format.
func (e *Engine) ConvertTimezone(req ConvertTimezoneRequest) (ConvertTimezoneResult, error) {
	t, err := e.ParseInstant(req.Time)
	if err != nil {
		return ConvertTimezoneResult{}, newError(OpConvertTimezone, "time", req.Time, ErrInvalidInstant)
	}

	if IsLocal(req.ToTimezone) {
		return ConvertTimezoneResult{}, &Error{Op: OpConvertTimezone, Field: "toTimezone", Value: req.ToTimezone, Msg: "invalid target timezone", Err: ErrInvalidTimezone}
	}
	to, err := e.zone(req.ToTimezone, "toTimezone")
	if err != nil {
		return ConvertTimezoneResult{}, &Error{Op: OpConvertTimezone, Field: "toTimezone", Value: req.ToTimezone, Msg: "invalid target timezone", Err: ErrInvalidTimezone}
	}

	var from *time.Location
	if strings.TrimSpace(req.FromTimezone) != "" {
		if from, err = e.zone(req.FromTimezone, "fromTimezone"); err != nil {
			return ConvertTimezoneResult{}, &Error{Op: OpConvertTimezone, Field: "fromTimezone", Value: req.FromTimezone, Msg: "invalid source timezone", Err: ErrInvalidTimezone}
		}
	}

	spec, err := e.ParseFormatSpec(req.Format, req.CustomFormat)
	if err != nil {
		return ConvertTimezoneResult{}, withOp(OpConvertTimezone, err)
	}

	original := req.Time
	originalZone := "UTC"
	if strings.TrimSpace(req.FromTimezone) != "" {
		originalZone = zoneLabel(req.FromTimezone)
		original = e.render(t, spec, e.orLocal(from))
	}

	return ConvertTimezoneResult{
		OriginalTime:      original,
		OriginalTimezone:  originalZone,
		ConvertedTime:     e.render(t, spec, to),
		ConvertedTimezone: strings.TrimSpace(req.ToTimezone),
		Format:            spec.Kind,
	}, nil
}

// MultipleTimezonesRequest renders one instant across several timezones.
type MultipleTimezonesRequest struct {
	Timezones    []string
	Time         string
	Format       string
	CustomFormat string
}

// ZoneTime is one entry of a snapshot.
type ZoneTime struct {
	Timezone  string `json:"timezone"`
	Time      string `json:"time"`
	Format    Format `json:"format"`
	UTCOffset string `json:"utcOffset"`
}

// MultipleTimezonesResult is the outcome of MultipleTimezones. Entries
// follow the request order.
type MultipleTimezonesResult struct {
	BaseTime  string     `json:"baseTime"`
	Timezones []ZoneTime `json:"timezones"`
}

// MultipleTimezones formats one instant in every requested timezone along
// with the zone's UTC offset at that instant. Every timezone is validated
// before anything is computed; the error lists all invalid entries in
// request order.
func (e *Engine) MultipleTimezones(req MultipleTimezonesRequest) (MultipleTimezonesResult, error) {
	if len(req.Timezones) == 0 {
		return MultipleTimezonesResult{}, newError(OpMultipleTimezones, "timezones", "", ErrEmptyTimezones)
	}

	locs := make([]*time.Location, len(req.Timezones))
	var invalid []string
	for i, name := range req.Timezones {
		loc, err := e.zone(name, "timezones")
		if err != nil {
			invalid = append(invalid, name)
			continue
		}
		locs[i] = e.orLocal(loc)
	}
	if len(invalid) > 0 {
		return MultipleTimezonesResult{}, newError(OpMultipleTimezones, "timezones", strings.Join(invalid, ", "), ErrInvalidTimezone)
	}

	spec, err := e.ParseFormatSpec(req.Format, req.CustomFormat)
	if err != nil {
		return MultipleTimezonesResult{}, withOp(OpMultipleTimezones, err)
	}
	t, base, err := e.instant(req.Time, "time")
	if err != nil {
		return MultipleTimezonesResult{}, withOp(OpMultipleTimezones, err)
	}

	out := MultipleTimezonesResult{
		BaseTime:  base,
		Timezones: make([]ZoneTime, 0, len(req.Timezones)),
	}
	for i, loc := range locs {
		out.Timezones = append(out.Timezones, ZoneTime{
			Timezone:  zoneLabel(req.Timezones[i]),
			Time:      e.render(t, spec, loc),
			Format:    spec.Kind,
			UTCOffset: UTCOffset(t, loc),
		})
	}
	return out, nil
}
