package chrono

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Format is an output format keyword.
type Format string

// Output formats.
const (
	FormatISO      Format = "iso"
	FormatUnix     Format = "unix"
	FormatReadable Format = "readable"
	FormatCustom   Format = "custom"
)

var formats = map[string]Format{
	"iso":      FormatISO,
	"unix":     FormatUnix,
	"readable": FormatReadable,
	"custom":   FormatCustom,
}

// Layouts used by the formatter.
const (
	isoLayout      = "2006-01-02T15:04:05.000Z"
	zonedISOLayout = "2006-01-02, 15:04:05"
	readableLayout = "Monday, January 2, 2006 at 03:04:05 PM"
)

// ParseFormat matches s case-insensitively. Empty means iso.
func ParseFormat(s string) (Format, error) {
	if strings.TrimSpace(s) == "" {
		return FormatISO, nil
	}
	f, ok := formats[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", newError("", "format", s, ErrInvalidFormat)
	}
	return f, nil
}

// Formats returns the supported format keywords in sorted order.
func Formats() []Format {
	out := make([]Format, 0, len(formats))
	for _, f := range formats {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// FormatSpec is a validated output format.
type FormatSpec struct {
	Kind   Format
	Custom *CustomFields
}

// ParseFormatSpec validates a format keyword together with its custom
// field set. The field set is required for custom and ignored otherwise.
func (e *Engine) ParseFormatSpec(format, customFormat string) (FormatSpec, error) {
	kind, err := ParseFormat(format)
	if err != nil {
		return FormatSpec{}, err
	}
	spec := FormatSpec{Kind: kind}
	if kind != FormatCustom {
		return spec, nil
	}
	fields, err := ParseCustomFields(customFormat)
	if err != nil {
		return FormatSpec{}, err
	}
	if fields.TimeZone != "" {
		loc, err := e.zone(fields.TimeZone, "customFormat.timeZone")
		if err != nil {
			return FormatSpec{}, err
		}
		fields.location = loc
	}
	spec.Custom = fields
	return spec, nil
}

// render formats t. A nil loc means no timezone was requested.
func (e *Engine) render(t time.Time, spec FormatSpec, loc *time.Location) string {
	switch spec.Kind {
	case FormatUnix:
		return strconv.FormatInt(t.Unix(), 10)
	case FormatReadable:
		in := t.In(e.orLocal(loc))
		return in.Format(readableLayout) + " " + ZoneAbbreviation(in)
	case FormatCustom:
		if spec.Custom != nil {
			if loc == nil {
				loc = spec.Custom.location
			}
			return spec.Custom.render(t.In(e.orLocal(loc)))
		}
	}
	if loc == nil {
		return ISOString(t)
	}
	return t.In(loc).Format(zonedISOLayout)
}

// ISOString renders t in UTC with millisecond precision,
// e.g. 2024-01-15T10:00:00.000Z.
func ISOString(t time.Time) string {
	return t.UTC().Format(isoLayout)
}
