package chrono

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// CustomFields selects the date and time components of a custom format.
// Field names and values follow the Intl.DateTimeFormat option vocabulary;
// rendering uses en-US conventions.
type CustomFields struct {
	Weekday                string `json:"weekday,omitempty"`
	Era                    string `json:"era,omitempty"`
	Year                   string `json:"year,omitempty"`
	Month                  string `json:"month,omitempty"`
	Day                    string `json:"day,omitempty"`
	Hour                   string `json:"hour,omitempty"`
	Minute                 string `json:"minute,omitempty"`
	Second                 string `json:"second,omitempty"`
	FractionalSecondDigits int    `json:"fractionalSecondDigits,omitempty"`
	TimeZoneName           string `json:"timeZoneName,omitempty"`
	Hour12                 *bool  `json:"hour12,omitempty"`
	HourCycle              string `json:"hourCycle,omitempty"`
	TimeZone               string `json:"timeZone,omitempty"`

	location *time.Location
}

var (
	textStyles    = []string{"long", "short", "narrow"}
	numericStyles = []string{"numeric", "2-digit"}
	monthStyles   = []string{"numeric", "2-digit", "long", "short", "narrow"}
	zoneStyles    = []string{"short", "long", "shortOffset", "longOffset"}
	hourCycles    = []string{"h11", "h12", "h23", "h24"}
)

type fieldRule struct {
	allowed []string
	dst     *string
}

// stringFields maps each string-valued key to its allowed values and the
// struct field it populates.
func (c *CustomFields) stringFields() map[string]fieldRule {
	return map[string]fieldRule{
		"weekday":      {textStyles, &c.Weekday},
		"era":          {textStyles, &c.Era},
		"year":         {numericStyles, &c.Year},
		"month":        {monthStyles, &c.Month},
		"day":          {numericStyles, &c.Day},
		"hour":         {numericStyles, &c.Hour},
		"minute":       {numericStyles, &c.Minute},
		"second":       {numericStyles, &c.Second},
		"timeZoneName": {zoneStyles, &c.TimeZoneName},
		"hourCycle":    {hourCycles, &c.HourCycle},
	}
}

// ParseCustomFields decodes and validates a custom format payload: a
// non-empty JSON object of supported keys. Unknown keys or values are
// rejected rather than ignored.
func ParseCustomFields(raw string) (*CustomFields, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &Error{Field: "customFormat", Msg: "custom format requires customFormat", Err: ErrInvalidCustomFormat}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &obj); err != nil || obj == nil {
		return nil, newError("", "customFormat", raw, ErrInvalidCustomFormat)
	}
	if len(obj) == 0 {
		return nil, &Error{Field: "customFormat", Value: raw, Msg: "custom format must select at least one field", Err: ErrInvalidCustomFormat}
	}

	c := &CustomFields{}
	strFields := c.stringFields()

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := obj[key]
		bad := newError("", "customFormat."+key, string(val), ErrInvalidCustomFormat)

		if f, ok := strFields[key]; ok {
			var s string
			if err := json.Unmarshal(val, &s); err != nil || !contains(f.allowed, s) {
				return nil, bad
			}
			*f.dst = s
			continue
		}

		switch key {
		case "hour12":
			var b bool
			if err := json.Unmarshal(val, &b); err != nil {
				return nil, bad
			}
			c.Hour12 = &b
		case "fractionalSecondDigits":
			var n int
			if err := json.Unmarshal(bytes.TrimSpace(val), &n); err != nil || n < 1 || n > 3 {
				return nil, bad
			}
			c.FractionalSecondDigits = n
		case "timeZone":
			var s string
			if err := json.Unmarshal(val, &s); err != nil || strings.TrimSpace(s) == "" {
				return nil, bad
			}
			c.TimeZone = s
		default:
			return nil, &Error{Field: "customFormat", Value: key, Msg: "unsupported custom format field", Err: ErrInvalidCustomFormat}
		}
	}
	return c, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (c *CustomFields) hasDate() bool {
	return c.Weekday != "" || c.Era != "" || c.Year != "" || c.Month != "" || c.Day != ""
}

func (c *CustomFields) hasTime() bool {
	return c.Hour != "" || c.Minute != "" || c.Second != "" || c.FractionalSecondDigits > 0
}

func (c *CustomFields) twelveHour() bool {
	if c.Hour12 != nil {
		return *c.Hour12
	}
	switch c.HourCycle {
	case "h23", "h24":
		return false
	}
	return true
}

// render formats t (already in the target location).
func (c *CustomFields) render(t time.Time) string {
	f := *c
	if !f.hasDate() && !f.hasTime() {
		f.Year, f.Month, f.Day = "numeric", "numeric", "numeric"
	}

	parts := make([]string, 0, 3)
	if date := f.renderDate(t); date != "" {
		parts = append(parts, date)
	}
	if clock := f.renderTime(t); clock != "" {
		parts = append(parts, clock)
	}
	out := strings.Join(parts, ", ")

	if f.TimeZoneName != "" {
		out += " " + renderZoneName(t, f.TimeZoneName)
	}
	return out
}

func (c *CustomFields) renderDate(t time.Time) string {
	var weekday string
	switch c.Weekday {
	case "long":
		weekday = t.Weekday().String()
	case "short":
		weekday = t.Weekday().String()[:3]
	case "narrow":
		weekday = t.Weekday().String()[:1]
	}

	year := ""
	switch c.Year {
	case "numeric":
		year = strconv.Itoa(t.Year())
	case "2-digit":
		year = fmt.Sprintf("%02d", t.Year()%100)
	}
	if year != "" && c.Era != "" {
		year += " " + eraName(t.Year(), c.Era)
	}
	day := numeric(t.Day(), c.Day)

	var date string
	switch c.Month {
	case "long", "short", "narrow":
		// January 15, 2024
		month := t.Month().String()
		if c.Month == "short" {
			month = month[:3]
		} else if c.Month == "narrow" {
			month = month[:1]
		}
		date = month
		if day != "" {
			date += " " + day
		}
		if year != "" {
			if day != "" {
				date += ","
			}
			date += " " + year
		}
	default:
		// 1/15/2024
		fields := make([]string, 0, 3)
		if m := numeric(int(t.Month()), c.Month); m != "" {
			fields = append(fields, m)
		}
		if day != "" {
			fields = append(fields, day)
		}
		if year != "" {
			fields = append(fields, year)
		}
		date = strings.Join(fields, "/")
	}

	switch {
	case weekday == "":
		return date
	case date == "":
		return weekday
	default:
		return weekday + ", " + date
	}
}

func (c *CustomFields) renderTime(t time.Time) string {
	if !c.hasTime() {
		return ""
	}
	twelve := c.twelveHour()

	var fields []string
	if c.Hour != "" {
		h := t.Hour()
		if twelve {
			h %= 12
			if h == 0 && c.HourCycle != "h11" {
				h = 12
			}
		} else if h == 0 && c.HourCycle == "h24" {
			h = 24
		}
		if c.Hour == "2-digit" || (!twelve && (c.Minute != "" || c.Second != "")) {
			fields = append(fields, fmt.Sprintf("%02d", h))
		} else {
			fields = append(fields, strconv.Itoa(h))
		}
	}
	if c.Minute != "" {
		if len(fields) > 0 {
			fields = append(fields, fmt.Sprintf("%02d", t.Minute()))
		} else {
			fields = append(fields, numeric(t.Minute(), c.Minute))
		}
	}
	if c.Second != "" || c.FractionalSecondDigits > 0 {
		sec := fmt.Sprintf("%02d", t.Second())
		if len(fields) == 0 && c.Second != "" {
			sec = numeric(t.Second(), c.Second)
		}
		if c.FractionalSecondDigits > 0 {
			frac := fmt.Sprintf("%03d", t.Nanosecond()/int(time.Millisecond))
			sec += "." + frac[:c.FractionalSecondDigits]
		}
		fields = append(fields, sec)
	}

	out := strings.Join(fields, ":")
	if c.Hour != "" && twelve {
		if t.Hour() < 12 {
			out += " AM"
		} else {
			out += " PM"
		}
	}
	return out
}

func numeric(v int, style string) string {
	switch style {
	case "numeric":
		return strconv.Itoa(v)
	case "2-digit":
		return fmt.Sprintf("%02d", v)
	}
	return ""
}

func eraName(year int, style string) string {
	ad := year > 0
	switch style {
	case "long":
		if ad {
			return "Anno Domini"
		}
		return "Before Christ"
	case "narrow":
		if ad {
			return "A"
		}
		return "B"
	}
	if ad {
		return "AD"
	}
	return "BC"
}

func renderZoneName(t time.Time, style string) string {
	_, offset := t.Zone()
	switch style {
	case "long":
		return t.Location().String()
	case "shortOffset":
		if offset == 0 {
			return "GMT"
		}
		return "GMT" + formatOffset(offset/60, false)
	case "longOffset":
		if offset == 0 {
			return "GMT"
		}
		return "GMT" + formatOffset(offset/60, true)
	}
	return ZoneAbbreviation(t)
}
