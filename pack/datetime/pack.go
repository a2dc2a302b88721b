// Package datetime provides the time computation tools served over MCP.
package datetime

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/felixgeelhaar/time-server/domain/chrono"
	"github.com/felixgeelhaar/time-server/domain/pack"
	"github.com/felixgeelhaar/time-server/domain/tool"
	"github.com/felixgeelhaar/time-server/infrastructure/tzdb"
)

// Tool names.
const (
	ToolCurrentTime       = "get_current_time"
	ToolTimestamp         = "get_timestamp"
	ToolAddTime           = "add_time"
	ToolTimeDiff          = "time_diff"
	ToolConvertTimezone   = "convert_timezone"
	ToolMultipleTimezones = "get_multiple_timezones"
	ToolBusinessDays      = "get_business_days"
	ToolNextOccurrence    = "next_occurrence"
	ToolListTimezones     = "list_timezones"
)

// Config configures the datetime pack.
type Config struct {
	// Engine evaluates every computation.
	Engine *chrono.Engine

	// Catalog backs list_timezones.
	Catalog *tzdb.Catalog

	// Zones resolves catalog entries. It should be the resolver the engine uses.
	Zones chrono.ZoneResolver
}

// Option configures the datetime pack.
type Option func(*Config)

// WithEngine sets the computation engine.
func WithEngine(e *chrono.Engine) Option {
	return func(c *Config) {
		c.Engine = e
	}
}

// WithCatalog sets the timezone catalog.
func WithCatalog(catalog *tzdb.Catalog) Option {
	return func(c *Config) {
		c.Catalog = catalog
	}
}

// WithZoneResolver sets the resolver used for catalog snapshots.
func WithZoneResolver(r chrono.ZoneResolver) Option {
	return func(c *Config) {
		c.Zones = r
	}
}

// New creates the datetime pack.
func New(opts ...Option) *pack.Pack {
	cfg := Config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Zones == nil {
		cfg.Zones = tzdb.NewResolver()
	}
	if cfg.Engine == nil {
		cfg.Engine = chrono.NewEngine(chrono.WithZoneResolver(cfg.Zones))
	}
	if cfg.Catalog == nil {
		cfg.Catalog = tzdb.DefaultCatalog()
	}

	return pack.NewBuilder("datetime").
		WithDescription("Time computations: formatting, arithmetic, timezones, business days and recurring dates").
		WithVersion("1.0.0").
		AddTools(
			currentTimeTool(&cfg),
			timestampTool(&cfg),
			addTimeTool(&cfg),
			timeDiffTool(&cfg),
			convertTimezoneTool(&cfg),
			multipleTimezonesTool(&cfg),
			businessDaysTool(&cfg),
			nextOccurrenceTool(&cfg),
			listTimezonesTool(&cfg),
		).
		WithMetadata("units", strings.Join(unitNames(), ",")).
		WithMetadata("formats", strings.Join(formatNames(), ",")).
		Build()
}

func unitNames() []string {
	units := chrono.Units()
	names := make([]string, len(units))
	for i, u := range units {
		names[i] = string(u)
	}
	return names
}

func formatNames() []string {
	formats := chrono.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}

// customFormat accepts the Intl-style options either as a JSON string or as
// an inline object.
type customFormat string

func (c *customFormat) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*c = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = customFormat(s)
		return nil
	}
	*c = customFormat(trimmed)
	return nil
}

// Shared schema properties.
var (
	formatProperty = tool.EnumProperty(
		"Output format: 'iso' (ISO 8601), 'unix' (Unix timestamp in seconds), 'readable' (human-readable) or 'custom' (with customFormat)",
		formatNames()...,
	)
	customFormatProperty = tool.Property("string",
		"Formatting options as a JSON object string when format is 'custom', e.g. {\"year\":\"numeric\",\"month\":\"long\"}")
	timezoneProperty = tool.Property("string",
		"IANA timezone name (e.g. 'America/New_York', 'Asia/Shanghai'). Defaults to the server's local timezone.")
	unitProperty = tool.EnumProperty("Unit of time", unitNames()...)
)

// --- get_current_time ---

type currentTimeInput struct {
	Format       string       `json:"format"`
	Timezone     string       `json:"timezone"`
	CustomFormat customFormat `json:"customFormat"`
}

func currentTimeTool(cfg *Config) tool.Tool {
	return tool.NewBuilder(ToolCurrentTime).
		WithDescription("Get the current date and time in various formats").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"format":       formatProperty,
			"timezone":     timezoneProperty,
			"customFormat": customFormatProperty,
		}, nil)).
		ReadOnly().
		ReadsClock().
		WithTags("clock").
		WithHandler(func(_ context.Context, input json.RawMessage) (tool.Result, error) {
			var in currentTimeInput
			if err := tool.DecodeArgs(input, &in); err != nil {
				return tool.Result{}, err
			}
			out, err := cfg.Engine.CurrentTime(chrono.CurrentTimeRequest{
				Format:       in.Format,
				Timezone:     in.Timezone,
				CustomFormat: string(in.CustomFormat),
			})
			if err != nil {
				return tool.Result{}, err
			}
			return tool.JSONResult(out)
		}).
		MustBuild()
}

// --- get_timestamp ---

type timestampInput struct {
	Unit string `json:"unit"`
}

func timestampTool(cfg *Config) tool.Tool {
	return tool.NewBuilder(ToolTimestamp).
		WithDescription("Get the current Unix timestamp in seconds or milliseconds").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"unit": tool.EnumProperty("Unit for the timestamp, defaults to milliseconds", "seconds", "milliseconds"),
		}, nil)).
		ReadOnly().
		ReadsClock().
		WithTags("clock").
		WithHandler(func(_ context.Context, input json.RawMessage) (tool.Result, error) {
			var in timestampInput
			if err := tool.DecodeArgs(input, &in); err != nil {
				return tool.Result{}, err
			}
			out, err := cfg.Engine.Timestamp(in.Unit)
			if err != nil {
				return tool.Result{}, err
			}
			return tool.JSONResult(out)
		}).
		MustBuild()
}

// --- add_time ---

type addTimeInput struct {
	Amount       float64      `json:"amount"`
	Unit         string       `json:"unit"`
	BaseTime     string       `json:"baseTime"`
	Format       string       `json:"format"`
	CustomFormat customFormat `json:"customFormat"`
	Timezone     string       `json:"timezone"`
}

func addTimeTool(cfg *Config) tool.Tool {
	return tool.NewBuilder(ToolAddTime).
		WithDescription("Add or subtract time from a base time (current time or specified time)").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"amount":       tool.Property("number", "Amount of time to add (positive) or subtract (negative), e.g. 3, -2, 1.5"),
			"unit":         unitProperty,
			"baseTime":     tool.Property("string", "Base time (ISO 8601). Defaults to the current time."),
			"format":       formatProperty,
			"customFormat": customFormatProperty,
			"timezone":     timezoneProperty,
		}, []string{"amount", "unit"})).
		ReadOnly().
		Idempotent().
		WithTags("arithmetic").
		WithHandler(func(_ context.Context, input json.RawMessage) (tool.Result, error) {
			var in addTimeInput
			if err := tool.DecodeArgs(input, &in); err != nil {
				return tool.Result{}, err
			}
			out, err := cfg.Engine.AddTime(chrono.AddTimeRequest{
				Amount:       in.Amount,
				Unit:         in.Unit,
				BaseTime:     in.BaseTime,
				Format:       in.Format,
				CustomFormat: string(in.CustomFormat),
				Timezone:     in.Timezone,
			})
			if err != nil {
				return tool.Result{}, err
			}
			return tool.JSONResult(out)
		}).
		MustBuild()
}

// --- time_diff ---

type timeDiffInput struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Unit      string `json:"unit"`
}

func timeDiffTool(cfg *Config) tool.Tool {
	return tool.NewBuilder(ToolTimeDiff).
		WithDescription("Calculate the difference between two times").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"startTime": tool.Property("string", "Start time (ISO 8601 or a parseable date string)"),
			"endTime":   tool.Property("string", "End time (ISO 8601 or a parseable date string)"),
			"unit":      tool.EnumProperty("Unit to express the difference in, defaults to milliseconds", unitNames()...),
		}, []string{"startTime", "endTime"})).
		ReadOnly().
		Idempotent().
		WithTags("arithmetic").
		WithHandler(func(_ context.Context, input json.RawMessage) (tool.Result, error) {
			var in timeDiffInput
			if err := tool.DecodeArgs(input, &in); err != nil {
				return tool.Result{}, err
			}
			out, err := cfg.Engine.TimeDiff(chrono.TimeDiffRequest{
				StartTime: in.StartTime,
				EndTime:   in.EndTime,
				Unit:      in.Unit,
			})
			if err != nil {
				return tool.Result{}, err
			}
			return tool.JSONResult(out)
		}).
		MustBuild()
}

// --- convert_timezone ---

type convertTimezoneInput struct {
	Time         string       `json:"time"`
	FromTimezone string       `json:"fromTimezone"`
	ToTimezone   string       `json:"toTimezone"`
	Format       string       `json:"format"`
	CustomFormat customFormat `json:"customFormat"`
}

func convertTimezoneTool(cfg *Config) tool.Tool {
	return tool.NewBuilder(ToolConvertTimezone).
		WithDescription("Convert a time from one timezone to another").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"time":         tool.Property("string", "Time to convert (ISO 8601 or a parseable date string)"),
			"fromTimezone": tool.Property("string", "Source timezone (e.g. 'America/New_York'). Defaults to UTC."),
			"toTimezone":   tool.Property("string", "Target timezone (e.g. 'Asia/Shanghai')"),
			"format":       formatProperty,
			"customFormat": customFormatProperty,
		}, []string{"time", "toTimezone"})).
		ReadOnly().
		Idempotent().
		WithTags("timezone").
		WithHandler(func(_ context.Context, input json.RawMessage) (tool.Result, error) {
			var in convertTimezoneInput
			if err := tool.DecodeArgs(input, &in); err != nil {
				return tool.Result{}, err
			}
			out, err := cfg.Engine.ConvertTimezone(chrono.ConvertTimezoneRequest{
				Time:         in.Time,
				FromTimezone: in.FromTimezone,
				ToTimezone:   in.ToTimezone,
				Format:       in.Format,
				CustomFormat: string(in.CustomFormat),
			})
			if err != nil {
				return tool.Result{}, err
			}
			return tool.JSONResult(out)
		}).
		MustBuild()
}

// --- get_multiple_timezones ---

type multipleTimezonesInput struct {
	Timezones    []string     `json:"timezones"`
	Time         string       `json:"time"`
	Format       string       `json:"format"`
	CustomFormat customFormat `json:"customFormat"`
}

func multipleTimezonesTool(cfg *Config) tool.Tool {
	return tool.NewBuilder(ToolMultipleTimezones).
		WithDescription("Get the time in multiple timezones at once").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"timezones":    tool.ArrayProperty("Timezone names, e.g. ['America/New_York', 'Asia/Tokyo', 'Europe/London']", "string"),
			"time":         tool.Property("string", "Time to show (ISO 8601). Defaults to the current time."),
			"format":       formatProperty,
			"customFormat": customFormatProperty,
		}, []string{"timezones"})).
		ReadOnly().
		Idempotent().
		WithTags("timezone").
		WithHandler(func(_ context.Context, input json.RawMessage) (tool.Result, error) {
			var in multipleTimezonesInput
			if err := tool.DecodeArgs(input, &in); err != nil {
				return tool.Result{}, err
			}
			out, err := cfg.Engine.MultipleTimezones(chrono.MultipleTimezonesRequest{
				Timezones:    in.Timezones,
				Time:         in.Time,
				Format:       in.Format,
				CustomFormat: string(in.CustomFormat),
			})
			if err != nil {
				return tool.Result{}, err
			}
			return tool.JSONResult(out)
		}).
		MustBuild()
}

// --- get_business_days ---

type businessDaysInput struct {
	StartDate       string `json:"startDate"`
	Days            int    `json:"days"`
	ExcludeWeekends *bool  `json:"excludeWeekends"`
}

func businessDaysTool(cfg *Config) tool.Tool {
	return tool.NewBuilder(ToolBusinessDays).
		WithDescription("Calculate a future or past date by adding or subtracting business days (weekdays). " +
			"Use for questions like 'X business days from now' or 'X working days before a date'.").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"startDate":       tool.Property("string", "Starting date (ISO 8601)"),
			"days":            tool.Property("integer", "Number of business days to add (positive) or subtract (negative)"),
			"excludeWeekends": tool.Property("boolean", "Whether to skip Saturdays and Sundays (default: true)"),
		}, []string{"startDate", "days"})).
		ReadOnly().
		Idempotent().
		WithTags("calendar").
		WithHandler(func(_ context.Context, input json.RawMessage) (tool.Result, error) {
			var in businessDaysInput
			if err := tool.DecodeArgs(input, &in); err != nil {
				return tool.Result{}, err
			}
			out, err := cfg.Engine.BusinessDays(chrono.BusinessDaysRequest{
				StartDate:       in.StartDate,
				Days:            in.Days,
				ExcludeWeekends: in.ExcludeWeekends,
			})
			if err != nil {
				return tool.Result{}, err
			}
			return tool.JSONResult(out)
		}).
		MustBuild()
}

// --- next_occurrence ---

type nextOccurrenceInput struct {
	DayOfWeek  *int   `json:"dayOfWeek"`
	DayOfMonth *int   `json:"dayOfMonth"`
	Time       string `json:"time"`
	BaseTime   string `json:"baseTime"`
	Timezone   string `json:"timezone"`
}

func nextOccurrenceTool(cfg *Config) tool.Tool {
	return tool.NewBuilder(ToolNextOccurrence).
		WithDescription("Find the next occurrence of a day of week, day of month or time of day. " +
			"Use for questions like 'when is the next Monday', 'next Friday at 2pm' or 'when is the next 15th'.").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"dayOfWeek":  tool.Property("integer", "Day of week (0=Sunday, 1=Monday, ..., 6=Saturday)"),
			"dayOfMonth": tool.Property("integer", "Day of month (1-31)"),
			"time":       tool.Property("string", "Time of day in HH:mm format, e.g. \"14:30\""),
			"baseTime":   tool.Property("string", "Base time (ISO 8601). Defaults to the current time."),
			"timezone":   tool.Property("string", "Timezone for the calculation (e.g. 'America/New_York')"),
		}, nil)).
		ReadOnly().
		Idempotent().
		WithTags("calendar").
		WithHandler(func(_ context.Context, input json.RawMessage) (tool.Result, error) {
			var in nextOccurrenceInput
			if err := tool.DecodeArgs(input, &in); err != nil {
				return tool.Result{}, err
			}
			out, err := cfg.Engine.NextOccurrence(chrono.NextOccurrenceRequest{
				Pattern: chrono.OccurrencePattern{
					DayOfWeek:  in.DayOfWeek,
					DayOfMonth: in.DayOfMonth,
					TimeOfDay:  in.Time,
				},
				BaseTime: in.BaseTime,
				Timezone: in.Timezone,
			})
			if err != nil {
				return tool.Result{}, err
			}
			return tool.JSONResult(out)
		}).
		MustBuild()
}

// --- list_timezones ---

type listTimezonesInput struct {
	Region string `json:"region"`
}

type listTimezonesOutput struct {
	Timezones []tzdb.ZoneInfo `json:"timezones"`
	Regions   []string        `json:"regions"`
}

func listTimezonesTool(cfg *Config) tool.Tool {
	return tool.NewBuilder(ToolListTimezones).
		WithDescription("List commonly used timezones with their current UTC offset and abbreviation, optionally for one region").
		WithInputSchema(tool.ObjectSchema(map[string]json.RawMessage{
			"region": tool.EnumProperty("Restrict the list to one region", cfg.Catalog.Regions()...),
		}, nil)).
		ReadOnly().
		ReadsClock().
		WithTags("timezone", "catalog").
		WithHandler(func(_ context.Context, input json.RawMessage) (tool.Result, error) {
			var in listTimezonesInput
			if err := tool.DecodeArgs(input, &in); err != nil {
				return tool.Result{}, err
			}
			zones, err := cfg.Catalog.Snapshot(cfg.Engine.Now(), in.Region, cfg.Zones)
			if err != nil {
				return tool.Result{}, err
			}
			return tool.JSONResult(listTimezonesOutput{
				Timezones: zones,
				Regions:   cfg.Catalog.Regions(),
			})
		}).
		MustBuild()
}
