package chrono_test

import (
	"errors"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/felixgeelhaar/time-server/domain/chrono"
)

// newEngine returns an engine frozen at now with UTC as the default location.
func newEngine(t *testing.T, now string) *chrono.Engine {
	t.Helper()
	ts, err := time.Parse(time.RFC3339Nano, now)
	if err != nil {
		t.Fatalf("parse %q: %v", now, err)
	}
	return chrono.NewEngine(
		chrono.WithClock(chrono.FixedClock{T: ts}),
		chrono.WithDefaultLocation(time.UTC),
	)
}

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }

func TestEngine_ValidateTimezone(t *testing.T) {
	t.Parallel()

	e := newEngine(t, "2024-01-15T10:00:00Z")

	tests := []struct {
		name    string
		zone    string
		wantErr bool
	}{
		{"utc", "UTC", false},
		{"iana", "America/New_York", false},
		{"local sentinel", "local", false},
		{"empty means local", "", false},
		{"unknown", "Mars/Olympus_Mons", true},
		{"go Local keyword", "Local", true},
		{"sentinel is case-sensitive", "LOCAL", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := e.ValidateTimezone(tt.zone)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateTimezone(%q) error = %v, wantErr %v", tt.zone, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, chrono.ErrInvalidTimezone) {
				t.Errorf("error = %v, want ErrInvalidTimezone", err)
			}
		})
	}
}

func TestEngine_ZoneResolverInjected(t *testing.T) {
	t.Parallel()

	fixed := time.FixedZone("TST", 3*3600)
	e := chrono.NewEngine(
		chrono.WithClock(chrono.FixedClock{T: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)}),
		chrono.WithZoneResolver(chrono.ZoneResolverFunc(func(name string) (*time.Location, error) {
			if name == "Test/Zone" {
				return fixed, nil
			}
			return nil, chrono.ErrInvalidTimezone
		})),
	)

	got, err := e.CurrentTime(chrono.CurrentTimeRequest{Timezone: "Test/Zone"})
	if err != nil {
		t.Fatalf("CurrentTime() error = %v", err)
	}
	if got.Time != "2024-01-15, 13:00:00" {
		t.Errorf("Time = %q, want %q", got.Time, "2024-01-15, 13:00:00")
	}

	if _, err := e.CurrentTime(chrono.CurrentTimeRequest{Timezone: "UTC"}); !errors.Is(err, chrono.ErrInvalidTimezone) {
		t.Errorf("resolver rejection not honored, err = %v", err)
	}
}

func TestEngine_ParseInstant(t *testing.T) {
	t.Parallel()

	e := newEngine(t, "2024-01-15T10:00:00Z")

	tests := []struct {
		input string
		want  string
	}{
		{"2024-01-15T12:00:00Z", "2024-01-15T12:00:00.000Z"},
		{"2024-01-15T12:00:00.123456Z", "2024-01-15T12:00:00.123Z"},
		{"2024-01-15T12:00:00+02:00", "2024-01-15T10:00:00.000Z"},
		{"2024-01-15T12:00:00", "2024-01-15T12:00:00.000Z"},
		{"2024-01-15T12:00", "2024-01-15T12:00:00.000Z"},
		{"2024-01-15 12:00:00", "2024-01-15T12:00:00.000Z"},
		{"2024-01-15", "2024-01-15T00:00:00.000Z"},
		{"Mon, 15 Jan 2024 12:00:00 GMT", "2024-01-15T12:00:00.000Z"},
		{"January 15, 2024", "2024-01-15T00:00:00.000Z"},
		{"01/15/2024", "2024-01-15T00:00:00.000Z"},
		{"  2024-01-15T12:00:00Z  ", "2024-01-15T12:00:00.000Z"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got, err := e.ParseInstant(tt.input)
			if err != nil {
				t.Fatalf("ParseInstant(%q) error = %v", tt.input, err)
			}
			if s := chrono.ISOString(got); s != tt.want {
				t.Errorf("ParseInstant(%q) = %s, want %s", tt.input, s, tt.want)
			}
		})
	}

	for _, bad := range []string{"", "not a date", "2024-13-45", "tomorrow"} {
		if _, err := e.ParseInstant(bad); !errors.Is(err, chrono.ErrInvalidInstant) {
			t.Errorf("ParseInstant(%q) error = %v, want ErrInvalidInstant", bad, err)
		}
	}
}

func TestError_Message(t *testing.T) {
	t.Parallel()

	e := newEngine(t, "2024-01-15T10:00:00Z")

	_, err := e.AddTime(chrono.AddTimeRequest{Amount: 1, Unit: "fortnights"})
	if err == nil {
		t.Fatal("expected error")
	}

	var ce *chrono.Error
	if !errors.As(err, &ce) {
		t.Fatalf("error type = %T, want *chrono.Error", err)
	}
	if ce.Op != chrono.OpAddTime || ce.Field != "unit" || ce.Value != "fortnights" {
		t.Errorf("Error = %+v", ce)
	}
	msg := err.Error()
	for _, part := range []string{"add_time", "unit", "fortnights"} {
		if !strings.Contains(msg, part) {
			t.Errorf("message %q does not mention %q", msg, part)
		}
	}
}
