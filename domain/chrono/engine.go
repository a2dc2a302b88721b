// Package chrono implements time computations: unit conversion, date
// arithmetic, timezone-aware formatting, business-day counting and the
// bounded search for the next date matching a calendar pattern.
//
// All operations are synchronous and stateless. The current instant and the
// timezone database are injected through Clock and ZoneResolver.
package chrono

import (
	"strings"
	"time"
)

// Engine evaluates time operations against an injected clock and zone database.
type Engine struct {
	clock Clock
	zones ZoneResolver
	local *time.Location
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the source of the current instant.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithZoneResolver sets the timezone database.
func WithZoneResolver(r ZoneResolver) Option {
	return func(e *Engine) {
		if r != nil {
			e.zones = r
		}
	}
}

// WithDefaultLocation sets the location used where the host default applies:
// readable output without a timezone, parsing offset-less strings, stepping
// business days and "local" occurrence searches.
func WithDefaultLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.local = loc
		}
	}
}

// NewEngine creates an Engine. Defaults are the system clock,
// time.LoadLocation and time.Local.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		clock: SystemClock{},
		zones: ZoneResolverFunc(LoadLocation),
		local: time.Local,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Now returns the engine clock's current instant.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// DefaultLocation returns the location standing in for the host default.
func (e *Engine) DefaultLocation() *time.Location {
	return e.local
}

// ValidateTimezone reports whether name is accepted by the zone database.
// The "local" sentinel is always valid.
func (e *Engine) ValidateTimezone(name string) error {
	_, err := e.zone(name, "timezone")
	return err
}

// zone resolves name for field. A nil location means no timezone was given.
func (e *Engine) zone(name, field string) (*time.Location, error) {
	if IsLocal(name) {
		return nil, nil
	}
	loc, err := e.zones.Resolve(strings.TrimSpace(name))
	if err != nil || loc == nil {
		return nil, newError("", field, name, ErrInvalidTimezone)
	}
	return loc, nil
}

// orLocal returns loc, or the default location when loc is nil.
func (e *Engine) orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return e.local
	}
	return loc
}

// zoneLabel echoes a timezone argument, defaulting to the "local" sentinel.
func zoneLabel(name string) string {
	if IsLocal(name) {
		return Local
	}
	return strings.TrimSpace(name)
}
