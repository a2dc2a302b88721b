// Package tzdb provides the timezone database used by the time engine.
//
// The IANA database is embedded with time/tzdata so results do not depend
// on the zoneinfo files installed on the host.
package tzdb

import (
	"sync"
	"time"
	_ "time/tzdata"

	"github.com/felixgeelhaar/time-server/domain/chrono"
)

// Resolver loads timezone locations and caches them by name.
// It implements chrono.ZoneResolver and is safe for concurrent use.
type Resolver struct {
	mu    sync.RWMutex
	cache map[string]*time.Location
	load  func(string) (*time.Location, error)
}

// Ensure Resolver implements chrono.ZoneResolver.
var _ chrono.ZoneResolver = (*Resolver)(nil)

// NewResolver creates a Resolver backed by chrono.LoadLocation.
func NewResolver() *Resolver {
	return &Resolver{
		cache: make(map[string]*time.Location),
		load:  chrono.LoadLocation,
	}
}

// Resolve returns the location for name. Failed lookups are not cached.
func (r *Resolver) Resolve(name string) (*time.Location, error) {
	r.mu.RLock()
	loc, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return loc, nil
	}

	loc, err := r.load(name)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.cache[name] = loc
	r.mu.Unlock()
	return loc, nil
}

// Len returns the number of cached locations.
func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cache)
}
