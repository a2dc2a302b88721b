package tzdb

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/time-server/domain/chrono"
)

// ErrUnknownRegion indicates a region name that is not in the catalog.
var ErrUnknownRegion = errors.New("unknown region")

// Region groups commonly used timezones.
type Region struct {
	Name  string
	Zones []string
}

var commonRegions = []Region{
	{"North America", []string{
		"America/New_York", "America/Chicago", "America/Denver", "America/Los_Angeles",
		"America/Toronto", "America/Vancouver", "America/Mexico_City",
	}},
	{"South America", []string{
		"America/Sao_Paulo", "America/Buenos_Aires", "America/Santiago",
	}},
	{"Europe", []string{
		"Europe/London", "Europe/Paris", "Europe/Berlin", "Europe/Rome", "Europe/Madrid",
		"Europe/Amsterdam", "Europe/Brussels", "Europe/Vienna", "Europe/Stockholm", "Europe/Moscow",
	}},
	{"Asia", []string{
		"Asia/Shanghai", "Asia/Tokyo", "Asia/Hong_Kong", "Asia/Seoul", "Asia/Singapore",
		"Asia/Taipei", "Asia/Bangkok", "Asia/Jakarta", "Asia/Manila", "Asia/Kuala_Lumpur",
		"Asia/Dubai", "Asia/Kolkata", "Asia/Karachi",
	}},
	{"Oceania", []string{
		"Pacific/Auckland", "Australia/Sydney", "Australia/Melbourne", "Australia/Brisbane", "Australia/Perth",
	}},
	{"Africa", []string{
		"Africa/Cairo", "Africa/Johannesburg", "Africa/Lagos", "Africa/Nairobi",
	}},
	{"Other", []string{"UTC"}},
}

// Catalog is a read-only list of commonly used timezones grouped by region.
type Catalog struct {
	regions []Region
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	return &Catalog{regions: commonRegions}
}

// NewCatalog creates a catalog from regions.
func NewCatalog(regions []Region) *Catalog {
	return &Catalog{regions: regions}
}

// Regions returns the region names in catalog order.
func (c *Catalog) Regions() []string {
	names := make([]string, len(c.regions))
	for i, r := range c.regions {
		names[i] = r.Name
	}
	return names
}

// Zones returns the zones of region, matched case-insensitively.
// An empty region returns every zone in catalog order.
func (c *Catalog) Zones(region string) ([]string, error) {
	region = strings.TrimSpace(region)
	var zones []string
	for _, r := range c.regions {
		if region == "" || strings.EqualFold(r.Name, region) {
			zones = append(zones, r.Zones...)
			if region != "" {
				return zones, nil
			}
		}
	}
	if region != "" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRegion, region)
	}
	return zones, nil
}

// ZoneInfo describes one timezone at a point in time.
type ZoneInfo struct {
	Timezone     string `json:"timezone"`
	Region       string `json:"region"`
	UTCOffset    string `json:"utcOffset"`
	Abbreviation string `json:"abbreviation"`
}

// Snapshot describes the zones of region at t, resolving each through r.
func (c *Catalog) Snapshot(t time.Time, region string, r chrono.ZoneResolver) ([]ZoneInfo, error) {
	region = strings.TrimSpace(region)
	var out []ZoneInfo
	found := region == ""
	for _, reg := range c.regions {
		if region != "" && !strings.EqualFold(reg.Name, region) {
			continue
		}
		found = true
		for _, name := range reg.Zones {
			loc, err := r.Resolve(name)
			if err != nil {
				return nil, fmt.Errorf("resolve %s: %w", name, err)
			}
			out = append(out, ZoneInfo{
				Timezone:     name,
				Region:       reg.Name,
				UTCOffset:    chrono.UTCOffset(t, loc),
				Abbreviation: chrono.ZoneAbbreviation(t.In(loc)),
			})
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRegion, region)
	}
	return out, nil
}
