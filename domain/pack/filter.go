package pack

// Filter selects which pack tools are installed.
type Filter struct {
	// Enabled limits installation to these names. Empty means all.
	Enabled []string
	// Disabled excludes these names.
	Disabled []string
}

// Allows reports whether the tool named name passes the filter.
func (f Filter) Allows(name string) bool {
	for _, d := range f.Disabled {
		if d == name {
			return false
		}
	}
	if len(f.Enabled) == 0 {
		return true
	}
	for _, e := range f.Enabled {
		if e == name {
			return true
		}
	}
	return false
}

// Unknown returns the names referenced by the filter that are not in known.
func (f Filter) Unknown(known []string) []string {
	set := make(map[string]bool, len(known))
	for _, k := range known {
		set[k] = true
	}
	var unknown []string
	seen := make(map[string]bool)
	for _, names := range [][]string{f.Enabled, f.Disabled} {
		for _, n := range names {
			if !set[n] && !seen[n] {
				seen[n] = true
				unknown = append(unknown, n)
			}
		}
	}
	return unknown
}
