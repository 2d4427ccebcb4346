package methodology

import (
	"feasibility_analysis/internal/psychro"
)

// Config describes one analysis: the installed components, the operating
// constraints and whether indoor humidification is acceptable.
type Config struct {
	Components ComponentSet
	Parameters Parameters
	// Defaults fill nil Parameters. Nil uses NominalDefaults.
	Defaults       *Defaults
	Humidification bool
	// Oracle evaluates humid-air properties. Nil uses psychro.New().
	Oracle psychro.Oracle
}

// Result maps every built mode to the hours it claimed.
type Result struct {
	Parameters Resolved
	Boundaries []ModeBoundary
	Zones      []Zone
	Hours      int
}

// Analyze resolves the parameters, builds the mode boundaries and partitions
// ds into disjoint zones whose union is every hour of ds.
//
// Without humidification, hours more humid than the indoor air are left out
// of the passive modes and counted as active cooling.
func Analyze(ds Dataset, cfg Config) (Result, error) {
	oracle := cfg.Oracle
	if oracle == nil {
		oracle = psychro.New()
	}
	defaults := NominalDefaults()
	if cfg.Defaults != nil {
		defaults = *cfg.Defaults
	}
	params, err := cfg.Parameters.ResolveWith(oracle, defaults)
	if err != nil {
		return Result{}, err
	}
	boundaries, err := BuildBoundaries(cfg.Components, params, cfg.Humidification, oracle)
	if err != nil {
		return Result{}, err
	}

	pool := FullPool(len(ds))
	var excluded Pool
	if !cfg.Humidification {
		excluded, pool = Classify(ds, General(0, params.WIn), pool)
	}
	zones, _ := Partition(ds, boundaries, pool)
	if n := len(zones); n > 0 && zones[n-1].Mode.Terminal() {
		zones[n-1].Hours = mergePools(zones[n-1].Hours, excluded)
	}
	return Result{
		Parameters: params,
		Boundaries: boundaries,
		Zones:      zones,
		Hours:      len(ds),
	}, nil
}

// Zone returns the zone of mode m, if it was built.
func (r Result) Zone(m Mode) (Zone, bool) {
	for _, z := range r.Zones {
		if z.Mode == m {
			return z, true
		}
	}
	return Zone{}, false
}

// Count returns the hours claimed by m; zero when m was not built.
func (r Result) Count(m Mode) int {
	z, _ := r.Zone(m)
	return z.Count()
}

// Counts returns the hour count per mode name for every built mode.
func (r Result) Counts() map[string]int {
	out := make(map[string]int, len(r.Zones))
	for _, z := range r.Zones {
		out[z.Mode.String()] = z.Count()
	}
	return out
}

// Boundary returns the boundary of mode m, if it was built.
func (r Result) Boundary(m Mode) (ModeBoundary, bool) {
	for _, b := range r.Boundaries {
		if b.Mode == m {
			return b, true
		}
	}
	return ModeBoundary{}, false
}
