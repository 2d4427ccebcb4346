package methodology

// Sample is one hour of outdoor air.
type Sample struct {
	T float64 // dry bulb, °C
	W float64 // humidity ratio, kg/kg
}

// Dataset is a chronological hourly record; the index is the hour of record.
type Dataset []Sample

// Pool is an ascending set of hour indices.
type Pool []int

// FullPool returns every index of an n-hour dataset.
func FullPool(n int) Pool {
	p := make(Pool, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// Len returns the number of hours in the pool.
func (p Pool) Len() int { return len(p) }

// Classify splits pool by the boundary predicate of l. Hours satisfying it are
// returned as the zone, the rest as the remaining pool. Both results are fresh
// slices; pool is not retained or modified. Indices outside ds stay in the
// remaining pool.
func Classify(ds Dataset, l Line, pool Pool) (remaining, zone Pool) {
	remaining = make(Pool, 0, len(pool))
	zone = make(Pool, 0)
	for _, h := range pool {
		if h >= 0 && h < len(ds) && l.Below(ds[h].T, ds[h].W) {
			zone = append(zone, h)
			continue
		}
		remaining = append(remaining, h)
	}
	return remaining, zone
}

// Zone is the set of hours a mode claimed.
type Zone struct {
	Mode  Mode
	Hours Pool
}

// Count returns the number of hours in the zone.
func (z Zone) Count() int { return len(z.Hours) }

// Partition runs the boundaries in the given priority order. Each hour is
// claimed by the first boundary whose predicate it satisfies; a terminal mode
// claims everything left. The pool left after the last boundary is returned.
func Partition(ds Dataset, boundaries []ModeBoundary, pool Pool) ([]Zone, Pool) {
	zones := make([]Zone, 0, len(boundaries))
	for _, b := range boundaries {
		var claimed Pool
		if b.Mode.Terminal() {
			claimed, pool = pool, Pool{}
		} else {
			pool, claimed = Classify(ds, b.Line, pool)
		}
		zones = append(zones, Zone{Mode: b.Mode, Hours: claimed})
	}
	return zones, pool
}

// mergePools merges two ascending, disjoint pools.
func mergePools(a, b Pool) Pool {
	out := make(Pool, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] < b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}
