package methodology

import "github.com/rotisserie/eris"

// DefaultComfortThreshold is the share of hours the recommended system must cover.
const DefaultComfortThreshold = 0.98

// Recommendation is the least equipped mode whose cumulative coverage passes
// the comfort threshold.
type Recommendation struct {
	Mode          Mode
	Components    []ComponentType
	ComfortHours  int
	Share         float64
	ActiveCooling bool
}

// Recommend walks the zones in priority order, accumulating hours, and stops
// at the first mode whose cumulative count exceeds threshold times the total.
// When only active cooling gets there, ActiveCooling is set and no passive
// components are listed.
func Recommend(r Result, threshold float64) (Recommendation, error) {
	if !(threshold > 0 && threshold <= 1) {
		return Recommendation{}, eris.Wrapf(ErrConfig, "comfort threshold %g outside (0, 1]", threshold)
	}
	if r.Hours == 0 || len(r.Zones) == 0 {
		return Recommendation{}, eris.Wrap(ErrConfig, "no classified hours to recommend from")
	}
	target := threshold * float64(r.Hours)
	comfort := 0
	var chosen Zone
	for _, z := range r.Zones {
		comfort += z.Count()
		chosen = z
		if float64(comfort) > target {
			break
		}
	}
	rec := Recommendation{
		Mode:          chosen.Mode,
		ComfortHours:  comfort,
		Share:         float64(comfort) / float64(r.Hours),
		ActiveCooling: chosen.Mode.Terminal(),
	}
	if !rec.ActiveCooling {
		rec.Components = chosen.Mode.Equipment()
	}
	return rec, nil
}
