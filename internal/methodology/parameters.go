package methodology

import (
	"fmt"

	"github.com/rotisserie/eris"

	"feasibility_analysis/internal/psychro"
)

// Default operating constraints.
const (
	DefaultTSuMin = 16.0 // °C
	DefaultTSuMax = 20.0 // °C
	DefaultTReg   = 60.0 // °C
	DefaultTIn    = 24.0 // °C
	DefaultRHIn   = 0.5
)

// Parameters are the scalar operating constraints. Nil fields take defaults.
type Parameters struct {
	TSuMin *float64 // minimum supply temperature, °C
	TSuMax *float64 // maximum supply temperature, °C
	TReg   *float64 // desiccant regeneration temperature, °C
	TIn    *float64 // indoor temperature, °C
	RHIn   *float64 // indoor relative humidity, fraction
	WIn    *float64 // indoor humidity ratio, kg/kg
	TWbIn  *float64 // indoor wet-bulb temperature, °C
}

// Float returns a pointer to v, for building Parameters literals.
func Float(v float64) *float64 { return &v }

// Defaults are the values taken by parameters left nil. T_in and RH_in are
// only used when fewer than two indoor quantities are given.
type Defaults struct {
	TSuMin float64
	TSuMax float64
	TReg   float64
	TIn    float64
	RHIn   float64
}

// NominalDefaults returns the built-in defaults.
func NominalDefaults() Defaults {
	return Defaults{
		TSuMin: DefaultTSuMin,
		TSuMax: DefaultTSuMax,
		TReg:   DefaultTReg,
		TIn:    DefaultTIn,
		RHIn:   DefaultRHIn,
	}
}

// Resolved holds every parameter with defaults applied and the indoor
// humidity state derived.
type Resolved struct {
	TSuMin float64
	TSuMax float64
	TReg   float64
	TIn    float64
	RHIn   float64
	WIn    float64
	TWbIn  float64
	// Notes describes every default that was applied or value that was derived.
	Notes []string
}

type indoorQuantity struct {
	name     string
	prop     psychro.Property
	value    *float64
	fallback float64
	unit     string
}

// Resolve is ResolveWith using NominalDefaults.
func (p Parameters) Resolve(oracle psychro.Oracle) (Resolved, error) {
	return p.ResolveWith(oracle, NominalDefaults())
}

// ResolveWith applies d and derives the indoor humidity ratio and wet bulb
// when they are missing. Each missing quantity is evaluated once, from the
// first two known indoor quantities in the order T_in, RH_in, w_in, T_wb_in.
func (p Parameters) ResolveWith(oracle psychro.Oracle, d Defaults) (Resolved, error) {
	var r Resolved
	scalar := func(name string, v *float64, def float64) float64 {
		if v != nil {
			return *v
		}
		r.Notes = append(r.Notes, fmt.Sprintf("%s not provided, default %g°C applied", name, def))
		return def
	}
	r.TSuMin = scalar("T_su_min", p.TSuMin, d.TSuMin)
	r.TSuMax = scalar("T_su_max", p.TSuMax, d.TSuMax)
	r.TReg = scalar("T_reg", p.TReg, d.TReg)
	if r.TSuMin > r.TSuMax {
		return Resolved{}, eris.Wrapf(ErrConfig, "T_su_min %g above T_su_max %g", r.TSuMin, r.TSuMax)
	}

	indoor := []*indoorQuantity{
		{name: "T_in", prop: psychro.Temperature, value: p.TIn, fallback: d.TIn, unit: "°C"},
		{name: "RH_in", prop: psychro.RelativeHumidity, value: p.RHIn, fallback: d.RHIn, unit: ""},
		{name: "w_in", prop: psychro.HumidityRatio, value: p.WIn},
		{name: "T_wb_in", prop: psychro.WetBulb, value: p.TWbIn},
	}
	known := make([]*indoorQuantity, 0, len(indoor))
	for _, q := range indoor {
		if q.value != nil {
			known = append(known, q)
		}
	}
	for _, missing := range indoor[2:] {
		if missing.value != nil {
			continue
		}
		if len(known) < 2 {
			for _, q := range indoor[:2] {
				if q.value == nil {
					v := q.fallback
					q.value = &v
					known = append(known, q)
					r.Notes = append(r.Notes, fmt.Sprintf("%s not provided, default %g%s applied", q.name, q.fallback, q.unit))
				}
			}
		}
		a, b := known[0], known[1]
		v, err := oracle.Evaluate(missing.prop, a.prop, *a.value, b.prop, *b.value, psychro.StandardPressure)
		if err != nil {
			return Resolved{}, eris.Wrapf(ErrOracle, "derive %s from %s and %s: %v", missing.name, a.name, b.name, err)
		}
		missing.value = &v
		known = append(known, missing)
		r.Notes = append(r.Notes, fmt.Sprintf("%s derived from %s and %s: %.5g", missing.name, a.name, b.name, v))
	}

	r.TIn = valueOr(indoor[0].value, d.TIn)
	r.RHIn = valueOr(indoor[1].value, d.RHIn)
	r.WIn = *indoor[2].value
	r.TWbIn = *indoor[3].value
	return r, nil
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
