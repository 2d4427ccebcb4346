package methodology

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"

	"feasibility_analysis/internal/psychro"
)

// activeCoolingCeiling is a humidity ratio no outdoor sample reaches.
const activeCoolingCeiling = 0.05

// ModeBoundary is the boundary line of a mode and the two reference points
// that delimit it on a psychrometric chart.
type ModeBoundary struct {
	Mode   Mode
	Line   Line
	Ref    [2]Point
	Legend string
}

type builder struct {
	set    ComponentSet
	params Resolved
	oracle psychro.Oracle
	built  map[Mode]ModeBoundary
}

// BuildBoundaries constructs the boundary of every mode enabled by the
// component set, in priority order. A failure aborts the whole chain since
// later boundaries are built from earlier ones.
func BuildBoundaries(set ComponentSet, params Resolved, humidification bool, oracle psychro.Oracle) ([]ModeBoundary, error) {
	seq, err := Sequence(set, humidification)
	if err != nil {
		return nil, err
	}
	b := &builder{set: set, params: params, oracle: oracle, built: make(map[Mode]ModeBoundary, len(seq))}
	out := make([]ModeBoundary, 0, len(seq))
	for _, m := range seq {
		mb, err := b.build(m)
		if err != nil {
			return nil, eris.Wrapf(err, "build %s boundary", m)
		}
		if !mb.Ref[0].valid() || !mb.Ref[1].valid() {
			return nil, eris.Wrapf(ErrInvalidGeometry, "%s boundary has non-finite reference points", m)
		}
		b.built[m] = mb
		out = append(out, mb)
	}
	return out, nil
}

func (b *builder) build(m Mode) (ModeBoundary, error) {
	switch m {
	case Heating:
		return b.supplyLimit(Heating, b.params.TSuMin, "T_su,min")
	case Ventilation:
		return b.supplyLimit(Ventilation, b.params.TSuMax, "T_su,max")
	case DirectEvaporative:
		return b.directEvaporative()
	case DirectEvaporativeHumidified:
		return b.directEvaporativeHumidified()
	case IndirectEvaporative:
		return b.indirectEvaporative()
	case IndirectEvaporativeHumidified:
		return b.indirectEvaporativeHumidified()
	case Desiccant:
		return b.desiccant()
	case DesiccantPreCooling:
		return b.desiccantPreCooling()
	case ActiveCooling:
		return ModeBoundary{
			Mode:   ActiveCooling,
			Line:   General(0, activeCoolingCeiling),
			Ref:    [2]Point{{T: curveSearchMin, W: activeCoolingCeiling}, {T: curveSearchMax, W: activeCoolingCeiling}},
			Legend: "Active cooling",
		}, nil
	}
	return ModeBoundary{}, eris.Wrapf(ErrConfig, "no boundary rule for %s", m)
}

// supplyLimit is a vertical line at a supply temperature, drawn from dry air to saturation.
func (b *builder) supplyLimit(m Mode, t float64, label string) (ModeBoundary, error) {
	ws, err := b.eval(psychro.HumidityRatio, psychro.Temperature, t, psychro.RelativeHumidity, 1)
	if err != nil {
		return ModeBoundary{}, err
	}
	return ModeBoundary{
		Mode:   m,
		Line:   Vertical(t),
		Ref:    [2]Point{{T: t, W: 0}, {T: t, W: ws}},
		Legend: fmt.Sprintf("%s = %g°C", label, t),
	}, nil
}

// directEvaporative follows the wet-bulb line through (T_su,max, w_in) down to dry air.
func (b *builder) directEvaporative() (ModeBoundary, error) {
	t1, w1, w2 := b.params.TSuMax, b.params.WIn, 0.0
	twbMax, err := b.eval(psychro.WetBulb, psychro.Temperature, t1, psychro.HumidityRatio, w1)
	if err != nil {
		return ModeBoundary{}, err
	}
	t2, err := b.eval(psychro.Temperature, psychro.WetBulb, twbMax, psychro.HumidityRatio, w2)
	if err != nil {
		return ModeBoundary{}, err
	}
	line, err := LinearInterp(t1, w1, t2, w2)
	if err != nil {
		return ModeBoundary{}, err
	}
	rt, rw, err := Intersect(b.built[Ventilation].Line, line)
	if err != nil {
		return ModeBoundary{}, err
	}
	return ModeBoundary{
		Mode:   DirectEvaporative,
		Line:   line,
		Ref:    [2]Point{{T: rt, W: rw}, {T: t2, W: w2}},
		Legend: fmt.Sprintf("T_wb,max = %.2f°C", twbMax),
	}, nil
}

// directEvaporativeHumidified starts at saturation on T_su,max and follows the
// DEC efficiency 5 K above it.
func (b *builder) directEvaporativeHumidified() (ModeBoundary, error) {
	dec, _ := b.set.Get(DEC)
	t1 := b.params.TSuMax
	w1 := b.built[Ventilation].Ref[1].W
	t2 := t1 + 5
	twbMax := dec.LimitTemp(t2, b.params.TSuMax)
	w2, err := b.eval(psychro.HumidityRatio, psychro.WetBulb, twbMax, psychro.Temperature, t2)
	if err != nil {
		return ModeBoundary{}, err
	}
	line, err := LinearInterp(t1, w1, t2, w2)
	if err != nil {
		return ModeBoundary{}, err
	}
	rt, rw, err := Intersect(line, b.built[DirectEvaporative].Line)
	if err != nil {
		return ModeBoundary{}, err
	}
	return ModeBoundary{
		Mode:   DirectEvaporativeHumidified,
		Line:   line,
		Ref:    [2]Point{{T: t1, W: w1}, {T: rt, W: rw}},
		Legend: fmt.Sprintf("ε_wb,DEC = %g", dec.Efficiency()),
	}, nil
}

// indirectEvaporative pre-cools sensibly ahead of the DEC inlet; the minimum
// reachable secondary temperature is the indoor wet bulb.
func (b *builder) indirectEvaporative() (ModeBoundary, error) {
	iec, _ := b.set.Get(IEC)
	t1, w1, w2 := b.params.TSuMax, b.params.WIn, 0.0
	tEx, err := b.built[DirectEvaporative].Line.TemperatureAt(w2)
	if err != nil {
		return ModeBoundary{}, err
	}
	t2, err := iec.SupplyTemp(b.params.TWbIn, tEx)
	if err != nil {
		return ModeBoundary{}, err
	}
	line, err := LinearInterp(t1, w1, t2, w2)
	if err != nil {
		return ModeBoundary{}, err
	}
	ref, ok := b.built[DirectEvaporativeHumidified]
	if !ok {
		ref = b.built[Ventilation]
	}
	rt, rw, err := Intersect(line, ref.Line)
	if err != nil {
		return ModeBoundary{}, err
	}
	return ModeBoundary{
		Mode:   IndirectEvaporative,
		Line:   line,
		Ref:    [2]Point{{T: rt, W: rw}, {T: t2, W: w2}},
		Legend: fmt.Sprintf("ε_wb,s,IEC = %g", iec.Efficiency()),
	}, nil
}

func (b *builder) indirectEvaporativeHumidified() (ModeBoundary, error) {
	iec, _ := b.set.Get(IEC)
	t1 := b.params.TSuMax
	w1 := b.built[Ventilation].Ref[1].W
	w2 := 0.0
	tEx, err := b.built[DirectEvaporativeHumidified].Line.TemperatureAt(w2)
	if err != nil {
		return ModeBoundary{}, err
	}
	t2, err := iec.SupplyTemp(b.params.TWbIn, tEx)
	if err != nil {
		return ModeBoundary{}, err
	}
	line, err := LinearInterp(t1, w1, t2, w2)
	if err != nil {
		return ModeBoundary{}, err
	}
	return ModeBoundary{
		Mode:   IndirectEvaporativeHumidified,
		Line:   line,
		Ref:    [2]Point{{T: t1, W: w1}, {T: t2, W: w2}},
		Legend: fmt.Sprintf("ε_wb,s,IEC = %g (hum)", iec.Efficiency()),
	}, nil
}

// desiccant models the wheel with a 10 K pinch below the regeneration
// temperature and an isenthalpic efficiency, closed off at saturation.
func (b *builder) desiccant() (ModeBoundary, error) {
	dw, _ := b.set.Get(DW)
	tEx := b.params.TReg - 10
	t1 := tEx
	src, ok := b.built[IndirectEvaporativeHumidified]
	if !ok {
		src = b.built[IndirectEvaporative]
	}
	w1, err := src.Line.HumidityAt(t1)
	if err != nil {
		return ModeBoundary{}, err
	}
	t2 := t1 - 10
	t2h := dw.LimitTemp(t2, tEx)
	h2, err := b.eval(psychro.Enthalpy, psychro.Temperature, t2h, psychro.HumidityRatio, w1)
	if err != nil {
		return ModeBoundary{}, err
	}
	w2, err := b.eval(psychro.HumidityRatio, psychro.Temperature, t2, psychro.Enthalpy, h2)
	if err != nil {
		return ModeBoundary{}, err
	}
	line, err := LinearInterp(t1, w1, t2, w2)
	if err != nil {
		return ModeBoundary{}, err
	}
	ct, cw, err := CurveIntersection(line)
	if err != nil {
		return ModeBoundary{}, err
	}
	return ModeBoundary{
		Mode:   Desiccant,
		Line:   line,
		Ref:    [2]Point{{T: t1, W: w1}, {T: ct, W: cw}},
		Legend: fmt.Sprintf("ε_h,DW = %g", dw.Efficiency()),
	}, nil
}

// desiccantPreCooling adds a dew-point cooler ahead of the wheel; its limit is
// the dew point of indoor air at the wheel inlet.
func (b *builder) desiccantPreCooling() (ModeBoundary, error) {
	diec, _ := b.set.Get(DIEC)
	decs := b.built[Desiccant]
	t1 := math.Min(decs.Ref[0].T, decs.Ref[1].T)
	w1 := math.Max(decs.Ref[0].W, decs.Ref[1].W)
	w2 := b.params.WIn
	tEx, err := decs.Line.TemperatureAt(w2)
	if err != nil {
		return ModeBoundary{}, err
	}
	tdp, err := b.eval(psychro.DewPoint, psychro.HumidityRatio, w2, psychro.Temperature, tEx)
	if err != nil {
		return ModeBoundary{}, err
	}
	t2, err := diec.SupplyTemp(tdp, tEx)
	if err != nil {
		return ModeBoundary{}, err
	}
	line, err := LinearInterp(t1, w1, t2, w2)
	if err != nil {
		return ModeBoundary{}, err
	}
	return ModeBoundary{
		Mode:   DesiccantPreCooling,
		Line:   line,
		Ref:    [2]Point{{T: t1, W: w1}, {T: t2, W: w2}},
		Legend: fmt.Sprintf("ε_dp,D-IEC = %g", diec.Efficiency()),
	}, nil
}

func (b *builder) eval(target, k1 psychro.Property, v1 float64, k2 psychro.Property, v2 float64) (float64, error) {
	v, err := b.oracle.Evaluate(target, k1, v1, k2, v2, psychro.StandardPressure)
	if err != nil {
		return 0, eris.Wrapf(ErrOracle, "%s from %s=%g, %s=%g: %v", target, k1, v1, k2, v2, err)
	}
	return v, nil
}
