package methodology

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ComponentType is one of the four passive cooling devices the analysis knows.
type ComponentType string

const (
	// DEC is a direct evaporative cooler, rated by its wet-bulb efficiency.
	DEC ComponentType = "DEC"
	// IEC is an indirect evaporative cooler, rated by its secondary wet-bulb efficiency.
	IEC ComponentType = "IEC"
	// DIEC is a dew-point indirect evaporative cooler, rated by its dew-point efficiency.
	DIEC ComponentType = "D-IEC"
	// DW is a desiccant wheel, rated by its isenthalpic efficiency.
	DW ComponentType = "DW"
)

// componentOrder is the order components are listed in reports.
var componentOrder = []ComponentType{DEC, IEC, DIEC, DW}

// componentRequires lists, per component, the component whose boundary its mode is built from.
var componentRequires = map[ComponentType]ComponentType{
	IEC:  DEC,
	DW:   IEC,
	DIEC: DW,
}

// ParseComponentType accepts the canonical names, case-insensitively. "D_IEC" is
// accepted as an alias of "D-IEC".
func ParseComponentType(s string) (ComponentType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEC":
		return DEC, nil
	case "IEC":
		return IEC, nil
	case "D-IEC", "D_IEC", "DIEC":
		return DIEC, nil
	case "DW":
		return DW, nil
	}
	return "", eris.Wrapf(ErrConfig, "%q is not a valid component type", s)
}

// DefaultEfficiency is the nominal efficiency assumed when none is configured.
func DefaultEfficiency(t ComponentType) float64 {
	if t == IEC {
		return 0.75
	}
	return 0.85
}

// Component is an immutable device description.
type Component struct {
	kind       ComponentType
	efficiency float64
}

// NewComponent validates the type and an efficiency in (0, 1].
func NewComponent(t ComponentType, efficiency float64) (Component, error) {
	t, err := ParseComponentType(string(t))
	if err != nil {
		return Component{}, err
	}
	if !(efficiency > 0 && efficiency <= 1) {
		return Component{}, eris.Wrapf(ErrConfig, "%s efficiency %g outside (0, 1]", t, efficiency)
	}
	return Component{kind: t, efficiency: efficiency}, nil
}

// Type returns the component type.
func (c Component) Type() ComponentType { return c.kind }

// Efficiency returns the component efficiency.
func (c Component) Efficiency() float64 { return c.efficiency }

// LimitTemp returns the limit temperature reached for a supply temperature tSu
// and an exhaust temperature tEx.
//
// Evaporative coolers use a bypass efficiency (divisive); the desiccant wheel
// uses an isenthalpic efficiency (multiplicative).
func (c Component) LimitTemp(tSu, tEx float64) float64 {
	if c.kind == DW {
		return tSu + (tEx-tSu)*c.efficiency
	}
	return tSu + (tEx-tSu)/c.efficiency
}

// SupplyTemp is the inverse of LimitTemp for a fixed exhaust temperature.
// An efficiency of exactly 1 has no inverse.
func (c Component) SupplyTemp(tLim, tEx float64) (float64, error) {
	if c.efficiency >= 1 {
		return 0, eris.Wrapf(ErrConfig, "%s efficiency 1 has no supply temperature inverse", c.kind)
	}
	if c.kind == DW {
		return (tLim - c.efficiency*tEx) / (1 - c.efficiency), nil
	}
	return (tEx - c.efficiency*tLim) / (1 - c.efficiency), nil
}

// ComponentSet is a validated, read-only set of at most one component per type.
type ComponentSet struct {
	byType map[ComponentType]Component
}

// NewComponentSet validates uniqueness and the dependency chain DEC ← IEC ← DW ← D-IEC.
func NewComponentSet(components ...Component) (ComponentSet, error) {
	set := ComponentSet{byType: make(map[ComponentType]Component, len(components))}
	for _, c := range components {
		if c.kind == "" {
			return ComponentSet{}, eris.Wrap(ErrConfig, "component without type")
		}
		if _, dup := set.byType[c.kind]; dup {
			return ComponentSet{}, eris.Wrapf(ErrConfig, "component %s configured twice", c.kind)
		}
		set.byType[c.kind] = c
	}
	for t := range set.byType {
		if req, ok := componentRequires[t]; ok {
			if _, present := set.byType[req]; !present {
				return ComponentSet{}, eris.Wrapf(ErrMissingDependency, "%s requires %s", t, req)
			}
		}
	}
	return set, nil
}

// DefaultComponentSet returns DEC 0.85, IEC 0.75, D-IEC 0.85 and DW 0.85.
func DefaultComponentSet() ComponentSet {
	set := ComponentSet{byType: make(map[ComponentType]Component, len(componentOrder))}
	for _, t := range componentOrder {
		set.byType[t] = Component{kind: t, efficiency: DefaultEfficiency(t)}
	}
	return set
}

// Has reports whether a component of type t is configured.
func (s ComponentSet) Has(t ComponentType) bool {
	_, ok := s.byType[t]
	return ok
}

// Get returns the component of type t.
func (s ComponentSet) Get(t ComponentType) (Component, bool) {
	c, ok := s.byType[t]
	return c, ok
}

// Components lists the configured components in report order.
func (s ComponentSet) Components() []Component {
	out := make([]Component, 0, len(s.byType))
	for _, t := range componentOrder {
		if c, ok := s.byType[t]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of configured components.
func (s ComponentSet) Len() int { return len(s.byType) }
