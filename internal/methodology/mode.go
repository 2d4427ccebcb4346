package methodology

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Mode is one of the nine operating modes, declared in priority order.
type Mode uint8

const (
	Heating Mode = iota
	Ventilation
	DirectEvaporative
	DirectEvaporativeHumidified
	IndirectEvaporative
	IndirectEvaporativeHumidified
	Desiccant
	DesiccantPreCooling
	ActiveCooling
)

var modeNames = [...]string{
	Heating:                       "Heating",
	Ventilation:                   "Ventilation",
	DirectEvaporative:             "DEC",
	DirectEvaporativeHumidified:   "DEC (hum)",
	IndirectEvaporative:           "IEC",
	IndirectEvaporativeHumidified: "IEC (hum)",
	Desiccant:                     "DECS",
	DesiccantPreCooling:           "DECS pre-cooling",
	ActiveCooling:                 "Active cooling",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "Mode(" + strconv.Itoa(int(m)) + ")"
}

// ParseMode resolves a mode by its report name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return Mode(m), nil
		}
	}
	return 0, eris.Wrapf(ErrConfig, "unknown mode %q", s)
}

// AllModes lists every mode in priority order.
func AllModes() []Mode {
	out := make([]Mode, len(modeNames))
	for i := range out {
		out[i] = Mode(i)
	}
	return out
}

// Terminal reports whether m absorbs every hour still unclassified.
func (m Mode) Terminal() bool { return m == ActiveCooling }

type modeSpec struct {
	gate       ComponentType // component whose presence enables the mode
	humidified bool          // built only when indoor humidification is accepted
	dependsOn  []Mode        // boundaries read while building this one
	equipment  []ComponentType
}

var modeGraph = map[Mode]modeSpec{
	Heating:     {},
	Ventilation: {},
	DirectEvaporative: {
		gate:      DEC,
		dependsOn: []Mode{Ventilation},
		equipment: []ComponentType{DEC},
	},
	DirectEvaporativeHumidified: {
		gate:       DEC,
		humidified: true,
		dependsOn:  []Mode{Ventilation, DirectEvaporative},
		equipment:  []ComponentType{DEC},
	},
	IndirectEvaporative: {
		gate:      IEC,
		dependsOn: []Mode{DirectEvaporative},
		equipment: []ComponentType{DEC, IEC},
	},
	IndirectEvaporativeHumidified: {
		gate:       IEC,
		humidified: true,
		dependsOn:  []Mode{Ventilation, DirectEvaporativeHumidified},
		equipment:  []ComponentType{DEC, IEC},
	},
	Desiccant: {
		gate:      DW,
		dependsOn: []Mode{IndirectEvaporative},
		equipment: []ComponentType{DEC, IEC, DW},
	},
	DesiccantPreCooling: {
		gate:      DIEC,
		dependsOn: []Mode{Desiccant},
		equipment: []ComponentType{DEC, IEC, DW, DIEC},
	},
	ActiveCooling: {},
}

// Equipment lists the components needed to operate in mode m.
func (m Mode) Equipment() []ComponentType {
	eq := modeGraph[m].equipment
	out := make([]ComponentType, len(eq))
	copy(out, eq)
	return out
}

// Sequence returns the modes to build for a component set, in priority order,
// and checks that every mode's dependencies are built before it.
func Sequence(set ComponentSet, humidification bool) ([]Mode, error) {
	seq := make([]Mode, 0, len(modeNames))
	built := make(map[Mode]bool, len(modeNames))
	for _, m := range AllModes() {
		spec := modeGraph[m]
		if spec.gate != "" && !set.Has(spec.gate) {
			continue
		}
		if spec.humidified && !humidification {
			continue
		}
		for _, dep := range spec.dependsOn {
			if !built[dep] {
				return nil, eris.Wrapf(ErrMissingDependency, "%s needs the %s boundary", m, dep)
			}
		}
		seq = append(seq, m)
		built[m] = true
	}
	return seq, nil
}
