// Package psychro evaluates humid-air properties from any two independent
// properties at a given total pressure.
//
// Units: temperatures in °C, humidity ratio in kg/kg dry air, relative
// humidity as a fraction, enthalpy in J/kg dry air, pressure in Pa.
package psychro

import (
	"math"

	"github.com/rotisserie/eris"
)

// Property identifies a humid-air property.
type Property string

// Property codes accepted by Evaluate.
const (
	Temperature      Property = "T"
	HumidityRatio    Property = "W"
	RelativeHumidity Property = "RH"
	WetBulb          Property = "B"
	Enthalpy         Property = "H"
	DewPoint         Property = "D"
)

// StandardPressure is the sea-level atmospheric pressure in Pa.
const StandardPressure = 101325.0

var (
	// ErrOutOfRange is returned when an input or derived state lies outside the model's validity.
	ErrOutOfRange = eris.New("psychro: property out of range")
	// ErrUnsupportedInputs is returned for property pairs that do not fix a state.
	ErrUnsupportedInputs = eris.New("psychro: unsupported input pair")
)

// Oracle evaluates a target property from two known properties.
type Oracle interface {
	Evaluate(target, k1 Property, v1 float64, k2 Property, v2 float64, pressure float64) (float64, error)
}

// Model implements Oracle with the ASHRAE Fundamentals ideal-gas formulation
// and the Hyland-Wexler saturation pressure correlations.
type Model struct{}

// New returns a psychrometric model.
func New() *Model { return &Model{} }

var _ Oracle = (*Model)(nil)

const (
	kelvin      = 273.15
	molarRatio  = 0.621945
	minTempC    = -100.0
	maxTempC    = 200.0
	cpAir       = 1006.0    // J/(kg K)
	cpVapor     = 1860.0    // J/(kg K)
	latentHeat  = 2501000.0 // J/kg at 0 °C
	solveTol    = 1e-9
	solveRounds = 200
)

// Evaluate returns the target property for the state fixed by (k1, v1) and (k2, v2).
func (m *Model) Evaluate(target, k1 Property, v1 float64, k2 Property, v2 float64, pressure float64) (float64, error) {
	if pressure <= 0 || math.IsNaN(pressure) {
		return 0, eris.Wrapf(ErrOutOfRange, "pressure %g Pa", pressure)
	}
	t, w, err := state(k1, v1, k2, v2, pressure)
	if err != nil {
		return 0, err
	}
	return derive(target, t, w, pressure)
}

// state reduces a pair of known properties to dry-bulb temperature and humidity ratio.
func state(k1 Property, v1 float64, k2 Property, v2 float64, p float64) (float64, float64, error) {
	known := map[Property]float64{k1: v1, k2: v2}
	if k1 == k2 || len(known) != 2 {
		return 0, 0, eris.Wrapf(ErrUnsupportedInputs, "%s and %s", k1, k2)
	}
	for k, v := range known {
		if err := checkInput(k, v); err != nil {
			return 0, 0, err
		}
	}

	has := func(a, b Property) bool {
		_, okA := known[a]
		_, okB := known[b]
		return okA && okB
	}

	switch {
	case has(Temperature, HumidityRatio):
		t, w := known[Temperature], known[HumidityRatio]
		return t, w, checkVapor(w, p)

	case has(Temperature, RelativeHumidity):
		t := known[Temperature]
		pw := known[RelativeHumidity] * saturationPressure(t)
		if pw >= p {
			return 0, 0, eris.Wrapf(ErrOutOfRange, "vapour pressure %.1f Pa exceeds total pressure", pw)
		}
		return t, humidityRatio(pw, p), nil

	case has(Temperature, WetBulb):
		t, tw := known[Temperature], known[WetBulb]
		if tw > t+1e-9 {
			return 0, 0, eris.Wrapf(ErrOutOfRange, "wet bulb %.3f°C above dry bulb %.3f°C", tw, t)
		}
		w := wetBulbHumidityRatio(t, tw, p)
		if w < 0 {
			return 0, 0, eris.Wrapf(ErrOutOfRange, "wet bulb %.3f°C too low for dry bulb %.3f°C", tw, t)
		}
		return t, w, nil

	case has(Temperature, DewPoint):
		t, td := known[Temperature], known[DewPoint]
		if td > t+1e-9 {
			return 0, 0, eris.Wrapf(ErrOutOfRange, "dew point %.3f°C above dry bulb %.3f°C", td, t)
		}
		pw := saturationPressure(td)
		if pw >= p {
			return 0, 0, eris.Wrapf(ErrOutOfRange, "dew point %.3f°C", td)
		}
		return t, humidityRatio(pw, p), nil

	case has(Temperature, Enthalpy):
		t, h := known[Temperature], known[Enthalpy]
		w := (h - cpAir*t) / (latentHeat + cpVapor*t)
		if w < 0 {
			return 0, 0, eris.Wrapf(ErrOutOfRange, "enthalpy %.1f J/kg below dry air at %.3f°C", h, t)
		}
		return t, w, checkVapor(w, p)

	case has(WetBulb, HumidityRatio):
		tw, w := known[WetBulb], known[HumidityRatio]
		if err := checkVapor(w, p); err != nil {
			return 0, 0, err
		}
		t := dryBulbFromWetBulb(tw, w, p)
		if err := checkTemperature(t); err != nil {
			return 0, 0, err
		}
		return t, w, nil

	case has(HumidityRatio, Enthalpy):
		w, h := known[HumidityRatio], known[Enthalpy]
		if err := checkVapor(w, p); err != nil {
			return 0, 0, err
		}
		t := (h - latentHeat*w) / (cpAir + cpVapor*w)
		if err := checkTemperature(t); err != nil {
			return 0, 0, err
		}
		return t, w, nil

	case has(RelativeHumidity, HumidityRatio):
		rh, w := known[RelativeHumidity], known[HumidityRatio]
		if rh == 0 {
			return 0, 0, eris.Wrap(ErrOutOfRange, "relative humidity 0 does not fix a temperature")
		}
		if err := checkVapor(w, p); err != nil {
			return 0, 0, err
		}
		t, err := saturationTemperature(vaporPressure(w, p) / rh)
		if err != nil {
			return 0, 0, err
		}
		return t, w, nil
	}

	return 0, 0, eris.Wrapf(ErrUnsupportedInputs, "%s and %s", k1, k2)
}

// derive computes the target property from a (T, W) state.
func derive(target Property, t, w, p float64) (float64, error) {
	switch target {
	case Temperature:
		return t, nil
	case HumidityRatio:
		return w, nil
	case RelativeHumidity:
		return vaporPressure(w, p) / saturationPressure(t), nil
	case Enthalpy:
		return enthalpy(t, w), nil
	case WetBulb:
		return wetBulb(t, w, p)
	case DewPoint:
		pw := vaporPressure(w, p)
		if pw <= 0 {
			return 0, eris.Wrap(ErrOutOfRange, "dew point undefined for dry air")
		}
		return saturationTemperature(pw)
	}
	return 0, eris.Wrapf(ErrUnsupportedInputs, "target %q", string(target))
}

func checkInput(k Property, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return eris.Wrapf(ErrOutOfRange, "%s=%v", k, v)
	}
	switch k {
	case Temperature, WetBulb, DewPoint:
		return checkTemperature(v)
	case HumidityRatio:
		if v < 0 {
			return eris.Wrapf(ErrOutOfRange, "humidity ratio %g", v)
		}
	case RelativeHumidity:
		if v < 0 || v > 1 {
			return eris.Wrapf(ErrOutOfRange, "relative humidity %g", v)
		}
	case Enthalpy:
	default:
		return eris.Wrapf(ErrUnsupportedInputs, "property %q", string(k))
	}
	return nil
}

func checkTemperature(t float64) error {
	if t < minTempC || t > maxTempC {
		return eris.Wrapf(ErrOutOfRange, "temperature %.3f°C outside [%g, %g]", t, minTempC, maxTempC)
	}
	return nil
}

func checkVapor(w, p float64) error {
	if w < 0 {
		return eris.Wrapf(ErrOutOfRange, "humidity ratio %g", w)
	}
	if vaporPressure(w, p) >= p {
		return eris.Wrapf(ErrOutOfRange, "humidity ratio %g at %g Pa", w, p)
	}
	return nil
}

// Hyland-Wexler coefficients, ASHRAE Fundamentals ch. 1 eq. 5 and 6.
const (
	c1  = -5.6745359e3
	c2  = 6.3925247
	c3  = -9.6778430e-3
	c4  = 6.2215701e-7
	c5  = 2.0747825e-9
	c6  = -9.4840240e-13
	c7  = 4.1635019
	c8  = -5.8002206e3
	c9  = 1.3914993
	c10 = -4.8640239e-2
	c11 = 4.1764768e-5
	c12 = -1.4452093e-8
	c13 = 6.5459673
)

// saturationPressure returns the saturation pressure in Pa over ice below 0 °C and over water above.
func saturationPressure(t float64) float64 {
	tk := t + kelvin
	if t < 0 {
		return math.Exp(c1/tk + c2 + c3*tk + c4*tk*tk + c5*tk*tk*tk + c6*tk*tk*tk*tk + c7*math.Log(tk))
	}
	return math.Exp(c8/tk + c9 + c10*tk + c11*tk*tk + c12*tk*tk*tk + c13*math.Log(tk))
}

// saturationTemperature inverts saturationPressure by bisection.
func saturationTemperature(pw float64) (float64, error) {
	lo, hi := minTempC, maxTempC
	if pw < saturationPressure(lo) || pw > saturationPressure(hi) {
		return 0, eris.Wrapf(ErrOutOfRange, "vapour pressure %g Pa", pw)
	}
	for i := 0; i < solveRounds && hi-lo > solveTol; i++ {
		mid := (lo + hi) / 2
		if saturationPressure(mid) < pw {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}

func humidityRatio(pw, p float64) float64 { return molarRatio * pw / (p - pw) }

func vaporPressure(w, p float64) float64 { return p * w / (molarRatio + w) }

func enthalpy(t, w float64) float64 { return cpAir*t + w*(latentHeat+cpVapor*t) }

// wetBulbHumidityRatio is the psychrometer equation, ASHRAE Fundamentals ch. 1 eq. 33 and 35.
func wetBulbHumidityRatio(t, tw, p float64) float64 {
	ws := humidityRatio(saturationPressure(tw), p)
	if tw < 0 {
		return ((2830-0.24*tw)*ws - 1.006*(t-tw)) / (2830 + 1.86*t - 2.1*tw)
	}
	return ((2501-2.326*tw)*ws - 1.006*(t-tw)) / (2501 + 1.86*t - 4.186*tw)
}

// dryBulbFromWetBulb solves the psychrometer equation for the dry bulb.
func dryBulbFromWetBulb(tw, w, p float64) float64 {
	ws := humidityRatio(saturationPressure(tw), p)
	if tw < 0 {
		return ((2830-0.24*tw)*ws + 1.006*tw - w*(2830-2.1*tw)) / (1.006 + 1.86*w)
	}
	return ((2501-2.326*tw)*ws + 1.006*tw - w*(2501-4.186*tw)) / (1.006 + 1.86*w)
}

// wetBulb finds the thermodynamic wet bulb of (t, w) by bisection on the psychrometer equation.
func wetBulb(t, w, p float64) (float64, error) {
	ws := humidityRatio(saturationPressure(t), p)
	if w > ws*(1+1e-6) {
		return 0, eris.Wrapf(ErrOutOfRange, "humidity ratio %g above saturation %g at %.3f°C", w, ws, t)
	}
	lo, hi := minTempC, t
	if wetBulbHumidityRatio(t, lo, p) > w {
		return 0, eris.Wrapf(ErrOutOfRange, "wet bulb below %g°C", minTempC)
	}
	for i := 0; i < solveRounds && hi-lo > solveTol; i++ {
		mid := (lo + hi) / 2
		if wetBulbHumidityRatio(t, mid, p) < w {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, nil
}
