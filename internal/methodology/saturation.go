package methodology

import (
	"math"

	"github.com/rotisserie/eris"
)

// saturationCoefficients fit the dew point (°C) as a 7th degree polynomial of
// the humidity ratio, highest degree first.
var saturationCoefficients = [8]float64{7.2356e12, -1.2955e12, 9.5015e10, -3.6881e9, 8.2083e7, -1.0783e6, 9.1033e3, -22.7387}

const (
	curveSearchMin  = 0.0
	curveSearchMax  = 50.0
	curveTolerance  = 1e-2
	curveMaxBisects = 100
)

// Saturation returns the dew-point temperature for humidity ratio w.
// Terms are summed from the constant upwards to match the reference fit exactly.
func Saturation(w float64) float64 {
	n := len(saturationCoefficients)
	t := 0.0
	for i := 0; i < n; i++ {
		t += saturationCoefficients[n-i-1] * math.Pow(w, float64(i))
	}
	return t
}

// CurveIntersection bisects T in [0, 50] °C for the point where l meets the
// saturation curve, stopping when |Saturation(w) - T| <= 0.01 °C.
func CurveIntersection(l Line) (t, w float64, err error) {
	if l.IsVertical() {
		return 0, 0, eris.Wrap(ErrInvalidGeometry, "saturation intersection needs a general line")
	}
	lo, hi := curveSearchMin, curveSearchMax
	for i := 0; i < curveMaxBisects; i++ {
		t = (lo + hi) / 2
		w = l.slope*t + l.intercept
		tdp := Saturation(w)
		if math.Abs(tdp-t) <= curveTolerance {
			return t, w, nil
		}
		if tdp < t {
			hi = t
		} else {
			lo = t
		}
	}
	return 0, 0, eris.Wrapf(ErrNoConvergence, "line %s after %d steps", l, curveMaxBisects)
}
