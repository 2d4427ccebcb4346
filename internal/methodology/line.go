package methodology

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
)

type lineKind uint8

const (
	generalLine lineKind = iota
	verticalLine
)

// Line is a boundary in temperature / humidity-ratio space. It is either a
// general line w = slope*T + intercept or a vertical line T = threshold.
// The zero value is the general line w = 0.
type Line struct {
	kind      lineKind
	slope     float64
	intercept float64
	threshold float64
}

// General returns the line w = slope*T + intercept.
func General(slope, intercept float64) Line {
	return Line{kind: generalLine, slope: slope, intercept: intercept}
}

// Vertical returns the line T = threshold.
func Vertical(threshold float64) Line {
	return Line{kind: verticalLine, threshold: threshold}
}

// IsVertical reports whether l is a temperature threshold.
func (l Line) IsVertical() bool { return l.kind == verticalLine }

// Threshold returns the temperature of a vertical line.
func (l Line) Threshold() (float64, bool) {
	return l.threshold, l.kind == verticalLine
}

// Coefficients returns slope and intercept of a general line.
func (l Line) Coefficients() (slope, intercept float64, ok bool) {
	return l.slope, l.intercept, l.kind == generalLine
}

// LinearInterp fits the line through (t1, w1) and (t2, w2). Equal temperatures
// would give a vertical line and are rejected; build those with Vertical.
func LinearInterp(t1, w1, t2, w2 float64) (Line, error) {
	if t1 == t2 {
		return Line{}, eris.Wrapf(ErrInvalidGeometry, "points share temperature %g", t1)
	}
	m := (w2 - w1) / (t2 - t1)
	return General(m, w1-m*t1), nil
}

// Intersect returns the point where a and b cross.
func Intersect(a, b Line) (t, w float64, err error) {
	switch {
	case a.kind == generalLine && b.kind == generalLine:
		if a.slope == b.slope {
			return 0, 0, eris.Wrapf(ErrInvalidGeometry, "parallel lines with slope %g", a.slope)
		}
		t = (b.intercept - a.intercept) / (a.slope - b.slope)
		return t, a.slope*t + a.intercept, nil
	case a.kind == generalLine && b.kind == verticalLine:
		return b.threshold, a.slope*b.threshold + a.intercept, nil
	case a.kind == verticalLine && b.kind == generalLine:
		return a.threshold, b.slope*a.threshold + b.intercept, nil
	case a.kind == verticalLine && b.kind == verticalLine:
		return 0, 0, eris.Wrapf(ErrInvalidGeometry, "vertical lines T=%g and T=%g", a.threshold, b.threshold)
	}
	return 0, 0, eris.Wrap(ErrInvalidGeometry, "unknown line shape")
}

// HumidityAt evaluates w at temperature t.
func (l Line) HumidityAt(t float64) (float64, error) {
	switch l.kind {
	case generalLine:
		return l.slope*t + l.intercept, nil
	case verticalLine:
		return 0, eris.Wrapf(ErrInvalidGeometry, "vertical line T=%g has no single humidity at T=%g", l.threshold, t)
	}
	return 0, eris.Wrap(ErrInvalidGeometry, "unknown line shape")
}

// TemperatureAt evaluates T at humidity ratio w.
func (l Line) TemperatureAt(w float64) (float64, error) {
	switch l.kind {
	case generalLine:
		if l.slope == 0 {
			return 0, eris.Wrapf(ErrInvalidGeometry, "horizontal line w=%g has no single temperature", l.intercept)
		}
		return (w - l.intercept) / l.slope, nil
	case verticalLine:
		return 0, eris.Wrap(ErrInvalidGeometry, "vertical line evaluated as a function of w")
	}
	return 0, eris.Wrap(ErrInvalidGeometry, "unknown line shape")
}

// Below is the zone predicate: T < threshold for a vertical line, w < slope*T + intercept otherwise.
func (l Line) Below(t, w float64) bool {
	if l.kind == verticalLine {
		return t < l.threshold
	}
	return w < l.slope*t+l.intercept
}

func (l Line) String() string {
	if l.kind == verticalLine {
		return fmt.Sprintf("T = %g", l.threshold)
	}
	return fmt.Sprintf("w = %g*T %+g", l.slope, l.intercept)
}

// Point is a state in temperature / humidity-ratio space.
type Point struct {
	T float64
	W float64
}

func (p Point) valid() bool {
	return !math.IsNaN(p.T) && !math.IsNaN(p.W) && !math.IsInf(p.T, 0) && !math.IsInf(p.W, 0)
}
