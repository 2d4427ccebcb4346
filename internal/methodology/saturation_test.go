package methodology

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaturationPolynomial(t *testing.T) {
	assert.InDelta(t, -22.7387, Saturation(0), 1e-12)
	assert.InDelta(t, 13.944656, Saturation(0.01), 1e-6)
}

func TestCurveIntersectionHorizontalLine(t *testing.T) {
	tt, w, err := CurveIntersection(General(0, 0.01))
	require.NoError(t, err)
	assert.Equal(t, 0.01, w)
	assert.InDelta(t, 13.94, tt, 0.02)
	assert.LessOrEqual(t, math.Abs(Saturation(w)-tt), curveTolerance)
}

func TestCurveIntersectionSlopedLine(t *testing.T) {
	l := General(-0.00033831090108543476, 0.027153302584587806)
	tt, w, err := CurveIntersection(l)
	require.NoError(t, err)
	assert.InDelta(t, 24.109, tt, 0.01)
	assert.InDelta(t, 0.0190, w, 1e-4)
	assert.LessOrEqual(t, math.Abs(Saturation(w)-tt), curveTolerance)
}

func TestCurveIntersectionNoCrossing(t *testing.T) {
	// Dry air sits far below the curve over the whole search range.
	_, _, err := CurveIntersection(General(0, 0))
	assert.True(t, errors.Is(err, ErrNoConvergence))
}

func TestCurveIntersectionVertical(t *testing.T) {
	_, _, err := CurveIntersection(Vertical(20))
	assert.True(t, errors.Is(err, ErrInvalidGeometry))
}
