package methodology

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupplyTempInvertsLimitTemp(t *testing.T) {
	for _, kind := range []ComponentType{DEC, IEC, DIEC, DW} {
		for _, eff := range []float64{0.3, 0.5, 0.75, 0.85, 0.99} {
			c, err := NewComponent(kind, eff)
			require.NoError(t, err)
			for _, tSu := range []float64{-5, 12.5, 20, 33} {
				for _, tEx := range []float64{0, 25, 42.6, 50} {
					lim := c.LimitTemp(tSu, tEx)
					got, err := c.SupplyTemp(lim, tEx)
					require.NoError(t, err)
					assert.InDelta(t, tSu, got, 1e-9, "%s eff=%g tSu=%g tEx=%g", kind, eff, tSu, tEx)
				}
			}
		}
	}
}

func TestLimitTempFormulas(t *testing.T) {
	dec, _ := NewComponent(DEC, 0.8)
	dw, _ := NewComponent(DW, 0.8)

	assert.InDelta(t, 20+(30-20)/0.8, dec.LimitTemp(20, 30), 1e-12)
	assert.InDelta(t, 20+(30-20)*0.8, dw.LimitTemp(20, 30), 1e-12)
}

func TestSupplyTempRejectsUnitEfficiency(t *testing.T) {
	c, err := NewComponent(IEC, 1)
	require.NoError(t, err)

	_, err = c.SupplyTemp(17, 40)
	assert.True(t, errors.Is(err, ErrConfig))
}

func TestNewComponentValidation(t *testing.T) {
	cases := []struct {
		name string
		kind ComponentType
		eff  float64
	}{
		{"zero efficiency", DEC, 0},
		{"negative efficiency", IEC, -0.1},
		{"efficiency above one", DW, 1.2},
		{"unknown type", ComponentType("HP"), 0.5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewComponent(tc.kind, tc.eff)
			assert.True(t, errors.Is(err, ErrConfig), "got %v", err)
			assert.True(t, IsConfigError(err))
		})
	}
}

func TestParseComponentTypeAliases(t *testing.T) {
	for in, want := range map[string]ComponentType{
		"dec":   DEC,
		" IEC ": IEC,
		"D_IEC": DIEC,
		"d-iec": DIEC,
		"dw":    DW,
		"DIEC":  DIEC,
	} {
		got, err := ParseComponentType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestNewComponentSet(t *testing.T) {
	dec, _ := NewComponent(DEC, 0.85)
	iec, _ := NewComponent(IEC, 0.75)
	dw, _ := NewComponent(DW, 0.85)
	diec, _ := NewComponent(DIEC, 0.85)

	set, err := NewComponentSet(diec, dw, iec, dec)
	require.NoError(t, err)
	assert.Equal(t, 4, set.Len())

	var kinds []ComponentType
	for _, c := range set.Components() {
		kinds = append(kinds, c.Type())
	}
	assert.Equal(t, []ComponentType{DEC, IEC, DIEC, DW}, kinds)

	_, err = NewComponentSet(dec, dec)
	assert.True(t, errors.Is(err, ErrConfig))

	_, err = NewComponentSet(dec, dw)
	assert.True(t, errors.Is(err, ErrMissingDependency))

	_, err = NewComponentSet(iec)
	assert.True(t, errors.Is(err, ErrMissingDependency))

	empty, err := NewComponentSet()
	require.NoError(t, err)
	assert.Zero(t, empty.Len())
}

func TestDefaultComponentSet(t *testing.T) {
	set := DefaultComponentSet()
	for _, kind := range []ComponentType{DEC, IEC, DIEC, DW} {
		c, ok := set.Get(kind)
		require.True(t, ok, kind)
		assert.Equal(t, DefaultEfficiency(kind), c.Efficiency())
	}
	iec, _ := set.Get(IEC)
	assert.Equal(t, 0.75, iec.Efficiency())
}
