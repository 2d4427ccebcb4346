package methodology

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyEmptyPool(t *testing.T) {
	ds := Dataset{{T: 10, W: 0.003}, {T: 30, W: 0.012}}
	for _, l := range []Line{Vertical(16), General(-0.0004, 0.0174), General(0, activeCoolingCeiling)} {
		remaining, zone := Classify(ds, l, Pool{})
		assert.Empty(t, remaining)
		assert.Empty(t, zone)
	}
}

func TestClassifySplitsWithoutTouchingInput(t *testing.T) {
	ds := Dataset{{T: 10, W: 0.003}, {T: 18, W: 0.006}, {T: 30, W: 0.012}}
	pool := FullPool(3)

	remaining, zone := Classify(ds, Vertical(20), pool)
	assert.Equal(t, Pool{2}, remaining)
	assert.Equal(t, Pool{0, 1}, zone)
	assert.Equal(t, Pool{0, 1, 2}, pool)
}

func TestClassifyKeepsUnknownIndices(t *testing.T) {
	ds := Dataset{{T: 10, W: 0.003}}
	remaining, zone := Classify(ds, Vertical(50), Pool{-1, 0, 7})
	assert.Equal(t, Pool{-1, 7}, remaining)
	assert.Equal(t, Pool{0}, zone)
}

func TestPartitionPriorityOrder(t *testing.T) {
	// The first hour satisfies both predicates; whichever runs first claims it.
	ds := Dataset{{T: 18, W: 0.005}, {T: 25, W: 0.004}, {T: 18, W: 0.02}}
	vent := ModeBoundary{Mode: Ventilation, Line: Vertical(20)}
	dec := ModeBoundary{Mode: DirectEvaporative, Line: General(0, 0.01)}
	active := ModeBoundary{Mode: ActiveCooling, Line: General(0, activeCoolingCeiling)}

	zones, left := Partition(ds, []ModeBoundary{vent, dec, active}, FullPool(3))
	assert.Empty(t, left)
	assert.Equal(t, Pool{0, 2}, zones[0].Hours)
	assert.Equal(t, Pool{1}, zones[1].Hours)
	assert.Empty(t, zones[2].Hours)

	zones, _ = Partition(ds, []ModeBoundary{dec, vent, active}, FullPool(3))
	assert.Equal(t, DirectEvaporative, zones[0].Mode)
	assert.Equal(t, Pool{0, 1}, zones[0].Hours)
	assert.Equal(t, Pool{2}, zones[1].Hours)
}

func TestPartitionTerminalAbsorbsRest(t *testing.T) {
	// Far above the ceiling, still claimed by active cooling.
	ds := Dataset{{T: 40, W: 0.2}}
	zones, left := Partition(ds, []ModeBoundary{{Mode: ActiveCooling, Line: General(0, activeCoolingCeiling)}}, FullPool(1))
	assert.Empty(t, left)
	assert.Equal(t, Pool{0}, zones[0].Hours)
}

func TestPartitionWithoutTerminalReturnsLeftovers(t *testing.T) {
	ds := Dataset{{T: 10, W: 0.003}, {T: 30, W: 0.012}}
	zones, left := Partition(ds, []ModeBoundary{{Mode: Heating, Line: Vertical(16)}}, FullPool(2))
	assert.Equal(t, Pool{0}, zones[0].Hours)
	assert.Equal(t, Pool{1}, left)
}

func TestMergePools(t *testing.T) {
	assert.Equal(t, Pool{0, 1, 3, 4, 9}, mergePools(Pool{1, 4}, Pool{0, 3, 9}))
	assert.Equal(t, Pool{2}, mergePools(nil, Pool{2}))
	assert.Empty(t, mergePools(nil, nil))
}
