package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildLatticeAlignedRoundTrip(t *testing.T) {
	desc := &Desc{
		Grid:  Lattice{StartX: 0, StartY: 0, EndX: 10, EndY: 10, StepX: 10, StepY: 10},
		Wires: []Wire{{X1: 0, Y1: 0, X2: 10, Y2: 0, Resistance: 5}, {X1: 0, Y1: 0, X2: 0, Y2: 10, Resistance: 5}},
		Loads: []Load{{X: 10, Y: 0, Current: 0.5}},
		Pads:  []Pad{{X: 0, Y: 0, Resistance: 10}},
	}

	pg := Build(desc)
	assert.Equal(t, []int{0, 10}, pg.PointsX)
	assert.Equal(t, []int{0, 10}, pg.PointsY)

	assert.InDelta(t, 0.2, pg.CondX.At(0, 0), 1e-12)
	assert.InDelta(t, 0.2, pg.CondY.At(0, 0), 1e-12)
	assert.InDelta(t, 0.5, pg.Load.At(1, 0), 1e-12)
	assert.InDelta(t, 0.1, pg.CondZ.At(0, 0), 1e-12)
}

func TestBuildBilinearLoadPartitionOfUnity(t *testing.T) {
	desc := &Desc{
		Grid:  Lattice{StartX: 0, StartY: 0, EndX: 10, EndY: 10, StepX: 10, StepY: 10},
		Loads: []Load{{X: 5, Y: 5, Current: 8}},
	}

	pg := Build(desc)

	sum := pg.Load.At(0, 0) + pg.Load.At(0, 1) + pg.Load.At(1, 0) + pg.Load.At(1, 1)
	assert.InDelta(t, 8, sum, 1e-9)
	assert.InDelta(t, 2, pg.Load.At(0, 0), 1e-9)
	assert.InDelta(t, 2, pg.Load.At(0, 1), 1e-9)
	assert.InDelta(t, 2, pg.Load.At(1, 0), 1e-9)
	assert.InDelta(t, 2, pg.Load.At(1, 1), 1e-9)
}

func TestBuildBilinearPadExactOnOneAxis(t *testing.T) {
	desc := &Desc{
		Grid: Lattice{StartX: 0, StartY: 0, EndX: 10, EndY: 10, StepX: 10, StepY: 10},
		Pads: []Pad{{X: 0, Y: 5, Resistance: 2}}, // exact in x, interpolated in y
	}

	pg := Build(desc)
	total := pg.CondZ.At(0, 0) + pg.CondZ.At(0, 1)
	assert.InDelta(t, 0.5, total, 1e-9)
	assert.InDelta(t, 0.25, pg.CondZ.At(0, 0), 1e-9)
	assert.InDelta(t, 0.25, pg.CondZ.At(0, 1), 1e-9)
	assert.Equal(t, 0.0, pg.CondZ.At(1, 0))
	assert.Equal(t, 0.0, pg.CondZ.At(1, 1))
}

func TestMakeConductanceSeriesReduction(t *testing.T) {
	g1, g2 := 2.0, 3.0
	segs := []wireSeg{{x1: 0, x2: 1, cond: g1}, {x1: 1, x2: 2, cond: g2}}
	conds := makeConductance(segs, []int{0, 2})

	assert.Len(t, conds, 1)
	assert.InDelta(t, g1*g2/(g1+g2), conds[0], 1e-12)
}

func TestMakeConductanceParallelOverlap(t *testing.T) {
	// Two wires each spanning the full [0,2] cell combine in parallel.
	segs := []wireSeg{{x1: 0, x2: 2, cond: 1}, {x1: 0, x2: 2, cond: 1}}
	conds := makeConductance(segs, []int{0, 2})

	assert.Len(t, conds, 1)
	assert.InDelta(t, 2, conds[0], 1e-12)
}

func TestAxisPointsClampsFinalStep(t *testing.T) {
	points := axisPoints(0, 25, 10)
	assert.Equal(t, []int{0, 10, 20, 25}, points)
}
