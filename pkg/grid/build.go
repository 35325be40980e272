package grid

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// PowerGrid is a materialized regular lattice: conductances between
// adjacent grid points in x and y, conductance from each point to the
// ideal supply rail, and the load current sunk at each point.
//
// Grounded on original_source/PowerGrid.cpp. Where the original stores
// each array as vector<vector<double>>, this type uses a gonum
// mat.Dense indexed [x][y] via At/Set, matching the original's [i][j]
// convention.
type PowerGrid struct {
	PointsX []int
	PointsY []int

	// CondX[i][j] is the conductance between point (i,j) and (i+1,j).
	CondX *mat.Dense
	// CondY[i][j] is the conductance between point (i,j) and (i,j+1).
	CondY *mat.Dense
	// CondZ[i][j] is the conductance between point (i,j) and the ideal
	// supply rail (pad connections, possibly split across neighbors by
	// bilinear interpolation).
	CondZ *mat.Dense
	// Load[i][j] is the current sunk at point (i,j).
	Load *mat.Dense
}

// wireSeg is an interval [x1, x2) on a points axis carrying conductance.
type wireSeg struct {
	x1, x2 int
	cond   float64
}

// Build materializes a PowerGrid from an extracted Desc: it snaps the
// lattice (clamping the last step to end so the grid exactly covers
// [start, end]), then folds loads, pads and wires onto it.
//
// The x/y axes are interpolated independently (wires are partitioned by
// orientation first), and within an axis, conductances between
// sub-intervals combine the way resistors do: in series along the
// interval, in parallel across wires covering the same interval
// (makeConductance, ported verbatim from the original).
func Build(desc *Desc) *PowerGrid {
	pointsX := axisPoints(desc.Grid.StartX, desc.Grid.EndX, desc.Grid.StepX)
	pointsY := axisPoints(desc.Grid.StartY, desc.Grid.EndY, desc.Grid.StepY)

	pg := &PowerGrid{
		PointsX: pointsX,
		PointsY: pointsY,
		CondX:   mat.NewDense(len(pointsX), len(pointsY), nil),
		CondY:   mat.NewDense(len(pointsX), len(pointsY), nil),
		CondZ:   mat.NewDense(len(pointsX), len(pointsY), nil),
		Load:    mat.NewDense(len(pointsX), len(pointsY), nil),
	}

	for _, ld := range desc.Loads {
		pg.makeLoad(ld.X, ld.Y, ld.Current)
	}
	for _, pad := range desc.Pads {
		pg.makePad(pad.X, pad.Y, pad.Resistance)
	}

	var xWires, yWires []Wire
	for _, w := range desc.Wires {
		if w.X1 != w.X2 {
			xWires = append(xWires, w)
		} else {
			yWires = append(yWires, w)
		}
	}

	pg.buildAxis(xWires, pointsX, pointsY, true)
	pg.buildAxis(yWires, pointsY, pointsX, false)

	return pg
}

// axisPoints produces the clamped step sequence the original's grid
// loop builds: start, start+step, ..., always ending exactly at end.
func axisPoints(start, end, step int) []int {
	if step <= 0 {
		step = 1
	}
	var points []int
	for x := start; x < end+step; x += step {
		if x > end {
			x = end
		}
		points = append(points, x)
		if x == end {
			break
		}
	}
	return points
}

// buildAxis handles one wire orientation. isX selects whether wires run
// along the "major" axis (points) with a cross-coordinate on "cross"
// (the other axis's points), writing into CondX or CondY respectively.
func (pg *PowerGrid) buildAxis(wires []Wire, points, cross []int, isX bool) {
	for j := 0; j < len(cross)-1; j++ {
		lo := cross[j]
		hi := cross[j+1]
		var segs []wireSeg
		for _, w := range wires {
			crossCoord, p1, p2 := wireAxis(w, isX)
			if lo <= crossCoord && crossCoord < hi {
				conductance := 1. / w.Resistance / float64(hi-lo) * float64(hi-crossCoord)
				segs = append(segs, wireSeg{x1: p1, x2: p2, cond: conductance})
			}
		}
		conds := makeConductance(segs, points)
		for i := 0; i < len(points)-1; i++ {
			pg.setCond(i, j, isX, conds[i])
		}
	}

	// Top row / right column: wires lying exactly on the last cross
	// coordinate get their full resistance (no length-weighted split).
	var segs []wireSeg
	last := cross[len(cross)-1]
	for _, w := range wires {
		crossCoord, p1, p2 := wireAxis(w, isX)
		if crossCoord == last {
			segs = append(segs, wireSeg{x1: p1, x2: p2, cond: 1. / w.Resistance})
		}
	}
	conds := makeConductance(segs, points)
	for i := 0; i < len(points)-1; i++ {
		pg.setCond(i, len(cross)-1, isX, conds[i])
	}
}

// wireAxis decomposes a wire into (cross-axis coordinate, along-axis
// start, along-axis end) for the orientation isX selects.
func wireAxis(w Wire, isX bool) (cross, p1, p2 int) {
	if isX {
		return w.Y1, w.X1, w.X2
	}
	return w.X1, w.Y1, w.Y2
}

func (pg *PowerGrid) setCond(i, j int, isX bool, value float64) {
	if isX {
		pg.CondX.Set(i, j, value)
	} else {
		pg.CondY.Set(j, i, value)
	}
}

// makeConductance reduces a set of overlapping weighted wire segments
// onto the sub-intervals of points: series combination along an
// interval spanned by a single wire's length, parallel combination
// where multiple wires cover the same interval.
func makeConductance(wires []wireSeg, points []int) []float64 {
	ps := append([]int(nil), points...)
	for _, w := range wires {
		ps = append(ps, w.x1, w.x2)
	}
	sort.Ints(ps)
	ps = dedupSorted(ps)

	cs := make([]float64, len(ps)-1)
	for i := 0; i < len(ps)-1; i++ {
		p1, p2 := ps[i], ps[i+1]
		for _, w := range wires {
			lo := maxInt(w.x1, p1)
			hi := minInt(w.x2, p2)
			if lo < hi {
				cs[i] += w.cond / float64(hi-lo) * float64(w.x2-w.x1)
			}
		}
	}

	conds := make([]float64, len(points)-1)
	for j := 0; j < len(points)-1; j++ {
		i1 := sort.SearchInts(ps, points[j])
		i2 := sort.SearchInts(ps, points[j+1])
		conds[j] = cs[i1]
		for i := i1 + 1; i < i2; i++ {
			conds[j] = conds[j] * cs[i] / (conds[j] + cs[i])
		}
	}
	return conds
}

func (pg *PowerGrid) makePad(x, y int, resistance float64) {
	conductance := 1. / resistance
	i := lowerCornerIndex(pg.PointsX, x)
	j := lowerCornerIndex(pg.PointsY, y)
	pg.spreadBilinear(pg.CondZ, i, j, x, y, conductance)
}

func (pg *PowerGrid) makeLoad(x, y int, current float64) {
	i := lowerCornerIndex(pg.PointsX, x)
	j := lowerCornerIndex(pg.PointsY, y)
	pg.spreadBilinear(pg.Load, i, j, x, y, current)
}

// lowerCornerIndex returns the index of the lower/left neighbor of v in
// points: the first index i with points[i] == v (exact case), or
// otherwise the largest i with points[i] < v. A plain lower_bound
// yields the *upper* neighbor when v isn't exactly on the lattice,
// which would index points[i+1] out of range or past the wrong cell;
// stepping back by one resolves that.
func lowerCornerIndex(points []int, v int) int {
	i := sort.SearchInts(points, v)
	if i < len(points) && points[i] > v {
		i--
	}
	return i
}

// spreadBilinear distributes value onto the lattice cell anchored at
// its lower/left corner (points[i], points[j]): exactly on a grid line
// in both, one, or neither axis. This resolves the anchor-corner choice
// the source convention leaves ambiguous for off-lattice positions.
func (pg *PowerGrid) spreadBilinear(dst *mat.Dense, i, j, x, y int, value float64) {
	xExact := pg.PointsX[i] == x
	yExact := pg.PointsY[j] == y

	switch {
	case xExact && yExact:
		dst.Set(i, j, dst.At(i, j)+value)

	case xExact:
		t := float64(y-pg.PointsY[j]) / float64(pg.PointsY[j+1]-pg.PointsY[j])
		dst.Set(i, j, dst.At(i, j)+(1-t)*value)
		dst.Set(i, j+1, dst.At(i, j+1)+t*value)

	case yExact:
		s := float64(x-pg.PointsX[i]) / float64(pg.PointsX[i+1]-pg.PointsX[i])
		dst.Set(i, j, dst.At(i, j)+(1-s)*value)
		dst.Set(i+1, j, dst.At(i+1, j)+s*value)

	default:
		s := float64(x-pg.PointsX[i]) / float64(pg.PointsX[i+1]-pg.PointsX[i])
		t := float64(y-pg.PointsY[j]) / float64(pg.PointsY[j+1]-pg.PointsY[j])
		dst.Set(i, j, dst.At(i, j)+(1-s)*(1-t)*value)
		dst.Set(i, j+1, dst.At(i, j+1)+(1-s)*t*value)
		dst.Set(i+1, j, dst.At(i+1, j)+s*(1-t)*value)
		dst.Set(i+1, j+1, dst.At(i+1, j+1)+s*t*value)
	}
}

func dedupSorted(xs []int) []int {
	out := xs[:0]
	for i, x := range xs {
		if i == 0 || x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
