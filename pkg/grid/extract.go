// Package grid extracts a regular-lattice power-grid description from a
// parsed netlist (IBM power-grid benchmark naming conventions) and
// builds per-cell conductance/load arrays from that description.
//
// Grounded on original_source/IbmpgParser.cpp (extraction) and
// original_source/PowerGrid.cpp (lattice construction).
package grid

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"pgsolve/pkg/netlist"
)

// Wire is an axis-aligned resistor segment between two lattice points.
type Wire struct {
	X1, Y1, X2, Y2 int
	Resistance     float64
}

// Load is a current sunk at a lattice point.
type Load struct {
	X, Y    int
	Current float64
}

// Pad is a resistive connection from a lattice point to the ideal
// supply rail.
type Pad struct {
	X, Y       int
	Resistance float64
}

// Lattice is an inclusive axis-aligned grid.
type Lattice struct {
	StartX, StartY int
	EndX, EndY     int
	StepX, StepY   int
}

// Desc is the extractor's output: a lattice plus the wires, loads and
// pads discovered within it.
type Desc struct {
	Grid  Lattice
	Wires []Wire
	Loads []Load
	Pads  []Pad
}

// ErrGridShape reports that the extractor found fewer than two distinct
// x or y coordinates (no lattice can be formed).
type ErrGridShape struct {
	Reason string
}

func (e *ErrGridShape) Error() string { return fmt.Sprintf("grid: %s", e.Reason) }

var nodeNameRe = regexp.MustCompile(`n(\d+)_(\d+)_(\d+)$`)

type nodeInfo struct {
	netID   int
	x, y    int
	inScope bool
}

// Extract partitions the netlist's layer comments by net type, finds
// nodes matching the IBM "n<net>_<x>_<y>" naming convention on the
// requested side (netlist.VDD or netlist.GND), and emits a Desc for
// that subnet. Unmatched nodes, and arcs that don't fit the
// wire/load/pad shapes, are silently excluded — extraction failures
// are non-fatal except when the resulting lattice is degenerate.
func Extract(nl *netlist.Netlist, want netlist.NetType) (*Desc, error) {
	wantNetIDs := make(map[int]bool)
	for _, lc := range nl.LayerComments {
		if lc.Net == want {
			wantNetIDs[lc.NetID] = true
		}
	}

	infos := make(map[int64]nodeInfo, nl.NumNodes())
	for id := int64(1); id < int64(nl.NumNodes()); id++ {
		name := nl.NodeName(id)
		m := nodeNameRe.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		netID, _ := strconv.Atoi(m[1])
		x, _ := strconv.Atoi(m[2])
		y, _ := strconv.Atoi(m[3])
		infos[id] = nodeInfo{netID: netID, x: x, y: y, inScope: wantNetIDs[netID]}
	}

	xSet := make(map[int]bool)
	ySet := make(map[int]bool)
	for _, info := range infos {
		if !info.inScope {
			continue
		}
		xSet[info.x] = true
		ySet[info.y] = true
	}
	if len(xSet) < 2 || len(ySet) < 2 {
		return nil, &ErrGridShape{Reason: fmt.Sprintf("found %d distinct x and %d distinct y coordinates, need >= 2 of each", len(xSet), len(ySet))}
	}

	xs := sortedKeys(xSet)
	ys := sortedKeys(ySet)

	desc := &Desc{Grid: Lattice{
		StartX: xs[0], EndX: xs[len(xs)-1],
		StartY: ys[0], EndY: ys[len(ys)-1],
		StepX: meanStep(xs),
		StepY: meanStep(ys),
	}}

	for _, arc := range nl.Arcs() {
		s := arc.From().ID()
		t := arc.To().ID()
		sInfo, sOK := infos[s]
		tInfo, tOK := infos[t]
		sIsGround := s == netlist.GroundID
		tIsGround := t == netlist.GroundID

		switch {
		case arc.Kind == netlist.Resistor && sOK && tOK && !sIsGround && !tIsGround &&
			sInfo.netID == tInfo.netID && sInfo.inScope && tInfo.inScope:
			sameX := sInfo.x == tInfo.x
			sameY := sInfo.y == tInfo.y
			switch {
			case sameX && sameY:
				desc.Pads = append(desc.Pads, Pad{X: sInfo.x, Y: sInfo.y, Resistance: arc.Value})
			case sameX != sameY: // exactly one coordinate matches: axis-aligned wire
				desc.Wires = append(desc.Wires, Wire{X1: sInfo.x, Y1: sInfo.y, X2: tInfo.x, Y2: tInfo.y, Resistance: arc.Value})
			}

		case arc.Kind == netlist.CurrentSource && sOK && sInfo.inScope && tIsGround:
			desc.Loads = append(desc.Loads, Load{X: sInfo.x, Y: sInfo.y, Current: arc.Value})
		}
	}

	return desc, nil
}

func sortedKeys(set map[int]bool) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// meanStep is the integer average of adjacent differences in a sorted,
// deduplicated coordinate list, rounded toward zero.
func meanStep(sorted []int) int {
	if len(sorted) < 2 {
		return 1
	}
	return (sorted[len(sorted)-1] - sorted[0]) / (len(sorted) - 1)
}
