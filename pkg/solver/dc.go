package solver

import (
	"pgsolve/pkg/netlist"
)

// Solution maps a node id to its DC voltage. voltage(ground) is always 0.
type Solution map[int64]float64

// Solve assembles and solves the DC operating-point MNA system for nl.
//
// DC reductions (spec §4.2): capacitors are removed (open circuit);
// inductors are replaced by a 0V voltage source in the same orientation
// (short circuit). Everything else (R, V, I) stamps directly.
func Solve(nl *netlist.Netlist) (Solution, error) {
	n := nl.NumNodes() - 1 // non-ground node count

	// First pass: assign a branch-current row to every effective voltage
	// source (V cards, and L cards via the short-circuit reduction), in
	// the order they are encountered.
	branchRow := make(map[int64]int) // arc id -> row offset within [0, m)
	m := 0
	for _, arc := range nl.Arcs() {
		if arc.Kind == netlist.VoltageSource || arc.Kind == netlist.Inductor {
			branchRow[arc.ID()] = m
			m++
		}
	}

	mat, err := newMNAMatrix(n + m)
	if err != nil {
		return nil, err
	}
	defer mat.destroy()

	for _, arc := range nl.Arcs() {
		s := arc.From().ID()
		t := arc.To().ID()
		sp := int(s) // row/col for node s is its id directly (0 = ground, skipped by addElement/addRHS)
		tp := int(t)

		switch arc.Kind {
		case netlist.Capacitor:
			// Open circuit for DC: no stamp.

		case netlist.Resistor:
			g := 1.0 / arc.Value
			mat.addElement(sp, sp, g)
			mat.addElement(tp, tp, g)
			if sp != 0 && tp != 0 {
				mat.addElement(sp, tp, -g)
				mat.addElement(tp, sp, -g)
			}

		case netlist.CurrentSource:
			mat.addRHS(sp, -arc.Value)
			mat.addRHS(tp, arc.Value)

		case netlist.VoltageSource, netlist.Inductor:
			value := arc.Value
			if arc.Kind == netlist.Inductor {
				value = 0 // short circuit
			}
			row := n + branchRow[arc.ID()] + 1 // 1-based matrix row
			if sp != 0 {
				mat.addElement(sp, row, 1)
				mat.addElement(row, sp, 1)
			}
			if tp != 0 {
				mat.addElement(tp, row, -1)
				mat.addElement(row, tp, -1)
			}
			mat.addRHS(row, value)
		}
	}

	if err := mat.solve(); err != nil {
		return nil, err
	}

	sol := make(Solution, n+1)
	sol[netlist.GroundID] = 0
	for k := 1; k <= n; k++ {
		sol[int64(k)] = mat.solution[k]
	}
	return sol, nil
}
