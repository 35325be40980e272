// Command pdnsolve parses a SPICE-like power-distribution netlist,
// solves its DC operating point, and optionally reconstructs the
// regular-lattice power-grid view of one supply net.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"pgsolve/pkg/grid"
	"pgsolve/pkg/netlist"
	"pgsolve/pkg/pdnfmt"
	"pgsolve/pkg/solver"
)

func main() {
	var input, output, gridNet string
	flag.StringVar(&input, "i", "", "input netlist path")
	flag.StringVar(&input, "input", "", "input netlist path (alias of -i)")
	flag.StringVar(&output, "o", "", "solution output path (default stdout)")
	flag.StringVar(&output, "output", "", "solution output path (alias of -o)")
	flag.StringVar(&gridNet, "grid", "", "extract and report the power-grid lattice for VDD or GND instead of solving")
	flag.Parse()

	path := input
	if path == "" {
		path = flag.Arg(0)
	}
	if path == "" {
		log.Fatal("usage: pdnsolve -i <netlist> [-o <output>] [-grid VDD|GND]")
	}

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("opening netlist: %v", err)
	}
	defer f.Close()

	nl, err := netlist.Parse(f)
	if err != nil {
		log.Fatalf("parsing netlist: %v", err)
	}

	if gridNet != "" {
		want, err := parseNetType(gridNet)
		if err != nil {
			log.Fatalf("grid: %v", err)
		}
		reportGrid(nl, want)
		return
	}

	sol, err := solver.Solve(nl)
	if err != nil {
		log.Fatalf("solving: %v", err)
	}

	w := os.Stdout
	if output != "" {
		out, err := os.Create(output)
		if err != nil {
			log.Fatalf("creating output: %v", err)
		}
		defer out.Close()
		w = out
	}
	writeSolution(w, nl, sol)
}

func parseNetType(s string) (netlist.NetType, error) {
	switch strings.ToUpper(s) {
	case "VDD":
		return netlist.VDD, nil
	case "GND":
		return netlist.GND, nil
	default:
		return 0, fmt.Errorf("unknown net %q, want VDD or GND", s)
	}
}

// writeSolution emits one line per node, "<NAME> <VOLTAGE>", ground as
// "G", in node-index ascending order.
func writeSolution(w io.Writer, nl *netlist.Netlist, sol solver.Solution) {
	for id := int64(0); id < int64(nl.NumNodes()); id++ {
		name := nl.NodeName(id)
		if id == netlist.GroundID {
			name = "G"
		}
		fmt.Fprintf(w, "%s %s\n", name, pdnfmt.Value(sol[id], "V"))
	}
}

func reportGrid(nl *netlist.Netlist, want netlist.NetType) {
	desc, err := grid.Extract(nl, want)
	if err != nil {
		log.Fatalf("extracting grid: %v", err)
	}
	pg := grid.Build(desc)

	nonzeroZ := 0
	for i := 0; i < len(pg.PointsX); i++ {
		for j := 0; j < len(pg.PointsY); j++ {
			if pg.CondZ.At(i, j) != 0 {
				nonzeroZ++
			}
		}
	}

	totalLoad := 0.0
	for i := 0; i < len(pg.PointsX); i++ {
		for j := 0; j < len(pg.PointsY); j++ {
			totalLoad += pg.Load.At(i, j)
		}
	}

	fmt.Printf("Nx=%d Ny=%d\n", len(pg.PointsX), len(pg.PointsY))
	fmt.Printf("grid: [%d,%d]-[%d,%d] step (%d,%d)\n",
		desc.Grid.StartX, desc.Grid.StartY, desc.Grid.EndX, desc.Grid.EndY, desc.Grid.StepX, desc.Grid.StepY)
	fmt.Printf("wires=%d loads=%d pads=%d\n", len(desc.Wires), len(desc.Loads), len(desc.Pads))
	fmt.Printf("nonzero cond_z=%d\n", nonzeroZ)
	fmt.Printf("total load=%s\n", pdnfmt.Value(totalLoad, "A"))
}
