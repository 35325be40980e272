package solver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pgsolve/pkg/netlist"
)

func solve(t *testing.T, src string) (Solution, *netlist.Netlist) {
	t.Helper()
	nl, err := netlist.Parse(strings.NewReader(src))
	require.NoError(t, err)
	sol, err := Solve(nl)
	require.NoError(t, err)
	return sol, nl
}

func voltage(t *testing.T, sol Solution, nl *netlist.Netlist, name string) float64 {
	t.Helper()
	id, ok := nl.NodeByName(name)
	require.True(t, ok, "node %q not found", name)
	return sol[id]
}

func TestDivider(t *testing.T) {
	sol, nl := solve(t, "V1 1 0 10\nR1 1 2 1k\nR2 2 0 1k\n")
	assert.InDelta(t, 10, voltage(t, sol, nl, "1"), 1e-9)
	assert.InDelta(t, 5, voltage(t, sol, nl, "2"), 1e-9)
	assert.Equal(t, 0.0, sol[netlist.GroundID])
}

func TestTwoLoadsOneRail(t *testing.T) {
	sol, nl := solve(t, "V1 a 0 1\nR1 a b 2\nI1 b 0 0.1\n")
	assert.InDelta(t, 1, voltage(t, sol, nl, "a"), 1e-9)
	assert.InDelta(t, 0.8, voltage(t, sol, nl, "b"), 1e-9)
}

func TestInductorShort(t *testing.T) {
	sol, nl := solve(t, "V1 n1 0 5\nL1 n1 n2 1m\nR1 n2 0 10\n")
	assert.InDelta(t, 5, voltage(t, sol, nl, "n1"), 1e-9)
	assert.InDelta(t, 5, voltage(t, sol, nl, "n2"), 1e-9)
}

func TestCapacitorOpen(t *testing.T) {
	sol, nl := solve(t, "V1 a 0 5\nC1 a b 1u\nR1 b 0 10\n")
	assert.InDelta(t, 0, voltage(t, sol, nl, "b"), 1e-9)
}

func TestSuffixScaling(t *testing.T) {
	sol, nl := solve(t, "R1 a 0 2k\nI1 a 0 1m\n")
	assert.InDelta(t, 2, voltage(t, sol, nl, "a"), 1e-9)
}

func TestSingularWithoutGroundReference(t *testing.T) {
	// Floating subnet: no path to ground at all.
	nl, err := netlist.Parse(strings.NewReader("R1 a b 10\n"))
	require.NoError(t, err)
	_, err = Solve(nl)
	assert.Error(t, err)
}

func TestSuperposition(t *testing.T) {
	src := "V1 a 0 3\nR1 a b 5\nI1 b 0 0.2\n"
	base, nl := solve(t, src)

	scaled := "V1 a 0 6\nR1 a b 5\nI1 b 0 0.4\n"
	doubled, _ := solve(t, scaled)

	for _, name := range []string{"a", "b"} {
		assert.InDelta(t, 2*voltage(t, base, nl, name), voltage(t, doubled, nl, name), 1e-9)
	}
}

func TestResistorLawAndKCL(t *testing.T) {
	sol, nl := solve(t, "V1 a 0 10\nR1 a b 2\nR2 b 0 3\n")
	va := voltage(t, sol, nl, "a")
	vb := voltage(t, sol, nl, "b")

	currentR1 := (va - vb) / 2
	currentR2 := (vb - 0) / 3
	// KCL at b: current in from R1 equals current out through R2.
	assert.InDelta(t, currentR1, currentR2, 1e-9)
}
