// Package netlist models a SPICE-like circuit as a directed multigraph
// and parses IBM power-grid-benchmark netlists into that model.
package netlist

import (
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
)

// Kind identifies the behavior of a component card. It is derived from
// the lowercased first character of the component name.
type Kind int

const (
	Unknown Kind = iota
	Resistor
	Inductor
	Capacitor
	VoltageSource
	CurrentSource
)

func (k Kind) String() string {
	switch k {
	case Resistor:
		return "R"
	case Inductor:
		return "L"
	case Capacitor:
		return "C"
	case VoltageSource:
		return "V"
	case CurrentSource:
		return "I"
	default:
		return "?"
	}
}

func kindFromLetter(c byte) Kind {
	switch c {
	case 'v', 'V':
		return VoltageSource
	case 'i', 'I':
		return CurrentSource
	case 'r', 'R':
		return Resistor
	case 'l', 'L':
		return Inductor
	case 'c', 'C':
		return Capacitor
	default:
		return Unknown
	}
}

// GroundName is the reserved node name for the reference node.
const GroundName = "0"

// GroundID is the stable graph id of the ground node.
const GroundID int64 = 0

// Node is a circuit node. Its ID doubles as its dense, stable index.
type Node struct {
	id   int64
	name string
}

func (n *Node) ID() int64      { return n.id }
func (n *Node) Name() string   { return n.name }
func (n *Node) String() string { return n.name }

// Arc is a directed component card: source -> target, carrying the
// component's kind, value and name. Source/target direction fixes the
// sign convention for V and I cards, per SPICE.
type Arc struct {
	id     int64
	from   graph.Node
	to     graph.Node
	Kind   Kind
	Value  float64
	Name   string
}

func (a *Arc) From() graph.Node         { return a.from }
func (a *Arc) To() graph.Node           { return a.to }
func (a *Arc) ID() int64                { return a.id }
func (a *Arc) ReversedLine() graph.Line { return &Arc{id: a.id, from: a.to, to: a.from, Kind: a.Kind, Value: a.Value, Name: a.Name} }

// LayerComment is a parsed `* layer: <metal>,<net_name> net: <net_id>` directive.
type LayerComment struct {
	NetID   int
	Net     NetType
	Layer   string
}

// NetType classifies a layer comment's net.
type NetType int

const (
	GND NetType = iota
	VDD
)

// Netlist is the circuit graph: a bijective node-index<->name mapping
// and a dense, immutable arc list, backed by a directed multigraph so
// that parallel arcs and self-loops (both permitted by the format) are
// first-class.
type Netlist struct {
	g             *multi.DirectedMultigraph
	nodesByName   map[string]*Node
	nodesByID     []*Node
	arcs          []*Arc
	LayerComments []LayerComment
}

// New creates an empty netlist with the ground node pre-created.
func New() *Netlist {
	nl := &Netlist{
		g:           multi.NewDirectedMultigraph(),
		nodesByName: make(map[string]*Node),
	}
	gnd := &Node{id: GroundID, name: GroundName}
	nl.g.AddNode(gnd)
	nl.nodesByName[GroundName] = gnd
	nl.nodesByID = append(nl.nodesByID, gnd)
	return nl
}

// EnsureNode interns name, allocating a fresh dense node index the
// first time it is seen. Idempotent on name.
func (nl *Netlist) EnsureNode(name string) int64 {
	if n, ok := nl.nodesByName[name]; ok {
		return n.id
	}
	n := &Node{id: int64(len(nl.nodesByID)), name: name}
	nl.g.AddNode(n)
	nl.nodesByName[name] = n
	nl.nodesByID = append(nl.nodesByID, n)
	return n.id
}

// Connect appends a new arc a->b carrying kind/value/name. Arc ids are
// dense and assigned in insertion order.
func (nl *Netlist) Connect(a, b int64, kind Kind, value float64, name string) *Arc {
	arc := &Arc{
		id:    int64(len(nl.arcs)),
		from:  nl.nodesByID[a],
		to:    nl.nodesByID[b],
		Kind:  kind,
		Value: value,
		Name:  name,
	}
	nl.g.SetLine(arc)
	nl.arcs = append(nl.arcs, arc)
	return arc
}

// NumNodes returns the number of nodes, ground included.
func (nl *Netlist) NumNodes() int { return len(nl.nodesByID) }

// Arcs returns the dense, insertion-ordered arc list.
func (nl *Netlist) Arcs() []*Arc { return nl.arcs }

// Node returns the node with the given id, or nil if out of range.
func (nl *Netlist) Node(id int64) *Node {
	if id < 0 || int(id) >= len(nl.nodesByID) {
		return nil
	}
	return nl.nodesByID[id]
}

// NodeByName returns the node id for name and whether it exists.
func (nl *Netlist) NodeByName(name string) (int64, bool) {
	n, ok := nl.nodesByName[name]
	if !ok {
		return 0, false
	}
	return n.id, true
}

// NodeName returns the name of node id, or "" if out of range.
func (nl *Netlist) NodeName(id int64) string {
	n := nl.Node(id)
	if n == nil {
		return ""
	}
	return n.name
}

// Graph exposes the underlying multigraph read-only, for callers that
// want induced-subgraph / adjacency queries rather than a flat arc scan.
func (nl *Netlist) Graph() graph.Directed { return nl.g }

// ArcsFrom returns the arcs whose source is node id, using the
// multigraph's line storage.
func (nl *Netlist) ArcsFrom(id int64) []*Arc {
	var out []*Arc
	to := nl.g.From(id)
	for to.Next() {
		t := to.Node()
		lines := nl.g.Lines(id, t.ID())
		for lines.Next() {
			if a, ok := lines.Line().(*Arc); ok {
				out = append(out, a)
			}
		}
	}
	return out
}

// ParseError reports a malformed card at a given line.
type ParseError struct {
	Line   int
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("netlist: line %d: %s", e.Line, e.Reason)
}
