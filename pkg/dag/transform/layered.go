package transform

import "github.com/matzehuels/c4x/pkg/dag"

// Stats summarises what Layer did to a graph.
type Stats struct {
	BrokenEdges  int `json:"brokenEdges" bson:"brokenEdges"`   // back edges removed to restore acyclicity
	VirtualNodes int `json:"virtualNodes" bson:"virtualNodes"` // nodes added to split long edges
	Crossings    int `json:"crossings" bson:"crossings"`       // crossings left in the final ordering
}

// Layer runs the full layered pipeline on g in place: cycle breaking, rank
// assignment, long-edge subdivision and crossing reduction.
func Layer(g *dag.DAG, sweeps int) Stats {
	var s Stats
	s.BrokenEdges = BreakCycles(g)
	AssignLayers(g)
	s.VirtualNodes = Subdivide(g)
	s.Crossings = OrderRows(g, sweeps)
	return s
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.BrokenEdges += o.BrokenEdges
	s.VirtualNodes += o.VirtualNodes
	s.Crossings += o.Crossings
}
