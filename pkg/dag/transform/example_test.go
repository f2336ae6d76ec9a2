package transform_test

import (
	"fmt"

	"github.com/matzehuels/c4x/pkg/dag"
	"github.com/matzehuels/c4x/pkg/dag/transform"
)

func ExampleLayer() {
	g := dag.New(nil)
	for _, id := range []string{"customer", "web", "api", "db"} {
		_ = g.AddNode(dag.Node{ID: id})
	}
	_ = g.AddEdge(dag.Edge{From: "customer", To: "web"})
	_ = g.AddEdge(dag.Edge{From: "web", To: "api"})
	_ = g.AddEdge(dag.Edge{From: "api", To: "db"})
	_ = g.AddEdge(dag.Edge{From: "web", To: "db"})
	_ = g.AddEdge(dag.Edge{From: "db", To: "customer"})

	s := transform.Layer(g, 0)
	fmt.Println("Broken:", s.BrokenEdges)
	fmt.Println("Virtual:", s.VirtualNodes)
	fmt.Println("Rows:", g.RowCount())
	fmt.Println("Valid:", g.Validate() == nil)
	// Output:
	// Broken: 1
	// Virtual: 1
	// Rows: 4
	// Valid: true
}

func ExampleSubdivide() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "web", Row: 0})
	_ = g.AddNode(dag.Node{ID: "db", Row: 3})
	_ = g.AddEdge(dag.Edge{From: "web", To: "db"})

	transform.Subdivide(g)
	for _, n := range g.Nodes() {
		fmt.Println(n.ID, n.Row, n.IsVirtual())
	}
	// Output:
	// web 0 false
	// db 3 false
	// web_v_1 1 true
	// web_v_2 2 true
}
