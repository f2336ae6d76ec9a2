package dag_test

import (
	"fmt"

	"github.com/matzehuels/c4x/pkg/dag"
)

func Example() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "customer", Row: 0, Width: 200, Height: 160})
	_ = g.AddNode(dag.Node{ID: "web", Row: 1, Width: 240, Height: 130})
	_ = g.AddNode(dag.Node{ID: "api", Row: 2, Width: 240, Height: 130})
	_ = g.AddEdge(dag.Edge{From: "customer", To: "web"})
	_ = g.AddEdge(dag.Edge{From: "web", To: "api"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Valid:", g.Validate() == nil)
	// Output:
	// Nodes: 3
	// Edges: 2
	// Valid: true
}

func ExampleCountCrossings() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "web", Row: 0})
	_ = g.AddNode(dag.Node{ID: "mobile", Row: 0})
	_ = g.AddNode(dag.Node{ID: "api", Row: 1})
	_ = g.AddNode(dag.Node{ID: "auth", Row: 1})
	_ = g.AddEdge(dag.Edge{From: "web", To: "auth"})
	_ = g.AddEdge(dag.Edge{From: "mobile", To: "api"})

	crossed := map[int][]string{0: {"web", "mobile"}, 1: {"api", "auth"}}
	straight := map[int][]string{0: {"web", "mobile"}, 1: {"auth", "api"}}
	fmt.Println("Crossed:", dag.CountCrossings(g, crossed))
	fmt.Println("Straight:", dag.CountCrossings(g, straight))
	// Output:
	// Crossed: 1
	// Straight: 0
}

func ExampleDAG_SetRowOrder() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "a", Row: 0})
	_ = g.AddNode(dag.Node{ID: "b", Row: 0})
	_ = g.AddNode(dag.Node{ID: "c", Row: 0})

	fmt.Println(dag.NodeIDs(g.NodesInRow(0)))
	g.SetRowOrder(0, []string{"c", "a", "b"})
	fmt.Println(dag.NodeIDs(g.NodesInRow(0)))
	// Output:
	// [a b c]
	// [c a b]
}
