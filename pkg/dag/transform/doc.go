// Package transform prepares a [dag.DAG] for layered placement.
//
// The steps run in this order, and [Layer] runs all of them:
//
//	transform.BreakCycles(g)  // drop DFS back edges
//	transform.AssignLayers(g) // longest-path ranks
//	transform.Subdivide(g)    // virtual nodes on long edges
//	transform.OrderRows(g, 8) // barycenter sweeps plus transpose
//
// Every step walks the graph in insertion order, so the same input always
// produces the same ranks and orderings.
package transform
