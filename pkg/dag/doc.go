// Package dag provides a directed graph organised into ranks (rows) for
// layered diagram layout.
//
// # Overview
//
// The layout engine lays out each cluster of a diagram (the top-level
// elements, the children of a deployment node, the members of a boundary)
// as its own small layered graph. Nodes carry the box size of the element
// they stand for; edges are the relationships between those boxes.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "web", Width: 240, Height: 130})
//	g.AddNode(dag.Node{ID: "api", Width: 240, Height: 130})
//	g.AddEdge(dag.Edge{From: "web", To: "api"})
//
// Every query returning several nodes returns them in insertion order, and
// [DAG.NodesInRow] returns the current left-to-right order of a rank. Use
// [DAG.SetRowOrder] to change that order.
//
// # Node Kinds
//
// [NodeKindRegular] nodes are real boxes. [NodeKindVirtual] nodes are
// zero-size points inserted by the transform package so that every edge
// connects consecutive ranks.
//
// # Crossings
//
// [CountCrossings] and [CountLayerCrossings] count edge crossings for a
// given ordering with a Fenwick tree. [CountPairCrossings] compares the two
// orders of a neighbouring pair and drives the transpose heuristic.
package dag
