// Package layout computes absolute geometry for a [c4.View].
//
// # Overview
//
// A diagram is a containment tree: a synthetic root owns the top-level
// elements and the boundaries, boundaries own the elements they name, and
// deployment nodes own their nested children. The engine lays out that tree
// bottom-up. Every cluster (any tree node with children) is an independent
// layered graph of its direct children, so a boundary is sized before the
// graph that contains it is ranked.
//
// A relationship between descendants of two different direct children of a
// cluster is promoted to an edge between those children for that cluster's
// pass only. This is how an arrow from a person into a container nested
// three deployment nodes deep still influences the ranking at every level.
//
// # Coordinates
//
// Cluster passes record positions relative to the parent's top-left corner.
// [Engine.LayoutView] converts them to absolute coordinates in one
// top-down walk, applies manual $x/$y overrides, then routes every
// relationship as a straight line between box centres.
//
// # Determinism
//
// The same view always produces the same [Result]. Nodes, edges and
// candidate orderings are visited in declaration order and no map iteration
// order leaks into the output.
package layout
