// Package nodelink exports c4x views as Graphviz node-link diagrams.
//
// # Overview
//
// This is a secondary output next to the native SVG renderer. It is useful
// for feeding a diagram into existing Graphviz tooling, or for comparing the
// native layered layout with Graphviz's own.
//
// # Usage
//
//	dot := nodelink.ToDOT(view, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Mapping
//
//   - Elements become nodes keyed by their id. Persons are ellipses,
//     Database-tagged elements are cylinders, External elements are dashed.
//   - Deployment nodes and boundaries become clusters, nested the same way
//     the layout engine nests them.
//   - Relationship types map to edge styles: uses and async are dashed,
//     sync is bold. Dynamic views prefix edge labels with their sequence
//     number.
//
// [RenderSVG] uses github.com/goccy/go-graphviz, which embeds Graphviz as
// WebAssembly, so no system installation is needed.
package nodelink
