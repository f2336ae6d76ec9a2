// Package graph provides the serialization format for c4x layouts.
//
// This package defines the wire format for positioned diagrams, used for
// `c4x layout` files, HTTP API responses and cache entries.
//
// # Architecture
//
// The package sits at the serialization boundary between the layout engine
// and external consumers:
//
//   - [Layout]: serialization type (this package)
//   - pkg/layout.Result: internal layout with pointers into the model
//
// Use [FromResult] and [Layout.ToResult] to convert between them. A layout
// read back from JSON renders to the same SVG as the result it came from.
//
// # Format
//
//	{
//	  "version": 1,
//	  "view_type": "container",
//	  "direction": "TB",
//	  "width": 520,
//	  "height": 420,
//	  "nodes": [
//	    {"id": "web", "label": "Web", "type": "Container",
//	     "x": 80, "y": 80, "width": 160, "height": 100, "depth": 0}
//	  ],
//	  "edges": [
//	    {"id": "rel-0", "from": "web", "to": "api", "type": "uses",
//	     "points": [{"x": 160, "y": 130}, {"x": 160, "y": 350}]}
//	  ]
//	}
//
// Nodes appear in pre-order, so a node's Parent always precedes it. The
// Stats object reports how many edges were reversed, how many virtual
// nodes were inserted and how many crossings remain.
//
// # Validation
//
// [UnmarshalLayout] and [Layout.ToResult] reject unknown versions, unknown
// element or relationship types, duplicate ids and children listed before
// their parents. Errors carry the INVALID_FORMAT code.
//
// # BSON
//
// Every type carries bson tags, so the MongoDB cache stores layouts as
// native documents instead of opaque JSON strings.
package graph
