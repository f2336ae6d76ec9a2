// Package svg renders a [layout.Result] as a self-contained SVG document.
//
// # Connectors
//
// Connectors do not reuse the centre-to-centre route of the layout. For
// each relationship the renderer scores every pairing of the four edge
// midpoints of both boxes: Euclidean distance plus a fixed penalty for each
// endpoint that does not face the dominant direction between the boxes.
// The dominant direction is tested as below, above, right, then left, so a
// box directly above another always connects bottom to top.
//
// # Labels
//
// Leaf boxes are registered as occupied before any connector is drawn.
// Each connector label then tries a fixed list of offsets around the
// connector midpoint and takes the first one that does not overlap an
// earlier label or box, falling back to the midpoint itself.
//
// # Output
//
// Render is deterministic: the same layout and theme always produce the
// same bytes. Paint order is background, defs, boundaries, deployment
// nodes (outermost first), connectors and finally leaf boxes.
package svg
