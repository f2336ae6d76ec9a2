package layout

import "github.com/matzehuels/c4x/pkg/c4"

// Size is a box size in pixels.
type Size struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
}

// Padding is the space between a cluster's edge and its content. Top
// includes the header allowance for the cluster label.
type Padding struct {
	Top    float64 `json:"top" toml:"top"`
	Bottom float64 `json:"bottom" toml:"bottom"`
	Left   float64 `json:"left" toml:"left"`
	Right  float64 `json:"right" toml:"right"`
}

// Default spacing, in pixels.
const (
	DefaultNodeSep = 100
	DefaultRankSep = 120
	DefaultMargin  = 80
)

var (
	// DefaultNodePadding surrounds the children of a deployment node.
	DefaultNodePadding = Padding{Top: 80, Bottom: 50, Left: 40, Right: 40}
	// DefaultBoundaryPadding surrounds the members of a boundary.
	DefaultBoundaryPadding = Padding{Top: 60, Bottom: 50, Left: 40, Right: 40}
)

// StandardSizes returns a fresh copy of the standard box size per element
// type.
func StandardSizes() map[c4.ElementType]Size {
	return map[c4.ElementType]Size{
		c4.Person:         {Width: 200, Height: 160},
		c4.SoftwareSystem: {Width: 260, Height: 140},
		c4.Container:      {Width: 240, Height: 130},
		c4.Component:      {Width: 220, Height: 120},
		c4.DeploymentNode: {Width: 300, Height: 200},
	}
}

// Options tunes the engine. Zero fields take the defaults above; Sizes
// entries override the standard size of their element type only.
type Options struct {
	NodeSep         float64
	RankSep         float64
	Margin          float64
	NodePadding     Padding
	BoundaryPadding Padding
	Sizes           map[c4.ElementType]Size

	// Sweeps is the number of barycenter passes per cluster.
	Sweeps int
}

// DefaultOptions returns the options used by [LayoutView].
func DefaultOptions() Options {
	return Options{
		NodeSep:         DefaultNodeSep,
		RankSep:         DefaultRankSep,
		Margin:          DefaultMargin,
		NodePadding:     DefaultNodePadding,
		BoundaryPadding: DefaultBoundaryPadding,
		Sizes:           StandardSizes(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.NodeSep <= 0 {
		o.NodeSep = d.NodeSep
	}
	if o.RankSep <= 0 {
		o.RankSep = d.RankSep
	}
	if o.Margin <= 0 {
		o.Margin = d.Margin
	}
	if o.NodePadding == (Padding{}) {
		o.NodePadding = d.NodePadding
	}
	if o.BoundaryPadding == (Padding{}) {
		o.BoundaryPadding = d.BoundaryPadding
	}
	sizes := d.Sizes
	for typ, s := range o.Sizes {
		if s.Width > 0 && s.Height > 0 {
			sizes[typ] = s
		}
	}
	o.Sizes = sizes
	return o
}

func (o Options) sizeOf(typ c4.ElementType) Size {
	if s, ok := o.Sizes[typ]; ok {
		return s
	}
	return o.Sizes[c4.DeploymentNode]
}
