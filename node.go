package scrollbar

// FlexDirection is the main axis along which a node lays out its children.
type FlexDirection uint8

const (
	FlexRow FlexDirection = iota
	FlexColumn
)

// Overflow controls whether a node clips and scrolls its children along one
// axis.
type Overflow uint8

const (
	OverflowVisible Overflow = iota
	OverflowClip
	OverflowScroll
)

// Node is the declared style of a tree node. Values are logical pixels or
// percentages of the parent's content box.
type Node struct {
	Width, Height       Val
	MinWidth, MinHeight Val
	MaxWidth, MaxHeight Val

	// Left and Top shift the node relative to where the layout placed it.
	Left, Top Val

	Margin  Rect
	Padding Rect

	FlexDirection FlexDirection
	FlexGrow      float64

	OverflowX, OverflowY Overflow
}

// ComputedNode is the layout output for a node. All lengths are physical
// pixels; InverseScaleFactor converts them back to logical pixels.
type ComputedNode struct {
	// Position is the top-left corner of the border box in window space.
	Position Vec2
	Size     Vec2
	Padding  Edges

	// ContentSize is the extent of the laid out children, used by the layout
	// pass to clamp scroll offsets.
	ContentSize Vec2

	InverseScaleFactor float64
}

// ScrollPosition is the scroll offset of a scrollable node in logical pixels.
// Its presence marks the node as scrollable.
type ScrollPosition struct {
	OffsetX, OffsetY float64
}

func (n ComputedNode) along(d Direction) float64 {
	if d == Horizontal {
		return n.Size.X
	}
	return n.Size.Y
}

func (n ComputedNode) paddingAlong(d Direction) float64 {
	if d == Horizontal {
		return n.Padding.Left + n.Padding.Right
	}
	return n.Padding.Top + n.Padding.Bottom
}

func (p *ScrollPosition) along(d Direction) *float64 {
	if d == Horizontal {
		return &p.OffsetX
	}
	return &p.OffsetY
}
