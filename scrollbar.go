package scrollbar

// Direction is the axis a scrollbar scrolls along.
type Direction uint8

const (
	Horizontal Direction = iota
	Vertical
)

func (d Direction) String() string {
	if d == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Scrollbar is the widget state attached to a thumb node. The thumb's parent
// is the track.
//
// A horizontal thumb must declare its Width as Percent and its Left as Px. A
// vertical thumb must declare its Height as Percent and its Top as Px.
type Scrollbar struct {
	direction  Direction
	scrollArea Entity

	maxScroll float64
	// syncedFrame is the frame of the last successful synchronization; zero
	// means never.
	syncedFrame uint64
}

// NewScrollbar returns scrollbar state bound to a scroll area. Direction and
// scroll area cannot change afterwards.
func NewScrollbar(direction Direction, scrollArea Entity) Scrollbar {
	return Scrollbar{direction: direction, scrollArea: scrollArea}
}

// Direction returns the scroll axis.
func (s *Scrollbar) Direction() Direction { return s.direction }

// ScrollArea returns the handle of the scrolled node.
func (s *Scrollbar) ScrollArea() Entity { return s.scrollArea }

// MaxScroll returns the overflow length cached by the last synchronization,
// in logical pixels. It may be negative when the content does not fill the
// scroll area.
func (s *Scrollbar) MaxScroll() float64 { return s.maxScroll }

// Synchronized reports whether MaxScroll has been computed at least once.
func (s *Scrollbar) Synchronized() bool { return s.syncedFrame != 0 }

// sizeAttr returns the thumb's along-track size attribute.
func (d Direction) sizeAttr(n *Node) (*Val, string) {
	if d == Horizontal {
		return &n.Width, "width"
	}
	return &n.Height, "height"
}

// offsetAttr returns the thumb's along-track offset attribute.
func (d Direction) offsetAttr(n *Node) (*Val, string) {
	if d == Horizontal {
		return &n.Left, "left"
	}
	return &n.Top, "top"
}

// marginsAlong returns the leading and trailing margins along d.
func (d Direction) marginsAlong(r Rect) (Val, Val) {
	if d == Horizontal {
		return r.Left, r.Right
	}
	return r.Top, r.Bottom
}

func (d Direction) pick(v Vec2) float64 {
	if d == Horizontal {
		return v.X
	}
	return v.Y
}
