// Package wheel scrolls hovered scroll areas with the mouse wheel. It writes
// scroll offsets directly and leaves thumbs to the next scrollbar update.
package wheel

import "github.com/xqrs/scrollbar"

// Unit is the unit of a wheel event.
type Unit uint8

const (
	// Line events count notches; each notch scrolls LineHeight pixels.
	Line Unit = iota
	// Pixel events already carry pixel distances.
	Pixel
)

// LineHeight is how far one wheel notch scrolls, in logical pixels.
const LineHeight = 21

// Event is one wheel movement. Positive Y scrolls towards the start of the
// content, positive X towards its left edge.
type Event struct {
	Unit Unit
	X, Y float64
}

// Delta converts ev into a pixel distance, swapping the axes if swap is set so
// a vertical-only wheel can scroll horizontally.
func Delta(ev Event, swap bool) scrollbar.Vec2 {
	d := scrollbar.Vec2{X: ev.X, Y: ev.Y}
	if ev.Unit == Line {
		d.X *= LineHeight
		d.Y *= LineHeight
	}
	if swap {
		d.X, d.Y = d.Y, d.X
	}
	return d
}

// Scroll applies ev to every scrollable node in hovered and returns how many
// were scrolled. Offsets may leave the scrollable range; the layout pass
// clamps them.
func Scroll(tree *scrollbar.Tree, hovered []scrollbar.Entity, ev Event, swap bool) int {
	d := Delta(ev, swap)
	n := 0
	for _, e := range hovered {
		sp := tree.ScrollPosition(e)
		if sp == nil {
			continue
		}
		sp.OffsetX -= d.X
		sp.OffsetY -= d.Y
		n++
	}
	return n
}
