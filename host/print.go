package host

import (
	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"
)

// Surface is the part of a tcell.Screen the renderer draws on.
type Surface interface {
	Size() (width, height int)
	Put(x, y int, str string, style tcell.Style) (string, int)
}

// cellRect is a half-open rectangle of cells.
type cellRect struct {
	x0, y0, x1, y1 int
}

func (r cellRect) intersect(o cellRect) cellRect {
	return cellRect{
		x0: max(r.x0, o.x0),
		y0: max(r.y0, o.y0),
		x1: min(r.x1, o.x1),
		y1: min(r.y1, o.y1),
	}
}

func (r cellRect) empty() bool {
	return r.x1 <= r.x0 || r.y1 <= r.y0
}

func (r cellRect) contains(x, y int) bool {
	return x >= r.x0 && x < r.x1 && y >= r.y0 && y < r.y1
}

// fill paints every cell of r with a blank in style.
func fill(s Surface, r cellRect, style tcell.Style) {
	for y := r.y0; y < r.y1; y++ {
		for x := r.x0; x < r.x1; x++ {
			s.Put(x, y, " ", style)
		}
	}
}

// printText prints a single line of text starting at (x, y). Graphemes that
// do not fully fit inside clip are skipped. Returns the width advanced.
func printText(s Surface, text string, x, y int, clip cellRect, style tcell.Style) int {
	if y < clip.y0 || y >= clip.y1 {
		return 0
	}
	start := x
	state := -1
	for len(text) > 0 && x < clip.x1 {
		var cluster string
		var width int
		cluster, text, width, state = uniseg.FirstGraphemeClusterInString(text, state)
		if width <= 0 {
			continue
		}
		if x >= clip.x0 && x+width <= clip.x1 {
			// Populate trailing cells of wide graphemes too.
			for offset := width - 1; offset >= 0; offset-- {
				if offset == 0 {
					s.Put(x+offset, y, cluster, style)
				} else {
					s.Put(x+offset, y, " ", style)
				}
			}
		}
		x += width
	}
	return x - start
}
