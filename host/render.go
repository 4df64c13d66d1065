package host

import (
	"math"

	"github.com/gdamore/tcell/v3"

	"github.com/xqrs/scrollbar"
	"github.com/xqrs/scrollbar/layout"
	"github.com/xqrs/scrollbar/scene"
)

// Renderer draws a laid out scene as terminal cells. Node backgrounds fill
// the cells their border box rounds to, text is printed at the content
// origin and thumbs are drawn with fractional glyphs so they move in 1/8
// cell steps.
type Renderer struct {
	CellWidth, CellHeight float64
	Glyphs                GlyphSet
	Base                  tcell.Style
}

// NewRenderer returns a renderer for cells of the given physical size.
func NewRenderer(cellWidth, cellHeight float64) *Renderer {
	return &Renderer{
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
		Glyphs:     LegacyComputingGlyphSet(),
		Base:       tcell.StyleDefault,
	}
}

// Draw draws every laid out node of sc inside bounds.
func (r *Renderer) Draw(s Surface, sc *scene.Scene, bounds cellRect) {
	for _, root := range sc.Tree.Roots() {
		r.draw(s, sc, root, bounds, r.Base)
	}
}

func (r *Renderer) draw(s Surface, sc *scene.Scene, e scrollbar.Entity, clip cellRect, inherited tcell.Style) {
	tree := sc.Tree
	computed := tree.Computed(e)
	if computed == nil {
		return
	}
	paint := sc.Paint(e)
	style := inherit(inherited, paint)
	rect := r.cells(computed)

	if sb := tree.Scrollbar(e); sb != nil {
		thumb := paint.Background
		if thumb == tcell.ColorDefault {
			thumb = style.GetForeground()
		}
		r.drawThumb(s, sb.Direction(), computed, clip, inherited.Foreground(thumb))
	} else if paint.Background != tcell.ColorDefault {
		fill(s, rect.intersect(clip), style)
	}

	if text, ok := tree.Text(e); ok {
		x := r.round(computed.Position.X+computed.Padding.Left, r.CellWidth)
		y := r.round(computed.Position.Y+computed.Padding.Top, r.CellHeight)
		printText(s, text, x, y, clip, style)
	}

	if layout.Clips(tree.Node(e)) {
		clip = clip.intersect(rect)
		if clip.empty() {
			return
		}
	}
	for _, child := range tree.Children(e) {
		r.draw(s, sc, child, clip, style)
	}
}

// drawThumb draws a thumb along d. style carries the thumb color as its
// foreground and the track color as its background.
func (r *Renderer) drawThumb(s Surface, d scrollbar.Direction, computed *scrollbar.ComputedNode, clip cellRect, style tcell.Style) {
	along, cross := r.CellHeight, r.CellWidth
	pos, size := computed.Position.Y, computed.Size.Y
	crossPos, crossSize := computed.Position.X, computed.Size.X
	if d == scrollbar.Horizontal {
		along, cross = cross, along
		pos, crossPos = crossPos, pos
		size, crossSize = crossSize, size
	}
	if along <= 0 || cross <= 0 {
		return
	}

	start := int(math.Round(pos / along * subcell))
	end := int(math.Round((pos + size) / along * subcell))
	sp := span{start: start, length: end - start}
	if sp.length <= 0 {
		return
	}
	c0 := r.round(crossPos, cross)
	c1 := max(r.round(crossPos+crossSize, cross), c0+1)

	first, last := sp.cells()
	for cell := first; cell <= last; cell++ {
		offset, fillLen := sp.fill(cell)
		glyph := r.Glyphs.glyph(d, offset, fillLen)
		for c := c0; c < c1; c++ {
			x, y := c, cell
			if d == scrollbar.Horizontal {
				x, y = cell, c
			}
			if clip.contains(x, y) {
				s.Put(x, y, glyph, style)
			}
		}
	}
}

// cells returns the cells covered by the border box of computed.
func (r *Renderer) cells(computed *scrollbar.ComputedNode) cellRect {
	return cellRect{
		x0: r.round(computed.Position.X, r.CellWidth),
		y0: r.round(computed.Position.Y, r.CellHeight),
		x1: r.round(computed.Position.X+computed.Size.X, r.CellWidth),
		y1: r.round(computed.Position.Y+computed.Size.Y, r.CellHeight),
	}
}

func (r *Renderer) round(px, cell float64) int {
	if cell <= 0 {
		return 0
	}
	return int(math.Round(px / cell))
}

func inherit(style tcell.Style, paint scene.Paint) tcell.Style {
	if paint.Background != tcell.ColorDefault {
		style = style.Background(paint.Background)
	}
	if paint.Foreground != tcell.ColorDefault {
		style = style.Foreground(paint.Foreground)
	}
	return style
}
