// Package layout is a small flexbox-like layout pass over a scrollbar.Tree.
//
// It resolves declared sizes into physical pixels, stores a ComputedNode on
// every node it reaches and clamps scroll offsets into range. Children are
// placed one after another along their parent's FlexDirection, stretched on
// the cross axis, and may grow into free space by FlexGrow. Nothing shrinks:
// content that does not fit overflows and can be scrolled.
package layout

import (
	"math"

	"github.com/rivo/uniseg"

	"github.com/xqrs/scrollbar"
)

// Measurer reports the physical size of a text label.
type Measurer interface {
	MeasureText(text string) scrollbar.Vec2
}

// CellMeasurer measures text in terminal cells of a fixed physical size.
type CellMeasurer struct {
	CellWidth, CellHeight float64
}

// MeasureText returns the width of text in cells times the cell size. Text is
// a single line.
func (m CellMeasurer) MeasureText(text string) scrollbar.Vec2 {
	if text == "" {
		return scrollbar.Vec2{}
	}
	return scrollbar.Vec2{
		X: float64(uniseg.StringWidth(text)) * m.CellWidth,
		Y: m.CellHeight,
	}
}

// Engine lays out trees. Scale is the ratio of physical to logical pixels and
// must be positive.
type Engine struct {
	Scale    float64
	Measurer Measurer
}

// New returns an engine for the given scale.
func New(scale float64, measurer Measurer) *Engine {
	return &Engine{Scale: scale, Measurer: measurer}
}

// Compute lays out every root of tree against the window.
func (e *Engine) Compute(tree *scrollbar.Tree, window scrollbar.Window) {
	scale := e.Scale
	if scale <= 0 || math.IsNaN(scale) {
		scale = 1
	}
	l := &pass{tree: tree, scale: scale, measurer: e.Measurer}
	available := scrollbar.Vec2{X: window.Width, Y: window.Height}
	for _, root := range tree.Roots() {
		node := tree.Node(root)
		size := l.boxSize(root, available, available)
		margin := l.edges(node.Margin, available.X)
		origin := scrollbar.Vec2{
			X: margin.Left + l.offset(node.Left, available.X),
			Y: margin.Top + l.offset(node.Top, available.Y),
		}
		l.place(root, origin, size)
	}
}

type pass struct {
	tree     *scrollbar.Tree
	scale    float64
	measurer Measurer
}

// resolve converts v into physical pixels against a physical reference
// length. ok is false for Auto.
func (l *pass) resolve(v scrollbar.Val, reference float64) (float64, bool) {
	switch v.Unit() {
	case scrollbar.UnitPx:
		px, _ := v.AsPx()
		return px * l.scale, true
	case scrollbar.UnitPercent:
		percent, _ := v.AsPercent()
		return percent / 100 * reference, true
	case scrollbar.UnitAuto:
		return 0, false
	}
	return 0, false
}

func (l *pass) offset(v scrollbar.Val, reference float64) float64 {
	px, _ := l.resolve(v, reference)
	return px
}

// edges resolves margins or padding. Percentages refer to the parent's width
// on every edge, like CSS.
func (l *pass) edges(r scrollbar.Rect, width float64) scrollbar.Edges {
	return scrollbar.Edges{
		Left:   l.offset(r.Left, width),
		Right:  l.offset(r.Right, width),
		Top:    l.offset(r.Top, width),
		Bottom: l.offset(r.Bottom, width),
	}
}

func (l *pass) constrain(v float64, minVal, maxVal scrollbar.Val, reference float64) float64 {
	if hi, ok := l.resolve(maxVal, reference); ok && v > hi {
		v = hi
	}
	if lo, ok := l.resolve(minVal, reference); ok && v < lo {
		v = lo
	}
	return max(v, 0)
}

// boxSize resolves the border-box size of e inside a parent content box of
// the given size. An Auto axis takes the matching stretch length, or its
// intrinsic size when that length is negative.
func (l *pass) boxSize(e scrollbar.Entity, content, stretch scrollbar.Vec2) scrollbar.Vec2 {
	node := l.tree.Node(e)
	var intrinsic *scrollbar.Vec2
	auto := func(stretch float64, pick func(scrollbar.Vec2) float64) float64 {
		if stretch >= 0 {
			return stretch
		}
		if intrinsic == nil {
			v := l.intrinsic(e, content)
			intrinsic = &v
		}
		return pick(*intrinsic)
	}

	w, ok := l.resolve(node.Width, content.X)
	if !ok {
		w = auto(stretch.X, func(v scrollbar.Vec2) float64 { return v.X })
	}
	h, ok := l.resolve(node.Height, content.Y)
	if !ok {
		h = auto(stretch.Y, func(v scrollbar.Vec2) float64 { return v.Y })
	}
	return scrollbar.Vec2{
		X: l.constrain(w, node.MinWidth, node.MaxWidth, content.X),
		Y: l.constrain(h, node.MinHeight, node.MaxHeight, content.Y),
	}
}

// intrinsic returns the content-based border-box size of e.
func (l *pass) intrinsic(e scrollbar.Entity, content scrollbar.Vec2) scrollbar.Vec2 {
	node := l.tree.Node(e)
	padding := l.edges(node.Padding, content.X)
	var size scrollbar.Vec2
	if text, ok := l.tree.Text(e); ok && l.measurer != nil {
		size = l.measurer.MeasureText(text)
	}
	for _, child := range l.tree.Children(e) {
		childNode := l.tree.Node(child)
		margin := l.edges(childNode.Margin, content.X)
		childSize := l.boxSize(child, scrollbar.Vec2{}, sizeToContent)
		w := childSize.X + margin.Left + margin.Right
		h := childSize.Y + margin.Top + margin.Bottom
		if node.FlexDirection == scrollbar.FlexRow {
			size.X += w
			size.Y = max(size.Y, h)
		} else {
			size.X = max(size.X, w)
			size.Y += h
		}
	}
	size.X += padding.Left + padding.Right
	size.Y += padding.Top + padding.Bottom
	return size
}

var sizeToContent = scrollbar.Vec2{X: -1, Y: -1}

type item struct {
	entity scrollbar.Entity
	size   scrollbar.Vec2
	margin scrollbar.Edges
	grow   float64
}

// place stores the geometry of e and lays out its children.
func (l *pass) place(e scrollbar.Entity, position, size scrollbar.Vec2) {
	node := l.tree.Node(e)
	padding := l.edges(node.Padding, size.X)
	content := scrollbar.Vec2{
		X: max(size.X-padding.Left-padding.Right, 0),
		Y: max(size.Y-padding.Top-padding.Bottom, 0),
	}
	row := node.FlexDirection == scrollbar.FlexRow

	children := l.tree.Children(e)
	items := make([]item, 0, len(children))
	var used, cross float64
	for _, child := range children {
		childNode := l.tree.Node(child)
		margin := l.edges(childNode.Margin, content.X)
		// The main axis sizes to content, the cross axis stretches.
		stretch := scrollbar.Vec2{X: -1, Y: content.Y - margin.Top - margin.Bottom}
		if !row {
			stretch = scrollbar.Vec2{X: content.X - margin.Left - margin.Right, Y: -1}
		}
		childSize := l.boxSize(child, content, stretch)
		it := item{entity: child, size: childSize, margin: margin, grow: max(childNode.FlexGrow, 0)}
		if row {
			used += childSize.X + margin.Left + margin.Right
			cross = max(cross, childSize.Y+margin.Top+margin.Bottom)
		} else {
			used += childSize.Y + margin.Top + margin.Bottom
			cross = max(cross, childSize.X+margin.Left+margin.Right)
		}
		items = append(items, it)
	}

	// Grow into free space.
	free := content.Y - used
	if row {
		free = content.X - used
	}
	if free > 0 {
		var totalGrow float64
		for _, it := range items {
			totalGrow += it.grow
		}
		if totalGrow > 0 {
			for i := range items {
				share := free * items[i].grow / totalGrow
				if row {
					items[i].size.X += share
				} else {
					items[i].size.Y += share
				}
			}
			used += free
		}
	}

	contentSize := scrollbar.Vec2{X: used, Y: cross}
	if !row {
		contentSize = scrollbar.Vec2{X: cross, Y: used}
	}

	isf := 1 / l.scale
	scroll := l.clampScroll(e, node, content, contentSize, isf)

	l.tree.SetComputed(e, scrollbar.ComputedNode{
		Position:           position,
		Size:               size,
		Padding:            padding,
		ContentSize:        contentSize,
		InverseScaleFactor: isf,
	})

	cursor := scrollbar.Vec2{
		X: position.X + padding.Left - scroll.X,
		Y: position.Y + padding.Top - scroll.Y,
	}
	for _, it := range items {
		childNode := l.tree.Node(it.entity)
		childPos := scrollbar.Vec2{
			X: cursor.X + it.margin.Left + l.offset(childNode.Left, content.X),
			Y: cursor.Y + it.margin.Top + l.offset(childNode.Top, content.Y),
		}
		l.place(it.entity, childPos, it.size)
		if row {
			cursor.X += it.size.X + it.margin.Left + it.margin.Right
		} else {
			cursor.Y += it.size.Y + it.margin.Top + it.margin.Bottom
		}
	}
}

// clampScroll keeps the scroll offset of e within its content overflow and
// returns the offset in physical pixels. Axes that do not scroll report zero.
func (l *pass) clampScroll(e scrollbar.Entity, node *scrollbar.Node, content, contentSize scrollbar.Vec2, isf float64) scrollbar.Vec2 {
	sp := l.tree.ScrollPosition(e)
	if sp == nil {
		return scrollbar.Vec2{}
	}
	maxX := max(contentSize.X-content.X, 0) * isf
	maxY := max(contentSize.Y-content.Y, 0) * isf
	sp.OffsetX = min(max(sp.OffsetX, 0), maxX)
	sp.OffsetY = min(max(sp.OffsetY, 0), maxY)

	var out scrollbar.Vec2
	if node.OverflowX == scrollbar.OverflowScroll {
		out.X = sp.OffsetX * l.scale
	}
	if node.OverflowY == scrollbar.OverflowScroll {
		out.Y = sp.OffsetY * l.scale
	}
	return out
}
