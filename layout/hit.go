package layout

import (
	"slices"

	"github.com/xqrs/scrollbar"
)

// Contains reports whether p lies within the border box of computed.
func Contains(computed *scrollbar.ComputedNode, p scrollbar.Vec2) bool {
	if computed == nil {
		return false
	}
	return p.X >= computed.Position.X && p.X < computed.Position.X+computed.Size.X &&
		p.Y >= computed.Position.Y && p.Y < computed.Position.Y+computed.Size.Y
}

// Hit returns every laid out node under p, topmost first. Nodes hidden by a
// clipping ancestor are not hit.
func Hit(tree *scrollbar.Tree, p scrollbar.Vec2) []scrollbar.Entity {
	var hits []scrollbar.Entity
	var walk func(e scrollbar.Entity)
	walk = func(e scrollbar.Entity) {
		computed := tree.Computed(e)
		if computed == nil {
			return
		}
		inside := Contains(computed, p)
		if inside {
			hits = append(hits, e)
		}
		if !inside && Clips(tree.Node(e)) {
			return
		}
		for _, child := range tree.Children(e) {
			walk(child)
		}
	}
	for _, root := range tree.Roots() {
		walk(root)
	}
	// Later nodes draw over earlier ones.
	slices.Reverse(hits)
	return hits
}

// Clips reports whether node hides children outside its box.
func Clips(node *scrollbar.Node) bool {
	return node.OverflowX != scrollbar.OverflowVisible || node.OverflowY != scrollbar.OverflowVisible
}
