package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xqrs/scrollbar"
)

func TestHit(t *testing.T) {
	s := newListScene(t, 50)
	New(1, cells).Compute(s.tree, scrollbar.Window{Width: 1600, Height: 1000})

	hits := Hit(s.tree, scrollbar.Vec2{X: 865, Y: 120})
	assert.Equal(t, []scrollbar.Entity{s.thumb, s.panel}, hits)

	hits = Hit(s.tree, scrollbar.Vec2{X: 810, Y: 110})
	assert.Equal(t, []scrollbar.Entity{s.tree.Children(s.area)[0], s.area, s.panel}, hits)

	// Items scrolled out of the area are clipped away.
	below := s.tree.Children(s.area)[20]
	p := s.tree.Computed(below).Position
	hits = Hit(s.tree, scrollbar.Vec2{X: p.X + 1, Y: p.Y + 1})
	assert.NotContains(t, hits, below)

	assert.Empty(t, Hit(s.tree, scrollbar.Vec2{X: 5, Y: 5}))
}
