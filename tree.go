package scrollbar

import (
	"fmt"
	"slices"
)

// Entity is a handle to a node in a Tree. Handles of despawned nodes never
// resolve again, even when their slot is reused. The zero Entity is invalid.
type Entity struct {
	id  uint32
	gen uint32
}

func (e Entity) String() string {
	if e.id == 0 {
		return "entity(none)"
	}
	return fmt.Sprintf("entity(%d:%d)", e.id-1, e.gen)
}

// IsValid returns false for the zero Entity.
func (e Entity) IsValid() bool { return e.id != 0 }

type slot struct {
	gen   uint32
	alive bool

	parent   Entity
	children []Entity

	node      Node
	computed  *ComputedNode
	scroll    *ScrollPosition
	scrollbar *Scrollbar
	text      *string
}

// Tree is a flat store of nodes linked into a forest. It is not safe for
// concurrent use; hosts mutate it from a single goroutine.
type Tree struct {
	slots []slot
	free  []uint32
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// Spawn adds a root node with the given style.
func (t *Tree) Spawn(node Node) Entity {
	var index uint32
	if n := len(t.free); n > 0 {
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, slot{})
		index = uint32(len(t.slots) - 1)
	}
	s := &t.slots[index]
	gen := s.gen + 1
	*s = slot{gen: gen, alive: true, node: node}
	return Entity{id: index + 1, gen: gen}
}

// SpawnChild adds a node as the last child of parent.
func (t *Tree) SpawnChild(parent Entity, node Node) (Entity, error) {
	if t.get(parent) == nil {
		return Entity{}, &BindingError{Entity: parent, What: "parent does not exist"}
	}
	child := t.Spawn(node)
	t.link(parent, child)
	return child, nil
}

// AddChild moves child under parent, detaching it from its previous parent.
func (t *Tree) AddChild(parent, child Entity) error {
	if t.get(parent) == nil {
		return &BindingError{Entity: parent, What: "parent does not exist"}
	}
	if t.get(child) == nil {
		return &BindingError{Entity: child, What: "child does not exist"}
	}
	for p := parent; p.IsValid(); p = t.get(p).parent {
		if p == child {
			return fmt.Errorf("add %v under %v: would create a cycle", child, parent)
		}
	}
	t.unlink(child)
	t.link(parent, child)
	return nil
}

func (t *Tree) link(parent, child Entity) {
	p := t.get(parent)
	p.children = append(p.children, child)
	t.get(child).parent = parent
}

func (t *Tree) unlink(child Entity) {
	c := t.get(child)
	if p := t.get(c.parent); p != nil {
		if i := slices.Index(p.children, child); i >= 0 {
			p.children = slices.Delete(p.children, i, i+1)
		}
	}
	c.parent = Entity{}
}

// Despawn removes e and all of its descendants.
func (t *Tree) Despawn(e Entity) {
	s := t.get(e)
	if s == nil {
		return
	}
	t.unlink(e)
	t.despawnRecursive(e)
}

func (t *Tree) despawnRecursive(e Entity) {
	s := t.get(e)
	for _, child := range s.children {
		t.despawnRecursive(child)
	}
	gen := s.gen
	*s = slot{gen: gen}
	t.free = append(t.free, e.id-1)
}

func (t *Tree) get(e Entity) *slot {
	if e.id == 0 || int(e.id) > len(t.slots) {
		return nil
	}
	s := &t.slots[e.id-1]
	if !s.alive || s.gen != e.gen {
		return nil
	}
	return s
}

// Contains reports whether e refers to a live node.
func (t *Tree) Contains(e Entity) bool { return t.get(e) != nil }

// Node returns the declared style of e for in-place mutation, or nil.
func (t *Tree) Node(e Entity) *Node {
	if s := t.get(e); s != nil {
		return &s.node
	}
	return nil
}

// Parent returns the parent of e. Roots and missing nodes report false.
func (t *Tree) Parent(e Entity) (Entity, bool) {
	s := t.get(e)
	if s == nil || !s.parent.IsValid() {
		return Entity{}, false
	}
	return s.parent, true
}

// Children returns the children of e in order. The slice must not be
// modified.
func (t *Tree) Children(e Entity) []Entity {
	if s := t.get(e); s != nil {
		return s.children
	}
	return nil
}

// Roots returns every live node without a parent, in slot order.
func (t *Tree) Roots() []Entity {
	var roots []Entity
	for i := range t.slots {
		s := &t.slots[i]
		if s.alive && !s.parent.IsValid() {
			roots = append(roots, Entity{id: uint32(i) + 1, gen: s.gen})
		}
	}
	return roots
}

// Computed returns the layout output of e, or nil if e was not laid out.
func (t *Tree) Computed(e Entity) *ComputedNode {
	if s := t.get(e); s != nil {
		return s.computed
	}
	return nil
}

// SetComputed stores the layout output of e.
func (t *Tree) SetComputed(e Entity, computed ComputedNode) {
	if s := t.get(e); s != nil {
		s.computed = &computed
	}
}

// ClearComputed drops the layout output of e.
func (t *Tree) ClearComputed(e Entity) {
	if s := t.get(e); s != nil {
		s.computed = nil
	}
}

// ScrollPosition returns the scroll offset of e, or nil if e is not
// scrollable.
func (t *Tree) ScrollPosition(e Entity) *ScrollPosition {
	if s := t.get(e); s != nil {
		return s.scroll
	}
	return nil
}

// MakeScrollable gives e a zero scroll offset if it has none.
func (t *Tree) MakeScrollable(e Entity) *ScrollPosition {
	s := t.get(e)
	if s == nil {
		return nil
	}
	if s.scroll == nil {
		s.scroll = &ScrollPosition{}
	}
	return s.scroll
}

// Scrollbar returns the scrollbar state attached to e, or nil.
func (t *Tree) Scrollbar(e Entity) *Scrollbar {
	if s := t.get(e); s != nil {
		return s.scrollbar
	}
	return nil
}

// AttachScrollbar makes e the thumb of the given scrollbar.
func (t *Tree) AttachScrollbar(e Entity, sb Scrollbar) error {
	s := t.get(e)
	if s == nil {
		return &BindingError{Entity: e, What: "thumb does not exist"}
	}
	s.scrollbar = &sb
	return nil
}

// Scrollbars returns every entity carrying a scrollbar, in slot order.
func (t *Tree) Scrollbars() []Entity {
	var out []Entity
	for i := range t.slots {
		s := &t.slots[i]
		if s.alive && s.scrollbar != nil {
			out = append(out, Entity{id: uint32(i) + 1, gen: s.gen})
		}
	}
	return out
}

// Text returns the text label of e.
func (t *Tree) Text(e Entity) (string, bool) {
	if s := t.get(e); s != nil && s.text != nil {
		return *s.text, true
	}
	return "", false
}

// SetText sets the text label of e.
func (t *Tree) SetText(e Entity, text string) {
	if s := t.get(e); s != nil {
		s.text = &text
	}
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	return len(t.slots) - len(t.free)
}
