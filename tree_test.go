package scrollbar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeSpawnAndLink(t *testing.T) {
	tree := NewTree()
	root := tree.Spawn(Node{FlexDirection: FlexColumn})
	a, err := tree.SpawnChild(root, Node{})
	require.NoError(t, err)
	b, err := tree.SpawnChild(root, Node{})
	require.NoError(t, err)

	assert.Equal(t, []Entity{a, b}, tree.Children(root))
	parent, ok := tree.Parent(a)
	assert.True(t, ok)
	assert.Equal(t, root, parent)
	_, ok = tree.Parent(root)
	assert.False(t, ok)
	assert.Equal(t, []Entity{root}, tree.Roots())
	assert.Equal(t, 3, tree.Len())
}

func TestTreeStaleHandles(t *testing.T) {
	tree := NewTree()
	root := tree.Spawn(Node{})
	child, err := tree.SpawnChild(root, Node{})
	require.NoError(t, err)

	tree.Despawn(root)
	assert.False(t, tree.Contains(root))
	assert.False(t, tree.Contains(child))
	assert.Nil(t, tree.Node(child))
	assert.Equal(t, 0, tree.Len())

	// Reused slots hand out new generations.
	again := tree.Spawn(Node{})
	assert.True(t, tree.Contains(again))
	assert.False(t, tree.Contains(root))
	assert.False(t, tree.Contains(child))
}

func TestTreeDespawnDetachesFromParent(t *testing.T) {
	tree := NewTree()
	root := tree.Spawn(Node{})
	a, _ := tree.SpawnChild(root, Node{})
	b, _ := tree.SpawnChild(root, Node{})
	tree.Despawn(a)
	assert.Equal(t, []Entity{b}, tree.Children(root))
}

func TestTreeAddChild(t *testing.T) {
	tree := NewTree()
	left := tree.Spawn(Node{})
	right := tree.Spawn(Node{})
	item, _ := tree.SpawnChild(left, Node{})

	require.NoError(t, tree.AddChild(right, item))
	assert.Empty(t, tree.Children(left))
	assert.Equal(t, []Entity{item}, tree.Children(right))

	assert.Error(t, tree.AddChild(item, right), "cycle")
	assert.ErrorIs(t, tree.AddChild(Entity{}, item), ErrMissingBinding)
}

func TestTreeComponents(t *testing.T) {
	tree := NewTree()
	e := tree.Spawn(Node{})

	assert.Nil(t, tree.Computed(e))
	tree.SetComputed(e, ComputedNode{Size: Vec2{X: 3, Y: 4}, InverseScaleFactor: 1})
	assert.Equal(t, 3.0, tree.Computed(e).Size.X)
	tree.ClearComputed(e)
	assert.Nil(t, tree.Computed(e))

	assert.Nil(t, tree.ScrollPosition(e))
	sp := tree.MakeScrollable(e)
	sp.OffsetY = 12
	assert.Equal(t, 12.0, tree.MakeScrollable(e).OffsetY, "existing offset is kept")

	_, ok := tree.Text(e)
	assert.False(t, ok)
	tree.SetText(e, "Item 1")
	text, ok := tree.Text(e)
	assert.True(t, ok)
	assert.Equal(t, "Item 1", text)

	assert.Empty(t, tree.Scrollbars())
	require.NoError(t, tree.AttachScrollbar(e, NewScrollbar(Vertical, e)))
	assert.Equal(t, []Entity{e}, tree.Scrollbars())
	assert.ErrorIs(t, tree.AttachScrollbar(Entity{}, NewScrollbar(Vertical, e)), ErrMissingBinding)
}

func TestVal(t *testing.T) {
	v := Px(4)
	px, err := v.AsPx()
	require.NoError(t, err)
	assert.Equal(t, 4.0, px)
	_, err = v.AsPercent()
	assert.ErrorIs(t, err, ErrUnitMismatch)

	require.NoError(t, v.SetPx(9))
	assert.Equal(t, "9px", v.String())
	assert.ErrorIs(t, v.SetPercent(3), ErrUnitMismatch)
	assert.Equal(t, "9px", v.String(), "failed set leaves the value alone")

	p := Percent(25)
	require.NoError(t, p.SetPercent(50))
	assert.Equal(t, "50%", p.String())
	assert.Equal(t, "auto", Auto().String())
	assert.Equal(t, UnitAuto, Val{}.Unit())
}

func TestUnitErrorMessage(t *testing.T) {
	_, err := Auto().AsPx()
	assert.EqualError(t, err, "expected px value, got auto")
	assert.EqualError(t, attribute("left", err), "left must be a px value, got auto")
}
