package scrollbar

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	tree   *Tree
	area   Entity
	track  Entity
	thumb  Entity
	plugin *Plugin
	window Window
}

// newFixture builds a 512px track holding a 128px thumb, bound to a scroll
// area whose 100px viewport holds 400px of content (max scroll 300).
func newFixture(t *testing.T, d Direction) *fixture {
	t.Helper()
	f := &fixture{
		tree:   NewTree(),
		plugin: NewPlugin(WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))),
		window: Window{Width: 512, Height: 512},
	}
	along := func(length, cross float64) Vec2 {
		if d == Horizontal {
			return Vec2{X: length, Y: cross}
		}
		return Vec2{X: cross, Y: length}
	}

	f.area = f.tree.Spawn(Node{})
	f.tree.MakeScrollable(f.area)
	f.tree.SetComputed(f.area, ComputedNode{Size: along(100, 100), InverseScaleFactor: 1})
	for range 4 {
		item, err := f.tree.SpawnChild(f.area, Node{})
		require.NoError(t, err)
		f.tree.SetComputed(item, ComputedNode{Size: along(100, 100), InverseScaleFactor: 1})
	}

	f.track = f.tree.Spawn(Node{})
	f.tree.SetComputed(f.track, ComputedNode{Size: along(512, 8), InverseScaleFactor: 1})

	thumbNode := Node{Width: Percent(100), Height: Px(8), Left: Px(0)}
	if d == Vertical {
		thumbNode = Node{Width: Px(8), Height: Percent(100), Top: Px(0)}
	}
	var err error
	f.thumb, err = f.tree.SpawnChild(f.track, thumbNode)
	require.NoError(t, err)
	f.tree.SetComputed(f.thumb, ComputedNode{Size: along(128, 8), InverseScaleFactor: 1})
	require.NoError(t, f.tree.AttachScrollbar(f.thumb, NewScrollbar(d, f.area)))
	return f
}

func (f *fixture) scrollbar() *Scrollbar { return f.tree.Scrollbar(f.thumb) }

func (f *fixture) setOffset(d Direction, offset float64) {
	*f.tree.ScrollPosition(f.area).along(d) = offset
}

func (f *fixture) offset(d Direction) float64 {
	return *f.tree.ScrollPosition(f.area).along(d)
}

func thumbVal(t *testing.T, tree *Tree, thumb Entity, name string) Val {
	t.Helper()
	n := tree.Node(thumb)
	switch name {
	case "width":
		return n.Width
	case "height":
		return n.Height
	case "left":
		return n.Left
	case "top":
		return n.Top
	}
	t.Fatalf("unknown attribute %q", name)
	return Val{}
}

func TestNewScrollbar(t *testing.T) {
	tree := NewTree()
	area := tree.Spawn(Node{})
	sb := NewScrollbar(Vertical, area)
	assert.Equal(t, Vertical, sb.Direction())
	assert.Equal(t, area, sb.ScrollArea())
	assert.Equal(t, 0.0, sb.MaxScroll())
	assert.False(t, sb.Synchronized())
}

func TestUpdateSizesAndPositionsThumb(t *testing.T) {
	for _, tt := range []struct {
		d              Direction
		size, position string
	}{
		{Vertical, "height", "top"},
		{Horizontal, "width", "left"},
	} {
		t.Run(tt.d.String(), func(t *testing.T) {
			f := newFixture(t, tt.d)
			f.setOffset(tt.d, 150)
			require.NoError(t, f.plugin.Update(f.tree))

			assert.InDelta(t, 300, f.scrollbar().MaxScroll(), 1e-9)
			assert.True(t, f.scrollbar().Synchronized())

			percent, err := thumbVal(t, f.tree, f.thumb, tt.size).AsPercent()
			require.NoError(t, err)
			assert.InDelta(t, 25, percent, 1e-9)

			px, err := thumbVal(t, f.tree, f.thumb, tt.position).AsPx()
			require.NoError(t, err)
			assert.InDelta(t, 192, px, 1e-9)
		})
	}
}

func TestUpdateContentFits(t *testing.T) {
	f := newFixture(t, Vertical)
	for _, item := range append([]Entity(nil), f.tree.Children(f.area)[1:]...) {
		f.tree.Despawn(item)
	}
	require.NoError(t, f.plugin.Update(f.tree))

	assert.InDelta(t, 0, f.scrollbar().MaxScroll(), 1e-9)
	percent, err := f.tree.Node(f.thumb).Height.AsPercent()
	require.NoError(t, err)
	assert.InDelta(t, 100, percent, 1e-9)
	top, err := f.tree.Node(f.thumb).Top.AsPx()
	require.NoError(t, err)
	assert.Equal(t, 0.0, top)
}

func TestUpdateClampsThumbIntoTrack(t *testing.T) {
	tests := []struct {
		name   string
		offset float64
		thumb  float64
		want   float64
	}{
		{"offset past max scroll", 450, 128, 384},
		{"negative offset", -50, 128, 0},
		{"thumb longer than track", 150, 600, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Vertical)
			f.setOffset(Vertical, tt.offset)
			f.tree.SetComputed(f.thumb, ComputedNode{Size: Vec2{X: 8, Y: tt.thumb}, InverseScaleFactor: 1})
			require.NoError(t, f.plugin.Update(f.tree))

			top, err := f.tree.Node(f.thumb).Top.AsPx()
			require.NoError(t, err)
			assert.InDelta(t, tt.want, top, 1e-9)
			assert.GreaterOrEqual(t, top, 0.0)
			assert.LessOrEqual(t, top, max(512-tt.thumb, 0))
		})
	}
}

func TestUpdateEmptyScrollArea(t *testing.T) {
	f := newFixture(t, Vertical)
	for _, item := range append([]Entity(nil), f.tree.Children(f.area)...) {
		f.tree.Despawn(item)
	}
	require.NoError(t, f.plugin.Update(f.tree))

	assert.InDelta(t, -100, f.scrollbar().MaxScroll(), 1e-9)
	percent, err := f.tree.Node(f.thumb).Height.AsPercent()
	require.NoError(t, err)
	assert.InDelta(t, 100, percent, 1e-9)
}

func TestUpdateUnitMismatch(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(n *Node)
		attribute string
		want      Unit
	}{
		{"size in px", func(n *Node) { n.Height = Px(30) }, "height", UnitPercent},
		{"size auto", func(n *Node) { n.Height = Auto() }, "height", UnitPercent},
		{"offset in percent", func(n *Node) { n.Top = Percent(10) }, "top", UnitPx},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Vertical)
			tt.mutate(f.tree.Node(f.thumb))

			err := f.plugin.Update(f.tree)
			require.ErrorIs(t, err, ErrUnitMismatch)
			var ue *UnitError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, tt.attribute, ue.Attribute)
			assert.Equal(t, tt.want, ue.Want)
		})
	}
}

func TestUpdateContinuesPastBrokenScrollbar(t *testing.T) {
	f := newFixture(t, Vertical)

	broken, err := f.tree.SpawnChild(f.track, Node{Height: Px(10), Top: Px(0)})
	require.NoError(t, err)
	f.tree.SetComputed(broken, ComputedNode{Size: Vec2{X: 8, Y: 128}, InverseScaleFactor: 1})
	require.NoError(t, f.tree.AttachScrollbar(broken, NewScrollbar(Vertical, f.area)))

	gone := f.tree.Spawn(Node{})
	orphan, err := f.tree.SpawnChild(f.track, Node{Height: Percent(100), Top: Px(0)})
	require.NoError(t, err)
	require.NoError(t, f.tree.AttachScrollbar(orphan, NewScrollbar(Vertical, gone)))
	f.tree.Despawn(gone)

	f.setOffset(Vertical, 300)
	err = f.plugin.Update(f.tree)
	assert.ErrorIs(t, err, ErrUnitMismatch)
	assert.ErrorIs(t, err, ErrMissingBinding)

	top, err := f.tree.Node(f.thumb).Top.AsPx()
	require.NoError(t, err)
	assert.InDelta(t, 384, top, 1e-9)
}

func TestUpdateMissingBindings(t *testing.T) {
	t.Run("scroll area despawned", func(t *testing.T) {
		f := newFixture(t, Vertical)
		f.tree.Despawn(f.area)
		assert.ErrorIs(t, f.plugin.Update(f.tree), ErrMissingBinding)
		assert.False(t, f.scrollbar().Synchronized())
	})
	t.Run("scroll area not scrollable", func(t *testing.T) {
		f := newFixture(t, Vertical)
		plain := f.tree.Spawn(Node{})
		f.tree.SetComputed(plain, ComputedNode{Size: Vec2{X: 10, Y: 10}, InverseScaleFactor: 1})
		require.NoError(t, f.tree.AttachScrollbar(f.thumb, NewScrollbar(Vertical, plain)))
		assert.ErrorIs(t, f.plugin.Update(f.tree), ErrMissingBinding)
	})
	t.Run("track not laid out", func(t *testing.T) {
		f := newFixture(t, Vertical)
		f.tree.ClearComputed(f.track)
		assert.ErrorIs(t, f.plugin.Update(f.tree), ErrMissingBinding)
		// Max scroll is still cached for the drag handler.
		assert.True(t, f.scrollbar().Synchronized())
	})
}

func TestUpdateLogsWarning(t *testing.T) {
	var buf bytes.Buffer
	f := newFixture(t, Vertical)
	f.plugin = NewPlugin(WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	f.tree.Node(f.thumb).Top = Auto()

	require.Error(t, f.plugin.Update(f.tree))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "direction=vertical")
	assert.Contains(t, buf.String(), "top must be a px value")
}

func TestHandleDrag(t *testing.T) {
	for _, d := range []Direction{Vertical, Horizontal} {
		t.Run(d.String(), func(t *testing.T) {
			f := newFixture(t, d)
			f.setOffset(d, 150)
			require.NoError(t, f.plugin.Update(f.tree))

			delta := Vec2{Y: 50}
			if d == Horizontal {
				delta = Vec2{X: 50}
			}
			require.NoError(t, f.plugin.HandleDrag(f.tree, f.window, DragEvent{Target: f.thumb, Delta: delta}))

			_, name := d.offsetAttr(f.tree.Node(f.thumb))
			px, err := thumbVal(t, f.tree, f.thumb, name).AsPx()
			require.NoError(t, err)
			assert.InDelta(t, 242, px, 1e-9)
			assert.InDelta(t, 189.0625, f.offset(d), 1e-9)
		})
	}
}

func TestHandleDragClamps(t *testing.T) {
	f := newFixture(t, Vertical)
	require.NoError(t, f.plugin.Update(f.tree))

	require.NoError(t, f.plugin.HandleDrag(f.tree, f.window, DragEvent{Target: f.thumb, Delta: Vec2{Y: -40}}))
	top, _ := f.tree.Node(f.thumb).Top.AsPx()
	assert.Equal(t, 0.0, top)
	assert.Equal(t, 0.0, f.offset(Vertical))

	require.NoError(t, f.plugin.HandleDrag(f.tree, f.window, DragEvent{Target: f.thumb, Delta: Vec2{Y: 10000}}))
	top, _ = f.tree.Node(f.thumb).Top.AsPx()
	assert.InDelta(t, 384, top, 1e-9)
	assert.InDelta(t, 300, f.offset(Vertical), 1e-9)
}

func TestHandleDragSwapAxes(t *testing.T) {
	f := newFixture(t, Vertical)
	require.NoError(t, f.plugin.Update(f.tree))

	event := DragEvent{Target: f.thumb, Delta: Vec2{X: 96, Y: 7}, SwapAxes: true}
	require.NoError(t, f.plugin.HandleDrag(f.tree, f.window, event))
	top, _ := f.tree.Node(f.thumb).Top.AsPx()
	assert.InDelta(t, 96, top, 1e-9)
	assert.InDelta(t, 75, f.offset(Vertical), 1e-9)
}

func TestHandleDragNormalizesToWindow(t *testing.T) {
	f := newFixture(t, Vertical)
	require.NoError(t, f.plugin.Update(f.tree))

	// The track is drawn at half the window height, so pointer movement
	// counts half.
	window := Window{Width: 1024, Height: 1024}
	require.NoError(t, f.plugin.HandleDrag(f.tree, window, DragEvent{Target: f.thumb, Delta: Vec2{Y: 100}}))
	top, _ := f.tree.Node(f.thumb).Top.AsPx()
	assert.InDelta(t, 50, top, 1e-9)
}

func TestHandleDragThenUpdateAgrees(t *testing.T) {
	f := newFixture(t, Vertical)
	require.NoError(t, f.plugin.Update(f.tree))
	require.NoError(t, f.plugin.HandleDrag(f.tree, f.window, DragEvent{Target: f.thumb, Delta: Vec2{Y: 123}}))
	dragged, _ := f.tree.Node(f.thumb).Top.AsPx()

	require.NoError(t, f.plugin.Update(f.tree))
	synced, _ := f.tree.Node(f.thumb).Top.AsPx()
	assert.InDelta(t, dragged, synced, 1e-9)
}

func TestHandleDragIgnoresOtherNodes(t *testing.T) {
	f := newFixture(t, Vertical)
	require.NoError(t, f.plugin.Update(f.tree))
	assert.NoError(t, f.plugin.HandleDrag(f.tree, f.window, DragEvent{Target: f.track, Delta: Vec2{Y: 50}}))
	assert.Equal(t, 0.0, f.offset(Vertical))
}

func TestHandleDragPreconditions(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(f *fixture)
		target error
	}{
		{"before first update", func(f *fixture) {}, ErrNotSynchronized},
		{"offset not px", func(f *fixture) {
			require.NoError(t, f.plugin.Update(f.tree))
			f.tree.Node(f.thumb).Top = Percent(5)
		}, ErrUnitMismatch},
		{"scroll area gone", func(f *fixture) {
			require.NoError(t, f.plugin.Update(f.tree))
			f.tree.Despawn(f.area)
		}, ErrMissingBinding},
		{"scroll area not laid out", func(f *fixture) {
			require.NoError(t, f.plugin.Update(f.tree))
			f.tree.ClearComputed(f.area)
		}, ErrMissingBinding},
		{"track not laid out", func(f *fixture) {
			require.NoError(t, f.plugin.Update(f.tree))
			f.tree.ClearComputed(f.track)
		}, ErrMissingBinding},
		{"zero window", func(f *fixture) {
			require.NoError(t, f.plugin.Update(f.tree))
			f.window = Window{}
		}, ErrDegenerateGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Vertical)
			tt.setup(f)
			err := f.plugin.HandleDrag(f.tree, f.window, DragEvent{Target: f.thumb, Delta: Vec2{Y: 50}})
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestHandleDragThumbFillsTrack(t *testing.T) {
	f := newFixture(t, Vertical)
	f.tree.SetComputed(f.thumb, ComputedNode{Size: Vec2{X: 8, Y: 512}, InverseScaleFactor: 1})
	require.NoError(t, f.plugin.Update(f.tree))

	require.NoError(t, f.plugin.HandleDrag(f.tree, f.window, DragEvent{Target: f.thumb, Delta: Vec2{Y: 50}}))
	top, _ := f.tree.Node(f.thumb).Top.AsPx()
	assert.Equal(t, 0.0, top)
	assert.Equal(t, 0.0, f.offset(Vertical))
}

func TestPluginFrame(t *testing.T) {
	f := newFixture(t, Vertical)
	assert.Equal(t, uint64(0), f.plugin.Frame())
	require.NoError(t, f.plugin.Update(f.tree))
	require.NoError(t, f.plugin.Update(f.tree))
	assert.Equal(t, uint64(2), f.plugin.Frame())
}
