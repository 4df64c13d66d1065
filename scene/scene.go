// Package scene builds scrollbar trees from YAML descriptions.
//
// A scene is a list of root nodes. Each node declares its geometry, an
// optional text label and colors, and may be scrollable or act as the thumb
// of a scrollbar bound to another node by name:
//
//	nodes:
//	  - name: panel
//	    height: 1px
//	    min_height: 256px
//	    children:
//	      - name: list
//	        direction: column
//	        overflow_y: scroll
//	        scrollable: true
//	        children:
//	          - repeat: 50
//	            text: "Item {i}"
//	            margin: 3px
//	      - width: 8px
//	        height: 100%
//	        top: 0px
//	        scrollbar: {direction: vertical, area: list}
package scene

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v3"
	"github.com/gdamore/tcell/v3/color"
	"gopkg.in/yaml.v3"

	"github.com/xqrs/scrollbar"
)

//go:embed default.yaml
var defaultScene []byte

// File is the YAML document of a scene.
type File struct {
	Nodes []NodeDecl `yaml:"nodes"`
}

// NodeDecl declares one node and its children.
type NodeDecl struct {
	Name string `yaml:"name,omitempty"`

	Width     Value `yaml:"width,omitempty"`
	Height    Value `yaml:"height,omitempty"`
	MinWidth  Value `yaml:"min_width,omitempty"`
	MinHeight Value `yaml:"min_height,omitempty"`
	MaxWidth  Value `yaml:"max_width,omitempty"`
	MaxHeight Value `yaml:"max_height,omitempty"`
	Left      Value `yaml:"left,omitempty"`
	Top       Value `yaml:"top,omitempty"`
	Margin    Edges `yaml:"margin,omitempty"`
	Padding   Edges `yaml:"padding,omitempty"`

	// Direction is "row" or "column". Empty means row.
	Direction string  `yaml:"direction,omitempty"`
	Grow      float64 `yaml:"grow,omitempty"`
	// Overflow sets both axes; OverflowX and OverflowY override it.
	Overflow  string `yaml:"overflow,omitempty"`
	OverflowX string `yaml:"overflow_x,omitempty"`
	OverflowY string `yaml:"overflow_y,omitempty"`

	Scrollable bool           `yaml:"scrollable,omitempty"`
	Scrollbar  *ScrollbarDecl `yaml:"scrollbar,omitempty"`

	// Text is a single line label. "{i}" is replaced by the repeat index.
	Text       string `yaml:"text,omitempty"`
	Background string `yaml:"background,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`

	// Repeat spawns the node this many times. Named repeated nodes are
	// registered as "name-0", "name-1" and so on.
	Repeat int `yaml:"repeat,omitempty"`

	Children []NodeDecl `yaml:"children,omitempty"`
}

// ScrollbarDecl makes a node the thumb of a scrollbar. The thumb's parent is
// its track.
type ScrollbarDecl struct {
	Direction string `yaml:"direction"`
	Area      string `yaml:"area"`
}

// Paint holds the colors of a node. tcell.ColorDefault means inherit from the
// parent.
type Paint struct {
	Background tcell.Color
	Foreground tcell.Color
}

// Scene is a built tree plus the names and colors declared for its nodes.
type Scene struct {
	Tree   *scrollbar.Tree
	Names  map[string]scrollbar.Entity
	Paints map[scrollbar.Entity]Paint
}

// Entity returns the node registered under name.
func (s *Scene) Entity(name string) (scrollbar.Entity, bool) {
	e, ok := s.Names[name]
	return e, ok
}

// Paint returns the colors declared for e.
func (s *Scene) Paint(e scrollbar.Entity) Paint {
	return s.Paints[e]
}

// Default builds the embedded demo scene.
func Default() (*Scene, error) {
	return Parse(defaultScene)
}

// Load reads and builds the scene file at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return s, nil
}

// Parse builds a scene from YAML. Unknown fields are rejected.
func Parse(data []byte) (*Scene, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty scene")
		}
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	return Build(file)
}

// Build spawns the nodes of file into a new tree and binds its scrollbars.
func Build(file File) (*Scene, error) {
	b := &builder{
		scene: &Scene{
			Tree:   scrollbar.NewTree(),
			Names:  make(map[string]scrollbar.Entity),
			Paints: make(map[scrollbar.Entity]Paint),
		},
	}
	for i := range file.Nodes {
		if err := b.spawn(&file.Nodes[i], scrollbar.Entity{}); err != nil {
			return nil, err
		}
	}
	for _, p := range b.pending {
		if err := b.bind(p); err != nil {
			return nil, err
		}
	}
	return b.scene, nil
}

type pendingScrollbar struct {
	thumb scrollbar.Entity
	name  string
	decl  ScrollbarDecl
}

type builder struct {
	scene   *Scene
	pending []pendingScrollbar
}

func (b *builder) spawn(decl *NodeDecl, parent scrollbar.Entity) error {
	count := max(decl.Repeat, 1)
	for i := range count {
		name := decl.Name
		if decl.Repeat > 0 && name != "" {
			name = name + "-" + strconv.Itoa(i)
		}
		if err := b.spawnOne(decl, parent, name, i); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) spawnOne(decl *NodeDecl, parent scrollbar.Entity, name string, index int) error {
	node, err := decl.node()
	if err != nil {
		return fmt.Errorf("node %s: %w", label(name), err)
	}
	paint, err := decl.paint()
	if err != nil {
		return fmt.Errorf("node %s: %w", label(name), err)
	}

	tree := b.scene.Tree
	var e scrollbar.Entity
	if parent.IsValid() {
		if e, err = tree.SpawnChild(parent, node); err != nil {
			return err
		}
	} else {
		e = tree.Spawn(node)
	}

	if name != "" {
		if _, ok := b.scene.Names[name]; ok {
			return fmt.Errorf("duplicate node name %q", name)
		}
		b.scene.Names[name] = e
	}
	if paint != (Paint{}) {
		b.scene.Paints[e] = paint
	}
	if decl.Text != "" {
		tree.SetText(e, strings.ReplaceAll(decl.Text, "{i}", strconv.Itoa(index)))
	}
	if decl.Scrollable {
		tree.MakeScrollable(e)
	}
	if decl.Scrollbar != nil {
		if !parent.IsValid() {
			return fmt.Errorf("node %s: a scrollbar thumb needs a parent to use as its track", label(name))
		}
		b.pending = append(b.pending, pendingScrollbar{thumb: e, name: name, decl: *decl.Scrollbar})
	}

	for i := range decl.Children {
		if err := b.spawn(&decl.Children[i], e); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) bind(p pendingScrollbar) error {
	direction, err := parseDirection(p.decl.Direction)
	if err != nil {
		return fmt.Errorf("node %s: %w", label(p.name), err)
	}
	area, ok := b.scene.Names[p.decl.Area]
	if !ok {
		return fmt.Errorf("node %s: scroll area %q not found", label(p.name), p.decl.Area)
	}
	if b.scene.Tree.ScrollPosition(area) == nil {
		return fmt.Errorf("node %s: scroll area %q is not scrollable", label(p.name), p.decl.Area)
	}
	return b.scene.Tree.AttachScrollbar(p.thumb, scrollbar.NewScrollbar(direction, area))
}

func (s *NodeDecl) node() (scrollbar.Node, error) {
	n := scrollbar.Node{
		Width:     s.Width.Val,
		Height:    s.Height.Val,
		MinWidth:  s.MinWidth.Val,
		MinHeight: s.MinHeight.Val,
		MaxWidth:  s.MaxWidth.Val,
		MaxHeight: s.MaxHeight.Val,
		Left:      s.Left.Val,
		Top:       s.Top.Val,
		Margin:    s.Margin.Rect,
		Padding:   s.Padding.Rect,
		FlexGrow:  s.Grow,
	}

	switch strings.ToLower(s.Direction) {
	case "", "row":
		n.FlexDirection = scrollbar.FlexRow
	case "column":
		n.FlexDirection = scrollbar.FlexColumn
	default:
		return n, fmt.Errorf("unknown direction %q", s.Direction)
	}

	both, err := parseOverflow(s.Overflow, scrollbar.OverflowVisible)
	if err != nil {
		return n, err
	}
	if n.OverflowX, err = parseOverflow(s.OverflowX, both); err != nil {
		return n, err
	}
	if n.OverflowY, err = parseOverflow(s.OverflowY, both); err != nil {
		return n, err
	}
	return n, nil
}

func (s *NodeDecl) paint() (Paint, error) {
	bg, err := parseColor(s.Background)
	if err != nil {
		return Paint{}, fmt.Errorf("background: %w", err)
	}
	fg, err := parseColor(s.Foreground)
	if err != nil {
		return Paint{}, fmt.Errorf("foreground: %w", err)
	}
	return Paint{Background: bg, Foreground: fg}, nil
}

func parseOverflow(s string, fallback scrollbar.Overflow) (scrollbar.Overflow, error) {
	switch strings.ToLower(s) {
	case "":
		return fallback, nil
	case "visible":
		return scrollbar.OverflowVisible, nil
	case "clip", "hidden":
		return scrollbar.OverflowClip, nil
	case "scroll":
		return scrollbar.OverflowScroll, nil
	default:
		return 0, fmt.Errorf("unknown overflow %q", s)
	}
}

func parseDirection(s string) (scrollbar.Direction, error) {
	switch strings.ToLower(s) {
	case "horizontal":
		return scrollbar.Horizontal, nil
	case "vertical":
		return scrollbar.Vertical, nil
	default:
		return 0, fmt.Errorf("unknown scrollbar direction %q", s)
	}
}

// parseColor accepts color names and "#rrggbb". The empty string is
// tcell.ColorDefault.
func parseColor(s string) (tcell.Color, error) {
	if s == "" {
		return tcell.ColorDefault, nil
	}
	c := color.GetColor(s)
	if c == tcell.ColorDefault && !strings.EqualFold(s, "default") {
		return tcell.ColorDefault, fmt.Errorf("unknown color %q", s)
	}
	return c, nil
}

func label(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return strconv.Quote(name)
}
