package scene

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xqrs/scrollbar"
)

// Value is a length written as "auto", "12px", "12" or "50%".
type Value struct {
	scrollbar.Val
}

func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: length must be a scalar", node.Line)
	}
	val, err := ParseVal(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	v.Val = val
	return nil
}

// ParseVal parses a length. A bare number is in pixels.
func ParseVal(s string) (scrollbar.Val, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || strings.EqualFold(s, "auto"):
		return scrollbar.Auto(), nil
	case strings.HasSuffix(s, "%"):
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "%")), 64)
		if err != nil {
			return scrollbar.Val{}, fmt.Errorf("invalid percentage %q", s)
		}
		return scrollbar.Percent(f), nil
	default:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "px")), 64)
		if err != nil {
			return scrollbar.Val{}, fmt.Errorf("invalid length %q", s)
		}
		return scrollbar.Px(f), nil
	}
}

// Edges is a margin or padding declaration. The simple form sets all four
// sides:
//
//	margin: 3px
//
// The extended form sets sides one by one; missing sides are auto:
//
//	margin: {left: 3px, top: 10%}
type Edges struct {
	scrollbar.Rect
}

func (e *Edges) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var v Value
		if err := node.Decode(&v); err != nil {
			return err
		}
		e.Rect = scrollbar.All(v.Val)
		return nil
	}

	var raw struct {
		Left   Value `yaml:"left"`
		Right  Value `yaml:"right"`
		Top    Value `yaml:"top"`
		Bottom Value `yaml:"bottom"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	e.Rect = scrollbar.Rect{Left: raw.Left.Val, Right: raw.Right.Val, Top: raw.Top.Val, Bottom: raw.Bottom.Val}
	return nil
}
