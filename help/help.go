// Package help renders key bindings as a single styled status line.
package help

import (
	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"

	"github.com/xqrs/scrollbar/keybind"
)

// Segment is a run of text drawn in one style.
type Segment struct {
	Text  string
	Style tcell.Style
}

// Help lays out short help for a set of bindings.
type Help struct {
	Styles Styles

	separator string
	ellipsis  string
}

func New() *Help {
	return &Help{
		Styles:    DefaultStyles(),
		separator: " • ",
		ellipsis:  "…",
	}
}

// SetSeparator sets the text placed between bindings.
func (h *Help) SetSeparator(separator string) *Help {
	h.separator = separator
	return h
}

// Line returns the segments of a help line no wider than maxWidth cells.
// Bindings that do not fit are dropped and replaced by an ellipsis when it
// fits. A maxWidth of zero or less disables the limit.
func (h *Help) Line(bindings []keybind.Keybind, maxWidth int) []Segment {
	items := make([][]Segment, 0, len(bindings))
	for _, kb := range bindings {
		if item := h.item(kb); len(item) > 0 {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil
	}

	sepText := h.separator
	if sepText == "" {
		sepText = " "
	}
	sep := Segment{Text: sepText, Style: h.Styles.SeparatorStyle}

	out := clone(items[0])
	if maxWidth > 0 && Width(out) > maxWidth {
		return nil
	}
	for i := 1; i < len(items); i++ {
		candidate := append(clone(out), sep)
		candidate = append(candidate, items[i]...)
		if maxWidth > 0 && Width(candidate) > maxWidth {
			return append(out, h.truncationTail(out, maxWidth)...)
		}
		out = candidate
	}
	return out
}

func (h *Help) item(kb keybind.Keybind) []Segment {
	help := kb.Help()
	switch {
	case help.Key == "" && help.Desc == "":
		return nil
	case help.Key == "":
		return []Segment{{Text: help.Desc, Style: h.Styles.DescStyle}}
	case help.Desc == "":
		return []Segment{{Text: help.Key, Style: h.Styles.KeyStyle}}
	default:
		return []Segment{
			{Text: help.Key, Style: h.Styles.KeyStyle},
			{Text: " ", Style: h.Styles.DescStyle},
			{Text: help.Desc, Style: h.Styles.DescStyle},
		}
	}
}

func (h *Help) truncationTail(current []Segment, maxWidth int) []Segment {
	if h.ellipsis == "" {
		return nil
	}
	// Only add an ellipsis when it fully fits; a clipped one looks broken.
	tail := []Segment{
		{Text: " ", Style: h.Styles.EllipsisStyle},
		{Text: h.ellipsis, Style: h.Styles.EllipsisStyle},
	}
	if Width(current)+Width(tail) <= maxWidth {
		return tail
	}
	return nil
}

// Width returns the display width of segments in cells.
func Width(segments []Segment) int {
	width := 0
	for _, segment := range segments {
		width += uniseg.StringWidth(segment.Text)
	}
	return width
}

func clone(in []Segment) []Segment {
	out := make([]Segment, len(in))
	copy(out, in)
	return out
}
