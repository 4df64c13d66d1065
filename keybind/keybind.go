// Package keybind matches tcell key events against named bindings written
// as strings such as "q", "ctrl+c" or "pgup".
package keybind

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v3"
)

type Keybind struct {
	chords []chord
	help   Help
}

type Option func(*Keybind)

func NewKeybind(options ...Option) Keybind {
	k := &Keybind{}
	for _, option := range options {
		option(k)
	}
	return *k
}

func WithKeys(keys ...string) Option {
	return func(k *Keybind) {
		k.chords = nil
		for _, key := range keys {
			if c, ok := parseChord(key); ok {
				k.chords = append(k.chords, c)
			}
		}
	}
}

func WithHelp(key, desc string) Option {
	return func(k *Keybind) {
		k.help = Help{Key: key, Desc: desc}
	}
}

// Keys returns the bound keys in canonical form.
func (k Keybind) Keys() []string {
	keys := make([]string, len(k.chords))
	for i, c := range k.chords {
		keys[i] = c.String()
	}
	return keys
}

func (k Keybind) Help() Help {
	return k.help
}

type Help struct {
	Key  string
	Desc string
}

// Matches reports whether event triggers any of the keybinds.
func Matches(event *tcell.EventKey, keybinds ...Keybind) bool {
	if event == nil {
		return false
	}

	c, ok := eventChord(event)
	if !ok {
		return false
	}
	for _, keybind := range keybinds {
		if slices.Contains(keybind.chords, c) {
			return true
		}
	}
	return false
}

// Keymap holds the bindings of the demo host.
type Keymap struct {
	Quit      Keybind
	ScaleUp   Keybind
	ScaleDown Keybind
	Home      Keybind
}

// DefaultKeymap binds q/esc/ctrl+c to quit, page up/down to the UI scale and
// home to scrolling every area back to the start.
func DefaultKeymap() Keymap {
	return Keymap{
		Quit:      NewKeybind(WithKeys("q", "esc", "ctrl+c"), WithHelp("q", "quit")),
		ScaleUp:   NewKeybind(WithKeys("pgup"), WithHelp("pgup", "zoom in")),
		ScaleDown: NewKeybind(WithKeys("pgdn"), WithHelp("pgdn", "zoom out")),
		Home:      NewKeybind(WithKeys("home"), WithHelp("home", "scroll to top")),
	}
}

// ShortHelp returns the bindings shown in the status line.
func (k Keymap) ShortHelp() []Keybind {
	return []Keybind{k.Quit, k.ScaleUp, k.ScaleDown, k.Home}
}

// modifiers lists the modifier names in the order they are written.
var modifiers = []struct {
	name string
	mask tcell.ModMask
}{
	{"ctrl", tcell.ModCtrl},
	{"alt", tcell.ModAlt},
	{"shift", tcell.ModShift},
	{"meta", tcell.ModMeta},
}

func modifier(name string) (tcell.ModMask, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "control" {
		name = "ctrl"
	}
	for _, m := range modifiers {
		if m.name == name {
			return m.mask, true
		}
	}
	return 0, false
}

// ParseModifier parses a modifier name such as "ctrl" or "alt+shift". The
// empty string and "none" yield no modifier.
func ParseModifier(s string) (tcell.ModMask, error) {
	var mask tcell.ModMask
	for _, part := range strings.Split(s, "+") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "", "none":
			continue
		}
		m, ok := modifier(part)
		if !ok {
			return 0, fmt.Errorf("unknown modifier %q", part)
		}
		mask |= m
	}
	return mask, nil
}

// chord is a key together with the modifiers held while pressing it. Single
// rune keys combined with a modifier are lower case.
type chord struct {
	mods tcell.ModMask
	key  string
}

// keyAliases maps accepted spellings to the names eventChord produces.
var keyAliases = map[string]string{
	"escape":   "esc",
	"pageup":   "pgup",
	"pagedown": "pgdn",
}

// parseChord parses "ctrl+c" style bindings. Every part but the last must be
// a modifier.
func parseChord(s string) (chord, bool) {
	parts := strings.Split(strings.TrimSpace(s), "+")
	key := strings.TrimSpace(parts[len(parts)-1])
	if key == "" {
		return chord{}, false
	}
	var c chord
	for _, part := range parts[:len(parts)-1] {
		m, ok := modifier(part)
		if !ok {
			return chord{}, false
		}
		c.mods |= m
	}
	if utf8.RuneCountInString(key) > 1 {
		key = strings.ToLower(key)
		if alias, ok := keyAliases[key]; ok {
			key = alias
		}
	}
	c.key = key
	return c.canonical(), true
}

func (c chord) canonical() chord {
	if c.mods != 0 && utf8.RuneCountInString(c.key) == 1 {
		c.key = strings.ToLower(c.key)
	}
	return c
}

func (c chord) String() string {
	var b strings.Builder
	for _, m := range modifiers {
		if c.mods&m.mask != 0 {
			b.WriteString(m.name)
			b.WriteByte('+')
		}
	}
	b.WriteString(c.key)
	return b.String()
}

// keyNames names the special keys the keymap can bind.
var keyNames = map[tcell.Key]string{
	tcell.KeyEscape: "esc",
	tcell.KeyHome:   "home",
	tcell.KeyPgUp:   "pgup",
	tcell.KeyPgDn:   "pgdn",
}

func eventChord(event *tcell.EventKey) (chord, bool) {
	key := event.Key()
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return chord{mods: tcell.ModCtrl, key: string(rune('a' + (key - tcell.KeyCtrlA)))}, true
	}
	c := chord{mods: event.Modifiers() & (tcell.ModCtrl | tcell.ModAlt | tcell.ModShift | tcell.ModMeta)}
	switch name, ok := keyNames[key]; {
	case ok:
		c.key = name
	case key == tcell.KeyRune && event.Str() != "":
		c.key = event.Str()
	default:
		return chord{}, false
	}
	return c.canonical(), true
}
