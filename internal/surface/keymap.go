// Package surface is the command surface: the isolated input sub-document
// and the keystroke semantics that drive the edit session from it.
package surface

import (
	"fmt"
	"strings"
)

// Action is what a key event means for the edit session.
type Action int

const (
	// ActionNone leaves the session untouched.
	ActionNone Action = iota
	// ActionOpen opens the command surface (idle to typing).
	ActionOpen
	// ActionClose routes to the escape transition.
	ActionClose
	// ActionCommit routes to the commit protocol.
	ActionCommit
	// ActionUndo and ActionRedo trigger history navigation.
	ActionUndo
	ActionRedo
	// ActionInput records the character into the pending text.
	ActionInput
)

// KeyEvent is a keyboard event forwarded by the client. Focused reports
// whether the command input currently holds keyboard focus; the global
// shortcuts are only active when it does not.
type KeyEvent struct {
	Key     string `json:"key"`
	Mod     bool   `json:"mod"`
	Shift   bool   `json:"shift"`
	Focused bool   `json:"focused"`
}

// Bindings is the configurable shortcut set.
type Bindings struct {
	Open string `yaml:"open"`
	Undo string `yaml:"undo"`
	Redo string `yaml:"redo"`
}

// DefaultBindings mirror the stock editor shortcuts.
func DefaultBindings() Bindings {
	return Bindings{Open: "/", Undo: "mod+z", Redo: "mod+shift+z"}
}

type chord struct {
	key   string
	mod   bool
	shift bool
}

func (c chord) matches(ev KeyEvent) bool {
	return strings.EqualFold(ev.Key, c.key) && ev.Mod == c.mod && ev.Shift == c.shift
}

// parseChord reads a "mod+shift+z" style binding.
func parseChord(s string) (chord, error) {
	var c chord
	parts := strings.Split(s, "+")
	for i, p := range parts {
		switch strings.ToLower(p) {
		case "mod":
			c.mod = true
		case "shift":
			c.shift = true
		default:
			if i != len(parts)-1 || p == "" {
				return chord{}, fmt.Errorf("invalid chord %q", s)
			}
			c.key = strings.ToLower(p)
		}
	}
	if c.key == "" {
		return chord{}, fmt.Errorf("invalid chord %q: no key", s)
	}
	return c, nil
}

// Keymap interprets key events against a set of bindings.
type Keymap struct {
	open chord
	undo chord
	redo chord
}

// NewKeymap compiles the bindings. Empty fields fall back to the defaults.
func NewKeymap(b Bindings) (*Keymap, error) {
	def := DefaultBindings()
	if b.Open == "" {
		b.Open = def.Open
	}
	if b.Undo == "" {
		b.Undo = def.Undo
	}
	if b.Redo == "" {
		b.Redo = def.Redo
	}

	var k Keymap
	var err error
	if k.open, err = parseChord(b.Open); err != nil {
		return nil, err
	}
	if k.undo, err = parseChord(b.Undo); err != nil {
		return nil, err
	}
	if k.redo, err = parseChord(b.Redo); err != nil {
		return nil, err
	}
	return &k, nil
}

// Interpret maps a key event to a session action.
//
// Inside the focused input: Escape closes, Enter commits (the client
// suppresses the newline), anything else is text input. Outside it, the
// configured open key and the undo/redo chords apply, overriding the host
// page's own shortcuts on the client side.
func (k *Keymap) Interpret(ev KeyEvent) Action {
	if ev.Focused {
		switch ev.Key {
		case "Escape":
			return ActionClose
		case "Enter":
			return ActionCommit
		default:
			return ActionInput
		}
	}

	switch {
	case ev.Key == "Escape":
		return ActionClose
	case k.redo.matches(ev):
		return ActionRedo
	case k.undo.matches(ev):
		return ActionUndo
	case k.open.matches(ev):
		return ActionOpen
	}
	return ActionNone
}
