package input

import (
	"fmt"
	"strings"
)

// KeyType distinguishes key presses from releases
type KeyType string

const (
	KeyDown KeyType = "keyDown"
	KeyUp   KeyType = "keyUp"
)

// Event is one raw keyboard event reported by a rendering surface.
// Key is the produced key value ("Escape", "ArrowLeft"), Code the physical
// key ("Space", "BracketLeft", "KeyN").
type Event struct {
	Key     string  `json:"key"`
	Code    string  `json:"code"`
	Type    KeyType `json:"type"`
	Meta    bool    `json:"meta,omitempty"`
	Control bool    `json:"control,omitempty"`
	Alt     bool    `json:"alt,omitempty"`
	Shift   bool    `json:"shift,omitempty"`
	Repeat  bool    `json:"isAutoRepeat,omitempty"`
}

// Validate checks the event carries a key identity and a known type
func (e Event) Validate() error {
	if e.Key == "" && e.Code == "" {
		return fmt.Errorf("event has neither key nor code")
	}
	if e.Type != KeyDown && e.Type != KeyUp {
		return fmt.Errorf("unknown key type %q", e.Type)
	}
	return nil
}

// Modifier selects which modifier acts as the command key
type Modifier string

const (
	ModMeta    Modifier = "meta"
	ModControl Modifier = "control"
)

// ParseModifier accepts "meta"/"cmd"/"super" and "control"/"ctrl"
func ParseModifier(s string) (Modifier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "meta", "cmd", "command", "super":
		return ModMeta, nil
	case "control", "ctrl":
		return ModControl, nil
	default:
		return "", fmt.Errorf("unknown command modifier %q", s)
	}
}

func (m Modifier) held(e Event) bool {
	if m == ModControl {
		return e.Control
	}
	return e.Meta
}
