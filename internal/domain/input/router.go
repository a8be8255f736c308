package input

import (
	"github.com/GriffinCanCode/KioskShell/internal/domain/view"
)

// Command is the action an event maps to
type Command int

const (
	CommandNone Command = iota
	CommandQuit
	CommandDragOn
	CommandDragOff
	CommandBack
	CommandForward
	CommandNewWindow
	CommandToggleZoom
	CommandNudgeLeft
	CommandNudgeRight
	CommandConsume
)

var commandNames = [...]string{
	CommandNone:       "none",
	CommandQuit:       "quit",
	CommandDragOn:     "drag_on",
	CommandDragOff:    "drag_off",
	CommandBack:       "back",
	CommandForward:    "forward",
	CommandNewWindow:  "new_window",
	CommandToggleZoom: "toggle_zoom",
	CommandNudgeLeft:  "nudge_left",
	CommandNudgeRight: "nudge_right",
	CommandConsume:    "consume",
}

// String returns the command name used in logs and metrics
func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return "unknown"
	}
	return commandNames[c]
}

// Window is the focused window a command acts on
type Window interface {
	View() *view.State
	ApplyZoom()
	ApplyOffset()
	ApplyDrag()
	CanGoBack() bool
	CanGoForward() bool
	GoBack()
	GoForward()
}

// App receives shell-wide commands
type App interface {
	Quit()
	NewWindow()
}

// Observer is told about every dispatched command
type Observer func(cmd Command)

// Router maps events to commands and executes them
type Router struct {
	modifier Modifier
	observer Observer
}

// NewRouter creates a router using modifier as the command key
func NewRouter(modifier Modifier) *Router {
	if modifier == "" {
		modifier = ModMeta
	}
	return &Router{modifier: modifier}
}

// WithObserver registers a callback for dispatched commands
func (r *Router) WithObserver(o Observer) *Router {
	r.observer = o
	return r
}

// Modifier returns the configured command modifier
func (r *Router) Modifier() Modifier {
	return r.modifier
}

// Classify maps an event to at most one command
func (r *Router) Classify(e Event) Command {
	if e.Key == "Escape" {
		return CommandQuit
	}

	if e.Code == "Space" {
		if e.Type == KeyDown {
			return CommandDragOn
		}
		return CommandDragOff
	}

	if e.Type == KeyDown && r.modifier.held(e) {
		switch e.Code {
		case "BracketLeft":
			return CommandBack
		case "BracketRight":
			return CommandForward
		case "KeyN":
			return CommandNewWindow
		case "KeyZ":
			return CommandToggleZoom
		}
	}

	if e.Key == "ArrowLeft" || e.Key == "ArrowRight" {
		if e.Type != KeyDown {
			return CommandConsume
		}
		if e.Key == "ArrowLeft" {
			return CommandNudgeLeft
		}
		return CommandNudgeRight
	}

	return CommandNone
}

// Dispatch executes the command for e against the focused window and
// reports whether the event was consumed.
func (r *Router) Dispatch(e Event, w Window, app App) bool {
	cmd := r.Classify(e)
	if cmd == CommandNone {
		return false
	}
	if r.observer != nil {
		r.observer(cmd)
	}

	switch cmd {
	case CommandQuit:
		app.Quit()
	case CommandDragOn, CommandDragOff:
		w.View().SetDragMode(cmd == CommandDragOn)
		w.ApplyDrag()
	case CommandBack:
		// Without history the chord belongs to the page.
		if !w.CanGoBack() {
			return false
		}
		w.GoBack()
	case CommandForward:
		if !w.CanGoForward() {
			return false
		}
		w.GoForward()
	case CommandNewWindow:
		app.NewWindow()
	case CommandToggleZoom:
		w.View().ToggleZoom()
		w.ApplyZoom()
	case CommandNudgeLeft, CommandNudgeRight:
		state := w.View()
		if !state.ZoomOn {
			return true
		}
		dir := view.Right
		if cmd == CommandNudgeLeft {
			dir = view.Left
		}
		state.Nudge(dir)
		w.ApplyOffset()
	}
	return true
}
