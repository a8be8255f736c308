package shell

import (
	"time"

	"github.com/GriffinCanCode/KioskShell/internal/domain/window"
)

// EventType names a shell event
type EventType string

const (
	EventWindowCreated EventType = "window_created"
	EventWindowReady   EventType = "window_ready"
	EventWindowClosed  EventType = "window_closed"
	EventViewChanged   EventType = "view_changed"
	EventSessionSaved  EventType = "session_saved"
	EventQuit          EventType = "quit"
)

// Event is delivered to observers on the control loop
type Event struct {
	Type      EventType    `json:"type"`
	Window    *window.Info `json:"window,omitempty"`
	Windows   int          `json:"windows"`
	Timestamp time.Time    `json:"timestamp"`
}

// Observer receives shell events. It must not block.
type Observer func(Event)
