package view

// Offset bounds and step, in percent
const (
	Step        = 5
	MinObjX     = 0
	MaxObjX     = 100
	DefaultObjX = 50
)

// DefaultZoom is the zoom flag for windows without a saved state
const DefaultZoom = true

// Direction of a crop offset nudge
type Direction int

const (
	Left  Direction = -1
	Right Direction = 1
)

// String returns the direction name
func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// State is the mutable view record of one window
type State struct {
	ZoomOn   bool `json:"zoom"`
	ObjX     int  `json:"objX"`
	DragMode bool `json:"dragMode"`
}

// Default returns the state of a fresh window
func Default() State {
	return State{ZoomOn: DefaultZoom, ObjX: DefaultObjX}
}

// New returns a state seeded with zoom and objX. objX is normalized;
// drag mode always starts off.
func New(zoom bool, objX int) State {
	return State{ZoomOn: zoom, ObjX: Normalize(objX)}
}

// ToggleZoom flips forced zoom
func (s *State) ToggleZoom() {
	s.ZoomOn = !s.ZoomOn
}

// Nudge moves the crop offset one step in dir. Without zoom there is
// nothing to pan, so the call is a no-op.
func (s *State) Nudge(dir Direction) {
	if !s.ZoomOn {
		return
	}
	switch dir {
	case Left:
		s.ObjX = max(MinObjX, s.ObjX-Step)
	case Right:
		s.ObjX = min(MaxObjX, s.ObjX+Step)
	}
}

// SetDragMode sets the drag flag
func (s *State) SetDragMode(active bool) {
	s.DragMode = active
}

// Normalize snaps objX to the nearest step and clamps it into range
func Normalize(objX int) int {
	snapped := objX / Step * Step
	if rem := objX % Step; rem >= (Step+1)/2 {
		snapped += Step
	} else if rem <= -(Step+1)/2 {
		snapped -= Step
	}
	return min(MaxObjX, max(MinObjX, snapped))
}

// NormalizeFloat converts a decoded JSON number to a valid offset
func NormalizeFloat(objX float64) int {
	switch {
	case objX <= MinObjX:
		return MinObjX
	case objX >= MaxObjX:
		return MaxObjX
	}
	return Normalize(int(objX + 0.5))
}
