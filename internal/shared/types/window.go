package types

// Bounds represents window geometry in screen coordinates
type Bounds struct {
	X      int `json:"x" yaml:"x" toml:"x"`
	Y      int `json:"y" yaml:"y" toml:"y"`
	Width  int `json:"width" yaml:"width" toml:"width"`
	Height int `json:"height" yaml:"height" toml:"height"`
}

// Empty reports whether the bounds have no usable area
func (b Bounds) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// WindowRecord is the persisted form of one window.
// DragMode is intentionally absent: it only exists while a key is held.
type WindowRecord struct {
	URL    string  `json:"url"`
	Bounds *Bounds `json:"bounds,omitempty"`
	Zoom   bool    `json:"zoom"`
	ObjX   int     `json:"objX"`
}

// SessionState is the persisted document
type SessionState struct {
	Windows []WindowRecord `json:"windows"`
}

// Len returns the number of window records
func (s *SessionState) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Windows)
}
