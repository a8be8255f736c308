// Package windowtest provides an in-memory Surface for tests.
package windowtest

import (
	"errors"
	"sync"

	"github.com/GriffinCanCode/KioskShell/internal/domain/window"
	"github.com/GriffinCanCode/KioskShell/internal/shared/types"
)

// ErrClosed is returned by commands issued after Close
var ErrClosed = errors.New("surface closed")

// Surface records every command and emits lifecycle events
// synchronously from Load.
type Surface struct {
	mu sync.Mutex

	Options  window.SurfaceOptions
	History  []string
	Index    int
	Scripts  []string
	Styles   []string
	Geometry types.Bounds
	Closed   bool

	// Fail makes the named command return an error.
	Fail map[string]error
	// Silent suppresses lifecycle events.
	Silent bool

	onEvent window.EventFunc
}

// Load appends url to history and reports navigation and completion
func (s *Surface) Load(url string) error {
	s.mu.Lock()
	if err := s.check("load"); err != nil {
		s.mu.Unlock()
		return err
	}
	if len(s.History) > 0 {
		s.History = s.History[:s.Index+1]
	}
	s.History = append(s.History, url)
	s.Index = len(s.History) - 1
	s.mu.Unlock()

	s.emit(window.DidNavigate)
	s.emit(window.DidFinishLoad)
	return nil
}

func (s *Surface) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.History) == 0 {
		return ""
	}
	return s.History[s.Index]
}

func (s *Surface) CanGoBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.Closed && s.Index > 0
}

func (s *Surface) CanGoForward() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.Closed && s.Index < len(s.History)-1
}

func (s *Surface) GoBack() error {
	return s.step(-1, "go_back")
}

func (s *Surface) GoForward() error {
	return s.step(1, "go_forward")
}

func (s *Surface) step(delta int, command string) error {
	s.mu.Lock()
	if err := s.check(command); err != nil {
		s.mu.Unlock()
		return err
	}
	next := s.Index + delta
	if next < 0 || next >= len(s.History) {
		s.mu.Unlock()
		return errors.New("no history")
	}
	s.Index = next
	s.mu.Unlock()

	s.emit(window.DidNavigate)
	s.emit(window.DidFinishLoad)
	return nil
}

func (s *Surface) InsertCSS(css string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("insert_css"); err != nil {
		return err
	}
	s.Styles = append(s.Styles, css)
	return nil
}

func (s *Surface) ExecuteScript(script string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("script"); err != nil {
		return err
	}
	s.Scripts = append(s.Scripts, script)
	return nil
}

func (s *Surface) Bounds() (types.Bounds, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("bounds"); err != nil {
		return types.Bounds{}, err
	}
	return s.Geometry, nil
}

func (s *Surface) SetBounds(b types.Bounds) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check("set_bounds"); err != nil {
		return err
	}
	s.Geometry = b
	return nil
}

func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Closed {
		return ErrClosed
	}
	s.Closed = true
	return nil
}

// Emit delivers a lifecycle event as the page would
func (s *Surface) Emit(ev window.LifecycleEvent) {
	s.emit(ev)
}

// LastScript returns the most recent script, or ""
func (s *Surface) LastScript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Scripts) == 0 {
		return ""
	}
	return s.Scripts[len(s.Scripts)-1]
}

// ScriptCount returns how many scripts ran
func (s *Surface) ScriptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Scripts)
}

func (s *Surface) emit(ev window.LifecycleEvent) {
	if s.Silent || s.onEvent == nil {
		return
	}
	s.onEvent(ev)
}

func (s *Surface) check(command string) error {
	if s.Closed {
		return ErrClosed
	}
	if err, ok := s.Fail[command]; ok {
		return err
	}
	return nil
}

// Factory builds Surfaces and keeps every one it created
type Factory struct {
	mu       sync.Mutex
	Surfaces []*Surface
	// Prepare customizes each surface before it is returned.
	Prepare func(*Surface)
	// Err fails surface creation.
	Err error
}

// NewSurface implements window.SurfaceFactory
func (f *Factory) NewSurface(opts window.SurfaceOptions, onEvent window.EventFunc) (window.Surface, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	s := &Surface{
		Options:  opts,
		Geometry: types.Bounds{Width: opts.Width, Height: opts.Height},
		onEvent:  onEvent,
	}
	if f.Prepare != nil {
		f.Prepare(s)
	}
	f.Surfaces = append(f.Surfaces, s)
	return s, nil
}

// Last returns the newest surface
func (f *Factory) Last() *Surface {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Surfaces) == 0 {
		return nil
	}
	return f.Surfaces[len(f.Surfaces)-1]
}

// Count returns how many surfaces were created
func (f *Factory) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Surfaces)
}
