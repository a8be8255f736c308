package window

import (
	"github.com/GriffinCanCode/KioskShell/internal/shared/types"
)

// LifecycleEvent is a load or navigation notification from a surface
type LifecycleEvent string

const (
	DidFinishLoad     LifecycleEvent = "did-finish-load"
	DidNavigate       LifecycleEvent = "did-navigate"
	DidNavigateInPage LifecycleEvent = "did-navigate-in-page"
	DidFailLoad       LifecycleEvent = "did-fail-load"
)

// Surface is the rendering surface hosting the remote page. Injection and
// geometry calls are best-effort: implementations may apply them
// asynchronously, and the controller discards their errors.
type Surface interface {
	Load(url string) error
	URL() string
	CanGoBack() bool
	CanGoForward() bool
	GoBack() error
	GoForward() error
	InsertCSS(css string) error
	ExecuteScript(script string) error
	Bounds() (types.Bounds, error)
	SetBounds(b types.Bounds) error
	Close() error
}

// SurfaceOptions describes a new surface
type SurfaceOptions struct {
	Width      int
	Height     int
	Background string
	Frameless  bool
}

// EventFunc receives lifecycle events from a surface
type EventFunc func(LifecycleEvent)

// SurfaceFactory creates surfaces. onEvent may be called from any
// goroutine; the shell serializes delivery onto its control loop.
type SurfaceFactory interface {
	NewSurface(opts SurfaceOptions, onEvent EventFunc) (Surface, error)
}

// SurfaceFactoryFunc adapts a function to SurfaceFactory
type SurfaceFactoryFunc func(opts SurfaceOptions, onEvent EventFunc) (Surface, error)

// NewSurface calls f
func (f SurfaceFactoryFunc) NewSurface(opts SurfaceOptions, onEvent EventFunc) (Surface, error) {
	return f(opts, onEvent)
}
