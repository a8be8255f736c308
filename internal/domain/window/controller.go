package window

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/KioskShell/internal/domain/input"
	"github.com/GriffinCanCode/KioskShell/internal/domain/view"
	"github.com/GriffinCanCode/KioskShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/KioskShell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/KioskShell/internal/shared/id"
	"github.com/GriffinCanCode/KioskShell/internal/shared/types"
)

// Phase is the controller lifecycle state
type Phase string

const (
	PhaseCreated Phase = "created"
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseClosed  Phase = "closed"
)

// Change tells observers what happened to a window
type Change string

const (
	ChangeReady Change = "ready"
	ChangeView  Change = "view"
)

// StyleSource supplies the override stylesheet
type StyleSource interface {
	Load() string
}

// Options configures a controller
type Options struct {
	HomeURL string
	Surface SurfaceOptions
	Styles  StyleSource
	Logger  *logging.Logger
	Metrics *monitoring.Metrics

	// Dispatch runs surface callbacks on the control loop. Nil runs
	// them inline.
	Dispatch func(func())
	// OnClose runs while the window is still open, before teardown.
	OnClose func(*Controller)
	// OnChange observes readiness and view state changes.
	OnChange func(*Controller, Change)
}

// Info is a read-only snapshot of a controller
type Info struct {
	ID     id.WindowID   `json:"id"`
	URL    string        `json:"url"`
	Phase  Phase         `json:"phase"`
	View   view.State    `json:"view"`
	Bounds *types.Bounds `json:"bounds,omitempty"`
}

// Controller owns one surface and its view state
type Controller struct {
	id      id.WindowID
	homeURL string
	surface Surface
	state   view.State
	phase   Phase

	styles   StyleSource
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	onClose  func(*Controller)
	onChange func(*Controller, Change)
}

// New creates the surface, seeds the view state and starts loading.
// A nil seed opens the home location with default view state.
func New(factory SurfaceFactory, opts Options, seed *types.WindowRecord) (*Controller, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	wid := id.NewWindowID()

	c := &Controller{
		id:       wid,
		homeURL:  opts.HomeURL,
		state:    view.Default(),
		phase:    PhaseCreated,
		styles:   opts.Styles,
		logger:   opts.Logger.ForWindow(wid.String()),
		metrics:  opts.Metrics,
		onClose:  opts.OnClose,
		onChange: opts.OnChange,
	}
	if seed != nil {
		c.state = view.New(seed.Zoom, seed.ObjX)
	}

	dispatch := opts.Dispatch
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	surface, err := factory.NewSurface(opts.Surface, func(ev LifecycleEvent) {
		dispatch(func() { c.HandleLifecycle(ev) })
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create surface: %w", err)
	}
	c.surface = surface

	// Restored geometry is advisory; the default size stands if it fails.
	if seed != nil && seed.Bounds != nil {
		c.bestEffort("set_bounds", surface.SetBounds(*seed.Bounds))
	}

	url := c.homeURL
	if seed != nil && seed.URL != "" {
		url = seed.URL
	}
	c.phase = PhaseLoading
	c.logger.Info("Loading window", zap.String("url", url), zap.Bool("zoom", c.state.ZoomOn), zap.Int("obj_x", c.state.ObjX))
	c.bestEffort("load", surface.Load(url))

	return c, nil
}

// ID returns the window identifier
func (c *Controller) ID() id.WindowID {
	return c.id
}

// Phase returns the lifecycle phase
func (c *Controller) Phase() Phase {
	return c.phase
}

// View returns the live view state. Only the input router mutates it.
func (c *Controller) View() *view.State {
	return &c.state
}

// Surface returns the underlying surface
func (c *Controller) Surface() Surface {
	return c.surface
}

// HandleLifecycle re-applies the view state after loads and navigations
func (c *Controller) HandleLifecycle(ev LifecycleEvent) {
	if c.phase == PhaseClosed {
		return
	}
	if ev == DidFailLoad {
		c.logger.Warn("Page failed to load", zap.String("url", c.surface.URL()))
		return
	}

	c.phase = PhaseReady
	c.logger.Debug("Surface event", zap.String("event", string(ev)), zap.String("url", c.surface.URL()))
	c.ApplyViewState()
	c.notify(ChangeReady)
}

// ApplyViewState pushes the stylesheet, zoom and offset to the surface.
// Each step is attempted independently.
func (c *Controller) ApplyViewState() {
	if c.phase == PhaseClosed {
		return
	}
	if c.styles != nil {
		if css := c.styles.Load(); strings.TrimSpace(css) != "" {
			c.bestEffort("insert_css", c.surface.InsertCSS(css))
		}
	}
	c.ApplyZoom()
	c.ApplyOffset()
}

// ApplyZoom pushes the zoom flag
func (c *Controller) ApplyZoom() {
	c.run("zoom", view.ZoomScript(c.state.ZoomOn))
}

// ApplyOffset pushes the crop offset
func (c *Controller) ApplyOffset() {
	c.run("offset", view.OffsetScript(c.state.ObjX))
}

// ApplyDrag pushes the drag flag
func (c *Controller) ApplyDrag() {
	c.run("drag", view.DragScript(c.state.DragMode))
}

// CanGoBack reports whether the surface has back history
func (c *Controller) CanGoBack() bool {
	return c.phase != PhaseClosed && c.surface.CanGoBack()
}

// CanGoForward reports whether the surface has forward history
func (c *Controller) CanGoForward() bool {
	return c.phase != PhaseClosed && c.surface.CanGoForward()
}

// GoBack navigates back
func (c *Controller) GoBack() {
	c.bestEffort("go_back", c.surface.GoBack())
}

// GoForward navigates forward
func (c *Controller) GoForward() {
	c.bestEffort("go_forward", c.surface.GoForward())
}

// HandleInput routes a key event for this window and reports whether it
// was consumed.
func (c *Controller) HandleInput(ev input.Event, router *input.Router, app input.App) bool {
	if c.phase == PhaseClosed {
		return false
	}
	before := c.state
	handled := router.Dispatch(ev, c, app)
	if c.phase != PhaseClosed && c.state != before {
		c.notify(ChangeView)
	}
	return handled
}

// Record snapshots the live URL, geometry and view state
func (c *Controller) Record() types.WindowRecord {
	record := types.WindowRecord{
		URL:  c.surface.URL(),
		Zoom: c.state.ZoomOn,
		ObjX: c.state.ObjX,
	}
	if record.URL == "" {
		record.URL = c.homeURL
	}
	if b, err := c.surface.Bounds(); err == nil {
		record.Bounds = &b
	} else {
		c.logger.Debug("Bounds unavailable", zap.Error(err))
	}
	return record
}

// Info returns a snapshot for status reporting
func (c *Controller) Info() Info {
	record := c.Record()
	return Info{
		ID:     c.id,
		URL:    record.URL,
		Phase:  c.phase,
		View:   c.state,
		Bounds: record.Bounds,
	}
}

// Close runs the close hook while the window is still enumerable, then
// tears the surface down. Closing twice is a no-op.
func (c *Controller) Close() {
	if c.phase == PhaseClosed {
		return
	}
	if c.onClose != nil {
		c.onClose(c)
	}
	c.phase = PhaseClosed
	c.state.SetDragMode(false)
	c.bestEffort("close", c.surface.Close())
	c.logger.Info("Window closed")
}

func (c *Controller) run(command, script string) {
	if c.phase == PhaseClosed {
		return
	}
	c.bestEffort(command, c.surface.ExecuteScript(script))
}

// bestEffort discards a surface failure. These commands have no caller
// that could act on an error: the next load re-applies everything.
func (c *Controller) bestEffort(command string, err error) {
	if err == nil {
		return
	}
	c.metrics.RecordSurfaceFailure(command)
	c.logger.Debug("Surface command failed", zap.String("command", command), zap.Error(err))
}

func (c *Controller) notify(change Change) {
	if c.onChange != nil {
		c.onChange(c, change)
	}
}
