package shell

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/KioskShell/internal/domain/input"
	"github.com/GriffinCanCode/KioskShell/internal/domain/session"
	"github.com/GriffinCanCode/KioskShell/internal/domain/window"
	"github.com/GriffinCanCode/KioskShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/KioskShell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/KioskShell/internal/shared/id"
	"github.com/GriffinCanCode/KioskShell/internal/shared/types"
)

var (
	// ErrWindowNotFound is returned for unknown window IDs
	ErrWindowNotFound = errors.New("window not found")
	// ErrQuitting is returned once Quit has started
	ErrQuitting = errors.New("shell is quitting")
	// ErrNoWindow is returned when input has no window to target
	ErrNoWindow = errors.New("no open window")
)

// Store persists the window layout
type Store interface {
	Save(state types.SessionState) error
	Load() (*types.SessionState, error)
}

// Config holds the shell-wide window settings
type Config struct {
	HomeURL   string
	KeepAlive bool
	Surface   window.SurfaceOptions
}

// Manager owns the set of open windows. It is not safe for concurrent
// use: every call must come from the control loop.
type Manager struct {
	cfg       Config
	factory   window.SurfaceFactory
	store     Store
	styles    window.StyleSource
	router    *input.Router
	logger    *logging.Logger
	metrics   *monitoring.Metrics
	dispatch  func(func())
	observers []Observer

	windows  []*window.Controller
	focused  id.WindowID
	quitting bool
	done     chan struct{}
}

// NewManager creates a manager with no open windows
func NewManager(cfg Config, factory window.SurfaceFactory, store Store, styles window.StyleSource, router *input.Router, logger *logging.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	if router == nil {
		router = input.NewRouter(input.ModMeta)
	}
	return &Manager{
		cfg:     cfg,
		factory: factory,
		store:   store,
		styles:  styles,
		router:  router,
		logger:  logger.Named(logging.ComponentShell),
		done:    make(chan struct{}),
	}
}

// WithMetrics adds metrics tracking to the manager
func (m *Manager) WithMetrics(metrics *monitoring.Metrics) *Manager {
	m.metrics = metrics
	return m
}

// WithDispatch routes surface callbacks through fn, normally Loop.Post
func (m *Manager) WithDispatch(fn func(func())) *Manager {
	m.dispatch = fn
	return m
}

// Subscribe registers an observer for shell events
func (m *Manager) Subscribe(o Observer) {
	m.observers = append(m.observers, o)
}

// Start restores the persisted layout. Without one, a single default
// window opens at the home location.
func (m *Manager) Start() error {
	state := m.restore()
	if state.Len() == 0 {
		_, err := m.NewWindow(nil)
		return err
	}

	for i := range state.Windows {
		record := state.Windows[i]
		if _, err := m.NewWindow(&record); err != nil {
			m.logger.Error("Failed to restore window", zap.Int("index", i), zap.Error(err))
		}
	}
	if len(m.windows) == 0 {
		return fmt.Errorf("no window could be restored from %d records", state.Len())
	}
	return nil
}

// NewWindow opens a window seeded from record, or with defaults when
// record is nil, and focuses it.
func (m *Manager) NewWindow(record *types.WindowRecord) (*window.Controller, error) {
	if m.quitting {
		return nil, ErrQuitting
	}

	c, err := window.New(m.factory, window.Options{
		HomeURL:  m.cfg.HomeURL,
		Surface:  m.cfg.Surface,
		Styles:   m.styles,
		Logger:   m.logger,
		Metrics:  m.metrics,
		Dispatch: m.dispatch,
		OnClose:  m.beforeClose,
		OnChange: m.changed,
	}, record)
	if err != nil {
		m.logger.Error("Failed to open window", zap.Error(err))
		return nil, err
	}

	m.windows = append(m.windows, c)
	m.focused = c.ID()
	m.metrics.IncWindowsCreated()
	m.metrics.SetWindowsOpen(len(m.windows))
	m.logger.Info("Window opened", zap.String("window_id", c.ID().String()), zap.Int("open", len(m.windows)))

	info := c.Info()
	m.emit(EventWindowCreated, &info)
	return c, nil
}

// Close saves the layout with the window still in it, then tears the
// window down. Closing the last window quits unless KeepAlive is set.
func (m *Manager) Close(wid id.WindowID) error {
	idx := m.index(wid)
	if idx < 0 {
		return ErrWindowNotFound
	}
	c := m.windows[idx]
	info := c.Info()

	c.Close()
	m.remove(c)
	m.emit(EventWindowClosed, &info)

	if len(m.windows) == 0 && !m.cfg.KeepAlive && !m.quitting {
		// The close already saved the layout holding this window.
		m.logger.Info("Last window closed")
		m.quit(false)
	}
	return nil
}

// Quit saves one snapshot holding every open window, closes them all
// without saving again and signals Done.
func (m *Manager) Quit() {
	m.quit(true)
}

func (m *Manager) quit(save bool) {
	if m.quitting {
		return
	}
	m.quitting = true
	m.logger.Info("Quitting", zap.Int("windows", len(m.windows)), zap.Bool("save", save))

	if save {
		m.persist()
	}

	open := append([]*window.Controller(nil), m.windows...)
	for _, c := range open {
		info := c.Info()
		c.Close()
		m.remove(c)
		m.emit(EventWindowClosed, &info)
	}

	m.emit(EventQuit, nil)
	close(m.done)
}

// Activate ensures a window exists. With none open it creates a default
// window; the persisted layout is not consulted.
func (m *Manager) Activate() (*window.Controller, error) {
	if m.quitting {
		return nil, ErrQuitting
	}
	if c := m.focusedWindow(); c != nil {
		return c, nil
	}
	m.logger.Info("Reactivated with no windows")
	return m.NewWindow(nil)
}

// Focus marks a window as the input target
func (m *Manager) Focus(wid id.WindowID) error {
	if m.index(wid) < 0 {
		return ErrWindowNotFound
	}
	m.focused = wid
	return nil
}

// Input routes a key event to a window, or to the focused window when
// wid is empty, and reports whether it was consumed.
func (m *Manager) Input(wid id.WindowID, ev input.Event) (bool, error) {
	if err := ev.Validate(); err != nil {
		return false, err
	}

	var c *window.Controller
	if wid == "" {
		c = m.focusedWindow()
		if c == nil {
			return false, ErrNoWindow
		}
	} else {
		idx := m.index(wid)
		if idx < 0 {
			return false, ErrWindowNotFound
		}
		c = m.windows[idx]
		m.focused = wid
	}

	return c.HandleInput(ev, m.router, commands{m}), nil
}

// Window looks up an open window
func (m *Manager) Window(wid id.WindowID) (*window.Controller, bool) {
	idx := m.index(wid)
	if idx < 0 {
		return nil, false
	}
	return m.windows[idx], true
}

// Windows describes every open window in creation order
func (m *Manager) Windows() []window.Info {
	infos := make([]window.Info, 0, len(m.windows))
	for _, c := range m.windows {
		infos = append(infos, c.Info())
	}
	return infos
}

// Focused returns the focused window ID, or "" with no windows
func (m *Manager) Focused() id.WindowID {
	if m.focusedWindow() == nil {
		return ""
	}
	return m.focused
}

// Snapshot records every open window in creation order
func (m *Manager) Snapshot() types.SessionState {
	state := types.SessionState{Windows: make([]types.WindowRecord, 0, len(m.windows))}
	for _, c := range m.windows {
		if c.Phase() == window.PhaseClosed {
			continue
		}
		state.Windows = append(state.Windows, c.Record())
	}
	return state
}

// Done is closed when the shell has quit
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// beforeClose runs while the closing window is still listed
func (m *Manager) beforeClose(*window.Controller) {
	if m.quitting {
		return
	}
	m.persist()
}

func (m *Manager) changed(c *window.Controller, change window.Change) {
	info := c.Info()
	switch change {
	case window.ChangeReady:
		m.emit(EventWindowReady, &info)
	case window.ChangeView:
		m.emit(EventViewChanged, &info)
	}
}

// restore reads the persisted layout. Any failure starts fresh.
func (m *Manager) restore() *types.SessionState {
	state, err := m.store.Load()
	switch {
	case errors.Is(err, session.ErrNoSession):
		m.metrics.RecordSessionLoad("absent")
		m.logger.Info("No saved session")
		return nil
	case err != nil:
		m.metrics.RecordSessionLoad("error")
		m.logger.Warn("Ignoring unreadable session", zap.Error(err))
		return nil
	}
	m.metrics.RecordSessionLoad("ok")
	m.logger.Info("Session loaded", zap.Int("windows", state.Len()))
	return state
}

// persist saves the current layout. A failed save is logged and dropped.
func (m *Manager) persist() {
	snapshot := m.Snapshot()
	if err := m.store.Save(snapshot); err != nil {
		m.metrics.RecordSessionSave("error")
		m.logger.Warn("Failed to save session", zap.Error(err))
		return
	}
	m.metrics.RecordSessionSave("ok")
	m.logger.Debug("Session saved", zap.Int("windows", snapshot.Len()))
	m.emit(EventSessionSaved, nil)
}

func (m *Manager) remove(c *window.Controller) {
	idx := m.index(c.ID())
	if idx < 0 {
		return
	}
	m.windows = append(m.windows[:idx], m.windows[idx+1:]...)
	m.metrics.IncWindowsClosed()
	m.metrics.SetWindowsOpen(len(m.windows))

	if m.focused == c.ID() {
		m.focused = ""
		if n := len(m.windows); n > 0 {
			m.focused = m.windows[n-1].ID()
		}
	}
}

func (m *Manager) index(wid id.WindowID) int {
	for i, c := range m.windows {
		if c.ID() == wid {
			return i
		}
	}
	return -1
}

func (m *Manager) focusedWindow() *window.Controller {
	if idx := m.index(m.focused); idx >= 0 {
		return m.windows[idx]
	}
	return nil
}

func (m *Manager) emit(t EventType, info *window.Info) {
	if len(m.observers) == 0 {
		return
	}
	ev := Event{
		Type:      t,
		Window:    info,
		Windows:   len(m.windows),
		Timestamp: time.Now(),
	}
	for _, o := range m.observers {
		o(ev)
	}
}

// commands adapts the manager to the router's App
type commands struct {
	m *Manager
}

func (a commands) Quit() {
	a.m.Quit()
}

func (a commands) NewWindow() {
	_, _ = a.m.NewWindow(nil)
}
