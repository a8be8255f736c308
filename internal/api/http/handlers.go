package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/KioskShell/internal/domain/input"
	"github.com/GriffinCanCode/KioskShell/internal/domain/session"
	"github.com/GriffinCanCode/KioskShell/internal/domain/shell"
	"github.com/GriffinCanCode/KioskShell/internal/domain/view"
	"github.com/GriffinCanCode/KioskShell/internal/domain/window"
	"github.com/GriffinCanCode/KioskShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/KioskShell/internal/shared/id"
	"github.com/GriffinCanCode/KioskShell/internal/shared/types"
)

// SessionReader reads the persisted layout
type SessionReader interface {
	Load() (*types.SessionState, error)
}

// Handlers serves the control API. Every shell call runs on the loop.
type Handlers struct {
	loop    *shell.Loop
	manager *shell.Manager
	store   SessionReader
	logger  *logging.Logger
	started time.Time
}

// NewHandlers creates the control API handlers
func NewHandlers(loop *shell.Loop, manager *shell.Manager, store SessionReader, logger *logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		loop:    loop,
		manager: manager,
		store:   store,
		logger:  logger.Named(logging.ComponentAPI),
		started: time.Now(),
	}
}

// Register mounts the control routes on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/health", h.Health)
	r.GET("/windows", h.ListWindows)
	r.POST("/windows", h.CreateWindow)
	r.POST("/windows/:id/focus", h.FocusWindow)
	r.POST("/windows/:id/keys", h.SendKeys)
	r.DELETE("/windows/:id", h.CloseWindow)
	r.POST("/activate", h.Activate)
	r.POST("/quit", h.Quit)
	r.GET("/session", h.GetSession)
}

// Health reports liveness and the open window count
func (h *Handlers) Health(c *gin.Context) {
	var windows int
	if !h.do(c, func() { windows = len(h.manager.Windows()) }) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"windows": windows,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}

// ListWindows lists open windows in creation order
func (h *Handlers) ListWindows(c *gin.Context) {
	var (
		infos   []window.Info
		focused id.WindowID
	)
	if !h.do(c, func() {
		infos = h.manager.Windows()
		focused = h.manager.Focused()
	}) {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"windows": infos,
		"focused": focused,
	})
}

// createWindowRequest seeds a new window. Omitted fields take defaults.
type createWindowRequest struct {
	URL    string        `json:"url"`
	Bounds *types.Bounds `json:"bounds"`
	Zoom   *bool         `json:"zoom"`
	ObjX   *int          `json:"objX"`
}

// CreateWindow opens a window, seeded from the request body if present
func (h *Handlers) CreateWindow(c *gin.Context) {
	var seed *types.WindowRecord
	if c.Request.ContentLength != 0 {
		var req createWindowRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
			return
		}
		seed = req.record()
	}

	var (
		info window.Info
		err  error
	)
	if !h.do(c, func() {
		var ctrl *window.Controller
		if ctrl, err = h.manager.NewWindow(seed); err == nil {
			info = ctrl.Info()
		}
	}) {
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"window": info})
}

// FocusWindow makes a window the input target
func (h *Handlers) FocusWindow(c *gin.Context) {
	wid, ok := h.windowID(c)
	if !ok {
		return
	}

	var err error
	if !h.do(c, func() { err = h.manager.Focus(wid) }) {
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"window_id": wid,
	})
}

// keysRequest carries one event or a batch
type keysRequest struct {
	input.Event
	Events []input.Event `json:"events"`
}

// SendKeys routes key events to a window in order
func (h *Handlers) SendKeys(c *gin.Context) {
	wid, ok := h.windowID(c)
	if !ok {
		return
	}

	var req keysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	events := req.Events
	if len(events) == 0 {
		events = []input.Event{req.Event}
	}
	for _, ev := range events {
		if err := ev.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var (
		handled []bool
		err     error
	)
	if !h.do(c, func() {
		for _, ev := range events {
			var consumed bool
			// A quit or close mid-batch ends the batch.
			if consumed, err = h.manager.Input(wid, ev); err != nil {
				return
			}
			handled = append(handled, consumed)
		}
	}) {
		return
	}
	if err != nil && len(handled) == 0 {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"window_id": wid,
		"handled":   handled,
	})
}

// CloseWindow closes a window, saving the layout first
func (h *Handlers) CloseWindow(c *gin.Context) {
	wid, ok := h.windowID(c)
	if !ok {
		return
	}

	var err error
	if !h.do(c, func() { err = h.manager.Close(wid) }) {
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"window_id": wid,
	})
}

// Activate ensures a window is open
func (h *Handlers) Activate(c *gin.Context) {
	var (
		info window.Info
		err  error
	)
	if !h.do(c, func() {
		var ctrl *window.Controller
		if ctrl, err = h.manager.Activate(); err == nil {
			info = ctrl.Info()
		}
	}) {
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"window": info})
}

// Quit saves the layout and shuts the shell down
func (h *Handlers) Quit(c *gin.Context) {
	if !h.do(c, h.manager.Quit) {
		return
	}
	h.logger.Info("Quit requested", zap.String("client", c.ClientIP()))
	c.JSON(http.StatusAccepted, gin.H{"status": "quitting"})
}

// GetSession returns the live snapshot next to the persisted document
func (h *Handlers) GetSession(c *gin.Context) {
	var live types.SessionState
	if !h.do(c, func() { live = h.manager.Snapshot() }) {
		return
	}

	resp := gin.H{"live": live, "saved": nil}
	if h.store != nil {
		saved, err := h.store.Load()
		switch {
		case err == nil:
			resp["saved"] = saved
		case !errors.Is(err, session.ErrNoSession):
			resp["saved_error"] = err.Error()
		}
	}
	c.JSON(http.StatusOK, resp)
}

// do runs fn on the control loop and reports whether it ran
func (h *Handlers) do(c *gin.Context, fn func()) bool {
	if err := h.loop.Do(c.Request.Context(), fn); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (h *Handlers) windowID(c *gin.Context) (id.WindowID, bool) {
	wid, err := id.ParseWindowID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return wid, true
}

func (h *Handlers) fail(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, shell.ErrWindowNotFound):
		status = http.StatusNotFound
	case errors.Is(err, shell.ErrQuitting), errors.Is(err, shell.ErrNoWindow):
		status = http.StatusConflict
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func (r createWindowRequest) record() *types.WindowRecord {
	record := &types.WindowRecord{
		URL:    r.URL,
		Bounds: r.Bounds,
		Zoom:   view.DefaultZoom,
		ObjX:   view.DefaultObjX,
	}
	if r.Zoom != nil {
		record.Zoom = *r.Zoom
	}
	if r.ObjX != nil {
		record.ObjX = *r.ObjX
	}
	return record
}
