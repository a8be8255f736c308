package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/KioskShell/internal/domain/input"
	"github.com/GriffinCanCode/KioskShell/internal/domain/session"
	"github.com/GriffinCanCode/KioskShell/internal/domain/shell"
	"github.com/GriffinCanCode/KioskShell/internal/domain/window"
	"github.com/GriffinCanCode/KioskShell/internal/domain/window/windowtest"
	"github.com/GriffinCanCode/KioskShell/internal/shared/id"
)

const home = "https://home.test/"

type fixture struct {
	router  *gin.Engine
	loop    *shell.Loop
	manager *shell.Manager
	factory *windowtest.Factory
	store   *session.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := session.NewStore(filepath.Join(t.TempDir(), "state.json"))
	factory := &windowtest.Factory{}
	loop := shell.NewLoop(0)
	manager := shell.NewManager(shell.Config{
		HomeURL: home,
		Surface: window.SurfaceOptions{Width: 1200, Height: 800},
	}, factory, store, nil, input.NewRouter(input.ModMeta), nil).
		WithDispatch(func(fn func()) { loop.Post(fn) })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = loop.Run(ctx) }()
	var startErr error
	require.NoError(t, loop.Do(ctx, func() { startErr = manager.Start() }))
	require.NoError(t, startErr)

	router := gin.New()
	NewHandlers(loop, manager, store, nil).Register(router)

	return &fixture{router: router, loop: loop, manager: manager, factory: factory, store: store}
}

func (f *fixture) request(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func (f *fixture) focused(t *testing.T) id.WindowID {
	t.Helper()
	var wid id.WindowID
	require.NoError(t, f.loop.Do(context.Background(), func() { wid = f.manager.Focused() }))
	return wid
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w, body := f.request(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.EqualValues(t, 1, body["windows"])
}

func TestListWindows(t *testing.T) {
	f := newFixture(t)
	w, body := f.request(t, http.MethodGet, "/windows", nil)
	require.Equal(t, http.StatusOK, w.Code)

	windows := body["windows"].([]interface{})
	require.Len(t, windows, 1)
	first := windows[0].(map[string]interface{})
	assert.Equal(t, home, first["url"])
	assert.Equal(t, string(window.PhaseReady), first["phase"])
	assert.Equal(t, map[string]interface{}{"zoom": true, "objX": float64(50), "dragMode": false}, first["view"])
	assert.Equal(t, first["id"], body["focused"])
}

func TestCreateWindow(t *testing.T) {
	f := newFixture(t)

	w, body := f.request(t, http.MethodPost, "/windows", map[string]interface{}{
		"url":  "https://other.test/",
		"zoom": false,
		"objX": 33,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := body["window"].(map[string]interface{})
	assert.Equal(t, "https://other.test/", created["url"])
	// offsets are snapped to the nudge step
	assert.Equal(t, map[string]interface{}{"zoom": false, "objX": float64(35), "dragMode": false}, created["view"])
	assert.Equal(t, 2, f.factory.Count())

	w, body = f.request(t, http.MethodPost, "/windows", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, home, body["window"].(map[string]interface{})["url"])
}

func TestCreateWindowBadBody(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodPost, "/windows", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFocusWindow(t *testing.T) {
	f := newFixture(t)
	first := f.focused(t)
	_, _ = f.request(t, http.MethodPost, "/windows", nil)
	require.NotEqual(t, first, f.focused(t))

	w, _ := f.request(t, http.MethodPost, "/windows/"+first.String()+"/focus", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, first, f.focused(t))

	w, _ = f.request(t, http.MethodPost, "/windows/"+id.NewWindowID().String()+"/focus", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = f.request(t, http.MethodPost, "/windows/garbage/focus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendKeys(t *testing.T) {
	f := newFixture(t)
	wid := f.focused(t)

	w, body := f.request(t, http.MethodPost, "/windows/"+wid.String()+"/keys", map[string]interface{}{
		"events": []input.Event{
			{Key: "ArrowLeft", Code: "ArrowLeft", Type: input.KeyDown},
			{Key: "ArrowLeft", Code: "ArrowLeft", Type: input.KeyUp},
			{Key: "a", Code: "KeyA", Type: input.KeyDown},
			{Key: "z", Code: "KeyZ", Type: input.KeyDown, Meta: true},
		},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{true, true, false, true}, body["handled"])

	_, body = f.request(t, http.MethodGet, "/windows", nil)
	first := body["windows"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, map[string]interface{}{"zoom": false, "objX": float64(45), "dragMode": false}, first["view"])

	// a single event without the batch wrapper
	w, body = f.request(t, http.MethodPost, "/windows/"+wid.String()+"/keys", input.Event{Key: " ", Code: "Space", Type: input.KeyDown})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{true}, body["handled"])
}

func TestSendKeysValidation(t *testing.T) {
	f := newFixture(t)
	wid := f.focused(t)

	w, _ := f.request(t, http.MethodPost, "/windows/"+wid.String()+"/keys", map[string]interface{}{
		"events": []map[string]string{{"key": "a", "type": "press"}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.request(t, http.MethodPost, "/windows/"+id.NewWindowID().String()+"/keys", input.Event{Key: "a", Type: input.KeyDown})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCloseWindowPersists(t *testing.T) {
	f := newFixture(t)
	_, _ = f.request(t, http.MethodPost, "/windows", map[string]interface{}{"url": "https://b.test/"})
	wid := f.focused(t)

	w, _ := f.request(t, http.MethodDelete, "/windows/"+wid.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	saved, err := f.store.Load()
	require.NoError(t, err)
	require.Len(t, saved.Windows, 2)
	assert.Equal(t, "https://b.test/", saved.Windows[1].URL)

	w, _ = f.request(t, http.MethodDelete, "/windows/"+wid.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetSession(t *testing.T) {
	f := newFixture(t)

	w, body := f.request(t, http.MethodGet, "/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, body["saved"])
	live := body["live"].(map[string]interface{})
	assert.Len(t, live["windows"], 1)
}

func TestQuit(t *testing.T) {
	f := newFixture(t)

	w, body := f.request(t, http.MethodPost, "/quit", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "quitting", body["status"])
	<-f.manager.Done()

	saved, err := f.store.Load()
	require.NoError(t, err)
	assert.Len(t, saved.Windows, 1)

	w, _ = f.request(t, http.MethodPost, "/activate", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestActivate(t *testing.T) {
	f := newFixture(t)
	wid := f.focused(t)

	w, body := f.request(t, http.MethodPost, "/activate", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, wid.String(), body["window"].(map[string]interface{})["id"])
	assert.Equal(t, 1, f.factory.Count())
}

func TestStoppedLoop(t *testing.T) {
	f := newFixture(t)
	f.loop.Stop()

	w, _ := f.request(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
