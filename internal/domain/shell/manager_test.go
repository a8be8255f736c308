package shell

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/KioskShell/internal/domain/input"
	"github.com/GriffinCanCode/KioskShell/internal/domain/session"
	"github.com/GriffinCanCode/KioskShell/internal/domain/view"
	"github.com/GriffinCanCode/KioskShell/internal/domain/window"
	"github.com/GriffinCanCode/KioskShell/internal/domain/window/windowtest"
	"github.com/GriffinCanCode/KioskShell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/KioskShell/internal/shared/types"
)

const home = "https://home.test/"

type memoryStore struct {
	state   *types.SessionState
	loadErr error
	saveErr error
	saves   []types.SessionState
	loads   int
}

func (s *memoryStore) Save(state types.SessionState) error {
	s.saves = append(s.saves, state)
	if s.saveErr != nil {
		return s.saveErr
	}
	s.state = &state
	return nil
}

func (s *memoryStore) Load() (*types.SessionState, error) {
	s.loads++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.state == nil {
		return nil, session.ErrNoSession
	}
	return s.state, nil
}

func newTestManager(store Store, keepAlive bool) (*Manager, *windowtest.Factory) {
	factory := &windowtest.Factory{}
	cfg := Config{
		HomeURL:   home,
		KeepAlive: keepAlive,
		Surface:   window.SurfaceOptions{Width: 1200, Height: 800},
	}
	m := NewManager(cfg, factory, store, nil, input.NewRouter(input.ModMeta), nil).
		WithMetrics(monitoring.NewMetrics())
	return m, factory
}

func TestStartFresh(t *testing.T) {
	m, factory := newTestManager(&memoryStore{}, false)
	require.NoError(t, m.Start())

	require.Equal(t, 1, factory.Count())
	assert.Equal(t, home, factory.Last().URL())

	infos := m.Windows()
	require.Len(t, infos, 1)
	assert.Equal(t, view.State{ZoomOn: true, ObjX: 50}, infos[0].View)
	assert.Equal(t, infos[0].ID, m.Focused())
}

func TestStartRestoresEveryRecord(t *testing.T) {
	store := &memoryStore{state: &types.SessionState{Windows: []types.WindowRecord{
		{URL: "https://a.test/", Bounds: &types.Bounds{X: 0, Y: 0, Width: 800, Height: 600}, Zoom: false, ObjX: 0},
		{URL: "https://b.test/", Zoom: true, ObjX: 100},
	}}}
	m, factory := newTestManager(store, false)
	require.NoError(t, m.Start())

	require.Equal(t, 2, factory.Count())
	infos := m.Windows()
	require.Len(t, infos, 2)
	assert.Equal(t, "https://a.test/", infos[0].URL)
	assert.Equal(t, view.State{ZoomOn: false, ObjX: 0}, infos[0].View)
	assert.Equal(t, types.Bounds{Width: 800, Height: 600}, factory.Surfaces[0].Geometry)
	assert.Equal(t, "https://b.test/", infos[1].URL)
	assert.Equal(t, view.State{ZoomOn: true, ObjX: 100}, infos[1].View)
	assert.Equal(t, infos[1].ID, m.Focused())
}

func TestStartEmptyDocumentOpensDefault(t *testing.T) {
	store := &memoryStore{state: &types.SessionState{}}
	m, factory := newTestManager(store, false)
	require.NoError(t, m.Start())
	assert.Equal(t, 1, factory.Count())
	assert.Equal(t, home, factory.Last().URL())
}

func TestStartUnreadableDocumentOpensDefault(t *testing.T) {
	store := &memoryStore{loadErr: errors.New("parse error")}
	m, factory := newTestManager(store, false)
	require.NoError(t, m.Start())
	assert.Equal(t, 1, factory.Count())
	assert.Equal(t, view.Default(), m.Windows()[0].View)
}

func TestStartCorruptedFileOpensDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"windows": [`), 0o644))

	m, factory := newTestManager(session.NewStore(path), false)
	require.NoError(t, m.Start())
	assert.Equal(t, 1, factory.Count())
	assert.Equal(t, home, factory.Last().URL())
}

func TestCloseSavesBeforeRemoval(t *testing.T) {
	store := &memoryStore{}
	m, _ := newTestManager(store, true)
	require.NoError(t, m.Start())
	second, err := m.NewWindow(&types.WindowRecord{URL: "https://b.test/", Zoom: false, ObjX: 35})
	require.NoError(t, err)

	require.NoError(t, m.Close(second.ID()))

	require.Len(t, store.saves, 1)
	require.Len(t, store.saves[0].Windows, 2)
	assert.Equal(t, "https://b.test/", store.saves[0].Windows[1].URL)
	assert.Len(t, m.Windows(), 1)
	assert.NotEqual(t, second.ID(), m.Focused())
}

func TestClosingLastWindowKeepsItsRecord(t *testing.T) {
	store := &memoryStore{}
	m, _ := newTestManager(store, false)
	require.NoError(t, m.Start())
	last, err := m.NewWindow(&types.WindowRecord{URL: "https://b.test/", Zoom: false, ObjX: 35})
	require.NoError(t, err)
	require.NoError(t, m.Close(m.windows[0].ID()))
	store.saves = nil

	require.NoError(t, m.Close(last.ID()))

	select {
	case <-m.Done():
	default:
		t.Fatal("closing the last window should quit")
	}
	require.Len(t, store.saves, 1)
	require.NotNil(t, store.state)
	require.Len(t, store.state.Windows, 1)
	assert.Equal(t, "https://b.test/", store.state.Windows[0].URL)
	assert.False(t, store.state.Windows[0].Zoom)
	assert.Equal(t, 35, store.state.Windows[0].ObjX)
}

func TestCloseUnknownWindow(t *testing.T) {
	m, _ := newTestManager(&memoryStore{}, false)
	require.NoError(t, m.Start())
	assert.ErrorIs(t, m.Close("win_missing"), ErrWindowNotFound)
}

func TestCloseThenRestartReproducesState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	m, _ := newTestManager(session.NewStore(path), false)
	require.NoError(t, m.Start())
	wid := m.Focused()

	handled, err := m.Input(wid, input.Event{Key: "z", Code: "KeyZ", Type: input.KeyDown, Meta: true})
	require.NoError(t, err)
	require.True(t, handled)
	for i := 0; i < 3; i++ {
		_, err = m.Input(wid, input.Event{Key: "ArrowLeft", Code: "ArrowLeft", Type: input.KeyDown})
		require.NoError(t, err)
	}
	// zoom off: nudges are swallowed
	assert.Equal(t, view.State{ZoomOn: false, ObjX: 50}, m.Windows()[0].View)

	_, err = m.Input(wid, input.Event{Key: "z", Code: "KeyZ", Type: input.KeyDown, Meta: true})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = m.Input(wid, input.Event{Key: "ArrowLeft", Code: "ArrowLeft", Type: input.KeyDown})
		require.NoError(t, err)
	}
	_, err = m.Input(wid, input.Event{Key: "z", Code: "KeyZ", Type: input.KeyDown, Meta: true})
	require.NoError(t, err)

	require.NoError(t, m.Close(wid))
	select {
	case <-m.Done():
	default:
		t.Fatal("closing the last window should quit")
	}

	restarted, _ := newTestManager(session.NewStore(path), false)
	require.NoError(t, restarted.Start())
	infos := restarted.Windows()
	require.Len(t, infos, 1)
	assert.Equal(t, view.State{ZoomOn: false, ObjX: 35}, infos[0].View)
	assert.Equal(t, home, infos[0].URL)
}

func TestQuitPersistsEveryWindow(t *testing.T) {
	store := &memoryStore{}
	m, factory := newTestManager(store, false)
	require.NoError(t, m.Start())
	_, err := m.NewWindow(&types.WindowRecord{URL: "https://b.test/", Zoom: true, ObjX: 20})
	require.NoError(t, err)
	_, err = m.NewWindow(&types.WindowRecord{URL: "https://c.test/", Zoom: false, ObjX: 90})
	require.NoError(t, err)

	m.Quit()
	m.Quit()

	require.Len(t, store.saves, 1)
	urls := make([]string, 0, 3)
	for _, w := range store.saves[0].Windows {
		urls = append(urls, w.URL)
	}
	assert.Equal(t, []string{home, "https://b.test/", "https://c.test/"}, urls)
	assert.Empty(t, m.Windows())
	for _, s := range factory.Surfaces {
		assert.True(t, s.Closed)
	}
	<-m.Done()

	_, err = m.NewWindow(nil)
	assert.ErrorIs(t, err, ErrQuitting)
}

func TestEscapeQuits(t *testing.T) {
	store := &memoryStore{}
	m, _ := newTestManager(store, false)
	require.NoError(t, m.Start())

	handled, err := m.Input("", input.Event{Key: "Escape", Code: "Escape", Type: input.KeyUp})
	require.NoError(t, err)
	assert.True(t, handled)
	<-m.Done()
	require.Len(t, store.saves, 1)
	assert.Len(t, store.saves[0].Windows, 1)
}

func TestNewWindowChord(t *testing.T) {
	m, factory := newTestManager(&memoryStore{}, false)
	require.NoError(t, m.Start())

	handled, err := m.Input("", input.Event{Key: "n", Code: "KeyN", Type: input.KeyDown, Meta: true})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, 2, factory.Count())
	assert.Equal(t, view.Default(), m.Windows()[1].View)
	assert.Equal(t, m.Windows()[1].ID, m.Focused())
}

func TestSaveFailureIsDropped(t *testing.T) {
	store := &memoryStore{saveErr: errors.New("read-only")}
	m, _ := newTestManager(store, true)
	require.NoError(t, m.Start())

	require.NoError(t, m.Close(m.Focused()))
	assert.Len(t, store.saves, 1)
	assert.Empty(t, m.Windows())
}

func TestKeepAliveAndActivate(t *testing.T) {
	store := &memoryStore{}
	m, factory := newTestManager(store, true)
	require.NoError(t, m.Start())
	wid := m.Focused()
	_, err := m.Input(wid, input.Event{Key: "z", Code: "KeyZ", Type: input.KeyDown, Meta: true})
	require.NoError(t, err)

	require.NoError(t, m.Close(wid))
	select {
	case <-m.Done():
		t.Fatal("keep-alive shell should not quit")
	default:
	}
	require.NotNil(t, store.state)
	assert.False(t, store.state.Windows[0].Zoom)
	loads := store.loads

	c, err := m.Activate()
	require.NoError(t, err)
	assert.Equal(t, loads, store.loads, "activate must not read the saved session")
	assert.Equal(t, view.Default(), *c.View())
	assert.Equal(t, 2, factory.Count())

	again, err := m.Activate()
	require.NoError(t, err)
	assert.Equal(t, c.ID(), again.ID())
	assert.Equal(t, 2, factory.Count())
}

func TestFocusAndInputTargets(t *testing.T) {
	m, _ := newTestManager(&memoryStore{}, false)
	require.NoError(t, m.Start())
	first := m.Focused()
	second, err := m.NewWindow(nil)
	require.NoError(t, err)

	require.NoError(t, m.Focus(first))
	_, err = m.Input("", input.Event{Key: "z", Code: "KeyZ", Type: input.KeyDown, Meta: true})
	require.NoError(t, err)

	c, ok := m.Window(first)
	require.True(t, ok)
	assert.False(t, c.View().ZoomOn)
	assert.True(t, second.View().ZoomOn)

	assert.ErrorIs(t, m.Focus("win_missing"), ErrWindowNotFound)
	_, err = m.Input("win_missing", input.Event{Key: "a", Type: input.KeyDown})
	assert.ErrorIs(t, err, ErrWindowNotFound)
	_, err = m.Input(first, input.Event{Key: "a", Type: "press"})
	assert.Error(t, err)
}

func TestObserversSeeLifecycle(t *testing.T) {
	m, _ := newTestManager(&memoryStore{}, false)
	var seen []EventType
	m.Subscribe(func(ev Event) { seen = append(seen, ev.Type) })

	require.NoError(t, m.Start())
	_, err := m.Input("", input.Event{Key: "z", Code: "KeyZ", Type: input.KeyDown, Meta: true})
	require.NoError(t, err)
	m.Quit()

	assert.Contains(t, seen, EventWindowReady)
	assert.Contains(t, seen, EventWindowCreated)
	assert.Contains(t, seen, EventViewChanged)
	assert.Contains(t, seen, EventSessionSaved)
	assert.Contains(t, seen, EventWindowClosed)
	assert.Equal(t, EventQuit, seen[len(seen)-1])
}

func TestStartFactoryFailure(t *testing.T) {
	m, factory := newTestManager(&memoryStore{}, false)
	factory.Err = errors.New("no display")
	assert.Error(t, m.Start())
}
