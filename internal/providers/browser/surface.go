package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/KioskShell/internal/domain/window"
	"github.com/GriffinCanCode/KioskShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/KioskShell/internal/providers/browser/sandbox"
	"github.com/GriffinCanCode/KioskShell/internal/shared/types"
)

var (
	// ErrClosed is returned by commands issued after Close
	ErrClosed = errors.New("surface closed")
	// ErrNoHistory is returned when there is nothing to go back or forward to
	ErrNoHistory = errors.New("no history entry")
)

type entry struct {
	url   string
	title string
}

// Surface is a headless page: it fetches documents, keeps history and
// runs injected scripts against a sandboxed document.
type Surface struct {
	mu      sync.Mutex
	client  *resty.Client
	runtime *sandbox.Runtime
	doc     *sandbox.Document
	history []entry
	index   int
	styles  []string
	bounds  types.Bounds
	closed  bool
	nav     uint64

	onEvent window.EventFunc
	logger  *logging.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Load navigates to target. Fragment-only changes complete in place;
// everything else is fetched in the background and reported through
// lifecycle events.
func (s *Surface) Load(target string) error {
	if err := validateURL(target); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	if sameDocument(s.currentURL(), target) {
		title := s.history[s.index].title
		s.push(entry{url: target, title: title})
		s.async(func() { s.emit(window.DidNavigateInPage) })
		return nil
	}

	s.nav++
	gen := s.nav
	s.async(func() { s.navigate(gen, target, -1) })
	return nil
}

// URL returns the committed location, or "" before the first load
func (s *Surface) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentURL()
}

// Title returns the committed document title
func (s *Surface) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index < 0 {
		return ""
	}
	return s.history[s.index].title
}

func (s *Surface) CanGoBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.index > 0
}

func (s *Surface) CanGoForward() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed && s.index >= 0 && s.index < len(s.history)-1
}

func (s *Surface) GoBack() error {
	return s.traverse(-1)
}

func (s *Surface) GoForward() error {
	return s.traverse(1)
}

// InsertCSS records a stylesheet for the current document
func (s *Surface) InsertCSS(css string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.styles = append(s.styles, css)
	return nil
}

// Stylesheets returns the stylesheets inserted into the current document
func (s *Surface) Stylesheets() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.styles...)
}

// Document returns the current document
func (s *Surface) Document() *sandbox.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// ExecuteScript runs script against the current document
func (s *Surface) ExecuteScript(script string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	doc, rt := s.doc, s.runtime
	s.mu.Unlock()

	result, err := rt.Execute(s.ctx, script, doc)
	if err != nil {
		return err
	}
	for _, line := range result.Console {
		s.logger.Debug("Page console", zap.String("level", line.Level), zap.String("message", line.Message))
	}
	return nil
}

func (s *Surface) Bounds() (types.Bounds, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.Bounds{}, ErrClosed
	}
	return s.bounds, nil
}

// SetBounds moves and resizes the surface. Bounds without area are rejected.
func (s *Surface) SetBounds(b types.Bounds) error {
	if b.Empty() {
		return fmt.Errorf("invalid bounds %dx%d", b.Width, b.Height)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.bounds = b
	return nil
}

// Close cancels pending loads and releases the script runtime
func (s *Surface) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.closed = true
	s.cancel()
	s.mu.Unlock()

	return s.runtime.Close()
}

// Wait blocks until background loads and event deliveries finish
func (s *Surface) Wait() {
	s.wg.Wait()
}

func (s *Surface) traverse(delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	next := s.index + delta
	if s.index < 0 || next < 0 || next >= len(s.history) {
		return ErrNoHistory
	}

	target := s.history[next]
	if sameDocument(s.currentURL(), target.url) {
		s.index = next
		s.async(func() { s.emit(window.DidNavigateInPage) })
		return nil
	}

	s.nav++
	gen := s.nav
	s.async(func() { s.navigate(gen, target.url, next) })
	return nil
}

// navigate fetches target and commits it unless a newer navigation
// started meanwhile. A negative index pushes a new history entry.
func (s *Surface) navigate(gen uint64, target string, index int) {
	page, err := fetchPage(s.ctx, s.client, target)

	s.mu.Lock()
	if s.closed || gen != s.nav {
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.mu.Unlock()
		s.logger.Warn("Load failed", zap.String("url", target), zap.Error(err))
		s.emit(window.DidFailLoad)
		return
	}

	if index < 0 {
		s.push(entry{url: page.URL, title: page.Title})
	} else {
		s.history[index] = entry{url: page.URL, title: page.Title}
		s.index = index
	}
	s.doc = sandbox.NewDocument(page.Title)
	s.styles = nil
	if err := s.runtime.Reset(); err != nil {
		s.logger.Warn("Failed to reset script runtime", zap.Error(err))
	}
	s.mu.Unlock()

	s.logger.Debug("Page loaded", zap.String("url", page.URL), zap.String("title", page.Title), zap.Int("status", page.Status))
	s.emit(window.DidNavigate)
	s.emit(window.DidFinishLoad)
}

// push adds e after the current entry, dropping forward history
func (s *Surface) push(e entry) {
	s.history = append(s.history[:s.index+1], e)
	s.index = len(s.history) - 1
}

func (s *Surface) currentURL() string {
	if s.index < 0 {
		return ""
	}
	return s.history[s.index].url
}

// async runs fn in the background. Callers hold s.mu.
func (s *Surface) async(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

func (s *Surface) emit(ev window.LifecycleEvent) {
	if s.onEvent != nil {
		s.onEvent(ev)
	}
}
