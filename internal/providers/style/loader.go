// Package style loads the optional stylesheet that overrides the hosted page.
package style

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/KioskShell/internal/infrastructure/logging"
)

// ErrNotText is returned when the override file is not a text stylesheet
var ErrNotText = errors.New("style override is not text")

// Loader reads the override stylesheet once and serves it for the process
// lifetime.
type Loader struct {
	path   string
	logger *logging.Logger

	once    sync.Once
	content string
}

// NewLoader creates a loader for the stylesheet at path
func NewLoader(path string, logger *logging.Logger) *Loader {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Loader{path: path, logger: logger.Named(logging.ComponentStyle)}
}

// Path returns the stylesheet location
func (l *Loader) Path() string {
	return l.path
}

// Read reads and validates the stylesheet
func (l *Loader) Read() (string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return "", fmt.Errorf("read style override: %w", err)
	}
	if len(data) == 0 {
		return "", nil
	}
	if mt := mimetype.Detect(data); !isText(mt) {
		return "", fmt.Errorf("%w: %s", ErrNotText, mt.String())
	}
	return string(data), nil
}

// isText reports whether mt is a textual format. Stylesheets may open with
// content that sniffs as SVG, XML or JSON; those all descend from text/plain.
func isText(mt *mimetype.MIME) bool {
	for ; mt != nil; mt = mt.Parent() {
		if mt.Is("text/plain") || strings.HasPrefix(mt.String(), "text/") {
			return true
		}
	}
	return false
}

// Load returns the stylesheet, or "" when it is missing or unusable.
// The first call reads the file; later calls return the cached result.
func (l *Loader) Load() string {
	l.once.Do(func() {
		content, err := l.Read()
		if err != nil {
			// Styling is optional; a missing file is the common case.
			if errors.Is(err, os.ErrNotExist) {
				l.logger.Debug("No style override", zap.String("path", l.path))
			} else {
				l.logger.Warn("Ignoring style override", zap.String("path", l.path), zap.Error(err))
			}
			return
		}
		l.content = content
		l.logger.Info("Style override loaded", zap.String("path", l.path), zap.Int("bytes", len(content)))
	})
	return l.content
}
