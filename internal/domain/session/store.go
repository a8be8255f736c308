package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/KioskShell/internal/domain/view"
	"github.com/GriffinCanCode/KioskShell/internal/shared/types"
)

// ErrNoSession is returned by Load when no document has been saved yet
var ErrNoSession = errors.New("no saved session")

// codec matches encoding/json behavior (HTML escaping, sorted map keys,
// strict UTF-8) so documents stay readable by any JSON tool.
var codec = sonic.ConfigStd

// Store reads and writes the session document at a fixed path
type Store struct {
	path string
}

// NewStore creates a store for the document at path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the document location
func (s *Store) Path() string {
	return s.path
}

// Save writes state, creating the containing directory if needed.
// The document is replaced atomically so a crash mid-write leaves the
// previous session intact.
func (s *Store) Save(state types.SessionState) error {
	if state.Windows == nil {
		state.Windows = []types.WindowRecord{}
	}
	data, err := codec.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace session: %w", err)
	}
	return nil
}

// Load reads the saved document. It returns ErrNoSession when nothing has
// been saved and a decode error when the document is malformed; in both
// cases the returned state is nil.
func (s *Store) Load() (*types.SessionState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	return Decode(data)
}

// document mirrors the on-disk shape. Pointers tell a missing field apart
// from its zero value; a field of the wrong JSON type fails the decode.
type document struct {
	Windows []windowEntry `json:"windows"`
}

type windowEntry struct {
	URL    string        `json:"url"`
	Bounds *types.Bounds `json:"bounds"`
	Zoom   *bool         `json:"zoom"`
	ObjX   *float64      `json:"objX"`
}

// Decode parses a session document. Records missing zoom or objX take the
// defaults of a fresh window; objX is normalized into range.
func Decode(data []byte) (*types.SessionState, error) {
	var doc document
	if err := codec.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	state := &types.SessionState{Windows: make([]types.WindowRecord, 0, len(doc.Windows))}
	for _, entry := range doc.Windows {
		record := types.WindowRecord{
			URL:    entry.URL,
			Bounds: entry.Bounds,
			Zoom:   view.DefaultZoom,
			ObjX:   view.DefaultObjX,
		}
		if entry.Zoom != nil {
			record.Zoom = *entry.Zoom
		}
		if entry.ObjX != nil {
			record.ObjX = view.NormalizeFloat(*entry.ObjX)
		}
		state.Windows = append(state.Windows, record)
	}
	return state, nil
}
