// Package id generates window identifiers.
//
// Window IDs are prefixed ULIDs ("win_01J...") so they sort by creation time
// and read clearly in logs and in the control API.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// WindowID identifies a shell window for its lifetime
type WindowID string

// WindowPrefix is prepended to every window ID
const WindowPrefix = "win"

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
// Tests use it for deterministic IDs.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewWindowID generates a window ID from the default generator
func NewWindowID() WindowID {
	return WindowID(Default().GenerateWithPrefix(WindowPrefix))
}

// String returns the ID as a string
func (id WindowID) String() string { return string(id) }

// ParseWindowID validates s and returns it as a WindowID
func ParseWindowID(s string) (WindowID, error) {
	raw, ok := strings.CutPrefix(s, WindowPrefix+"_")
	if !ok {
		return "", fmt.Errorf("window id %q: missing %q prefix", s, WindowPrefix)
	}
	if _, err := ulid.Parse(raw); err != nil {
		return "", fmt.Errorf("window id %q: %w", s, err)
	}
	return WindowID(s), nil
}

// Created extracts the creation time encoded in a window ID
func (id WindowID) Created() (time.Time, error) {
	raw := strings.TrimPrefix(string(id), WindowPrefix+"_")
	parsed, err := ulid.Parse(raw)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
