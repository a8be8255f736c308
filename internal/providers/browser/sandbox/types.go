package sandbox

import (
	"time"
)

// Config defines sandbox configuration
type Config struct {
	Timeout       time.Duration // Execution timeout
	EnableConsole bool          // Allow console.log/warn/error
	MaxCallStack  int           // Call stack limit, 0 for goja's default
}

// Result holds execution result
type Result struct {
	Value    interface{}   // Return value
	Console  []LogEntry    // Console output
	Changes  []Change      // Document modifications
	Duration time.Duration // Execution time
}

// LogEntry represents console output
type LogEntry struct {
	Level   string    // log, warn, error, info
	Message string    // Log message
	Time    time.Time // Timestamp
}

// ChangeType names a document mutation
type ChangeType string

const (
	ChangeClassAdd    ChangeType = "class_add"
	ChangeClassRemove ChangeType = "class_remove"
	ChangeStyleSet    ChangeType = "style_set"
	ChangeStyleRemove ChangeType = "style_remove"
	ChangeTitle       ChangeType = "title"
)

// Change represents a document modification
type Change struct {
	Type     ChangeType
	Property string // class or style property name
	Value    string // new style value
}

// DefaultConfig returns the sandbox defaults
func DefaultConfig() Config {
	return Config{
		Timeout:       2 * time.Second,
		EnableConsole: true,
		MaxCallStack:  1024,
	}
}
