package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// AppName names the private data directory
const AppName = "kiosk-shell"

// Default file names
const (
	StateFile = "state.json"
	StyleFile = "tweaks.css"
)

// DataDir returns the private data directory. An empty override selects
// the platform user config directory.
func DataDir(override string) (string, error) {
	if override != "" {
		return homedir.Expand(override)
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// StatePath joins the data directory and the state file name
func StatePath(dataDir, file string) string {
	if file == "" {
		file = StateFile
	}
	return filepath.Join(dataDir, file)
}

// StylePath resolves the style override file. Relative paths are anchored
// at baseDir; an empty baseDir selects the executable's directory.
func StylePath(file, baseDir string) (string, error) {
	if file == "" {
		file = StyleFile
	}
	expanded, err := homedir.Expand(file)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(expanded) {
		return expanded, nil
	}
	if baseDir == "" {
		baseDir, err = ExecutableDir()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(baseDir, expanded), nil
}

// ExecutableDir returns the directory holding the running binary
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}
