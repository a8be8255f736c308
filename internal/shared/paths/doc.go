// Package paths resolves the shell's filesystem locations.
//
// # Layout
//
//	<user config dir>/kiosk-shell/   (private data directory)
//	  └── state.json                 (persisted session document)
//	<executable dir>/tweaks.css      (optional style override)
//
// Configured paths may start with "~", which expands to the user's home
// directory. Relative style paths resolve against the executable's
// directory, not the working directory, so a kiosk launched from any shell
// finds the same stylesheet.
package paths
