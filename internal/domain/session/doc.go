// Package session persists the shell's window layout between runs.
//
// The Store serializes a types.SessionState to one JSON document in the
// shell's private data directory:
//
//	{
//	  "windows": [
//	    {"url": "https://example.com", "bounds": {"x": 0, "y": 0, "width": 1200, "height": 800}, "zoom": true, "objX": 50}
//	  ]
//	}
//
// Persistence is advisory. Save and Load return errors so callers can log
// and count them, but every caller treats a failed load as "no prior
// session" and a failed save as lost state. Load never returns a partially
// decoded document.
//
// Example Usage:
//
//	store := session.NewStore(paths.StatePath(dataDir, ""))
//	state, err := store.Load()
//	if err != nil {
//	    state = nil // start fresh
//	}
package session
