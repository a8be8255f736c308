// Package types provides shared data structures for the kiosk shell.
//
// These are the persisted shapes exchanged between the window controllers,
// the state store and the control API.
//
// Core Types:
//   - Bounds: Window geometry in screen coordinates
//   - WindowRecord: Persisted snapshot of one window
//   - SessionState: The persisted document, one record per window
//
// Example Usage:
//
//	state := types.SessionState{
//	    Windows: []types.WindowRecord{
//	        {URL: "https://example.com", Zoom: true, ObjX: 50},
//	    },
//	}
package types
