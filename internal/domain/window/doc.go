// Package window implements the controller that owns one rendering surface.
//
// A Controller holds the window's view.State and applies it to whatever page
// the surface has loaded: the override stylesheet, the max-zoom class and the
// crop offset property. It re-applies after every load and navigation,
// including in-page navigations of single-page apps.
//
// # Lifecycle
//
//	Created ──Load──▶ Loading ──load/navigate──▶ Ready ◀─┐
//	                                               │     └ navigate
//	                                             Close
//	                                               ▼
//	                                             Closed
//
// Every surface call is best-effort. Failures are logged, counted and
// dropped; nothing is retried. ApplyViewState is idempotent, so completion
// order of earlier calls does not matter.
package window
