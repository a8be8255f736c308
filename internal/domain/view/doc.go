// Package view holds the per-window view state and its transition rules.
//
// A State carries three flags: forced zoom, the horizontal crop offset
// (ObjX, a percentage in [0,100] in steps of 5) and the transient drag mode.
// All transitions are total: there are no error paths.
//
// The package also renders a state into the script commands a rendering
// surface runs against the hosted page:
//
//	s := view.Default()
//	s.Nudge(view.Right)
//	surface.ExecuteScript(view.OffsetScript(s.ObjX)) // --OBJX: 55%
package view
