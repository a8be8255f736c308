/*
Package http implements the control API handlers.

The API lets an operator console or a keyboard bridge drive the shell:

	GET    /health              liveness and window count
	GET    /windows             open windows and the focused one
	POST   /windows             open a window, optionally seeded
	POST   /windows/:id/focus   set the input target
	POST   /windows/:id/keys    route key events
	DELETE /windows/:id         close a window (saves the layout)
	POST   /activate            ensure a window is open
	POST   /quit                save and shut down
	GET    /session             live snapshot and persisted document

Handlers never touch the shell directly; each call is funnelled through
shell.Loop.Do so window state stays on the control goroutine.
*/
package http
