// Package shell runs the kiosk session: it restores windows at startup,
// opens and closes them, routes keyboard input to the focused window and
// saves the layout whenever a window closes or the shell quits.
//
// All window state is owned by a single goroutine running Loop. Surface
// callbacks and control API requests reach the Manager only through
// Loop.Post and Loop.Do.
//
//	loop := shell.NewLoop(0)
//	mgr := shell.NewManager(cfg, factory, store, styles, router, logger).
//	    WithDispatch(func(fn func()) { loop.Post(fn) })
//	loop.Post(func() { _ = mgr.Start() })
//	go loop.Run(ctx)
//	<-mgr.Done()
package shell
