/*
Package sandbox runs scripts injected into a headless page.

# Overview

Each page owns a Runtime, a goja VM with an isolated global scope, and a
Document holding the page state scripts can reach:

  - document.documentElement.classList: toggle, add, remove, contains
  - document.documentElement.style: setProperty, getPropertyValue,
    removeProperty, cssText
  - document.title

# Security Model

Sandboxed code cannot:
  - Reach require, process, module or exports
  - Schedule timers (setTimeout and friends are no-ops)
  - Run past the configured timeout

# Usage Example

	rt, err := sandbox.New(sandbox.DefaultConfig())
	doc := sandbox.NewDocument("Home")

	_, err = rt.Execute(ctx, `document.documentElement.classList.toggle("__MAX_ZOOM__", true);`, doc)
	doc.HasClass("__MAX_ZOOM__") // true
*/
package sandbox
