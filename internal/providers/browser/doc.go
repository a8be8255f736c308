/*
Package browser provides a headless rendering surface for kiosk windows.

# Overview

Surface implements window.Surface without a display. It is what the shell
drives in headless deployments and in end-to-end tests:

 1. Pages are fetched with resty and their titles parsed with goquery
 2. History is kept per surface for back and forward
 3. Injected scripts run in a goja sandbox against the page's root element
 4. Injected stylesheets are recorded per document

# Lifecycle

Load returns immediately. The fetch runs in the background and reports
through the factory callback:

	Load(url) ──fetch──▶ DidNavigate, DidFinishLoad
	            └─error─▶ DidFailLoad

Navigations that only change the fragment skip the fetch and report
DidNavigateInPage. A newer navigation supersedes a pending one; the stale
result is dropped.

# Usage

	factory := browser.NewFactory(browser.DefaultConfig(), logger)
	surface, err := factory.NewSurface(window.SurfaceOptions{Width: 1200, Height: 800}, onEvent)
	_ = surface.Load("https://example.com")
*/
package browser
