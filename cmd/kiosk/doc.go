/*
Kiosk runs the kiosk shell.

It restores the saved window layout (or opens one window at the home
location), routes keyboard input through the shell and saves the layout
whenever a window closes or the shell quits. A local control API exposes
the same operations over HTTP and streams shell events over a websocket.

Usage:

	kiosk [-config path]

Configuration comes from KIOSK_* environment variables, optionally
overlaid by a TOML or YAML file named by -config or KIOSK_CONFIG.
*/
package main
