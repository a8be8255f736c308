// Package server assembles the control API: middleware, handlers, the
// websocket event stream and the Prometheus endpoint.
package server
