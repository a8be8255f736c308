// Package ws streams shell events to websocket clients.
//
// Each message is one JSON-encoded shell.Event:
//
//	{"type":"view_changed","window":{"id":"win_...","url":"...","phase":"ready","view":{"zoom":false,"objX":35,"dragMode":false}},"windows":1,"timestamp":"..."}
package ws
