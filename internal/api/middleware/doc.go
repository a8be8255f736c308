// Package middleware provides the gin middleware stack of the control API:
// request IDs, request logging, CORS and per-client rate limiting.
package middleware
