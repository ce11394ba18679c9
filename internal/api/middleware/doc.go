// Package middleware provides the gin middleware shared by the HTTP and
// WebSocket transports: CORS, per-client and global rate limiting, and a
// request body cap.
package middleware
