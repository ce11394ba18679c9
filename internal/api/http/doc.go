// Package http serves the dispatcher over plain HTTP with gin.
//
// Endpoints:
//
//	GET  /                 banner
//	GET  /health           status, dispatcher stats, metrics snapshot
//	GET  /commands         service and command definitions (?category=)
//	POST /invoke/:command  JSON args object in, Response out
//	POST /invoke           InvokeRequest envelope in, Response out
//	POST /logs             front-end log batch forwarded to the bridge log
//	GET  /metrics          Prometheus exposition
//
// Command failures are reported with status 200 and success=false; unknown
// commands get 404 and malformed arguments 400.
package http
