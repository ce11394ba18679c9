// Package ws provides the WebSocket transport for the dispatcher.
//
// One connection multiplexes many invocations; results are correlated to
// requests by id and may arrive out of order.
//
// Message Types (Client → Server):
//   - invoke: {"type":"invoke","id":"…","command":"fs_stat","args":{"path":"."}}
//   - ping: keep-alive, echoed as pong
//
// Message Types (Server → Client):
//   - system: welcome frame sent on connect
//   - result: {"type":"result","id":"…","success":true,"data":…}
//   - pong: reply to ping
//   - error: undecodable or unsupported frame
//
// Invocations on one connection run concurrently up to Options.MaxInFlight;
// the reader stops taking frames while every slot is busy.
//
// Example Usage:
//
//	handler := ws.NewHandler(registry, metrics, logger, ws.Options{MaxInFlight: 16})
//	router.GET("/ws", handler.HandleConnection)
package ws
