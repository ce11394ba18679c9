// Package types provides the wire data structures shared by the dispatcher,
// the filesystem bridge, the transports and the client.
//
// Core Types:
//   - EntryDescriptor: one filesystem object (name, path, isDirectory, size, mtimeMs)
//   - Bytes: binary payload encoded as a JSON number array
//   - Service, Command, Parameter: self-describing command definitions
//   - InvokeRequest, Response: one invocation and its outcome
//   - ErrorKind: advisory error category carried next to the error text
//
// Transport Types:
//   - WSMessage, WSReply: WebSocket frames
//   - ListCommandsResponse: command discovery
//
// Example Usage:
//
//	resp := types.Response{Success: true, Data: types.Bytes("hi")}
//	// {"success":true,"data":[104,105]}
package types
