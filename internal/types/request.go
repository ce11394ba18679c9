package types

import "encoding/json"

// InvokeRequest names a command and carries its arguments as a JSON object
type InvokeRequest struct {
	ID      string          `json:"id,omitempty"`
	Command string          `json:"command"`
	Args    json.RawMessage `json:"args,omitempty"`
}

// Response is the result of one command invocation.
// Data is always emitted on success, including null for unit results.
type Response struct {
	ID      string      `json:"id,omitempty"`
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   *string     `json:"error,omitempty"`
	Kind    ErrorKind   `json:"kind,omitempty"`
}

// WSMessage represents a client WebSocket frame
type WSMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Command string          `json:"command,omitempty"`
	Args    json.RawMessage `json:"args,omitempty"`
}

// WSReply represents a server WebSocket frame
type WSReply struct {
	Type string `json:"type"`
	*Response
	Message string `json:"message,omitempty"`
}

// ListCommandsResponse is returned by command discovery endpoints
type ListCommandsResponse struct {
	Services []Service `json:"services"`
	Stats    Stats     `json:"stats"`
}
