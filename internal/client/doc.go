// Package client is a Go caller for a running bridge.
//
// Client speaks the HTTP transport: each typed method posts to
// /invoke/{command} and decodes the response envelope. Failures the bridge
// reports come back as *CommandError; transport failures feed the circuit
// breaker. Driver layers a "/"-rooted virtual filesystem over a Client,
// mapping virtual paths under the bridge's base directory.
package client
