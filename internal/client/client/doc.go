// Package client talks to the gophauth server.
//
// Client is the transport-agnostic contract the CLI depends on; GRPCClient
// implements it over gRPC with the JSON codec. The session token is passed
// per call and sent as access_token metadata; the client keeps no token
// state of its own.
//
// Failures reported by the server come back as *APIError carrying the
// server's message verbatim. ErrUnavailable marks an unreachable server and
// ErrUnauthorized matches every 401-class APIError via errors.Is.
package client
