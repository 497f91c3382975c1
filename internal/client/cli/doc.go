// Package cli provides the interactive gophauth command-line client.
//
// It wires configuration, the session store and the gRPC API client into a
// REPL. The protected landing page is only fetched after the route guard
// allows it; otherwise the login flow starts instead.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
