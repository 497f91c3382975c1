// Package config loads runtime configuration for the gophauth CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c/-config or $GOPHAUTH_CLIENT_CONFIG.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string     address:port of the server gRPC endpoint
//	-f string     session file path
//	-t duration   per request timeout
//
// # JSON schema
//
// Durations use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "session_file": "/home/me/.config/gophauth/session.json",
//	  "request_timeout": "10s"
//	}
package config
