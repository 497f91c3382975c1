// Package logging is the structured logger shared by the gophauth server
// and client. The default implementation wraps log/slog.
package logging

import "context"

// ModuleKey tags every record with the component that wrote it, e.g.
// "auth_service", "grpc_server" or "http".
const ModuleKey = "module"

// Logger takes a context and key/value pairs:
//
//	log.Info(ctx, "user signed up", "email", email)
//
// Passwords and session tokens are never logged.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger carrying args on every record.
	With(args ...any) Logger
}

// ForModule returns l tagged with the component name.
func ForModule(l Logger, module string) Logger {
	return l.With(ModuleKey, module)
}

// Nop returns a Logger that drops everything.
func Nop() Logger { return nop{} }

type nop struct{}

func (nop) Debug(context.Context, string, ...any) {}
func (nop) Info(context.Context, string, ...any)  {}
func (nop) Warn(context.Context, string, ...any)  {}
func (nop) Error(context.Context, string, ...any) {}
func (n nop) With(...any) Logger                  { return n }
