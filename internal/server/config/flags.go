package config

import (
	"flag"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP bind address (e.g. ":3000")
//	-g string     gRPC bind address (e.g. ":50051")
//	-s string     token signing secret
//	-t duration   token lifetime (e.g. "1h")
//	-b string     storage backend: memory, postgres or sqlite
//	-d string     database DSN
//	-x string     hash algorithm: bcrypt or argon2id
//	-w int        concurrent password hash operations
//	-o string     comma separated CORS origins
//	-l string     log level
//	-m string     gin mode
//
// args is filtered with flagx.FilterArgs first, so flags meant for other
// loaders (such as -c) do not trip the parser.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-s", "-t", "-b", "-d", "-x", "-w", "-o", "-l", "-m"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP address and port to run server")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC address and port to run server")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")
	fs.DurationVar(&config.TokenTTL, "t", config.TokenTTL, "token lifetime")
	fs.StringVar(&config.StorageBackend, "b", config.StorageBackend, "storage backend")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.HashAlgorithm, "x", config.HashAlgorithm, "password hash algorithm")
	fs.IntVar(&config.HashConcurrency, "w", config.HashConcurrency, "concurrent password hash operations")
	origins := fs.String("o", strings.Join(config.CORSAllowedOrigins, ","), "comma separated CORS origins")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.GinMode, "m", config.GinMode, "gin mode")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.CORSAllowedOrigins = splitOrigins(*origins)
	return nil
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
