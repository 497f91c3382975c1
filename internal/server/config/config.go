// Package config handles configuration for the server component: defaults,
// JSON overlay, .env file and environment variables, then command-line
// flags, each layer overriding the previous one.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
)

// ErrMissingSecret is returned when no token signing secret is configured.
var ErrMissingSecret = errors.New("JWT_SECRET is not set")

// Config holds runtime settings for the gophauth server.
//
// Fields:
//   - HTTPAddr / GRPCAddr: bind addresses of the two transports.
//   - SecretKey: HMAC secret for signing tokens (HS256). Required, no default.
//   - TokenTTL: lifetime of issued tokens.
//   - StorageBackend / DatabaseDSN: credential store selection.
//   - HashAlgorithm / HashConcurrency: password hashing settings.
//   - CORSAllowedOrigins: origins allowed by the HTTP transport; empty allows all.
type Config struct {
	HTTPAddr           string        `env:"HTTP_ADDR"`
	GRPCAddr           string        `env:"GRPC_ADDR"`
	SecretKey          string        `env:"JWT_SECRET"`
	TokenTTL           time.Duration `env:"TOKEN_TTL"`
	StorageBackend     string        `env:"STORAGE_BACKEND"`
	DatabaseDSN        string        `env:"DATABASE_DSN"`
	HashAlgorithm      string        `env:"HASH_ALGORITHM"`
	HashConcurrency    int           `env:"HASH_CONCURRENCY"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	LogLevel           string        `env:"LOG_LEVEL"`
	GinMode            string        `env:"GIN_MODE"`
}

// LoadDefaults populates Config with development defaults. There is no
// default secret.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":3000"
	c.GRPCAddr = ":50051"
	c.TokenTTL = auth.DefaultTokenTTL
	c.StorageBackend = repomanager.BackendMemory
	c.HashAlgorithm = auth.AlgorithmBcrypt
	c.HashConcurrency = runtime.NumCPU()
	c.LogLevel = "info"
	c.GinMode = "release"
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return ErrMissingSecret
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive, got %s", c.TokenTTL)
	}
	switch c.StorageBackend {
	case repomanager.BackendMemory:
	case repomanager.BackendPostgres, repomanager.BackendSQLite:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("storage backend %q requires a database dsn", c.StorageBackend)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
	switch c.HashAlgorithm {
	case auth.AlgorithmBcrypt, auth.AlgorithmArgon2id:
	default:
		return fmt.Errorf("unknown hash algorithm %q", c.HashAlgorithm)
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown gin mode %q", c.GinMode)
	}
	if c.HashConcurrency < 0 {
		return fmt.Errorf("hash concurrency must not be negative, got %d", c.HashConcurrency)
	}
	return nil
}

// LoadConfig builds a validated Config from defaults, the optional JSON file,
// the environment (including a .env file) and finally args.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, envFilePath(), os.Environ()); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
