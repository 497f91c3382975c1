package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvFileVar overrides the location of the dotenv file.
const EnvFileVar = "ENV_FILE"

const defaultEnvFile = ".env"

func envFilePath() string {
	if p := os.Getenv(EnvFileVar); p != "" {
		return p
	}
	return defaultEnvFile
}

// parseEnv overlays cfg with variables from the dotenv file at path and from
// environ. Real environment variables win over the file; a missing file is
// not an error.
func parseEnv(cfg *Config, path string, environ []string) error {
	vars := map[string]string{}

	if path != "" {
		fileVars, err := godotenv.Read(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("read env file %s: %w", path, err)
		}
		for k, v := range fileVars {
			vars[k] = v
		}
	}

	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if ok {
			vars[k] = v
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Environment: vars}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
