package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
	"github.com/dmitrijs2005/gophauth/internal/timex"
)

// JsonConfig is the JSON file shape. Durations use timex.Duration so both
// "1h" and integer nanoseconds are accepted. Absent fields keep the value
// from the previous layer.
type JsonConfig struct {
	HTTPAddr           string         `json:"http_addr"`
	GRPCAddr           string         `json:"grpc_addr"`
	SecretKey          string         `json:"secret_key"`
	TokenTTL           timex.Duration `json:"token_ttl"`
	StorageBackend     string         `json:"storage_backend"`
	DatabaseDSN        string         `json:"database_dsn"`
	HashAlgorithm      string         `json:"hash_algorithm"`
	HashConcurrency    int            `json:"hash_concurrency"`
	CORSAllowedOrigins []string       `json:"cors_allowed_origins"`
	LogLevel           string         `json:"log_level"`
	GinMode            string         `json:"gin_mode"`
}

// ConfigEnvVar names the JSON config file when no -c/-config flag is given.
const ConfigEnvVar = "GOPHAUTH_CONFIG"

// parseJSON loads the file named by -c/-config (or $GOPHAUTH_CONFIG) into config.
// No file configured means nothing to do.
func parseJSON(config *Config, args []string) error {
	jsonConfigFile := flagx.ConfigFile(args, ConfigEnvVar)

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", jsonConfigFile, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.HashAlgorithm, c.HashAlgorithm)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.GinMode, c.GinMode)
	if c.TokenTTL.Duration != 0 {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.HashConcurrency != 0 {
		config.HashConcurrency = c.HashConcurrency
	}
	if c.CORSAllowedOrigins != nil {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
