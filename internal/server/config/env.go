package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/chrima/internal/flagx"
	"github.com/joho/godotenv"
)

// Environment variable names read by parseEnv.
const (
	EnvAddress            = "CHRIMA_ADDRESS"
	EnvDatabaseDSN        = "DATABASE_DSN"
	EnvSecretKey          = "CHRIMA_SECRET_KEY"
	EnvSessionValidity    = "CHRIMA_SESSION_VALIDITY"
	EnvCookieSecure       = "CHRIMA_COOKIE_SECURE"
	EnvLogLevel           = "CHRIMA_LOG_LEVEL"
	EnvMaxShuffleAttempts = "CHRIMA_MAX_SHUFFLE_ATTEMPTS"
)

// defaultEnvFile is loaded when present and no -e/-env-file flag is given.
const defaultEnvFile = ".env"

// parseEnv overlays values from the process environment. A dotenv file named
// with -e/-env-file must exist; the default .env is optional. Variables that
// are already set win over the file, as godotenv.Load never overrides them.
// Malformed values panic, like the other configuration stages.
func parseEnv(config *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v, ok := os.LookupEnv(EnvAddress); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv(EnvDatabaseDSN); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(EnvSecretKey); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv(EnvSessionValidity); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.SessionValidityDuration = d
	}
	if v, ok := os.LookupEnv(EnvCookieSecure); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.CookieSecure = b
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		config.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvMaxShuffleAttempts); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.MaxShuffleAttempts = n
	}
}
