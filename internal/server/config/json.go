package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/chrima/internal/flagx"
	"github.com/dmitrijs2005/chrima/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations use
// timex.Duration so both "24h" strings and integer nanoseconds are accepted.
// Keys that are absent leave the corresponding Config field untouched.
type JsonConfig struct {
	EndpointAddrHTTP        string         `json:"endpoint_addr_http"`
	DatabaseDSN             string         `json:"database_dsn"`
	SecretKey               string         `json:"secret_key"`
	SessionValidityDuration timex.Duration `json:"session_validity_duration"`
	CookieSecure            *bool          `json:"cookie_secure"`
	LogLevel                string         `json:"log_level"`
	MaxShuffleAttempts      int            `json:"max_shuffle_attempts"`
}

// parseJson loads the file named by -c/-config, if any, into config.
// An unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.SessionValidityDuration.Duration != 0 {
		config.SessionValidityDuration = c.SessionValidityDuration.Duration
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	if c.MaxShuffleAttempts != 0 {
		config.MaxShuffleAttempts = c.MaxShuffleAttempts
	}
}
