// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container. It is populated
// by merging values from defaults, environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Adapter holds the API server address and request timeout.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds the local credential database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Dashboard holds the market polling settings.
	Dashboard Dashboard `envPrefix:"DASHBOARD_"`

	// Recovery holds password recovery flow settings.
	Recovery Recovery `envPrefix:"RECOVERY_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Adapter holds configuration of the outbound HTTP client.
type Adapter struct {
	// HTTPAddress is the base URL of the stock-watch API
	// (e.g. "http://localhost:8000"). A missing scheme defaults to http.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds every outbound request (e.g. "15s").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage groups the local storage settings.
type Storage struct {
	// DB holds the local database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings of the local credential database.
type DB struct {
	// DSN is the SQLite file path. ":memory:" keeps the credential in
	// process memory only.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Dashboard holds the dashboard refresh settings.
type Dashboard struct {
	// PollInterval is the period of the catalog and history refresh.
	// Env: DASHBOARD_POLL_INTERVAL
	PollInterval time.Duration `env:"POLL_INTERVAL"`

	// HistorySymbol is the market index whose history is charted.
	// Env: DASHBOARD_HISTORY_SYMBOL
	HistorySymbol string `env:"HISTORY_SYMBOL"`
}

// Recovery holds password recovery settings.
type Recovery struct {
	// RedirectDelay is how long the success message stays visible before
	// navigating back to login.
	// Env: RECOVERY_REDIRECT_DELAY
	RedirectDelay time.Duration `env:"REDIRECT_DELAY"`
}

// Default values applied before any other source.
const (
	DefaultHTTPAddress    = "http://localhost:8000"
	DefaultRequestTimeout = 15 * time.Second
	DefaultDSN            = "stockwatch.db"
	DefaultPollInterval   = 30 * time.Second
	DefaultHistorySymbol  = "^NSEI"
	DefaultRedirectDelay  = 2 * time.Second
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		Adapter: Adapter{
			HTTPAddress:    DefaultHTTPAddress,
			RequestTimeout: DefaultRequestTimeout,
		},
		Storage: Storage{
			DB: DB{DSN: DefaultDSN},
		},
		Dashboard: Dashboard{
			PollInterval:  DefaultPollInterval,
			HistorySymbol: DefaultHistorySymbol,
		},
		Recovery: Recovery{
			RedirectDelay: DefaultRedirectDelay,
		},
	}
}

// GetStructuredConfig loads, merges, and validates the configuration from all
// available sources. The last source wins for non-zero fields.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withDotEnv(".env").
		withEnv().
		withFlags().
		withJSON().
		build()
}
