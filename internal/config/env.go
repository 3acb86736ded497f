// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the process environment. Recognised variables:
//
//	CONFIG                    JSON config file path
//	ADAPTER_ADDRESS           API base URL
//	ADAPTER_REQUEST_TIMEOUT   per-request timeout, e.g. "15s"
//	STORAGE_DB_DSN            SQLite file, or ":memory:"
//	DASHBOARD_POLL_INTERVAL   catalog and history refresh period
//	DASHBOARD_HISTORY_SYMBOL  index shown on the dashboard
//	RECOVERY_REDIRECT_DELAY   pause before returning to login after a reset
//
// Unset variables leave the corresponding fields untouched.
func parseEnv(cfg *StructuredConfig) error {
	return parseEnvFrom(cfg, env.ToMap(os.Environ()))
}

// parseEnvFrom is parseEnv over an explicit variable set.
func parseEnvFrom(cfg *StructuredConfig, environ map[string]string) error {
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}
	return nil
}
