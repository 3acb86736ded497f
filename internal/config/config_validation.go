// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks the merged [StructuredConfig]. Source-level checks live in
// the client view; this hook only rejects values no view could accept.
func (cfg *StructuredConfig) validate() error {
	if cfg.Recovery.RedirectDelay < 0 {
		return ErrInvalidRecoveryConfigs
	}
	return nil
}

func (cfg *ClientConfig) validate() error {
	if strings.TrimSpace(cfg.Storage.DB.DSN) == "" {
		return ErrInvalidStorageConfigs
	}

	if strings.TrimSpace(cfg.Adapter.HTTPAddress) == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Dashboard.PollInterval <= 0 || strings.TrimSpace(cfg.Dashboard.HistorySymbol) == "" {
		return ErrInvalidDashboardConfigs
	}

	if cfg.Recovery.RedirectDelay < 0 {
		return ErrInvalidRecoveryConfigs
	}

	return nil
}
