// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [ClientConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid client adapter settings
	// (for example, missing HTTP address or request timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid client storage settings
	// (for example, empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidDashboardConfigs indicates invalid dashboard settings
	// (for example, zero poll interval).
	ErrInvalidDashboardConfigs = errors.New("invalid dashboard configuration")
	// ErrInvalidRecoveryConfigs indicates a negative redirect delay.
	ErrInvalidRecoveryConfigs = errors.New("invalid recovery configuration")
)
