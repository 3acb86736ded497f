// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It resolves the persisted session before the first screen is drawn and
// then runs the terminal UI for the lifetime of the process.
package client
