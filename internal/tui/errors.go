// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"

	"github.com/MKhiriev/stock-watch/internal/adapter"
	"github.com/MKhiriev/stock-watch/internal/app"
	"github.com/MKhiriev/stock-watch/internal/service"
)

// ErrUserQuit is returned by [TUI.Run] when the user closed the program.
var ErrUserQuit = errors.New("user quit")

func humanizeError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, adapter.ErrNetwork) {
		return service.Message(err, app.MsgNetworkError)
	}
	return service.Message(err, err.Error())
}
