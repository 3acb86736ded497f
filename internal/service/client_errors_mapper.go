// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/stock-watch/internal/adapter"
	"github.com/MKhiriev/stock-watch/internal/app"
)

// displayError translates an adapter error into a [*DisplayError].
//
// The server detail is preferred. rejected is used when the server answered
// without a detail; network when no response arrived at all.
func displayError(err error, rejected, network string) error {
	if err == nil {
		return nil
	}

	if detail, responded := adapter.ResponseDetail(err); responded {
		if detail == "" {
			detail = rejected
		}
		return &DisplayError{Message: detail, Err: err}
	}

	if errors.Is(err, adapter.ErrNetwork) {
		return &DisplayError{Message: network, Err: err}
	}

	return &DisplayError{Message: rejected, Err: err}
}

// mapExchangeError maps a failed token exchange. Any rejection becomes
// sentinel; the server detail is not shown.
func mapExchangeError(err error, sentinel error, msg string) error {
	if _, responded := adapter.ResponseDetail(err); responded {
		return &DisplayError{Message: msg, Err: fmt.Errorf("%w: %w", sentinel, err)}
	}
	if errors.Is(err, adapter.ErrNetwork) {
		return &DisplayError{Message: app.MsgNetworkError, Err: err}
	}
	return &DisplayError{Message: msg, Err: fmt.Errorf("%w: %w", sentinel, err)}
}

func localError(sentinel error, msg string) error {
	return &DisplayError{Message: msg, Err: sentinel}
}
