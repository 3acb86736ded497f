// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer between the client services
// and the stock-watch HTTP API.
//
// The primary abstraction is [ServerAdapter]; [NewHTTPServerAdapter] returns
// the resty-backed implementation. The adapter owns the in-memory copy of the
// bearer credential, attaches it to every authenticated request, and reports
// 401 responses on authenticated requests to a single registered callback so
// that credential invalidation is handled in one place.
//
// Non-2xx responses are returned as [*APIError], which unwraps to the status
// sentinels in errors.go so callers can use [errors.Is]. Transport failures
// wrap [ErrNetwork].
package adapter

import (
	"context"

	"github.com/MKhiriev/stock-watch/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// AuthAdapter covers credential exchange, identity and registration.
type AuthAdapter interface {
	// SetToken stores the bearer token attached to all subsequent
	// authenticated requests. An empty token disables the header.
	SetToken(token string)

	// Token returns the bearer token currently held by the adapter.
	Token() string

	// OnUnauthorized registers fn to be called whenever an authenticated
	// request is answered with 401. Only one callback is kept.
	OnUnauthorized(fn func())

	// ExchangeToken posts form-encoded username and password to POST /token.
	ExchangeToken(ctx context.Context, username, password string) (models.Credential, error)

	// ExchangeGoogleToken posts a federated identity token to POST /auth/google.
	ExchangeGoogleToken(ctx context.Context, providerToken string) (models.Credential, error)

	// CurrentUser fetches GET /users/me with the stored bearer token.
	CurrentUser(ctx context.Context) (models.UserIdentity, error)

	// Register creates an account with POST /register. It never returns a
	// credential.
	Register(ctx context.Context, req models.RegisterRequest) error
}

// RecoveryAdapter covers the three unauthenticated password recovery calls.
type RecoveryAdapter interface {
	// RequestRecoveryCode posts to POST /auth/forgot-password and returns the
	// server confirmation message.
	RequestRecoveryCode(ctx context.Context, identifier string) (string, error)

	// VerifyRecoveryCode posts to POST /auth/verify-code.
	VerifyRecoveryCode(ctx context.Context, identifier, code string) error

	// ResetPassword posts to POST /auth/reset-password and returns the server
	// confirmation message.
	ResetPassword(ctx context.Context, identifier, code, newPassword string) (string, error)
}

// MarketAdapter covers watchlist, catalog, history and prediction calls.
type MarketAdapter interface {
	// GetWatchlist fetches GET /watchlist and returns the stocks in order.
	GetWatchlist(ctx context.Context) ([]models.Stock, error)

	// CreateStock posts to POST /stocks. The server returns the existing
	// stock when the symbol is already known.
	CreateStock(ctx context.Context, req models.CreateStockRequest) (models.Stock, error)

	// AddToWatchlist posts the stock identifier to POST /watchlist.
	AddToWatchlist(ctx context.Context, stockID int64) error

	// RemoveFromWatchlist sends DELETE /watchlist/{symbol}.
	RemoveFromWatchlist(ctx context.Context, symbol string) error

	// GetPopularStocks fetches GET /market/popular keeping category order.
	GetPopularStocks(ctx context.Context) (models.Catalog, error)

	// GetMarketHistory fetches GET /market/history/{symbol}.
	GetMarketHistory(ctx context.Context, symbol string) ([]models.HistoryPoint, error)

	// GetPrediction fetches GET /predict/{symbol}.
	GetPrediction(ctx context.Context, symbol string) (models.Prediction, error)
}

// ServerAdapter is the full API surface used by the client.
type ServerAdapter interface {
	AuthAdapter
	RecoveryAdapter
	MarketAdapter
}
