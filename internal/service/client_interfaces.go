// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/stock-watch/models"
)

// SessionManager owns the bearer credential and the authenticated identity.
// It is the single writer of the persisted credential.
type SessionManager interface {
	// Bootstrap reads the persisted credential and, when present, fetches the
	// identity it belongs to. It runs once per manager; later calls block
	// until the first run has finished and then return. Failures are logged
	// and degrade to a logged-out session.
	Bootstrap(ctx context.Context)

	// Session returns a snapshot of the current session.
	Session() models.Session

	// Subscribe registers fn to receive every new session snapshot. The
	// returned function removes the subscription.
	Subscribe(fn func(models.Session)) (cancel func())

	// Login exchanges username and password for a credential, persists it,
	// and fetches the identity. It returns after the user is set.
	Login(ctx context.Context, username, password string) error

	// LoginWithGoogle is Login for a federated identity token.
	LoginWithGoogle(ctx context.Context, providerToken string) error

	// Register creates an account. It never establishes a session.
	Register(ctx context.Context, req models.RegisterRequest) error

	// Logout clears the persisted credential and the user. Idempotent.
	Logout(ctx context.Context)

	// Invalidate is Logout triggered by the server rejecting the credential.
	Invalidate()
}

// RecoveryFlow drives the three-step password recovery protocol.
// Every method that changes state notifies subscribers.
type RecoveryFlow interface {
	// RequestCode asks the server to send a code to identifier (step 1).
	RequestCode(ctx context.Context, identifier string) error

	// VerifyCode submits the code for the current identifier (step 2).
	VerifyCode(ctx context.Context, code string) error

	// ResetPassword sets the new password (step 3). Passwords shorter than
	// six characters are rejected locally.
	ResetPassword(ctx context.Context, newPassword string) error

	// ChangeIdentifier returns from step 2 to step 1 without a request.
	ChangeIdentifier() error

	// State returns a snapshot of the flow.
	State() models.RecoveryState

	// Subscribe registers fn to receive every new state snapshot.
	Subscribe(fn func(models.RecoveryState)) (cancel func())

	// Close cancels a scheduled redirect and rejects further operations.
	Close()
}

// Dashboard aggregates the watchlist, per-symbol predictions and the
// periodically refreshed market snapshot.
type Dashboard interface {
	// Start runs the first round of fetches concurrently, marks the view
	// ready once all of them resolved, then starts the poll timer.
	Start(ctx context.Context)

	// Stop cancels the poll timer. Responses arriving afterwards are
	// discarded.
	Stop()

	// View returns a read-only projection of the dashboard state.
	View() models.DashboardView

	// Subscribe registers fn to receive every new view.
	Subscribe(fn func(models.DashboardView)) (cancel func())

	// RefreshWatchlist refetches the watchlist.
	RefreshWatchlist(ctx context.Context) error

	// AddStock creates or finds the stock by symbol and attaches it to the
	// watchlist, then refetches the watchlist.
	AddStock(ctx context.Context, symbol string) error

	// RemoveStock detaches the stock and refetches the watchlist, whether
	// the delete succeeded or not.
	RemoveStock(ctx context.Context, symbol string) error

	// SelectCategory pins the catalog category shown in the view.
	SelectCategory(name string) error
}
