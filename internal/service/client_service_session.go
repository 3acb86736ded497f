// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/stock-watch/internal/adapter"
	"github.com/MKhiriev/stock-watch/internal/app"
	"github.com/MKhiriev/stock-watch/internal/logger"
	"github.com/MKhiriev/stock-watch/internal/store"
	"github.com/MKhiriev/stock-watch/models"
)

type sessionManager struct {
	adapter     adapter.AuthAdapter
	credentials store.CredentialStore
	logger      *logger.Logger

	bootstrap sync.Once

	mu        sync.RWMutex
	user      *models.UserIdentity
	expiresAt time.Time
	loading   bool

	listeners listeners[models.Session]
}

// NewSessionManager creates a [SessionManager] in the loading state and
// registers it as the adapter's 401 callback.
func NewSessionManager(serverAdapter adapter.AuthAdapter, credentials store.CredentialStore, log *logger.Logger) SessionManager {
	m := &sessionManager{
		adapter:     serverAdapter,
		credentials: credentials,
		logger:      log.Component("session"),
		loading:     true,
	}
	serverAdapter.OnUnauthorized(m.Invalidate)

	return m
}

// Bootstrap implements [SessionManager].
func (m *sessionManager) Bootstrap(ctx context.Context) {
	m.bootstrap.Do(func() {
		m.restore(ctx)
	})
}

func (m *sessionManager) restore(ctx context.Context) {
	token, err := m.credentials.Load(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("failed to read persisted credential")
		m.resolve(ctx, nil, true)
		return
	}

	if strings.TrimSpace(token) == "" {
		m.logger.Debug().Msg("no persisted credential")
		m.resolve(ctx, nil, false)
		return
	}

	exp, ok := (models.Credential{AccessToken: token}).ExpiresAt()
	if ok {
		m.logger.Debug().Time("expires_at", exp).Msg("restoring persisted credential")
	}

	m.adapter.SetToken(token)
	user, err := m.adapter.CurrentUser(ctx)
	if err != nil {
		m.logger.Info().Err(err).Msg("silent re-authentication failed, continuing logged out")
		m.resolve(ctx, nil, true)
		return
	}

	m.logger.Info().Str("username", user.Username).Msg("session restored")
	m.mu.Lock()
	m.expiresAt = exp
	m.mu.Unlock()
	m.resolve(ctx, &user, false)
}

// resolve ends the bootstrap: it sets the user and drops the loading flag.
// With clear set, the credential is removed before the state changes.
func (m *sessionManager) resolve(ctx context.Context, user *models.UserIdentity, clear bool) {
	if clear {
		m.dropCredential(ctx)
	}

	m.mu.Lock()
	m.user = user
	if user == nil {
		m.expiresAt = time.Time{}
	}
	m.loading = false
	m.mu.Unlock()

	m.listeners.notify(m.Session())
}

// Session implements [SessionManager].
func (m *sessionManager) Session() models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := models.Session{Loading: m.loading}
	if m.user != nil {
		u := *m.user
		s.User = &u
		s.ExpiresAt = m.expiresAt
	}
	return s
}

// Subscribe implements [SessionManager].
func (m *sessionManager) Subscribe(fn func(models.Session)) func() {
	return m.listeners.add(fn)
}

// Login implements [SessionManager].
func (m *sessionManager) Login(ctx context.Context, username, password string) error {
	cred, err := m.adapter.ExchangeToken(ctx, strings.TrimSpace(username), password)
	if err != nil {
		m.logger.Info().Err(err).Str("username", username).Msg("token exchange rejected")
		return mapExchangeError(err, ErrInvalidCredentials, app.MsgInvalidCredentials)
	}

	return m.establish(ctx, cred)
}

// LoginWithGoogle implements [SessionManager].
func (m *sessionManager) LoginWithGoogle(ctx context.Context, providerToken string) error {
	cred, err := m.adapter.ExchangeGoogleToken(ctx, strings.TrimSpace(providerToken))
	if err != nil {
		m.logger.Info().Err(err).Msg("google token exchange rejected")
		return mapExchangeError(err, ErrGoogleLoginFailed, app.MsgGoogleLoginFailed)
	}

	return m.establish(ctx, cred)
}

// establish persists cred, installs it on the adapter and performs exactly
// one identity fetch. On fetch failure credential and user are cleared
// together.
func (m *sessionManager) establish(ctx context.Context, cred models.Credential) error {
	if err := m.credentials.Save(ctx, cred.AccessToken); err != nil {
		m.logger.Err(err).Msg("failed to persist credential")
		return fmt.Errorf("persist credential: %w", err)
	}
	m.adapter.SetToken(cred.AccessToken)

	user, err := m.adapter.CurrentUser(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("identity fetch after login failed")
		m.clear(ctx)
		return displayError(fmt.Errorf("%w: %w", ErrIdentityFetch, err), app.MsgProfileFailed, app.MsgNetworkError)
	}

	exp, _ := cred.ExpiresAt()
	m.mu.Lock()
	m.user = &user
	m.expiresAt = exp
	m.mu.Unlock()

	m.logger.Info().Str("username", user.Username).Msg("logged in")
	m.listeners.notify(m.Session())
	return nil
}

// Register implements [SessionManager].
func (m *sessionManager) Register(ctx context.Context, req models.RegisterRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := m.adapter.Register(ctx, req); err != nil {
		// the collision detail stays in the log
		m.logger.Info().Err(err).Str("username", req.Username).Msg("registration rejected")
		return localError(fmt.Errorf("%w: %w", ErrRegistrationFailed, err), app.MsgRegistrationFailed)
	}

	m.logger.Info().Str("username", req.Username).Msg("account registered")
	return nil
}

// Logout implements [SessionManager].
func (m *sessionManager) Logout(ctx context.Context) {
	m.clear(ctx)
}

// Invalidate implements [SessionManager].
func (m *sessionManager) Invalidate() {
	m.logger.Warn().Msg("credential rejected by server, logging out")
	m.clear(context.Background())
}

func (m *sessionManager) clear(ctx context.Context) {
	m.dropCredential(ctx)

	m.mu.Lock()
	m.user = nil
	m.expiresAt = time.Time{}
	m.mu.Unlock()

	m.listeners.notify(m.Session())
}

func (m *sessionManager) dropCredential(ctx context.Context) {
	if err := m.credentials.Clear(ctx); err != nil {
		m.logger.Err(err).Msg("failed to clear persisted credential")
	}
	m.adapter.SetToken("")
}
