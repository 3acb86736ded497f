// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/stock-watch/internal/adapter"
	"github.com/MKhiriev/stock-watch/internal/config"
	"github.com/MKhiriev/stock-watch/internal/logger"
	"github.com/MKhiriev/stock-watch/internal/service"
	"github.com/MKhiriev/stock-watch/internal/store"
	"github.com/MKhiriev/stock-watch/internal/tui"
	"github.com/MKhiriev/stock-watch/models"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUI records the session it was started with.
type fakeUI struct {
	services *service.ClientServices
	seen     models.Session
	err      error
}

func (u *fakeUI) Run(context.Context) error {
	u.seen = u.services.Session.Session()
	return u.err
}

type closeCounter struct {
	closed int
}

func (c *closeCounter) Close() error {
	c.closed++
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func unauthorized(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
}

// newTestServices wires the real adapter and services against srv with an
// in-memory credential store holding token.
func newTestServices(t *testing.T, srv *httptest.Server, token string) (*service.ClientServices, store.CredentialStore) {
	t.Helper()

	serverAdapter, err := adapter.NewHTTPServerAdapter(config.ClientAdapter{
		HTTPAddress:    srv.URL,
		RequestTimeout: 2 * time.Second,
	}, logger.Nop())
	require.NoError(t, err)

	creds := store.NewMemoryCredentialStore()
	if token != "" {
		require.NoError(t, creds.Save(context.Background(), token))
	}

	cfg := &config.ClientConfig{
		Dashboard: config.ClientDashboard{PollInterval: time.Hour, HistorySymbol: "^NSEI"},
		Recovery:  config.ClientRecovery{RedirectDelay: time.Millisecond},
	}
	services := service.NewClientServices(&store.ClientStorages{Credentials: creds}, serverAdapter, cfg, logger.Nop())
	return services, creds
}

func newTestApp(t *testing.T, services *service.ClientServices, uiErr error) (*App, *fakeUI, *closeCounter) {
	t.Helper()
	ui := &fakeUI{services: services, err: uiErr}
	closer := &closeCounter{}
	app, err := NewApp(services, ui, closer, logger.Nop())
	require.NoError(t, err)
	return app, ui, closer
}

// ── NewApp ───────────────────────────────────────────────────────────────────

func TestNewApp_RequiresDependencies(t *testing.T) {
	_, err := NewApp(nil, &fakeUI{}, nil, logger.Nop())
	assert.Error(t, err)

	srv := httptest.NewServer(chi.NewRouter())
	defer srv.Close()
	services, _ := newTestServices(t, srv, "")

	_, err = NewApp(services, nil, nil, logger.Nop())
	assert.Error(t, err)
}

// ── Run ──────────────────────────────────────────────────────────────────────

func TestApp_Run_RestoresSessionBeforeUI(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/users/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer good-token", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, models.UserIdentity{ID: 1, Username: "alice", Email: "alice@example.com"})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	services, _ := newTestServices(t, srv, "good-token")
	app, ui, closer := newTestApp(t, services, nil)

	require.NoError(t, app.run(context.Background()))

	assert.False(t, ui.seen.Loading)
	require.True(t, ui.seen.Authenticated())
	assert.Equal(t, "alice", ui.seen.User.Username)
	assert.Equal(t, 1, closer.closed)
}

func TestApp_Run_RejectedCredentialIsCleared(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/users/me", unauthorized)
	srv := httptest.NewServer(r)
	defer srv.Close()

	services, creds := newTestServices(t, srv, "expired-token")
	app, ui, _ := newTestApp(t, services, nil)

	require.NoError(t, app.run(context.Background()))

	assert.False(t, ui.seen.Loading)
	assert.False(t, ui.seen.Authenticated())
	token, err := creds.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestApp_Run_UserQuitIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(chi.NewRouter())
	defer srv.Close()

	services, _ := newTestServices(t, srv, "")
	app, _, closer := newTestApp(t, services, tui.ErrUserQuit)

	assert.NoError(t, app.run(context.Background()))
	assert.Equal(t, 1, closer.closed)
}

func TestApp_Run_UIErrorIsWrapped(t *testing.T) {
	srv := httptest.NewServer(chi.NewRouter())
	defer srv.Close()

	boom := errors.New("terminal gone")
	services, _ := newTestServices(t, srv, "")
	app, _, _ := newTestApp(t, services, boom)

	err := app.run(context.Background())
	assert.ErrorIs(t, err, boom)
}

// ── End to end ───────────────────────────────────────────────────────────────

func TestServices_LoginThenDashboard401_LogsOut(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "alice", r.PostForm.Get("username"))
		writeJSON(w, http.StatusOK, models.Credential{AccessToken: "fresh", TokenType: "bearer"})
	})
	r.Get("/users/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.UserIdentity{ID: 1, Username: "alice"})
	})
	r.Get("/watchlist", unauthorized)
	r.Get("/market/popular", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	r.Get("/market/history/*", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []models.HistoryPoint{})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx := context.Background()
	services, creds := newTestServices(t, srv, "")
	services.Session.Bootstrap(ctx)

	require.NoError(t, services.Session.Login(ctx, "alice", "secret"))
	require.True(t, services.Session.Session().Authenticated())
	token, _ := creds.Load(ctx)
	assert.Equal(t, "fresh", token)

	dash := services.NewDashboard()
	dash.Start(ctx)
	defer dash.Stop()

	assert.True(t, dash.View().Ready)
	assert.False(t, services.Session.Session().Authenticated())
	token, _ = creds.Load(ctx)
	assert.Empty(t, token)
}

func TestServices_Stale401AfterRelogin_KeepsNewSession(t *testing.T) {
	arrived := make(chan struct{})
	released := make(chan struct{})

	r := chi.NewRouter()
	r.Post("/token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.Credential{AccessToken: "new", TokenType: "bearer"})
	})
	r.Get("/users/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer new" {
			unauthorized(w, r)
			return
		}
		writeJSON(w, http.StatusOK, models.UserIdentity{ID: 1, Username: "alice"})
	})
	r.Get("/predict/{symbol}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer old", r.Header.Get("Authorization"))
		close(arrived)
		<-released
		unauthorized(w, r)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	serverAdapter, err := adapter.NewHTTPServerAdapter(config.ClientAdapter{
		HTTPAddress:    srv.URL,
		RequestTimeout: 2 * time.Second,
	}, logger.Nop())
	require.NoError(t, err)

	ctx := context.Background()
	creds := store.NewMemoryCredentialStore()
	session := service.NewSessionManager(serverAdapter, creds, logger.Nop())

	serverAdapter.SetToken("old")
	done := make(chan error, 1)
	go func() {
		_, err := serverAdapter.GetPrediction(ctx, "OLD")
		done <- err
	}()
	<-arrived

	require.NoError(t, session.Login(ctx, "alice", "secret"))
	close(released)
	assert.ErrorIs(t, <-done, adapter.ErrUnauthorized)

	assert.True(t, session.Session().Authenticated())
	token, _ := creds.Load(ctx)
	assert.Equal(t, "new", token)
	assert.Equal(t, "new", serverAdapter.Token())
}
