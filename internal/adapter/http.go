// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/MKhiriev/stock-watch/internal/config"
	"github.com/MKhiriev/stock-watch/internal/logger"
	"github.com/MKhiriev/stock-watch/internal/utils"
	"github.com/MKhiriev/stock-watch/models"
	"github.com/go-resty/resty/v2"
)

const (
	requestIDHeader     = "X-Request-ID"
	authorizationHeader = "Authorization"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu             sync.RWMutex
	token          string
	onUnauthorized func()

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs the resty implementation of [ServerAdapter].
// It normalises the base URL from adapterCfg.HTTPAddress, applies the request
// timeout, and installs the request-id, logging and 401 hooks.
//
// Returns an error if adapterCfg.HTTPAddress is empty or is not a valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, log *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	h := &httpServerAdapter{
		client: utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		logger: log.Component("adapter"),
	}

	h.client.
		OnBeforeRequest(h.stampRequestID).
		OnAfterResponse(h.afterResponse).
		OnError(h.logTransportError)

	return h, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [AuthAdapter].
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [AuthAdapter].
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// OnUnauthorized implements [AuthAdapter].
func (h *httpServerAdapter) OnUnauthorized(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onUnauthorized = fn
}

// ExchangeToken implements [AuthAdapter]. The credentials are sent
// form-encoded, as the OAuth2 password flow expects.
func (h *httpServerAdapter) ExchangeToken(ctx context.Context, username, password string) (models.Credential, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"username": username,
			"password": password,
		}).
		Post("/token")
	if err != nil {
		return models.Credential{}, networkError("token", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Credential{}, err
	}

	return decodeCredential(resp, "token")
}

// ExchangeGoogleToken implements [AuthAdapter].
func (h *httpServerAdapter) ExchangeGoogleToken(ctx context.Context, providerToken string) (models.Credential, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.GoogleLoginRequest{Token: providerToken}).
		Post("/auth/google")
	if err != nil {
		return models.Credential{}, networkError("google login", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Credential{}, err
	}

	return decodeCredential(resp, "google login")
}

// CurrentUser implements [AuthAdapter].
func (h *httpServerAdapter) CurrentUser(ctx context.Context) (models.UserIdentity, error) {
	resp, err := h.authedRequest(ctx).Get("/users/me")
	if err != nil {
		return models.UserIdentity{}, networkError("current user", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.UserIdentity{}, err
	}

	var user models.UserIdentity
	if err = decodeJSON(resp, &user, "current user"); err != nil {
		return models.UserIdentity{}, err
	}
	return user, nil
}

// Register implements [AuthAdapter].
func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/register")
	if err != nil {
		return networkError("register", err)
	}

	return mapHTTPError(resp)
}

// RequestRecoveryCode implements [RecoveryAdapter].
func (h *httpServerAdapter) RequestRecoveryCode(ctx context.Context, identifier string) (string, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.ForgotPasswordRequest{Identifier: identifier}).
		Post("/auth/forgot-password")
	if err != nil {
		return "", networkError("forgot password", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	var msg models.MessageResponse
	if err = decodeJSON(resp, &msg, "forgot password"); err != nil {
		return "", err
	}
	return msg.Message, nil
}

// VerifyRecoveryCode implements [RecoveryAdapter].
func (h *httpServerAdapter) VerifyRecoveryCode(ctx context.Context, identifier, code string) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.VerifyCodeRequest{Identifier: identifier, Code: code}).
		Post("/auth/verify-code")
	if err != nil {
		return networkError("verify code", err)
	}

	return mapHTTPError(resp)
}

// ResetPassword implements [RecoveryAdapter].
func (h *httpServerAdapter) ResetPassword(ctx context.Context, identifier, code, newPassword string) (string, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.ResetPasswordRequest{Identifier: identifier, Code: code, NewPassword: newPassword}).
		Post("/auth/reset-password")
	if err != nil {
		return "", networkError("reset password", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	var msg models.MessageResponse
	if err = decodeJSON(resp, &msg, "reset password"); err != nil {
		return "", err
	}
	return msg.Message, nil
}

// GetWatchlist implements [MarketAdapter].
func (h *httpServerAdapter) GetWatchlist(ctx context.Context) ([]models.Stock, error) {
	resp, err := h.authedRequest(ctx).Get("/watchlist")
	if err != nil {
		return nil, networkError("get watchlist", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var items []models.WatchlistItem
	if err = decodeJSON(resp, &items, "watchlist"); err != nil {
		return nil, err
	}

	stocks := make([]models.Stock, 0, len(items))
	for _, item := range items {
		stocks = append(stocks, item.Stock)
	}
	return stocks, nil
}

// CreateStock implements [MarketAdapter].
func (h *httpServerAdapter) CreateStock(ctx context.Context, req models.CreateStockRequest) (models.Stock, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/stocks")
	if err != nil {
		return models.Stock{}, networkError("create stock", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Stock{}, err
	}

	var stock models.Stock
	if err = decodeJSON(resp, &stock, "create stock"); err != nil {
		return models.Stock{}, err
	}
	return stock, nil
}

// AddToWatchlist implements [MarketAdapter].
func (h *httpServerAdapter) AddToWatchlist(ctx context.Context, stockID int64) error {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.AddToWatchlistRequest{StockID: stockID}).
		Post("/watchlist")
	if err != nil {
		return networkError("add to watchlist", err)
	}

	return mapHTTPError(resp)
}

// RemoveFromWatchlist implements [MarketAdapter].
func (h *httpServerAdapter) RemoveFromWatchlist(ctx context.Context, symbol string) error {
	resp, err := h.authedRequest(ctx).
		SetPathParam("symbol", symbol).
		Delete("/watchlist/{symbol}")
	if err != nil {
		return networkError("remove from watchlist", err)
	}

	return mapHTTPError(resp)
}

// GetPopularStocks implements [MarketAdapter].
func (h *httpServerAdapter) GetPopularStocks(ctx context.Context) (models.Catalog, error) {
	resp, err := h.authedRequest(ctx).Get("/market/popular")
	if err != nil {
		return models.Catalog{}, networkError("popular stocks", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Catalog{}, err
	}

	catalog, err := decodeCatalog(resp.Body())
	if err != nil {
		return models.Catalog{}, fmt.Errorf("decode popular stocks response: %w", err)
	}
	return catalog, nil
}

// GetMarketHistory implements [MarketAdapter].
func (h *httpServerAdapter) GetMarketHistory(ctx context.Context, symbol string) ([]models.HistoryPoint, error) {
	resp, err := h.authedRequest(ctx).
		SetPathParam("symbol", symbol).
		Get("/market/history/{symbol}")
	if err != nil {
		return nil, networkError("market history", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var points []models.HistoryPoint
	if err = decodeJSON(resp, &points, "market history"); err != nil {
		return nil, err
	}
	return points, nil
}

// GetPrediction implements [MarketAdapter].
func (h *httpServerAdapter) GetPrediction(ctx context.Context, symbol string) (models.Prediction, error) {
	resp, err := h.authedRequest(ctx).
		SetPathParam("symbol", symbol).
		Get("/predict/{symbol}")
	if err != nil {
		return models.Prediction{}, networkError("prediction", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Prediction{}, err
	}

	var prediction models.Prediction
	if err = decodeJSON(resp, &prediction, "prediction"); err != nil {
		return models.Prediction{}, err
	}
	return prediction, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader(authorizationHeader, "Bearer "+token)
	}
	return req
}

func (h *httpServerAdapter) stampRequestID(_ *resty.Client, req *resty.Request) error {
	if req.Header.Get(requestIDHeader) == "" {
		req.SetHeader(requestIDHeader, utils.NewRequestID())
	}
	return nil
}

// afterResponse logs every response and reports 401 answers to authenticated
// requests. Token exchange and recovery calls carry no Authorization header,
// so a rejected password never invalidates the session. A 401 for a token
// that has since been replaced is ignored.
func (h *httpServerAdapter) afterResponse(_ *resty.Client, resp *resty.Response) error {
	req := resp.Request
	h.logger.Debug().
		Str("request_id", req.Header.Get(requestIDHeader)).
		Str("method", req.Method).
		Str("url", req.URL).
		Int("status", resp.StatusCode()).
		Dur("duration", resp.Time()).
		Msg("api response")

	sent := req.Header.Get(authorizationHeader)
	if resp.StatusCode() != http.StatusUnauthorized || sent == "" {
		return nil
	}

	h.mu.RLock()
	fn := h.onUnauthorized
	current := h.token
	h.mu.RUnlock()

	if sent != "Bearer "+current {
		h.logger.Debug().
			Str("request_id", req.Header.Get(requestIDHeader)).
			Msg("ignoring 401 for a replaced credential")
		return nil
	}

	if fn != nil {
		fn()
	}
	return nil
}

func (h *httpServerAdapter) logTransportError(req *resty.Request, err error) {
	if _, ok := err.(*resty.ResponseError); ok {
		return
	}
	h.logger.Warn().
		Err(err).
		Str("request_id", req.Header.Get(requestIDHeader)).
		Str("method", req.Method).
		Str("url", req.URL).
		Msg("api request failed")
}

func decodeCredential(resp *resty.Response, what string) (models.Credential, error) {
	var cred models.Credential
	if err := decodeJSON(resp, &cred, what); err != nil {
		return models.Credential{}, err
	}
	if cred.IsEmpty() {
		return models.Credential{}, fmt.Errorf("%s response: empty access token", what)
	}
	return cred, nil
}
