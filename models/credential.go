// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credential is the bearer token returned by the token-exchange endpoints
// (POST /token and POST /auth/google).
//
// Only AccessToken is persisted on the client; TokenType is informational.
type Credential struct {
	// AccessToken is the opaque bearer token sent in the Authorization header.
	AccessToken string `json:"access_token"`

	// TokenType is the token scheme reported by the server (usually "bearer").
	TokenType string `json:"token_type,omitempty"`
}

// IsEmpty reports whether the credential carries no token.
func (c Credential) IsEmpty() bool {
	return strings.TrimSpace(c.AccessToken) == ""
}

// ExpiresAt returns the "exp" claim of the token when the token is a JWT.
// The signature is NOT verified: the value is shown to the user and never
// used to decide whether a session is valid.
//
// ok is false when the token is not a JWT or carries no expiry.
func (c Credential) ExpiresAt() (exp time.Time, ok bool) {
	token, _, err := jwt.NewParser().ParseUnverified(c.AccessToken, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}

	date, err := token.Claims.GetExpirationTime()
	if err != nil || date == nil {
		return time.Time{}, false
	}

	return date.Time, true
}
