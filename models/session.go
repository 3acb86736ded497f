// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Session is the derived authentication state exposed to the UI.
//
// Loading is true only until the bootstrap check resolves. A non-nil User
// implies that a valid credential is installed. ExpiresAt is the expiry
// claimed by the credential; it is zero when the token carries none.
type Session struct {
	User      *UserIdentity
	Loading   bool
	ExpiresAt time.Time
}

// Authenticated reports whether a user is logged in.
func (s Session) Authenticated() bool {
	return s.User != nil
}
