// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// stock-watch client services and terminal screens.
//
// All Msg* constants are human-readable strings shown to the user when the
// server did not supply a more specific detail. Keeping them in one place
// ensures consistent wording between the services and the UI.
package app

const (
	// MsgInvalidCredentials is shown when the token exchange is rejected.
	MsgInvalidCredentials = "Invalid username or password"

	// MsgGoogleLoginFailed is shown when the federated token is rejected.
	MsgGoogleLoginFailed = "Google login failed"

	// MsgRegistrationFailed is shown for any failed registration. It never
	// names the field that collided.
	MsgRegistrationFailed = "Registration failed. Username or email might be taken."

	// MsgRegistrationSucceeded is shown on the login screen after a
	// successful registration.
	MsgRegistrationSucceeded = "Registration successful. Please log in."

	// MsgSendCodeFailed is the fallback for a failed recovery code request.
	MsgSendCodeFailed = "Failed to send code"

	// MsgInvalidCode is the fallback for a failed code verification.
	MsgInvalidCode = "Invalid or expired code"

	// MsgResetFailed is the fallback for a failed password reset.
	MsgResetFailed = "Failed to update password"

	// MsgPasswordTooShort is the local validation error for short passwords.
	MsgPasswordTooShort = "Password must be at least 6 characters"

	// MsgIdentifierRequired is the local validation error for an empty
	// username or email.
	MsgIdentifierRequired = "Please enter your username or email"

	// MsgCodeRequired is the local validation error for an empty code.
	MsgCodeRequired = "Please enter the verification code"

	// MsgCodeSent is used when the server confirms a code request without a
	// message body.
	MsgCodeSent = "Verification code sent"

	// MsgCodeVerified is shown when entering the new-password step.
	MsgCodeVerified = "Code verified! Please set your new password."

	// MsgProfileFailed is shown when the token was accepted but the identity
	// fetch that follows it failed.
	MsgProfileFailed = "Failed to load your profile. Please log in again."

	// MsgPasswordUpdated is used when the server confirms a reset without a
	// message body.
	MsgPasswordUpdated = "Password updated successfully. Redirecting to login..."

	// MsgAddStockFailed is shown when the server rejected an add without a
	// detail.
	MsgAddStockFailed = "Failed to add stock. Please check the symbol."

	// MsgSymbolRequired is the local validation error for an empty symbol.
	MsgSymbolRequired = "Please enter a stock symbol"

	// MsgNetworkError is shown when no response was received.
	MsgNetworkError = "Network error. Please try again."

	// MsgWatchlistFailed is shown when the watchlist could not be loaded.
	MsgWatchlistFailed = "Failed to load watchlist"

	// MsgRemoveStockFailed is shown when a delete was rejected.
	MsgRemoveStockFailed = "Failed to remove stock"
)
