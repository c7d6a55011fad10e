// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package account

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what the client can learn from an access token without
// the server's signing key.
type TokenInfo struct {
	// Subject is the "sub" claim (the account email for this API).
	Subject string
	// ExpiresAt is the "exp" claim. Zero when the token has none.
	ExpiresAt time.Time
}

// Expired reports whether the token's expiry is at or before now.
// Tokens without an expiry never expire client-side.
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// InspectToken decodes the claims of a JWT access token without
// verifying its signature. The result is for display only: the server
// remains the authority on whether a token is valid.
func InspectToken(token string) (TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("account: parsing access token: %w", err)
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return TokenInfo{}, fmt.Errorf("account: access token subject: %w", err)
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil {
		return TokenInfo{}, fmt.Errorf("account: access token expiry: %w", err)
	}

	info := TokenInfo{Subject: subject}
	if expiry != nil {
		info.ExpiresAt = expiry.Time
	}
	return info, nil
}
