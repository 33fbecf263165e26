// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// SessionToken wraps the bearer token issued to the authenticated session.
//
// The client never verifies the signature (it does not hold the server key);
// claims are only read to learn which user the session belongs to and when
// it expires.
type SessionToken struct {
	jwt.RegisteredClaims

	// SignedString is the compact serialized token as sent in the
	// Authorization header.
	SignedString string `json:"-"`
}

// ParseSessionToken reads the claims of a compact JWT without verifying it.
func ParseSessionToken(signed string) (SessionToken, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(signed, &claims); err != nil {
		return SessionToken{}, fmt.Errorf("parse session token: %w", err)
	}
	if claims.Subject == "" {
		return SessionToken{}, fmt.Errorf("parse session token: empty subject")
	}

	return SessionToken{RegisteredClaims: claims, SignedString: signed}, nil
}

// UserID returns the "sub" claim.
func (t SessionToken) UserID() string {
	return t.Subject
}
