// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrEmptySubject is returned when a token carries no "sub" claim.
var ErrEmptySubject = errors.New("token subject is empty")

// Token is a bearer token accepted by the backend proxy.
//
// It embeds [jwt.Token] for signing and parsing and [jwt.RegisteredClaims] for
// claim access. Subject caches the "sub" claim, which names the client the
// token was issued to.
type Token struct {
	*jwt.Token `json:"-"`

	jwt.RegisteredClaims

	// SignedString is the compact JWS form sent in the Authorization header.
	SignedString string `json:"-"`

	// Subject is the client identifier taken from the "sub" claim.
	Subject string `json:"-"`
}

// GetClientID returns the non-empty "sub" claim.
func (t *Token) GetClientID() (string, error) {
	sub, err := t.GetSubject()
	if err != nil {
		return "", fmt.Errorf("error extracting subject from token: %w", err)
	}
	if sub == "" {
		return "", ErrEmptySubject
	}
	return sub, nil
}

// String returns the compact JWS serialization of the token.
func (t *Token) String() string {
	return t.SignedString
}
