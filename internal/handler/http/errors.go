// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors of the auth and integrity middlewares.
var (
	// ErrEmptyAuthorizationHeader is returned when the request carries no
	// "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidToken is returned when the bearer token fails verification.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrMissingHash is returned when body signing is on and the request has
	// no hash header.
	ErrMissingHash = errors.New("missing body hash")

	// ErrHashMismatch is returned when the body does not match its hash.
	ErrHashMismatch = errors.New("integrity check failed")
)
