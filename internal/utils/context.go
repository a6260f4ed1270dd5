// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides helpers shared by the client and the proxy: typed
// context keys, HMAC hashing, JSON responses, the resty client wrapper, JWT
// handling and identifier generation.
package utils

import (
	"context"
)

// contextKey is a private type for context keys, so keys never collide with
// plain strings used by other packages.
type contextKey string

func (c contextKey) String() string {
	return string(c)
}

// ClientIDCtxKey stores the authenticated client identifier (the token
// subject) in a request context.
var ClientIDCtxKey = contextKey("clientID")

// WithClientID returns a copy of ctx carrying clientID.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, ClientIDCtxKey, clientID)
}

// GetClientIDFromContext returns the client identifier stored under
// [ClientIDCtxKey]. ok is false when the value is missing, empty or has an
// unexpected type.
func GetClientIDFromContext(ctx context.Context) (string, bool) {
	clientID, ok := ctx.Value(ClientIDCtxKey).(string)
	return clientID, ok && clientID != ""
}
