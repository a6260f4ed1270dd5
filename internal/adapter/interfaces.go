// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter is the remote client of the record cache. It speaks the
// proxy's single-endpoint envelope protocol: every operation is one POST of
// {"action", "data"} answered by {"success", ...}.
//
// Errors are the sentinels of errors.go, matched with [errors.Is]: transport
// failures are [ErrTransport], and everything the proxy refuses is
// [ErrRemoteRejected], refined by [ErrUnauthorized] and [ErrForbidden].
package adapter

import (
	"context"

	"github.com/MKhiriev/go-record-cache/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_client_mock.go -package=mock

// RemoteClient performs operations against the remote record store. It
// never retries; callers decide what a failure means.
type RemoteClient interface {
	// Create stores a new record and returns its remote identity.
	Create(ctx context.Context, model string, fields map[string]any) (int64, error)

	// Search returns records of model matching domain, ordered by identity.
	// An empty fields list asks for every field.
	Search(ctx context.Context, model string, domain models.Domain, fields []string) ([]models.Record, error)

	// SearchModel is Search against a foreign collection, returning raw
	// documents. The resolver uses it to fetch display labels.
	SearchModel(ctx context.Context, model string, domain models.Domain, fields []string) ([]map[string]any, error)

	// Update shallow-merges values into record id.
	Update(ctx context.Context, model string, id int64, values map[string]any) (bool, error)

	// Delete removes record id.
	Delete(ctx context.Context, model string, id int64) (bool, error)
}
