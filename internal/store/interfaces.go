// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-record-cache/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// RecordRepository is the proxy's generic record store. Every record belongs
// to a model (collection) and carries a JSON object of fields.
type RecordRepository interface {
	// Create stores fields under model and returns the new identity.
	Create(ctx context.Context, model string, fields map[string]any) (int64, error)
	// Search returns matching rows ordered by id. Each row holds "id" and the
	// requested fields, or every field when fields is empty.
	Search(ctx context.Context, model string, domain models.Domain, fields []string) ([]map[string]any, error)
	// Update shallow-merges values into the record. It returns false and
	// ErrRecordNotFound for an unknown id.
	Update(ctx context.Context, model string, id int64, values map[string]any) (bool, error)
	// Delete removes the record. It returns false and ErrRecordNotFound for
	// an unknown id.
	Delete(ctx context.Context, model string, id int64) (bool, error)
}
