// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"

	"github.com/MKhiriev/go-record-cache/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// Document is a schemaless value stored in a partition. It is keyed by the
// value of the partition's declared key field.
type Document map[string]any

// PartitionStore persists documents in named partitions.
type PartitionStore interface {
	// Put upserts doc by the partition's key field.
	Put(ctx context.Context, partition string, doc Document) error
	// Get returns the document under key or ErrKeyNotFound.
	Get(ctx context.Context, partition, key string) (Document, error)
	// GetAll returns every document in the partition ordered by key.
	GetAll(ctx context.Context, partition string) ([]Document, error)
	// Delete removes the document under key. Missing keys are not an error.
	Delete(ctx context.Context, partition, key string) error
	// Clear removes every document in the partition.
	Clear(ctx context.Context, partition string) error
	// BulkPut upserts docs in one transaction. Either every document is
	// written or none is.
	BulkPut(ctx context.Context, partition string, docs []Document) error
}

// CacheMirror holds the serialized record set and its metadata under two
// fixed keys.
type CacheMirror interface {
	// Load returns the mirrored records and metadata. An empty mirror yields
	// nil records and zero metadata.
	Load(ctx context.Context) ([]models.Record, models.CacheMeta, error)
	// Save replaces records and metadata atomically.
	Save(ctx context.Context, records []models.Record, meta models.CacheMeta) error
	// Clear removes both keys.
	Clear(ctx context.Context) error
}
