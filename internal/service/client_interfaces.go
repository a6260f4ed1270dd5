// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"

	"github.com/MKhiriev/go-record-cache/models"
)

// CacheEngine keeps an offline-first copy of one remote collection. It owns
// the in-memory [models.CacheState], mirrors it to the local store and
// reconciles it with the remote collection.
//
// Every published state is an immutable snapshot: consumers must treat the
// Records slice and the field maps inside it as read-only.
type CacheEngine interface {
	// Subscribe registers listener and calls it immediately with the current
	// state, then once per published state, in publish order. Listeners run
	// synchronously and must not call mutating engine methods from within the
	// callback. The returned function removes the listener.
	Subscribe(listener func(models.CacheState)) (unsubscribe func())

	// State returns the current snapshot.
	State() models.CacheState

	// Initialize loads the durable mirror, publishes it, refreshes it from
	// the remote collection when it is empty or stale and starts the
	// background workers. Each Initialize must be paired with one Destroy.
	Initialize(ctx context.Context) error

	// Sync fetches new records (or all records when forceFullRefresh is set
	// or nothing was synced yet) and merges them into the cache. Failures are
	// published as the state error and returned.
	Sync(ctx context.Context, forceFullRefresh bool) error

	// ForceRefresh drops the durable mirror and the label cache, then runs a
	// full sync. Pending drafts are kept.
	ForceRefresh(ctx context.Context) error

	// CreateRecord creates a record remotely, shows it at once and then
	// reconciles the cache with a full sync. It returns the new identity.
	CreateRecord(ctx context.Context, fields map[string]any) (int64, error)

	// DraftRecord stores a record locally under a temporary identity. The
	// draft is sent to the remote collection by the next sync.
	DraftRecord(ctx context.Context, fields map[string]any) (models.RecordID, error)

	// UpdateRecord patches the record locally, updates it remotely and then
	// replaces it with the remote copy. Drafts are patched locally only.
	UpdateRecord(ctx context.Context, id models.RecordID, values map[string]any) (bool, error)

	// IncrementRecord adds delta to a numeric field of the cached record.
	// An empty field selects the configured counter field.
	IncrementRecord(ctx context.Context, id models.RecordID, field string, delta float64) (bool, error)

	// DeleteRecord deletes the record remotely and, only on success, from
	// the cache. Drafts are discarded locally.
	DeleteRecord(ctx context.Context, id models.RecordID) (bool, error)

	// Status summarizes the current state for display.
	Status() models.CacheStatus

	// Recent returns the most recent confirmed records, newest first.
	Recent() []models.Record

	// Destroy stops the background workers and cancels background syncs,
	// waiting for both to return. Caller operations still in flight
	// complete but no longer publish. Neither state nor mirror is cleared.
	Destroy()
}

// IDGenerator produces the suffix of temporary record identities.
type IDGenerator interface {
	Generate() string
}
