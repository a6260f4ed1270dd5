// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-record-cache/internal/config"
	"github.com/MKhiriev/go-record-cache/internal/logger"
)

// Partitions used by the cache engine.
const (
	// PartitionLabels caches resolved display labels keyed "<model>:<id>".
	PartitionLabels = "labels"
	// PartitionSettings holds engine settings keyed by name.
	PartitionSettings = "settings"
	// PartitionOutbox holds drafts keyed by their temporary identity.
	PartitionOutbox = "outbox"
)

// ClientSchema is the local store layout of the cache client.
var ClientSchema = Schema{
	Version: 1,
	Partitions: []PartitionSpec{
		{Name: PartitionLabels, KeyField: "key"},
		{Name: PartitionSettings, KeyField: "key"},
		{Name: PartitionOutbox, KeyField: "id"},
	},
}

// ClientStorages groups the client-side stores handed to the cache engine.
type ClientStorages struct {
	// Partitions holds labels, settings and the draft outbox.
	Partitions PartitionStore
	// Mirror holds the serialized record set and metadata.
	Mirror CacheMirror

	local *LocalStore
}

// NewClientStorages opens the local SQLite store at cfg.DSN with
// [ClientSchema].
func NewClientStorages(ctx context.Context, cfg config.ClientStorage, log *logger.Logger) (*ClientStorages, error) {
	log.Info().Str("dsn", cfg.DSN).Msg("opening local storages...")

	local, err := OpenLocalStore(ctx, cfg.DSN, ClientSchema, log)
	if err != nil {
		return nil, fmt.Errorf("local store open error: %w", err)
	}

	return &ClientStorages{
		Partitions: local,
		Mirror:     local.Mirror(),
		local:      local,
	}, nil
}

// Close releases the underlying store handle.
func (s *ClientStorages) Close() error {
	return s.local.Close()
}
