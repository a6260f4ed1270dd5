// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-record-cache/internal/logger"
	"github.com/MKhiriev/go-record-cache/migrations"
)

// PartitionSpec declares a partition and the document field it is keyed by.
type PartitionSpec struct {
	Name     string
	KeyField string
}

// Schema is the declared layout of a local store. Changing a key field
// requires a higher Version, and opening with a higher Version drops every
// partition and its documents.
type Schema struct {
	Version    int
	Partitions []PartitionSpec
}

// LocalStore is a SQLite-backed durable store. It implements both
// [PartitionStore] and [CacheMirror]. Handles are shared per DSN: see
// [OpenLocalStore].
type LocalStore struct {
	db     *sql.DB
	dsn    string
	keys   map[string]string
	logger *logger.Logger

	// guarded by registryMu
	refs int
}

var (
	registryMu sync.Mutex
	registry   = make(map[string]*LocalStore)
)

// OpenLocalStore returns the live store for dsn, opening it, running the
// client migrations and applying schema on first use. Later calls for the
// same dsn return the same handle and ignore schema. Every successful call
// must be paired with [LocalStore.Close].
func OpenLocalStore(ctx context.Context, dsn string, schema Schema, log *logger.Logger) (*LocalStore, error) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if s, ok := registry[dsn]; ok {
		s.refs++
		return s, nil
	}

	db, err := NewConnectSQLite(ctx, dsn, log)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if err = migrations.MigrateClient(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	if err = applySchema(ctx, db, schema, log); err != nil {
		db.Close()
		return nil, err
	}

	keys := make(map[string]string, len(schema.Partitions))
	for _, p := range schema.Partitions {
		keys[p.Name] = p.KeyField
	}

	s := &LocalStore{
		db:     db,
		dsn:    dsn,
		keys:   keys,
		logger: log,
		refs:   1,
	}
	registry[dsn] = s

	return s, nil
}

// Close releases the handle. The database is closed when the last holder
// releases it.
func (s *LocalStore) Close() error {
	registryMu.Lock()
	defer registryMu.Unlock()

	if s.refs == 0 {
		return nil
	}
	s.refs--
	if s.refs > 0 {
		return nil
	}

	delete(registry, s.dsn)
	return s.db.Close()
}

func applySchema(ctx context.Context, db *sql.DB, schema Schema, log *logger.Logger) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return persistenceError(ErrBeginningTransaction, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var stored int
	switch scanErr := tx.QueryRowContext(ctx, getSchemaVersion).Scan(&stored); {
	case errors.Is(scanErr, sql.ErrNoRows):
		stored = 0
	case scanErr != nil:
		return persistenceError(ErrExecutingQuery, scanErr)
	}

	switch {
	case stored > schema.Version:
		return fmt.Errorf("%w: stored %d, requested %d", ErrSchemaDowngrade, stored, schema.Version)
	case stored < schema.Version && stored != 0:
		log.Info().
			Str("func", "applySchema").
			Int("from_version", stored).
			Int("to_version", schema.Version).
			Msg("store schema version bumped, dropping partitions")
		if _, err = tx.ExecContext(ctx, dropAllPartitionRecords); err != nil {
			return persistenceError(ErrExecutingStatement, err)
		}
		if _, err = tx.ExecContext(ctx, dropAllPartitions); err != nil {
			return persistenceError(ErrExecutingStatement, err)
		}
	}

	for _, p := range schema.Partitions {
		var keyField string
		scanErr := tx.QueryRowContext(ctx, getPartitionKeyField, p.Name).Scan(&keyField)
		switch {
		case errors.Is(scanErr, sql.ErrNoRows):
			if _, err = tx.ExecContext(ctx, insertPartition, p.Name, p.KeyField); err != nil {
				return persistenceError(ErrExecutingStatement, err)
			}
		case scanErr != nil:
			return persistenceError(ErrExecutingQuery, scanErr)
		case keyField != p.KeyField:
			return fmt.Errorf("%w: partition %q is keyed by %q, not %q", ErrPartitionKeyChanged, p.Name, keyField, p.KeyField)
		}
	}

	if _, err = tx.ExecContext(ctx, upsertSchemaVersion, schema.Version); err != nil {
		return persistenceError(ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		return persistenceError(ErrCommitingTransaction, err)
	}
	return nil
}

func persistenceError(op, err error) error {
	return fmt.Errorf("%w: %w: %w", ErrPersistence, op, err)
}
