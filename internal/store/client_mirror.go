// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-record-cache/models"
)

const (
	mirrorRecordsKey = "cache.records"
	mirrorMetaKey    = "cache.meta"
)

// cacheMirror is the two-key mirror table of a [LocalStore].
type cacheMirror struct {
	store *LocalStore
}

var _ CacheMirror = (*cacheMirror)(nil)

// Mirror returns the [CacheMirror] backed by the same database.
func (s *LocalStore) Mirror() CacheMirror {
	return &cacheMirror{store: s}
}

// Load implements [CacheMirror].
func (m *cacheMirror) Load(ctx context.Context) ([]models.Record, models.CacheMeta, error) {
	var meta models.CacheMeta

	rawRecords, ok, err := m.value(ctx, mirrorRecordsKey)
	if err != nil || !ok {
		return nil, meta, err
	}

	var records []models.Record
	if err = json.Unmarshal(rawRecords, &records); err != nil {
		return nil, meta, fmt.Errorf("%w: %w: records: %w", ErrPersistence, ErrDecodingValue, err)
	}

	rawMeta, ok, err := m.value(ctx, mirrorMetaKey)
	if err != nil {
		return nil, meta, err
	}
	if ok {
		if err = json.Unmarshal(rawMeta, &meta); err != nil {
			return nil, meta, fmt.Errorf("%w: %w: meta: %w", ErrPersistence, ErrDecodingValue, err)
		}
	}

	return records, meta, nil
}

func (m *cacheMirror) value(ctx context.Context, key string) ([]byte, bool, error) {
	var raw string
	err := m.store.db.QueryRowContext(ctx, getMirrorValue, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, persistenceError(ErrExecutingQuery, err)
	}
	return []byte(raw), true, nil
}

// Save implements [CacheMirror]. Records and metadata are written in one
// transaction.
func (m *cacheMirror) Save(ctx context.Context, records []models.Record, meta models.CacheMeta) (err error) {
	if records == nil {
		records = []models.Record{}
	}

	rawRecords, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: records: %w", ErrEncodingValue, err)
	}
	rawMeta, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("%w: meta: %w", ErrEncodingValue, err)
	}

	tx, err := m.store.db.BeginTx(ctx, nil)
	if err != nil {
		return persistenceError(ErrBeginningTransaction, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UnixMilli()
	if _, err = tx.ExecContext(ctx, upsertMirrorValue, mirrorRecordsKey, string(rawRecords), now); err != nil {
		m.store.logger.Err(err).Str("func", "cacheMirror.Save").Msg("failed to write mirrored records")
		return persistenceError(ErrExecutingStatement, err)
	}
	if _, err = tx.ExecContext(ctx, upsertMirrorValue, mirrorMetaKey, string(rawMeta), now); err != nil {
		m.store.logger.Err(err).Str("func", "cacheMirror.Save").Msg("failed to write mirrored meta")
		return persistenceError(ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		return persistenceError(ErrCommitingTransaction, err)
	}
	return nil
}

// Clear implements [CacheMirror].
func (m *cacheMirror) Clear(ctx context.Context) error {
	if _, err := m.store.db.ExecContext(ctx, clearMirror, mirrorRecordsKey, mirrorMetaKey); err != nil {
		return persistenceError(ErrExecutingStatement, err)
	}
	return nil
}
