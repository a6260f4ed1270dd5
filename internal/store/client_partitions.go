// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/MKhiriev/go-record-cache/internal/logger"
)

var _ PartitionStore = (*LocalStore)(nil)

func (s *LocalStore) keyOf(partition string, doc Document) (string, error) {
	field, ok := s.keys[partition]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPartition, partition)
	}

	key, ok := documentKey(doc[field])
	if !ok {
		return "", fmt.Errorf("%w: partition %q needs %q", ErrMissingKey, partition, field)
	}
	return key, nil
}

func (s *LocalStore) checkPartition(partition string) error {
	if _, ok := s.keys[partition]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPartition, partition)
	}
	return nil
}

// documentKey renders a key field value. Integral floats, which is what
// numbers become after a JSON round trip, are printed without a fraction.
func documentKey(v any) (string, bool) {
	switch k := v.(type) {
	case string:
		return k, k != ""
	case int:
		return strconv.Itoa(k), true
	case int64:
		return strconv.FormatInt(k, 10), true
	case float64:
		if k == math.Trunc(k) {
			return strconv.FormatInt(int64(k), 10), true
		}
		return strconv.FormatFloat(k, 'f', -1, 64), true
	case json.Number:
		return k.String(), true
	case fmt.Stringer:
		str := k.String()
		return str, str != ""
	default:
		return "", false
	}
}

// Put implements [PartitionStore].
func (s *LocalStore) Put(ctx context.Context, partition string, doc Document) error {
	key, err := s.keyOf(partition, doc)
	if err != nil {
		return err
	}

	value, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEncodingValue, err)
	}

	if _, err = s.db.ExecContext(ctx, upsertPartitionRecord, partition, key, string(value)); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "LocalStore.Put").
			Str("partition", partition).
			Str("key", key).
			Msg("failed to upsert document")
		return persistenceError(ErrExecutingStatement, err)
	}
	return nil
}

// Get implements [PartitionStore].
func (s *LocalStore) Get(ctx context.Context, partition, key string) (Document, error) {
	if err := s.checkPartition(partition); err != nil {
		return nil, err
	}

	var raw string
	err := s.db.QueryRowContext(ctx, getPartitionRecord, partition, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", ErrKeyNotFound, partition, key)
	}
	if err != nil {
		return nil, persistenceError(ErrExecutingQuery, err)
	}

	return decodeDocument(raw)
}

// GetAll implements [PartitionStore].
func (s *LocalStore) GetAll(ctx context.Context, partition string) ([]Document, error) {
	if err := s.checkPartition(partition); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, getAllPartitionRecords, partition)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "LocalStore.GetAll").
			Str("partition", partition).
			Msg("failed to query partition")
		return nil, persistenceError(ErrExecutingQuery, err)
	}
	defer rows.Close()

	docs := make([]Document, 0, 16)
	for rows.Next() {
		var raw string
		if err = rows.Scan(&raw); err != nil {
			return nil, persistenceError(ErrScanningRow, err)
		}
		doc, decodeErr := decodeDocument(raw)
		if decodeErr != nil {
			return nil, decodeErr
		}
		docs = append(docs, doc)
	}
	if err = rows.Err(); err != nil {
		return nil, persistenceError(ErrScanningRows, err)
	}

	return docs, nil
}

// Delete implements [PartitionStore].
func (s *LocalStore) Delete(ctx context.Context, partition, key string) error {
	if err := s.checkPartition(partition); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, deletePartitionRecord, partition, key); err != nil {
		return persistenceError(ErrExecutingStatement, err)
	}
	return nil
}

// Clear implements [PartitionStore].
func (s *LocalStore) Clear(ctx context.Context, partition string) error {
	if err := s.checkPartition(partition); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, clearPartitionRecords, partition); err != nil {
		return persistenceError(ErrExecutingStatement, err)
	}
	return nil
}

// BulkPut implements [PartitionStore]. Keys and encodings are validated
// before the transaction starts.
func (s *LocalStore) BulkPut(ctx context.Context, partition string, docs []Document) (err error) {
	if err = s.checkPartition(partition); err != nil {
		return err
	}
	if len(docs) == 0 {
		return nil
	}

	keys := make([]string, len(docs))
	values := make([]string, len(docs))
	for i, doc := range docs {
		if keys[i], err = s.keyOf(partition, doc); err != nil {
			return fmt.Errorf("document #%d: %w", i, err)
		}
		b, marshalErr := json.Marshal(doc)
		if marshalErr != nil {
			return fmt.Errorf("document #%d: %w: %w", i, ErrEncodingValue, marshalErr)
		}
		values[i] = string(b)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persistenceError(ErrBeginningTransaction, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertPartitionRecord)
	if err != nil {
		return persistenceError(ErrExecutingStatement, err)
	}
	defer stmt.Close()

	for i := range docs {
		if _, err = stmt.ExecContext(ctx, partition, keys[i], values[i]); err != nil {
			logger.FromContext(ctx).Err(err).
				Str("func", "LocalStore.BulkPut").
				Str("partition", partition).
				Int("index", i).
				Msg("bulk write failed, rolling back")
			return persistenceError(ErrExecutingStatement, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return persistenceError(ErrCommitingTransaction, err)
	}
	return nil
}

func decodeDocument(raw string) (Document, error) {
	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrPersistence, ErrDecodingValue, err)
	}
	return doc, nil
}
