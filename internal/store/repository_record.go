// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"

	"github.com/MKhiriev/go-record-cache/internal/logger"
	"github.com/MKhiriev/go-record-cache/models"
)

// recordRepository is the Postgres implementation of [RecordRepository]
// over the "records" table.
type recordRepository struct {
	*DB
	logger *logger.Logger
}

// NewRecordRepository constructs a [RecordRepository] on db.
func NewRecordRepository(db *DB, logger *logger.Logger) RecordRepository {
	return &recordRepository{
		DB:     db,
		logger: logger,
	}
}

func encodeFields(fields map[string]any) ([]byte, error) {
	clean := maps.Clone(fields)
	if clean == nil {
		clean = map[string]any{}
	}
	delete(clean, "id")

	b, err := json.Marshal(clean)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodingValue, err)
	}
	return b, nil
}

// Create implements [RecordRepository].
func (r *recordRepository) Create(ctx context.Context, model string, fields map[string]any) (int64, error) {
	log := logger.FromContext(ctx)

	payload, err := encodeFields(fields)
	if err != nil {
		return 0, err
	}

	var id int64
	if err = r.DB.QueryRowContext(ctx, createRecord, model, payload).Scan(&id); err != nil {
		log.Err(err).
			Str("func", "recordRepository.Create").
			Str("model", model).
			Msg("failed to insert record")
		return 0, r.errorClassificator.Wrap(err)
	}

	return id, nil
}

// Search implements [RecordRepository].
func (r *recordRepository) Search(ctx context.Context, model string, domain models.Domain, fields []string) ([]map[string]any, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildSearchQuery(model, domain)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.Search").
			Str("model", model).
			Msg("failed to build search query")
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.Search").
			Str("model", model).
			Int("conditions", len(domain)).
			Msg("failed to execute search query")
		return nil, r.errorClassificator.Wrap(err)
	}
	defer rows.Close()

	results := make([]map[string]any, 0, 50)
	for rows.Next() {
		var (
			id  int64
			raw []byte
		)
		if err = rows.Scan(&id, &raw); err != nil {
			log.Err(err).
				Str("func", "recordRepository.Search").
				Msg("failed to scan record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}

		var doc map[string]any
		if err = json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrDecodingValue, id, err)
		}

		results = append(results, projectFields(id, doc, fields))
	}

	if err = rows.Err(); err != nil {
		log.Err(err).
			Str("func", "recordRepository.Search").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return results, nil
}

// Update implements [RecordRepository].
func (r *recordRepository) Update(ctx context.Context, model string, id int64, values map[string]any) (bool, error) {
	log := logger.FromContext(ctx)

	payload, err := encodeFields(values)
	if err != nil {
		return false, err
	}

	res, err := r.DB.ExecContext(ctx, updateRecord, payload, model, id)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.Update").
			Str("model", model).
			Int64("record_id", id).
			Msg("failed to update record")
		return false, r.errorClassificator.Wrap(err)
	}

	return affectedOne(res, model, id)
}

// Delete implements [RecordRepository].
func (r *recordRepository) Delete(ctx context.Context, model string, id int64) (bool, error) {
	log := logger.FromContext(ctx)

	res, err := r.DB.ExecContext(ctx, deleteRecord, model, id)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.Delete").
			Str("model", model).
			Int64("record_id", id).
			Msg("failed to delete record")
		return false, r.errorClassificator.Wrap(err)
	}

	return affectedOne(res, model, id)
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func affectedOne(res rowsAffecter, model string, id int64) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	if n == 0 {
		return false, fmt.Errorf("%w: %s/%d", ErrRecordNotFound, model, id)
	}
	return true, nil
}
