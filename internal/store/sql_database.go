// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"

	"github.com/MKhiriev/go-record-cache/internal/logger"
	"github.com/MKhiriev/go-record-cache/migrations"
)

// DB is the proxy's Postgres connection with its error classifier.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// ErrorClassificator maps driver errors to store sentinels.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
	Wrap(err error) error
}

// Migrate applies the record store schema.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.MigrateProxy(ctx, db.DB)
}
