// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package migrations embeds the SQL schema of both binaries and applies it
// with goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed client/*.sql proxy/*.sql
var embedMigrations embed.FS

var errNilDB = errors.New("db is nil")

// goose keeps dialect and base FS in package state.
var gooseMu sync.Mutex

// MigrateClient applies the local cache schema to a SQLite database.
func MigrateClient(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, "sqlite3", "client")
}

// MigrateProxy applies the record store schema to a Postgres database.
func MigrateProxy(ctx context.Context, db *sql.DB) error {
	return migrate(ctx, db, "pgx", "proxy")
}

func migrate(ctx context.Context, db *sql.DB, dialect, dir string) error {
	if db == nil {
		return fmt.Errorf("migration error: %w", errNilDB)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
