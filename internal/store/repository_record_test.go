// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-record-cache/internal/logger"
	"github.com/MKhiriev/go-record-cache/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecordRepo(t *testing.T) (*recordRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l := logger.Nop()
	repo := &recordRepository{
		DB:     &DB{DB: db, logger: l, errorClassificator: NewPostgresErrorClassifier()},
		logger: l,
	}
	return repo, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func TestRecordRepository_Create(t *testing.T) {
	repo, mock := newTestRecordRepo(t)

	mock.ExpectQuery("INSERT INTO records").
		WithArgs("x_records", []byte(`{"x_name":"Milk"}`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(41))

	// a stray id in the field map is not stored
	id, err := repo.Create(context.Background(), "x_records", map[string]any{"id": 5, "x_name": "Milk"})
	require.NoError(t, err)
	assert.Equal(t, int64(41), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_Create_Errors(t *testing.T) {
	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{"unique violation", pgError(pgerrcode.UniqueViolation), ErrRecordConflict},
		{"bad json", pgError(pgerrcode.InvalidTextRepresentation), ErrInvalidQuery},
		{"connection lost", pgError(pgerrcode.ConnectionFailure), ErrUnavailable},
		{"deadlock", pgError(pgerrcode.DeadlockDetected), ErrUnavailable},
		{"unknown code", pgError(pgerrcode.DiskFull), ErrExecutingQuery},
		{"non postgres", errors.New("boom"), ErrExecutingQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newTestRecordRepo(t)
			mock.ExpectQuery("INSERT INTO records").WillReturnError(tt.dbErr)

			_, err := repo.Create(context.Background(), "x_records", map[string]any{"x_name": "Milk"})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRecordRepository_Search(t *testing.T) {
	repo, mock := newTestRecordRepo(t)

	rows := sqlmock.NewRows([]string{"id", "fields"}).
		AddRow(6, []byte(`{"x_name":"Milk","x_count":2}`)).
		AddRow(9, []byte(`{"x_name":"Eggs"}`))

	mock.ExpectQuery(`SELECT id, fields FROM records WHERE model = \$1 AND id > \$2 ORDER BY id`).
		WithArgs("x_records", int64(5)).
		WillReturnRows(rows)

	got, err := repo.Search(context.Background(), "x_records", models.IDGreaterThan(5), []string{"x_name"})
	require.NoError(t, err)
	assert.Equal(t, []map[string]any{
		{"id": int64(6), "x_name": "Milk"},
		{"id": int64(9), "x_name": "Eggs"},
	}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepository_Search_Empty(t *testing.T) {
	repo, mock := newTestRecordRepo(t)
	mock.ExpectQuery("SELECT id, fields FROM records").
		WillReturnRows(sqlmock.NewRows([]string{"id", "fields"}))

	got, err := repo.Search(context.Background(), "x_records", nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRecordRepository_Search_Errors(t *testing.T) {
	t.Run("invalid domain never reaches the db", func(t *testing.T) {
		repo, mock := newTestRecordRepo(t)
		_, err := repo.Search(context.Background(), "x_records", models.Domain{models.Where("x", models.Operator("~"), 1)}, nil)
		assert.ErrorIs(t, err, ErrInvalidQuery)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		repo, mock := newTestRecordRepo(t)
		mock.ExpectQuery("SELECT").WillReturnError(pgError(pgerrcode.UndefinedColumn))
		_, err := repo.Search(context.Background(), "x_records", nil, nil)
		assert.ErrorIs(t, err, ErrInvalidQuery)
	})

	t.Run("corrupt document", func(t *testing.T) {
		repo, mock := newTestRecordRepo(t)
		mock.ExpectQuery("SELECT").
			WillReturnRows(sqlmock.NewRows([]string{"id", "fields"}).AddRow(1, []byte(`{`)))
		_, err := repo.Search(context.Background(), "x_records", nil, nil)
		assert.ErrorIs(t, err, ErrDecodingValue)
	})

	t.Run("row error", func(t *testing.T) {
		repo, mock := newTestRecordRepo(t)
		mock.ExpectQuery("SELECT").
			WillReturnRows(sqlmock.NewRows([]string{"id", "fields"}).
				AddRow(1, []byte(`{}`)).
				RowError(0, errors.New("broken pipe")))
		_, err := repo.Search(context.Background(), "x_records", nil, nil)
		assert.ErrorIs(t, err, ErrScanningRows)
	})
}

func TestRecordRepository_Update(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock := newTestRecordRepo(t)
		mock.ExpectExec("UPDATE records").
			WithArgs([]byte(`{"x_count":3}`), "x_records", int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.Update(context.Background(), "x_records", 7, map[string]any{"x_count": 3})
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no such record", func(t *testing.T) {
		repo, mock := newTestRecordRepo(t)
		mock.ExpectExec("UPDATE records").WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.Update(context.Background(), "x_records", 7, map[string]any{"x_count": 3})
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("check violation", func(t *testing.T) {
		repo, mock := newTestRecordRepo(t)
		mock.ExpectExec("UPDATE records").WillReturnError(pgError(pgerrcode.CheckViolation))

		_, err := repo.Update(context.Background(), "x_records", 7, map[string]any{"x_count": 3})
		assert.ErrorIs(t, err, ErrRecordConflict)
	})

	t.Run("rows affected error", func(t *testing.T) {
		repo, mock := newTestRecordRepo(t)
		mock.ExpectExec("UPDATE records").
			WillReturnResult(sqlmock.NewErrorResult(errors.New("not supported")))

		_, err := repo.Update(context.Background(), "x_records", 7, nil)
		assert.ErrorIs(t, err, ErrExecutingStatement)
	})
}

func TestRecordRepository_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo, mock := newTestRecordRepo(t)
		mock.ExpectExec("DELETE FROM records").
			WithArgs("x_records", int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.Delete(context.Background(), "x_records", 7)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("already gone", func(t *testing.T) {
		repo, mock := newTestRecordRepo(t)
		mock.ExpectExec("DELETE FROM records").WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.Delete(context.Background(), "x_records", 7)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}

func TestPostgresErrorClassifier(t *testing.T) {
	c := NewPostgresErrorClassifier()

	assert.Equal(t, Retryable, c.Classify(pgError(pgerrcode.SerializationFailure)))
	assert.Equal(t, Retryable, c.Classify(pgError(pgerrcode.CannotConnectNow)))
	assert.Equal(t, NonRetryable, c.Classify(pgError(pgerrcode.UniqueViolation)))
	assert.Equal(t, NonRetryable, c.Classify(errors.New("plain")))

	assert.NoError(t, c.Wrap(nil))
	assert.ErrorIs(t, c.Wrap(sql.ErrNoRows), ErrRecordNotFound)
}
