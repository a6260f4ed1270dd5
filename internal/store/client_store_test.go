// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-record-cache/internal/logger"
	"github.com/MKhiriev/go-record-cache/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSchema = Schema{
	Version: 1,
	Partitions: []PartitionSpec{
		{Name: "labels", KeyField: "key"},
		{Name: "outbox", KeyField: "id"},
	},
}

func memoryDSN(t *testing.T) string {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
}

func openTestStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := OpenLocalStore(context.Background(), memoryDSN(t), testSchema, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// ── open / close ─────────────────────────────────────────────────────────────

func TestOpenLocalStore_MemoizedPerDSN(t *testing.T) {
	ctx := context.Background()
	dsn := memoryDSN(t)

	first, err := OpenLocalStore(ctx, dsn, testSchema, logger.Nop())
	require.NoError(t, err)
	second, err := OpenLocalStore(ctx, dsn, testSchema, logger.Nop())
	require.NoError(t, err)

	assert.Same(t, first, second)

	// the first release keeps the handle alive
	require.NoError(t, first.Close())
	require.NoError(t, second.Put(ctx, "labels", Document{"key": "a"}))

	require.NoError(t, second.Close())
	err = second.Put(ctx, "labels", Document{"key": "b"})
	assert.ErrorIs(t, err, ErrPersistence)

	// a fresh open after the last close gets a new handle
	third, err := OpenLocalStore(ctx, dsn, testSchema, logger.Nop())
	require.NoError(t, err)
	defer third.Close()
	assert.NotSame(t, first, third)
}

func TestOpenLocalStore_SchemaEvolution(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "cache.db")

	s, err := OpenLocalStore(ctx, dsn, testSchema, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "labels", Document{"key": "res_partner:1", "label": "Acme"}))
	require.NoError(t, s.Close())

	t.Run("key field change without bump", func(t *testing.T) {
		changed := Schema{Version: 1, Partitions: []PartitionSpec{{Name: "labels", KeyField: "id"}}}
		_, err := OpenLocalStore(ctx, dsn, changed, logger.Nop())
		assert.ErrorIs(t, err, ErrPartitionKeyChanged)
	})

	t.Run("same schema keeps documents", func(t *testing.T) {
		s, err := OpenLocalStore(ctx, dsn, testSchema, logger.Nop())
		require.NoError(t, err)
		defer s.Close()

		doc, err := s.Get(ctx, "labels", "res_partner:1")
		require.NoError(t, err)
		assert.Equal(t, "Acme", doc["label"])
	})

	t.Run("version bump drops partitions", func(t *testing.T) {
		bumped := Schema{Version: 2, Partitions: []PartitionSpec{{Name: "labels", KeyField: "id"}}}
		s, err := OpenLocalStore(ctx, dsn, bumped, logger.Nop())
		require.NoError(t, err)
		defer s.Close()

		all, err := s.GetAll(ctx, "labels")
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("downgrade is rejected", func(t *testing.T) {
		_, err := OpenLocalStore(ctx, dsn, testSchema, logger.Nop())
		assert.ErrorIs(t, err, ErrSchemaDowngrade)
	})
}

// ── partitions ───────────────────────────────────────────────────────────────

func TestLocalStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Put(ctx, "outbox", Document{"id": "tmp-b", "x_name": "Bread"}))
	require.NoError(t, s.Put(ctx, "outbox", Document{"id": "tmp-a", "x_name": "Apples"}))
	// upsert by key
	require.NoError(t, s.Put(ctx, "outbox", Document{"id": "tmp-b", "x_name": "Butter"}))

	doc, err := s.Get(ctx, "outbox", "tmp-b")
	require.NoError(t, err)
	assert.Equal(t, "Butter", doc["x_name"])

	all, err := s.GetAll(ctx, "outbox")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "tmp-a", all[0]["id"])
	assert.Equal(t, "tmp-b", all[1]["id"])

	require.NoError(t, s.Delete(ctx, "outbox", "tmp-a"))
	require.NoError(t, s.Delete(ctx, "outbox", "tmp-a"), "delete is idempotent")

	_, err = s.Get(ctx, "outbox", "tmp-a")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, s.Clear(ctx, "outbox"))
	all, err = s.GetAll(ctx, "outbox")
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLocalStore_NumericAndStringerKeys(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Put(ctx, "outbox", Document{"id": float64(7)}))
	require.NoError(t, s.Put(ctx, "outbox", Document{"id": models.NewTempID("x")}))

	_, err := s.Get(ctx, "outbox", "7")
	require.NoError(t, err)
	_, err = s.Get(ctx, "outbox", "tmp-x")
	require.NoError(t, err)
}

func TestLocalStore_Errors(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	assert.ErrorIs(t, s.Put(ctx, "nope", Document{"key": "a"}), ErrUnknownPartition)
	assert.ErrorIs(t, s.Put(ctx, "labels", Document{"label": "no key"}), ErrMissingKey)
	assert.ErrorIs(t, s.Put(ctx, "labels", Document{"key": ""}), ErrMissingKey)

	_, err := s.Get(ctx, "nope", "a")
	assert.ErrorIs(t, err, ErrUnknownPartition)
	_, err = s.GetAll(ctx, "nope")
	assert.ErrorIs(t, err, ErrUnknownPartition)
	assert.ErrorIs(t, s.Delete(ctx, "nope", "a"), ErrUnknownPartition)
	assert.ErrorIs(t, s.Clear(ctx, "nope"), ErrUnknownPartition)
}

func TestLocalStore_BulkPut(t *testing.T) {
	ctx := context.Background()

	t.Run("writes every document", func(t *testing.T) {
		s := openTestStore(t)
		docs := []Document{
			{"key": "res_partner:1", "label": "Acme"},
			{"key": "res_partner:2", "label": "Globex"},
		}
		require.NoError(t, s.BulkPut(ctx, "labels", docs))

		all, err := s.GetAll(ctx, "labels")
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("nothing is written when one document has no key", func(t *testing.T) {
		s := openTestStore(t)
		docs := []Document{
			{"key": "res_partner:1", "label": "Acme"},
			{"label": "orphan"},
		}
		err := s.BulkPut(ctx, "labels", docs)
		assert.ErrorIs(t, err, ErrMissingKey)

		all, err := s.GetAll(ctx, "labels")
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("empty batch", func(t *testing.T) {
		s := openTestStore(t)
		assert.NoError(t, s.BulkPut(ctx, "labels", nil))
	})
}

// TestLocalStore_BulkPut_RollsBackOnWriteFailure drives the transaction with
// sqlmock so the second write can fail.
func TestLocalStore_BulkPut_RollsBackOnWriteFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := &LocalStore{db: db, keys: map[string]string{"labels": "key"}, logger: logger.Nop()}

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO partition_records")
	prep.ExpectExec().WithArgs("labels", "a", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs("labels", "b", sqlmock.AnyArg()).WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err = s.BulkPut(context.Background(), "labels", []Document{{"key": "a"}, {"key": "b"}})
	assert.ErrorIs(t, err, ErrPersistence)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ── mirror ───────────────────────────────────────────────────────────────────

func TestCacheMirror_LoadSaveClear(t *testing.T) {
	ctx := context.Background()
	m := openTestStore(t).Mirror()

	records, meta, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, records)
	assert.Equal(t, models.CacheMeta{}, meta)

	saved := []models.Record{
		models.NewRecord(models.NewRecordID(1), map[string]any{"x_name": "Milk"}),
		models.NewRecord(models.NewTempID("a"), map[string]any{"x_name": "Eggs"}),
	}
	savedMeta := models.CacheMeta{LastSyncTime: 1000, LastRecordID: 1, RecordCount: 2}
	require.NoError(t, m.Save(ctx, saved, savedMeta))

	records, meta, err = m.Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.NewRecordID(1), records[0].ID)
	assert.Equal(t, "Milk", records[0].Name("x_name"))
	assert.True(t, records[1].ID.IsTemp())
	assert.Equal(t, savedMeta, meta)

	require.NoError(t, m.Clear(ctx))
	records, _, err = m.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestCacheMirror_SaveOnClosedStore(t *testing.T) {
	ctx := context.Background()
	s, err := OpenLocalStore(ctx, memoryDSN(t), testSchema, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	err = s.Mirror().Save(ctx, nil, models.CacheMeta{})
	assert.ErrorIs(t, err, ErrPersistence)

	_, _, err = s.Mirror().Load(ctx)
	assert.ErrorIs(t, err, ErrPersistence)
}
