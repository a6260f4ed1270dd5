// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/MKhiriev/go-record-cache/internal/config"
	"github.com/MKhiriev/go-record-cache/internal/logger"
	"github.com/MKhiriev/go-record-cache/internal/mock"
	"github.com/MKhiriev/go-record-cache/internal/store"
	"github.com/MKhiriev/go-record-cache/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var testRelations = []models.Relation{
	{Field: "x_owner", Model: "res_partner", KeepIDAs: "x_owner_id"},
	{Field: "x_shop", Model: "x_shop", DisplayField: "x_title"},
}

func newTestResolver(t *testing.T, ctrl *gomock.Controller) (*labelResolver, *mock.MockRemoteClient, store.PartitionStore) {
	t.Helper()

	storages, err := store.NewClientStorages(context.Background(), config.ClientStorage{DSN: testDSN(t)}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storages.Close() })

	remote := mock.NewMockRemoteClient(ctrl)
	return newLabelResolver(remote, storages.Partitions, testRelations, logger.Nop()), remote, storages.Partitions
}

func owned(id int64, owner any) models.Record {
	return models.NewRecord(models.NewRecordID(id), map[string]any{"x_name": "item", "x_owner": owner})
}

func TestRelationRef(t *testing.T) {
	tests := []struct {
		name      string
		value     any
		wantID    int64
		wantLabel string
		wantOK    bool
	}{
		{name: "float", value: 7.0, wantID: 7, wantOK: true},
		{name: "fractional float", value: 7.5},
		{name: "int", value: 3, wantID: 3, wantOK: true},
		{name: "int64", value: int64(9), wantID: 9, wantOK: true},
		{name: "json number", value: json.Number("11"), wantID: 11, wantOK: true},
		{name: "zero", value: 0},
		{name: "negative", value: -4.0},
		{name: "pair", value: []any{5.0, "Alice"}, wantID: 5, wantLabel: "Alice", wantOK: true},
		{name: "pair without label", value: []any{5.0}, wantID: 5, wantOK: true},
		{name: "empty pair", value: []any{}},
		{name: "pair with bad id", value: []any{"x", "Alice"}},
		{name: "label already applied", value: "Alice"},
		{name: "false", value: false},
		{name: "nil", value: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, label, ok := relationRef(tt.value)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantLabel, label)
		})
	}
}

func TestLabelResolver_ResolveFromRemote(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r, remote, partitions := newTestResolver(t, ctrl)
	ctx := context.Background()

	records := []models.Record{
		owned(1, 7.0),
		owned(2, 8.0),
		owned(3, 7.0),
		models.NewRecord(models.NewRecordID(4), map[string]any{"x_shop": 2.0, "x_owner": false}),
	}

	remote.EXPECT().SearchModel(gomock.Any(), "res_partner", models.IDIn([]int64{7, 8}), []string{"id", "name"}).
		Return([]map[string]any{{"id": 7.0, "name": "Alice"}, {"id": 8.0, "name": "Bob"}}, nil)
	remote.EXPECT().SearchModel(gomock.Any(), "x_shop", models.IDIn([]int64{2}), []string{"id", "x_title"}).
		Return([]map[string]any{{"id": 2.0, "x_title": "Corner store"}}, nil)

	out := r.Resolve(ctx, records)
	require.Len(t, out, 4)

	assert.Equal(t, "Alice", out[0].Fields["x_owner"])
	assert.Equal(t, int64(7), out[0].Fields["x_owner_id"])
	assert.Equal(t, "Bob", out[1].Fields["x_owner"])
	assert.Equal(t, "Alice", out[2].Fields["x_owner"])
	assert.Equal(t, "Corner store", out[3].Fields["x_shop"])
	assert.Equal(t, false, out[3].Fields["x_owner"])

	assert.Equal(t, 7.0, records[0].Fields["x_owner"], "input records are not modified")

	docs, err := partitions.GetAll(ctx, store.PartitionLabels)
	require.NoError(t, err)
	assert.Len(t, docs, 3)

	doc, err := partitions.Get(ctx, store.PartitionLabels, "res_partner:8")
	require.NoError(t, err)
	assert.Equal(t, "Bob", doc[labelDocLabel])
}

func TestLabelResolver_MemoizesLabels(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r, remote, _ := newTestResolver(t, ctrl)
	ctx := context.Background()

	remote.EXPECT().SearchModel(gomock.Any(), "res_partner", gomock.Any(), gomock.Any()).
		Return([]map[string]any{{"id": 7.0, "name": "Alice"}}, nil).
		Times(1)

	first := r.Resolve(ctx, []models.Record{owned(1, 7.0)})
	second := r.Resolve(ctx, []models.Record{owned(2, 7.0)})

	assert.Equal(t, "Alice", first[0].Fields["x_owner"])
	assert.Equal(t, "Alice", second[0].Fields["x_owner"])
}

func TestLabelResolver_InlinePairNeedsNoLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r, _, partitions := newTestResolver(t, ctrl)
	ctx := context.Background()

	out := r.Resolve(ctx, []models.Record{owned(1, []any{5.0, "Carol"})})
	assert.Equal(t, "Carol", out[0].Fields["x_owner"])
	assert.Equal(t, int64(5), out[0].Fields["x_owner_id"])

	doc, err := partitions.Get(ctx, store.PartitionLabels, "res_partner:5")
	require.NoError(t, err)
	assert.Equal(t, "Carol", doc[labelDocLabel])
}

func TestLabelResolver_FallsBackToStoredLabels(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r, remote, partitions := newTestResolver(t, ctrl)
	ctx := context.Background()

	require.NoError(t, partitions.Put(ctx, store.PartitionLabels, store.Document{labelDocKey: "res_partner:7", labelDocLabel: "Alice"}))
	remote.EXPECT().SearchModel(gomock.Any(), "res_partner", gomock.Any(), gomock.Any()).Return(nil, errNetwork)

	out := r.Resolve(ctx, []models.Record{owned(1, 7.0)})
	assert.Equal(t, "Alice", out[0].Fields["x_owner"])
}

func TestLabelResolver_FailureLeavesRecordsUnchanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r, remote, partitions := newTestResolver(t, ctrl)
	ctx := context.Background()

	// the stored labels cover 7 but not 8
	require.NoError(t, partitions.Put(ctx, store.PartitionLabels, store.Document{labelDocKey: "res_partner:7", labelDocLabel: "Alice"}))
	remote.EXPECT().SearchModel(gomock.Any(), "res_partner", gomock.Any(), gomock.Any()).Return(nil, errNetwork)

	records := []models.Record{owned(1, 7.0), owned(2, 8.0)}
	out := r.Resolve(ctx, records)
	assert.Equal(t, records, out)
}

func TestLabelResolver_Reset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	r, remote, _ := newTestResolver(t, ctrl)
	ctx := context.Background()

	remote.EXPECT().SearchModel(gomock.Any(), "res_partner", gomock.Any(), gomock.Any()).
		Return([]map[string]any{{"id": 7.0, "name": "Alice"}}, nil).
		Times(2)

	r.Resolve(ctx, []models.Record{owned(1, 7.0)})
	r.Reset()
	r.Resolve(ctx, []models.Record{owned(1, 7.0)})
}

func TestLabelResolver_NoRelations(t *testing.T) {
	r := newLabelResolver(nil, nil, nil, logger.Nop())
	records := []models.Record{owned(1, 7.0)}
	assert.Equal(t, records, r.Resolve(context.Background(), records))
}

func TestCacheEngine_Sync_ResolvesRelations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newTestEngine(t, ctrl, func(cfg *config.ClientConfig) { cfg.Cache.Relations = testRelations[:1] })
	ctx := context.Background()

	f.expectFull(owned(1, 7.0), owned(2, []any{8.0, "Bob"}))
	f.remote.EXPECT().SearchModel(gomock.Any(), "res_partner", models.IDIn([]int64{7}), gomock.Any()).
		Return([]map[string]any{{"id": 7.0, "name": "Alice"}}, nil)

	require.NoError(t, f.engine.Sync(ctx, true))

	state := f.engine.State()
	assert.Equal(t, "Alice", state.Records[0].Fields["x_owner"])
	assert.Equal(t, "Bob", state.Records[1].Fields["x_owner"])

	records, _, err := f.storages.Mirror.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alice", records[0].Fields["x_owner"], "the mirror stores resolved records")
}
