// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-record-cache/internal/store"
	"github.com/MKhiriev/go-record-cache/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDraftDocument_RoundTrip(t *testing.T) {
	id := models.NewTempID("0001")
	created := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	doc := draftDocument(id, map[string]any{"x_name": "Milk"}, created)
	assert.Equal(t, "tmp-0001", doc[draftID])
	assert.Equal(t, created.UnixMilli(), doc[draftCreatedAt])

	draft, err := draftFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, id, draft.ID)
	assert.Equal(t, "Milk", draft.Name("x_name"))
}

func TestDraftFromDocument_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  store.Document
	}{
		{name: "no id", doc: store.Document{draftFields: map[string]any{}}},
		{name: "confirmed id", doc: store.Document{draftID: "12", draftFields: map[string]any{}}},
		{name: "no fields", doc: store.Document{draftID: "tmp-1"}},
		{name: "fields of wrong type", doc: store.Document{draftID: "tmp-1", draftFields: "Milk"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := draftFromDocument(tt.doc)
			assert.ErrorIs(t, err, ErrInvalidDraft)
		})
	}
}

func TestOverlayDrafts(t *testing.T) {
	stale := models.NewRecord(models.NewTempID("0001"), map[string]any{"x_name": "old"})
	fresh := models.NewRecord(models.NewTempID("0001"), map[string]any{"x_name": "new"})
	other := models.NewRecord(models.NewTempID("0002"), map[string]any{"x_name": "other"})

	out := overlayDrafts([]models.Record{rec(2, "Bread"), stale, rec(1, "Milk")}, []models.Record{other, fresh})
	assert.Equal(t, []string{"1", "2", "tmp-0001", "tmp-0002"}, ids(out))
	assert.Equal(t, "new", out[2].Name("x_name"))

	plain := []models.Record{rec(1, "Milk")}
	assert.Equal(t, plain, overlayDrafts(plain, nil))

	assert.Equal(t, []string{"1"}, ids(overlayDrafts([]models.Record{rec(1, "Milk"), stale}, nil)),
		"drafts missing from the outbox are gone")
}

func TestCacheEngine_DraftRecord_StaysLocal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newTestEngine(t, ctrl)
	ctx := context.Background()
	f.seed(t, rec(1, "Milk"))

	// no remote expectations: a draft never leaves the device on its own
	id, err := f.engine.DraftRecord(ctx, map[string]any{"x_name": "Bread"})
	require.NoError(t, err)
	assert.True(t, id.IsTemp())
	assert.Equal(t, "tmp-0001", id.String())

	state := f.engine.State()
	assert.Equal(t, []string{"1", "tmp-0001"}, ids(state.Records))
	assert.Equal(t, int64(1), state.Meta.LastRecordID)

	docs, err := f.storages.Partitions.GetAll(ctx, store.PartitionOutbox)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "tmp-0001", docs[0][draftID])

	status := f.engine.Status()
	assert.Equal(t, 1, status.RecordCount)
	assert.Equal(t, 1, status.Pending)
	assert.Equal(t, []string{"1"}, ids(f.engine.Recent()))
}

func TestCacheEngine_DraftRecord_RejectsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newTestEngine(t, ctrl)
	_, err := f.engine.DraftRecord(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidDraft)
}

func TestCacheEngine_Sync_FlushesOutbox(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newTestEngine(t, ctrl)
	ctx := context.Background()
	f.seed(t, rec(1, "Milk"))

	_, err := f.engine.DraftRecord(ctx, map[string]any{"x_name": "Bread"})
	require.NoError(t, err)
	_, err = f.engine.DraftRecord(ctx, map[string]any{"x_name": "Eggs"})
	require.NoError(t, err)

	gomock.InOrder(
		f.remote.EXPECT().Create(gomock.Any(), testModel, map[string]any{"x_name": "Bread"}).Return(int64(2), nil),
		f.remote.EXPECT().Create(gomock.Any(), testModel, map[string]any{"x_name": "Eggs"}).Return(int64(3), nil),
		f.expectIncremental(1, rec(2, "Bread"), rec(3, "Eggs")),
	)

	require.NoError(t, f.engine.Sync(ctx, false))

	assert.Equal(t, []string{"1", "2", "3"}, ids(f.engine.State().Records))
	docs, err := f.storages.Partitions.GetAll(ctx, store.PartitionOutbox)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestCacheEngine_Sync_FailedFlushKeepsDraft(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newTestEngine(t, ctrl)
	ctx := context.Background()
	f.seed(t, rec(1, "Milk"))

	first, err := f.engine.DraftRecord(ctx, map[string]any{"x_name": "Bread"})
	require.NoError(t, err)
	second, err := f.engine.DraftRecord(ctx, map[string]any{"x_name": "Eggs"})
	require.NoError(t, err)

	// the first failure stops the flush, the second draft is not attempted
	f.remote.EXPECT().Create(gomock.Any(), testModel, gomock.Any()).Return(int64(0), errNetwork)
	f.expectFull(rec(1, "Milk"), rec(5, "Tea"))

	require.NoError(t, f.engine.Sync(ctx, true))

	state := f.engine.State()
	assert.Equal(t, []string{"1", "5", first.String(), second.String()}, ids(state.Records))
	assert.Equal(t, int64(5), state.Meta.LastRecordID)

	docs, err := f.storages.Partitions.GetAll(ctx, store.PartitionOutbox)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestCacheEngine_UpdateDraft(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newTestEngine(t, ctrl)
	ctx := context.Background()

	id, err := f.engine.DraftRecord(ctx, map[string]any{"x_name": "Bread", "x_quantity": 1})
	require.NoError(t, err)

	ok, err := f.engine.IncrementRecord(ctx, id, "", 2)
	require.NoError(t, err)
	assert.True(t, ok)

	draft, found := f.engine.State().Find(id)
	require.True(t, found)
	assert.Equal(t, 3.0, draft.Fields["x_quantity"])
	assert.Equal(t, "Bread", draft.Name("x_name"))

	doc, err := f.storages.Partitions.Get(ctx, store.PartitionOutbox, id.String())
	require.NoError(t, err)
	stored, err := draftFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, 3.0, stored.Fields["x_quantity"])

	_, err = f.engine.UpdateRecord(ctx, models.NewTempID("missing"), map[string]any{"x_name": "x"})
	assert.ErrorIs(t, err, ErrRecordNotCached)
}

func TestCacheEngine_DeleteDraft(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newTestEngine(t, ctrl)
	ctx := context.Background()
	f.seed(t, rec(1, "Milk"))

	id, err := f.engine.DraftRecord(ctx, map[string]any{"x_name": "Bread"})
	require.NoError(t, err)

	ok, err := f.engine.DeleteRecord(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, []string{"1"}, ids(f.engine.State().Records))
	docs, err := f.storages.Partitions.GetAll(ctx, store.PartitionOutbox)
	require.NoError(t, err)
	assert.Empty(t, docs)

	records, _, err := f.storages.Mirror.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids(records))
}

func TestCacheEngine_Initialize_OverlaysOutbox(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newTestEngine(t, ctrl)
	ctx := context.Background()

	now := f.clock.Now()
	records := []models.Record{rec(1, "Milk")}
	require.NoError(t, f.storages.Mirror.Save(ctx, records, models.NewCacheMeta(records, now)))
	require.NoError(t, f.storages.Partitions.BulkPut(ctx, store.PartitionOutbox, []store.Document{
		draftDocument(models.NewTempID("0007"), map[string]any{"x_name": "Bread"}, now),
		{draftID: "42", draftFields: map[string]any{"x_name": "broken"}},
	}))

	require.NoError(t, f.engine.Initialize(ctx))

	state := f.engine.State()
	assert.Equal(t, []string{"1", "tmp-0007"}, ids(state.Records))
	assert.False(t, state.Meta.IsStale)
	assert.False(t, state.Loading)
}

func TestCacheEngine_Sync_FlushedDraftAfterFailedFetch(t *testing.T) {
	tests := []struct {
		name    string
		recover func(ctx context.Context, f *engineFixture) error
	}{
		{
			name: "next incremental sync",
			recover: func(ctx context.Context, f *engineFixture) error {
				f.expectIncremental(1, rec(2, "Bread"))
				return f.engine.Sync(ctx, false)
			},
		},
		{
			name: "force refresh",
			recover: func(ctx context.Context, f *engineFixture) error {
				f.expectFull(rec(1, "Milk"), rec(2, "Bread"))
				return f.engine.ForceRefresh(ctx)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newTestEngine(t, ctrl)
			ctx := context.Background()
			f.seed(t, rec(1, "Milk"))

			_, err := f.engine.DraftRecord(ctx, map[string]any{"x_name": "Bread"})
			require.NoError(t, err)

			gomock.InOrder(
				f.remote.EXPECT().Create(gomock.Any(), testModel, map[string]any{"x_name": "Bread"}).Return(int64(2), nil),
				f.remote.EXPECT().Search(gomock.Any(), testModel, models.IDGreaterThan(1), gomock.Any()).Return(nil, errNetwork),
				f.remote.EXPECT().Search(gomock.Any(), testModel, gomock.Nil(), gomock.Any()).Return(nil, errNetwork),
			)
			require.Error(t, f.engine.Sync(ctx, false))

			state := f.engine.State()
			assert.Equal(t, []string{"1", "2"}, ids(state.Records), "the draft is replaced by its created record")
			assert.Equal(t, int64(1), state.Meta.LastRecordID, "watermark is not moved")
			assert.Equal(t, 0, f.engine.Status().Pending)

			docs, err := f.storages.Partitions.GetAll(ctx, store.PartitionOutbox)
			require.NoError(t, err)
			assert.Empty(t, docs)

			require.NoError(t, tt.recover(ctx, f))

			state = f.engine.State()
			assert.Equal(t, []string{"1", "2"}, ids(state.Records), "no duplicate once the record is fetched")
			assert.Equal(t, int64(2), state.Meta.LastRecordID)
			assert.Equal(t, 0, f.engine.Status().Pending)
			assert.Equal(t, 2, f.engine.Status().RecordCount)
		})
	}
}

func TestMergeRecords(t *testing.T) {
	shown := models.NewRecord(models.NewTempID("0001"), map[string]any{"x_name": "Bread"})
	queued := models.NewRecord(models.NewTempID("0002"), map[string]any{"x_name": "Eggs"})
	current := []models.Record{rec(1, "Milk"), shown}

	tests := []struct {
		name    string
		mode    fetchMode
		fetched []models.Record
		drafts  []models.Record
		want    []string
	}{
		{name: "incremental keeps cached records", mode: fetchIncremental, fetched: []models.Record{rec(3, "Tea")}, drafts: []models.Record{shown}, want: []string{"1", "3", "tmp-0001"}},
		{name: "full replaces confirmed records", mode: fetchFull, fetched: []models.Record{rec(3, "Tea")}, drafts: []models.Record{shown}, want: []string{"3", "tmp-0001"}},
		{name: "flushed draft is dropped", mode: fetchIncremental, fetched: []models.Record{rec(2, "Bread")}, want: []string{"1", "2"}},
		{name: "draft added meanwhile is kept", mode: fetchIncremental, drafts: []models.Record{shown, queued}, want: []string{"1", "tmp-0001", "tmp-0002"}},
		{name: "temp ids from the remote are ignored", mode: fetchFull, fetched: []models.Record{rec(1, "Milk"), queued}, want: []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(mergeRecords(current, tt.fetched, tt.mode, tt.drafts)))
		})
	}
}
