// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-record-cache/models"
	"github.com/stretchr/testify/assert"
)

func viewState() models.CacheState {
	records := []models.Record{
		rec(1, "Milk"),
		rec(2, "Bread"),
		rec(3, "Eggs"),
		rec(4, "Tea"),
		models.NewRecord(models.NewTempID("0001"), map[string]any{"x_name": "Jam"}),
	}
	return models.CacheState{Records: records}
}

func TestRecentRecords(t *testing.T) {
	state := viewState()

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{name: "newest first", n: 3, want: []string{"4", "3", "2"}},
		{name: "more than available", n: 10, want: []string{"4", "3", "2", "1"}},
		{name: "zero", n: 0, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(RecentRecords(state, tt.n)))
		})
	}

	assert.Empty(t, RecentRecords(models.CacheState{}, 3))
}

func TestPendingDrafts(t *testing.T) {
	assert.Equal(t, []string{"tmp-0001"}, ids(PendingDrafts(viewState())))
	assert.Empty(t, PendingDrafts(models.CacheState{Records: []models.Record{rec(1, "Milk")}}))
}

func TestStatusSummary(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	window := 5 * time.Minute

	state := viewState()
	state.Syncing = true
	state.Offline = true
	state.Error = "full fetch: remote transport failure"
	state.Meta = models.NewCacheMeta(state.Records, now.Add(-time.Minute))

	status := StatusSummary(state, now, window)
	assert.Equal(t, 4, status.RecordCount)
	assert.Equal(t, 1, status.Pending)
	assert.True(t, status.Syncing)
	assert.True(t, status.Offline)
	assert.False(t, status.IsStale)
	assert.Equal(t, state.Error, status.Error)
	assert.Equal(t, now.Add(-time.Minute).UnixMilli(), status.LastSync.UnixMilli())

	stale := StatusSummary(state, now.Add(10*time.Minute), window)
	assert.True(t, stale.IsStale)

	never := StatusSummary(models.CacheState{Loading: true}, now, window)
	assert.True(t, never.IsStale)
	assert.True(t, never.Loading)
	assert.Zero(t, never.RecordCount)
}
