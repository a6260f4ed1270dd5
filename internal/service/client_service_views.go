// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"time"

	"github.com/MKhiriev/go-record-cache/models"
)

// RecentRecords returns up to n confirmed records from the end of the set,
// newest first.
func RecentRecords(state models.CacheState, n int) []models.Record {
	if n <= 0 {
		return nil
	}

	out := make([]models.Record, 0, min(n, len(state.Records)))
	for i := len(state.Records) - 1; i >= 0 && len(out) < n; i-- {
		if state.Records[i].ID.IsTemp() {
			continue
		}
		out = append(out, state.Records[i])
	}
	return out
}

// PendingDrafts returns the drafts of the set, oldest first.
func PendingDrafts(state models.CacheState) []models.Record {
	var out []models.Record
	for _, r := range state.Records {
		if r.ID.IsTemp() {
			out = append(out, r)
		}
	}
	return out
}

// StatusSummary derives the display status of state at now. RecordCount
// counts confirmed records only; drafts are reported as Pending.
func StatusSummary(state models.CacheState, now time.Time, window time.Duration) models.CacheStatus {
	pending := 0
	for _, r := range state.Records {
		if r.ID.IsTemp() {
			pending++
		}
	}

	return models.CacheStatus{
		Loading:     state.Loading,
		Syncing:     state.Syncing,
		Offline:     state.Offline,
		Error:       state.Error,
		IsStale:     state.Meta.Stale(now, window),
		LastSync:    state.Meta.LastSync(),
		RecordCount: len(state.Records) - pending,
		Pending:     pending,
	}
}
