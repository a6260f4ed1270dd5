// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// CacheMeta describes freshness and extent of the cached record set. It is
// recomputed after every successful sync and persisted together with the
// records it describes.
type CacheMeta struct {
	// LastSyncTime is the epoch-millisecond time of the last successful sync.
	LastSyncTime int64 `json:"lastSyncTime"`

	// LastRecordID is the watermark: the highest confirmed identity seen.
	LastRecordID int64 `json:"lastRecordId"`

	// RecordCount is the size of the record set, drafts included.
	RecordCount int `json:"recordCount"`

	// IsStale is derived; see [CacheMeta.Stale].
	IsStale bool `json:"isStale"`
}

// NewCacheMeta computes metadata for a freshly synced record set.
func NewCacheMeta(records []Record, now time.Time) CacheMeta {
	return CacheMeta{
		LastSyncTime: now.UnixMilli(),
		LastRecordID: Watermark(records),
		RecordCount:  len(records),
		IsStale:      false,
	}
}

// Watermark returns the highest confirmed identity in records, or 0.
func Watermark(records []Record) int64 {
	var maxID int64
	for _, r := range records {
		if id := r.ID.Int64(); id > maxID {
			maxID = id
		}
	}
	return maxID
}

// Stale reports whether more than window has passed since the last sync.
// A cache that was never synced is always stale.
func (m CacheMeta) Stale(now time.Time, window time.Duration) bool {
	if m.LastSyncTime == 0 {
		return true
	}
	return now.UnixMilli()-m.LastSyncTime > window.Milliseconds()
}

// WithStaleness returns m with IsStale recomputed for now.
func (m CacheMeta) WithStaleness(now time.Time, window time.Duration) CacheMeta {
	m.IsStale = m.Stale(now, window)
	return m
}

// LastSync returns LastSyncTime as a time.Time, zero if never synced.
func (m CacheMeta) LastSync() time.Time {
	if m.LastSyncTime == 0 {
		return time.Time{}
	}
	return time.UnixMilli(m.LastSyncTime)
}

// CacheState is the externally observable snapshot of the cache. A published
// CacheState is never modified; each transition publishes a new value.
type CacheState struct {
	Records []Record
	Meta    CacheMeta

	// Loading is set while the cache is populated for the first time.
	Loading bool
	// Syncing is set while any sync is in flight.
	Syncing bool
	// Error holds the message of the last failed operation.
	Error string
	// Offline is set after a transport failure and cleared by the next
	// successful remote call.
	Offline bool
}

// Clone returns a deep copy of s.
func (s CacheState) Clone() CacheState {
	s.Records = CloneRecords(s.Records)
	return s
}

// Find returns the record with the given identity.
func (s CacheState) Find(id RecordID) (Record, bool) {
	i := IndexOf(s.Records, id)
	if i < 0 {
		return Record{}, false
	}
	return s.Records[i], true
}

// CacheStatus is a consumer-friendly summary of a [CacheState].
type CacheStatus struct {
	Loading     bool
	Syncing     bool
	Offline     bool
	Error       string
	IsStale     bool
	LastSync    time.Time
	RecordCount int
	Pending     int
}
