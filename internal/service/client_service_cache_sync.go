// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-record-cache/internal/adapter"
	"github.com/MKhiriev/go-record-cache/models"
)

type fetchMode string

const (
	fetchFull        fetchMode = "full"
	fetchIncremental fetchMode = "incremental"
)

func (e *cacheEngine) Sync(ctx context.Context, forceFullRefresh bool) error {
	if !e.isAlive() {
		return ErrEngineDestroyed
	}

	e.inFlight.Add(1)
	defer e.inFlight.Add(-1)

	e.syncMu.Lock()
	defer e.syncMu.Unlock()

	e.setFlags(ctx, func(s *models.CacheState) {
		s.Syncing = true
		s.Error = ""
	})

	err := e.sync(ctx, forceFullRefresh)
	if err != nil {
		e.logger.Err(err).Bool("force", forceFullRefresh).Msg("sync failed")
		e.setFlags(ctx, func(s *models.CacheState) {
			s.Syncing = false
			s.Error = err.Error()
			if errors.Is(err, adapter.ErrTransport) {
				s.Offline = true
			}
		})
		return err
	}
	return nil
}

func (e *cacheEngine) sync(ctx context.Context, force bool) error {
	flushed := e.flushOutbox(ctx)

	mode, fetched, err := e.fetch(ctx, force)
	if err != nil {
		e.confirmFlushed(ctx, flushed)
		return err
	}

	// labels are looked up before the commit so no network call happens
	// while transitions are blocked
	candidates := append(slices.Clone(e.State().Records), fetched...)
	resolved := e.resolver.Prefetch(ctx, candidates)

	now := e.now()
	next, err := e.commit(ctx, true, func(cur models.CacheState) (models.CacheState, error) {
		drafts := e.pendingDrafts(ctx, cur.Records, flushed)
		records := mergeRecords(cur.Records, fetched, mode, drafts)
		if resolved {
			records = e.resolver.Apply(records)
		}

		cur.Records = records
		cur.Meta = models.NewCacheMeta(records, now)
		cur.Syncing = false
		cur.Error = ""
		cur.Offline = false
		return cur, nil
	})
	if err != nil {
		return err
	}

	e.logger.Info().
		Str("mode", string(mode)).
		Int("fetched", len(fetched)).
		Int("merged", len(next.Records)).
		Int("flushed", len(flushed)).
		Int64("watermark", next.Meta.LastRecordID).
		Msg("sync finished")
	return nil
}

// fetch reads new records past the watermark, or all records when forced or
// when nothing was synced yet. A failed incremental read falls back to a full
// read in the same call.
func (e *cacheEngine) fetch(ctx context.Context, force bool) (fetchMode, []models.Record, error) {
	watermark := e.State().Meta.LastRecordID

	if !force && watermark > 0 {
		records, err := e.remote.Search(ctx, e.cfg.Model, models.IDGreaterThan(watermark), e.cfg.Fields)
		if err == nil {
			return fetchIncremental, records, nil
		}
		e.logger.Warn().Err(err).Int64("watermark", watermark).Msg("incremental fetch failed, falling back to full fetch")
	}

	records, err := e.remote.Search(ctx, e.cfg.Model, nil, e.cfg.Fields)
	if err != nil {
		return fetchFull, nil, fmt.Errorf("full fetch: %w", err)
	}
	return fetchFull, records, nil
}

// mergeRecords builds the record set after a fetch. A full fetch replaces
// every confirmed record; an incremental fetch only adds identities that are
// not cached yet. The drafts of current are replaced by drafts either way.
// The result is a new slice sorted by identity.
func mergeRecords(current, fetched []models.Record, mode fetchMode, drafts []models.Record) []models.Record {
	merged := make([]models.Record, 0, len(current)+len(fetched))
	seen := make(map[models.RecordID]struct{}, len(current)+len(fetched))

	if mode == fetchIncremental {
		for _, r := range current {
			if r.ID.IsTemp() {
				continue
			}
			merged = append(merged, r)
			seen[r.ID] = struct{}{}
		}
	}

	for _, r := range fetched {
		if r.ID.IsZero() || r.ID.IsTemp() {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			continue
		}
		merged = append(merged, r)
		seen[r.ID] = struct{}{}
	}

	for _, r := range drafts {
		if r.ID.IsTemp() {
			merged = append(merged, r)
		}
	}

	models.SortRecords(merged)
	return merged
}

// periodicSync is the tick of the sync worker.
func (e *cacheEngine) periodicSync(ctx context.Context) {
	if e.inFlight.Load() > 0 {
		e.logger.Debug().Msg("sync already in flight, skipping tick")
		return
	}
	_ = e.Sync(ctx, false)
}

// refreshStaleness is the tick of the staleness worker. It publishes only
// when the staleness of the metadata flips.
func (e *cacheEngine) refreshStaleness(ctx context.Context) {
	now := e.now()
	meta := e.State().Meta
	if meta.Stale(now, e.cfg.FreshnessWindow) == meta.IsStale {
		return
	}

	e.setFlags(ctx, func(s *models.CacheState) {
		s.Meta = s.Meta.WithStaleness(now, e.cfg.FreshnessWindow)
	})
}
