// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-record-cache/models"
)

func (e *cacheEngine) CreateRecord(ctx context.Context, fields map[string]any) (int64, error) {
	if !e.isAlive() {
		return 0, ErrEngineDestroyed
	}

	id, err := e.remote.Create(ctx, e.cfg.Model, fields)
	e.noteRemoteResult(ctx, err)
	if err != nil {
		return 0, fmt.Errorf("create record: %w", err)
	}

	record := models.NewRecord(models.NewRecordID(id), fields)
	if _, err = e.commit(ctx, false, withRecord(record)); err != nil {
		return id, err
	}

	if err = e.Sync(ctx, true); err != nil {
		e.logger.Warn().Err(err).Int64("record_id", id).Msg("reconciling sync after create failed")
	}
	return id, nil
}

func (e *cacheEngine) UpdateRecord(ctx context.Context, id models.RecordID, values map[string]any) (bool, error) {
	if !e.isAlive() {
		return false, ErrEngineDestroyed
	}
	if id.IsTemp() {
		return e.updateDraft(ctx, id, values)
	}
	if id.IsZero() {
		return false, models.ErrInvalidRecordID
	}

	// optimistic patch, kept if the remote call fails
	_, err := e.commit(ctx, false, func(cur models.CacheState) (models.CacheState, error) {
		i := models.IndexOf(cur.Records, id)
		if i < 0 {
			return cur, errNoChange
		}
		records := slices.Clone(cur.Records)
		records[i] = records[i].With(values)
		cur.Records = records
		return cur, nil
	})
	if err != nil {
		return false, err
	}

	ok, err := e.remote.Update(ctx, e.cfg.Model, id.Int64(), values)
	e.noteRemoteResult(ctx, err)
	if err != nil {
		return false, fmt.Errorf("update record %s: %w", id, err)
	}

	e.reconcileRecord(ctx, id)
	return ok, nil
}

// reconcileRecord replaces the cached copy of id with the remote one. A
// record the remote no longer has is dropped. The watermark is not moved.
func (e *cacheEngine) reconcileRecord(ctx context.Context, id models.RecordID) {
	fetched, err := e.remote.Search(ctx, e.cfg.Model, models.IDEquals(id.Int64()), e.cfg.Fields)
	e.noteRemoteResult(ctx, err)
	if err != nil {
		e.logger.Warn().Err(err).Stringer("record_id", id).Msg("reconcile fetch failed, keeping local copy")
		return
	}
	fetched = e.resolver.Resolve(ctx, fetched)

	_, err = e.commit(ctx, true, func(cur models.CacheState) (models.CacheState, error) {
		records := slices.DeleteFunc(slices.Clone(cur.Records), func(r models.Record) bool {
			return r.ID == id
		})
		for _, r := range fetched {
			if r.ID == id {
				records = append(records, r)
			}
		}
		models.SortRecords(records)

		cur.Records = records
		cur.Meta.RecordCount = len(records)
		return cur, nil
	})
	if err != nil {
		e.logger.Err(err).Stringer("record_id", id).Msg("reconcile record")
	}
}

func (e *cacheEngine) IncrementRecord(ctx context.Context, id models.RecordID, field string, delta float64) (bool, error) {
	if field == "" {
		field = e.cfg.CounterField
	}
	if field == "" {
		return false, ErrNoCounterField
	}

	record, ok := e.State().Find(id)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrRecordNotCached, id)
	}

	var current float64
	if v, present := record.Fields[field]; present && v != nil {
		n, isNumber := record.Number(field)
		if !isNumber {
			return false, fmt.Errorf("%w: %s is %T", ErrFieldNotNumeric, field, v)
		}
		current = n
	}

	return e.UpdateRecord(ctx, id, map[string]any{field: current + delta})
}

func (e *cacheEngine) DeleteRecord(ctx context.Context, id models.RecordID) (bool, error) {
	if !e.isAlive() {
		return false, ErrEngineDestroyed
	}
	if id.IsTemp() {
		return e.deleteDraft(ctx, id)
	}
	if id.IsZero() {
		return false, models.ErrInvalidRecordID
	}

	ok, err := e.remote.Delete(ctx, e.cfg.Model, id.Int64())
	e.noteRemoteResult(ctx, err)
	if err != nil {
		return false, fmt.Errorf("delete record %s: %w", id, err)
	}
	if !ok {
		// nothing was deleted; a record the remote no longer has is dropped
		e.reconcileRecord(ctx, id)
		return false, nil
	}

	// the remote copy is gone, so the removal is published even if the
	// mirror write below fails
	if _, err = e.commit(ctx, false, withoutRecord(id)); err != nil {
		return true, err
	}
	if err = e.persistCurrent(ctx); err != nil {
		return true, err
	}
	return true, nil
}

func (e *cacheEngine) ForceRefresh(ctx context.Context) error {
	if !e.isAlive() {
		return ErrEngineDestroyed
	}

	if err := e.dropLocalCache(ctx); err != nil {
		e.setFlags(ctx, func(s *models.CacheState) { s.Error = err.Error() })
		return err
	}
	e.logger.Info().Msg("local cache cleared, running full sync")

	return e.Sync(ctx, true)
}

// persistCurrent writes the current state to the mirror.
func (e *cacheEngine) persistCurrent(ctx context.Context) error {
	e.commitMu.Lock()
	defer e.commitMu.Unlock()

	state := e.State()
	if err := e.mirror.Save(ctx, state.Records, state.Meta); err != nil {
		return fmt.Errorf("persist cache mirror: %w", err)
	}
	return nil
}

// withRecord inserts or replaces record, keeping the set sorted.
func withRecord(record models.Record) func(models.CacheState) (models.CacheState, error) {
	return func(cur models.CacheState) (models.CacheState, error) {
		records := slices.DeleteFunc(slices.Clone(cur.Records), func(r models.Record) bool {
			return r.ID == record.ID
		})
		records = append(records, record)
		models.SortRecords(records)

		cur.Records = records
		cur.Meta.RecordCount = len(records)
		return cur, nil
	}
}

func withoutRecord(id models.RecordID) func(models.CacheState) (models.CacheState, error) {
	return func(cur models.CacheState) (models.CacheState, error) {
		i := models.IndexOf(cur.Records, id)
		if i < 0 {
			return cur, errNoChange
		}
		records := slices.Delete(slices.Clone(cur.Records), i, i+1)

		cur.Records = records
		cur.Meta.RecordCount = len(records)
		return cur, nil
	}
}
