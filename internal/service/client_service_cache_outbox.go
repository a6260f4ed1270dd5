// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/MKhiriev/go-record-cache/internal/store"
	"github.com/MKhiriev/go-record-cache/models"
)

// outbox document fields
const (
	draftID        = "id"
	draftFields    = "fields"
	draftCreatedAt = "created_at"
)

func draftDocument(id models.RecordID, fields map[string]any, createdAt time.Time) store.Document {
	return store.Document{
		draftID:        id.String(),
		draftFields:    fields,
		draftCreatedAt: createdAt.UnixMilli(),
	}
}

func draftFromDocument(doc store.Document) (models.Record, error) {
	rawID, _ := doc[draftID].(string)
	id, err := models.ParseRecordID(rawID)
	if err != nil || !id.IsTemp() {
		return models.Record{}, fmt.Errorf("%w: id %v", ErrInvalidDraft, doc[draftID])
	}

	fields, ok := doc[draftFields].(map[string]any)
	if !ok {
		return models.Record{}, fmt.Errorf("%w: %s has no fields", ErrInvalidDraft, rawID)
	}
	return models.NewRecord(id, fields), nil
}

func (e *cacheEngine) DraftRecord(ctx context.Context, fields map[string]any) (models.RecordID, error) {
	if !e.isAlive() {
		return models.RecordID{}, ErrEngineDestroyed
	}
	if len(fields) == 0 {
		return models.RecordID{}, fmt.Errorf("%w: no fields", ErrInvalidDraft)
	}

	id := models.NewTempID(e.ids.Generate())
	if err := e.partitions.Put(ctx, store.PartitionOutbox, draftDocument(id, fields, e.now())); err != nil {
		return models.RecordID{}, fmt.Errorf("store draft: %w", err)
	}

	if _, err := e.commit(ctx, true, withRecord(models.NewRecord(id, fields))); err != nil {
		return id, err
	}

	e.logger.Info().Stringer("record_id", id).Msg("draft stored")
	return id, nil
}

// loadDrafts returns the outbox in identity order. Undecodable documents are
// skipped.
func (e *cacheEngine) loadDrafts(ctx context.Context) ([]models.Record, error) {
	docs, err := e.partitions.GetAll(ctx, store.PartitionOutbox)
	if err != nil {
		return nil, fmt.Errorf("read outbox: %w", err)
	}

	drafts := make([]models.Record, 0, len(docs))
	for _, doc := range docs {
		draft, err := draftFromDocument(doc)
		if err != nil {
			e.logger.Warn().Err(err).Msg("skipping outbox document")
			continue
		}
		drafts = append(drafts, draft)
	}
	models.SortRecords(drafts)
	return drafts, nil
}

// flushOutbox creates the drafts remotely, oldest first. The first failure
// stops the flush and leaves the remaining drafts for the next sync. It
// returns the created records keyed by the draft they replace.
func (e *cacheEngine) flushOutbox(ctx context.Context) map[models.RecordID]models.Record {
	drafts, err := e.loadDrafts(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("outbox flush skipped")
		return nil
	}

	flushed := make(map[models.RecordID]models.Record, len(drafts))
	for _, draft := range drafts {
		id, err := e.remote.Create(ctx, e.cfg.Model, draft.Fields)
		e.noteRemoteResult(ctx, err)
		if err != nil {
			e.logger.Warn().Err(err).
				Stringer("draft_id", draft.ID).
				Int("pending", len(drafts)-len(flushed)).
				Msg("outbox flush stopped")
			break
		}
		flushed[draft.ID] = models.NewRecord(models.NewRecordID(id), draft.Fields)

		if err = e.partitions.Delete(ctx, store.PartitionOutbox, draft.ID.String()); err != nil {
			// the store is failing; later drafts would hit the same error
			e.logger.Err(err).Stringer("draft_id", draft.ID).Int64("record_id", id).
				Msg("draft created but not removed from outbox, flush stopped")
			break
		}
		e.logger.Info().Stringer("draft_id", draft.ID).Int64("record_id", id).Msg("draft flushed")
	}
	return flushed
}

// pendingDrafts returns the drafts still waiting in the outbox, leaving out
// the ones created by the current flush. When the outbox cannot be read the
// drafts of current stand in for it.
func (e *cacheEngine) pendingDrafts(ctx context.Context, current []models.Record, flushed map[models.RecordID]models.Record) []models.Record {
	drafts, err := e.loadDrafts(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("outbox unreadable, keeping shown drafts")
		drafts = slices.DeleteFunc(slices.Clone(current), func(r models.Record) bool { return !isDraft(r) })
	}
	return slices.DeleteFunc(drafts, func(r models.Record) bool {
		_, done := flushed[r.ID]
		return done
	})
}

// confirmFlushed swaps flushed drafts for their created records when the
// sync that flushed them could not fetch. The outbox no longer holds them,
// so leaving the drafts in place would show each record twice once the
// next sync fetches it. The watermark is not moved.
func (e *cacheEngine) confirmFlushed(ctx context.Context, flushed map[models.RecordID]models.Record) {
	if len(flushed) == 0 {
		return
	}

	_, err := e.commit(ctx, true, func(cur models.CacheState) (models.CacheState, error) {
		records := slices.DeleteFunc(slices.Clone(cur.Records), func(r models.Record) bool {
			_, done := flushed[r.ID]
			return done
		})
		for _, created := range flushed {
			if models.IndexOf(records, created.ID) < 0 {
				records = append(records, created)
			}
		}
		models.SortRecords(records)

		cur.Records = e.resolver.Apply(records)
		cur.Meta.RecordCount = len(records)
		return cur, nil
	})
	if err != nil && !errors.Is(err, ErrEngineDestroyed) {
		e.logger.Err(err).Int("flushed", len(flushed)).Msg("replace flushed drafts")
	}
}

// overlayDrafts replaces the drafts of a restored mirror with the outbox
// content, which is authoritative for drafts.
func overlayDrafts(records, drafts []models.Record) []models.Record {
	if len(drafts) == 0 && !slices.ContainsFunc(records, isDraft) {
		return records
	}
	out := slices.DeleteFunc(slices.Clone(records), isDraft)
	out = append(out, drafts...)
	models.SortRecords(out)
	return out
}

func isDraft(r models.Record) bool {
	return r.ID.IsTemp()
}

func (e *cacheEngine) updateDraft(ctx context.Context, id models.RecordID, values map[string]any) (bool, error) {
	doc, err := e.partitions.Get(ctx, store.PartitionOutbox, id.String())
	if errors.Is(err, store.ErrKeyNotFound) {
		return false, fmt.Errorf("%w: %s", ErrRecordNotCached, id)
	}
	if err != nil {
		return false, fmt.Errorf("read draft: %w", err)
	}

	draft, err := draftFromDocument(doc)
	if err != nil {
		return false, err
	}
	patched := draft.With(values)

	doc[draftFields] = patched.Fields
	if err = e.partitions.Put(ctx, store.PartitionOutbox, doc); err != nil {
		return false, fmt.Errorf("store draft: %w", err)
	}

	if _, err = e.commit(ctx, true, withRecord(patched)); err != nil {
		return true, err
	}
	return true, nil
}

func (e *cacheEngine) deleteDraft(ctx context.Context, id models.RecordID) (bool, error) {
	if err := e.partitions.Delete(ctx, store.PartitionOutbox, id.String()); err != nil {
		return false, fmt.Errorf("delete draft: %w", err)
	}

	if _, err := e.commit(ctx, true, withoutRecord(id)); err != nil {
		return true, err
	}
	return true, nil
}
