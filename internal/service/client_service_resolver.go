// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/go-record-cache/internal/adapter"
	"github.com/MKhiriev/go-record-cache/internal/logger"
	"github.com/MKhiriev/go-record-cache/internal/store"
	"github.com/MKhiriev/go-record-cache/models"
)

const (
	maxLabelLookups = 4

	labelDocKey   = "key"
	labelDocLabel = "label"
)

// labelResolver rewrites relation fields from foreign identities to display
// labels. Labels are memoized for the engine's lifetime and written through
// to the labels partition, which serves as a fallback when the remote lookup
// fails.
type labelResolver struct {
	remote     adapter.RemoteClient
	partitions store.PartitionStore
	relations  []models.Relation
	logger     *logger.Logger

	mu     sync.RWMutex
	labels map[string]string
}

// labelLookup is one search_model call.
type labelLookup struct {
	model   string
	display string
	ids     []int64
}

func newLabelResolver(remote adapter.RemoteClient, partitions store.PartitionStore, relations []models.Relation, log *logger.Logger) *labelResolver {
	return &labelResolver{
		remote:     remote,
		partitions: partitions,
		relations:  relations,
		logger:     log,
		labels:     make(map[string]string),
	}
}

func labelKey(model string, id int64) string {
	return model + ":" + strconv.FormatInt(id, 10)
}

// relationRef decodes a relation value: a positive integer identity or an
// [id, "label"] pair. Anything else, including labels already applied, is
// not a reference.
func relationRef(v any) (id int64, label string, ok bool) {
	switch val := v.(type) {
	case float64:
		if val > 0 && val == math.Trunc(val) {
			return int64(val), "", true
		}
	case int:
		if val > 0 {
			return int64(val), "", true
		}
	case int64:
		if val > 0 {
			return val, "", true
		}
	case json.Number:
		if n, err := val.Int64(); err == nil && n > 0 {
			return n, "", true
		}
	case []any:
		if len(val) == 0 {
			return 0, "", false
		}
		id, _, ok = relationRef(val[0])
		if !ok {
			return 0, "", false
		}
		if len(val) > 1 {
			label, _ = val[1].(string)
		}
		return id, label, true
	}
	return 0, "", false
}

func displayValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil, bool:
		// a false display field means "no value"
		return "", false
	case string:
		return val, true
	default:
		return fmt.Sprint(val), true
	}
}

// Resolve returns records with every known relation label applied, or the
// records unchanged when labels could not be obtained.
func (r *labelResolver) Resolve(ctx context.Context, records []models.Record) []models.Record {
	if !r.Prefetch(ctx, records) {
		return records
	}
	return r.Apply(records)
}

// Prefetch makes sure the labels referenced by records are memoized. It
// reports false when a lookup failed and the labels partition could not
// cover the missing identities either.
func (r *labelResolver) Prefetch(ctx context.Context, records []models.Record) bool {
	if len(r.relations) == 0 || len(records) == 0 {
		return true
	}

	lookups, inline := r.missing(records)
	if len(inline) > 0 {
		r.remember(ctx, inline)
	}
	if len(lookups) == 0 {
		return true
	}

	found, err := r.fetch(ctx, lookups)
	if err != nil {
		if r.fromPartition(ctx, lookups) {
			r.logger.Warn().Err(err).Msg("label lookup failed, using stored labels")
			return true
		}
		r.logger.Warn().Err(err).Msg("label lookup failed, showing raw ids")
		return false
	}

	r.remember(ctx, found)
	return true
}

// missing groups the unmemoized references per model and display field.
// Labels carried inline by [id, "label"] pairs are returned separately.
func (r *labelResolver) missing(records []models.Record) ([]labelLookup, map[string]string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	type group struct {
		lookup labelLookup
		seen   map[int64]struct{}
	}
	groups := make(map[string]*group)
	var order []string
	inline := make(map[string]string)

	for _, rec := range records {
		for _, rel := range r.relations {
			id, label, ok := relationRef(rec.Fields[rel.Field])
			if !ok {
				continue
			}
			key := labelKey(rel.Model, id)
			if _, known := r.labels[key]; known {
				continue
			}
			if label != "" {
				inline[key] = label
				continue
			}

			gk := rel.Model + "\x00" + rel.Display()
			g, exists := groups[gk]
			if !exists {
				g = &group{
					lookup: labelLookup{model: rel.Model, display: rel.Display()},
					seen:   make(map[int64]struct{}),
				}
				groups[gk] = g
				order = append(order, gk)
			}
			if _, dup := g.seen[id]; !dup {
				g.seen[id] = struct{}{}
				g.lookup.ids = append(g.lookup.ids, id)
			}
		}
	}

	lookups := make([]labelLookup, 0, len(order))
	for _, gk := range order {
		l := groups[gk].lookup
		slices.Sort(l.ids)
		lookups = append(lookups, l)
	}
	return lookups, inline
}

// fetch runs one search_model call per lookup, a few at a time.
func (r *labelResolver) fetch(ctx context.Context, lookups []labelLookup) (map[string]string, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxLabelLookups)

	var mu sync.Mutex
	found := make(map[string]string)

	for _, l := range lookups {
		g.Go(func() error {
			rows, err := r.remote.SearchModel(gctx, l.model, models.IDIn(l.ids), []string{"id", l.display})
			if err != nil {
				return fmt.Errorf("lookup %s labels: %w", l.model, err)
			}

			mu.Lock()
			defer mu.Unlock()
			for _, row := range rows {
				id, _, ok := relationRef(row["id"])
				if !ok {
					continue
				}
				if label, ok := displayValue(row[l.display]); ok {
					found[labelKey(l.model, id)] = label
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return found, nil
}

// fromPartition memoizes stored labels when they cover every lookup.
func (r *labelResolver) fromPartition(ctx context.Context, lookups []labelLookup) bool {
	stored := make(map[string]string)
	for _, l := range lookups {
		for _, id := range l.ids {
			key := labelKey(l.model, id)
			doc, err := r.partitions.Get(ctx, store.PartitionLabels, key)
			if err != nil {
				return false
			}
			label, ok := doc[labelDocLabel].(string)
			if !ok {
				return false
			}
			stored[key] = label
		}
	}

	r.mu.Lock()
	maps.Copy(r.labels, stored)
	r.mu.Unlock()
	return true
}

// remember memoizes labels and writes them through to the labels partition.
func (r *labelResolver) remember(ctx context.Context, labels map[string]string) {
	if len(labels) == 0 {
		return
	}

	r.mu.Lock()
	maps.Copy(r.labels, labels)
	r.mu.Unlock()

	docs := make([]store.Document, 0, len(labels))
	for _, key := range slices.Sorted(maps.Keys(labels)) {
		docs = append(docs, store.Document{labelDocKey: key, labelDocLabel: labels[key]})
	}
	if err := r.partitions.BulkPut(ctx, store.PartitionLabels, docs); err != nil {
		r.logger.Warn().Err(err).Int("labels", len(docs)).Msg("labels not persisted")
	}
}

// Apply rewrites relation fields whose label is memoized. Records without a
// change are returned as is; changed ones get a new field map.
func (r *labelResolver) Apply(records []models.Record) []models.Record {
	if len(r.relations) == 0 {
		return records
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Record, len(records))
	for i, rec := range records {
		var patched map[string]any
		for _, rel := range r.relations {
			id, inline, ok := relationRef(rec.Fields[rel.Field])
			if !ok {
				continue
			}
			label, known := r.labels[labelKey(rel.Model, id)]
			if !known {
				if inline == "" {
					continue
				}
				label = inline
			}

			if patched == nil {
				patched = maps.Clone(rec.Fields)
			}
			patched[rel.Field] = label
			if rel.KeepIDAs != "" {
				patched[rel.KeepIDAs] = id
			}
		}

		if patched != nil {
			out[i] = models.Record{ID: rec.ID, Fields: patched}
		} else {
			out[i] = rec
		}
	}
	return out
}

// Reset forgets every memoized label.
func (r *labelResolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.labels)
}
