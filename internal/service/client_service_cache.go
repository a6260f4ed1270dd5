// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-record-cache/internal/adapter"
	"github.com/MKhiriev/go-record-cache/internal/config"
	"github.com/MKhiriev/go-record-cache/internal/logger"
	"github.com/MKhiriev/go-record-cache/internal/store"
	"github.com/MKhiriev/go-record-cache/internal/utils"
	"github.com/MKhiriev/go-record-cache/internal/workers"
	"github.com/MKhiriev/go-record-cache/models"
)

const (
	// DefaultFreshnessWindow is used when the cache config has none.
	DefaultFreshnessWindow = 5 * time.Minute
	// DefaultRecentLimit is used when the cache config has none.
	DefaultRecentLimit = 10

	settingCollection = "collection"
	settingValue      = "value"

	maxStalenessCheck = 30 * time.Second
	minStalenessCheck = time.Second
)

// EngineDeps are the collaborators of the cache engine. Now and IDs are
// optional.
type EngineDeps struct {
	Remote   adapter.RemoteClient
	Storages *store.ClientStorages

	Now func() time.Time
	IDs IDGenerator
}

type subscription struct {
	id int
	fn func(models.CacheState)
}

type cacheEngine struct {
	remote     adapter.RemoteClient
	partitions store.PartitionStore
	mirror     store.CacheMirror
	resolver   *labelResolver
	workers    *workers.Workers

	cfg    config.ClientCache
	now    func() time.Time
	ids    IDGenerator
	logger *logger.Logger

	// mu guards the fields below it
	mu          sync.RWMutex
	state       models.CacheState
	alive       bool
	initialized bool
	subs        []subscription
	nextSubID   int

	// commitMu serializes state transitions and the mirror writes that go
	// with them, so subscribers see states in the order they were built
	commitMu sync.Mutex
	// syncMu serializes sync runs
	syncMu   sync.Mutex
	inFlight atomic.Int32

	// bgCtx scopes the workers and background syncs; Destroy cancels it
	bgCtx  context.Context
	stopBg context.CancelFunc
	bg     sync.WaitGroup
}

// NewCacheEngine builds an engine for cfg.Cache. The engine is idle until
// Initialize is called.
func NewCacheEngine(deps EngineDeps, cfg *config.ClientConfig, log *logger.Logger) (CacheEngine, error) {
	if deps.Remote == nil || deps.Storages == nil || deps.Storages.Partitions == nil || deps.Storages.Mirror == nil {
		return nil, ErrMissingDependencies
	}
	if cfg.Cache.Model == "" {
		return nil, ErrNoModelConfigured
	}

	cacheCfg := cfg.Cache
	if cacheCfg.FreshnessWindow <= 0 {
		cacheCfg.FreshnessWindow = DefaultFreshnessWindow
	}
	if cacheCfg.RecentLimit <= 0 {
		cacheCfg.RecentLimit = DefaultRecentLimit
	}

	engineLogger := log.Component("cache-engine")

	e := &cacheEngine{
		remote:     deps.Remote,
		partitions: deps.Storages.Partitions,
		mirror:     deps.Storages.Mirror,
		cfg:        cacheCfg,
		now:        deps.Now,
		ids:        deps.IDs,
		logger:     engineLogger,
		alive:      true,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.ids == nil {
		e.ids = utils.NewUUIDGenerator()
	}

	e.bgCtx, e.stopBg = context.WithCancel(context.Background())
	e.resolver = newLabelResolver(deps.Remote, e.partitions, cacheCfg.Relations, engineLogger)
	e.workers = workers.NewWorkers(
		workers.NewPeriodic("sync", cfg.Workers.SyncInterval, e.periodicSync, engineLogger),
		workers.NewPeriodic("staleness", stalenessCheckInterval(cacheCfg.FreshnessWindow), e.refreshStaleness, engineLogger),
	)

	engineLogger.Info().
		Str("model", cacheCfg.Model).
		Dur("freshness_window", cacheCfg.FreshnessWindow).
		Int("relations", len(cacheCfg.Relations)).
		Msg("cache engine created")

	return e, nil
}

func stalenessCheckInterval(window time.Duration) time.Duration {
	return min(max(window/10, minStalenessCheck), maxStalenessCheck)
}

func (e *cacheEngine) Subscribe(listener func(models.CacheState)) func() {
	e.commitMu.Lock()
	defer e.commitMu.Unlock()

	e.mu.Lock()
	id := e.nextSubID
	e.nextSubID++
	e.subs = append(e.subs, subscription{id: id, fn: listener})
	current := e.state
	e.mu.Unlock()

	listener(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			defer e.mu.Unlock()
			e.subs = slices.DeleteFunc(e.subs, func(s subscription) bool { return s.id == id })
		})
	}
}

func (e *cacheEngine) State() models.CacheState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

func (e *cacheEngine) isAlive() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.alive
}

// commit builds the next state from the latest one, optionally writes its
// records and metadata to the mirror and publishes it. A failed build or
// mirror write leaves the current state untouched.
func (e *cacheEngine) commit(ctx context.Context, durable bool, build func(cur models.CacheState) (models.CacheState, error)) (models.CacheState, error) {
	e.commitMu.Lock()
	defer e.commitMu.Unlock()

	if !e.isAlive() {
		return models.CacheState{}, ErrEngineDestroyed
	}

	cur := e.State()
	next, err := build(cur)
	if errors.Is(err, errNoChange) {
		return cur, nil
	}
	if err != nil {
		return cur, err
	}

	if durable {
		if err = e.mirror.Save(ctx, next.Records, next.Meta); err != nil {
			return cur, fmt.Errorf("persist cache mirror: %w", err)
		}
	}

	e.mu.Lock()
	if !e.alive {
		e.mu.Unlock()
		return cur, ErrEngineDestroyed
	}
	e.state = next
	subs := slices.Clone(e.subs)
	e.mu.Unlock()

	for _, s := range subs {
		s.fn(next)
	}
	return next, nil
}

// setFlags publishes a flags-only transition.
func (e *cacheEngine) setFlags(ctx context.Context, apply func(s *models.CacheState)) {
	_, err := e.commit(ctx, false, func(cur models.CacheState) (models.CacheState, error) {
		apply(&cur)
		return cur, nil
	})
	if err != nil && !errors.Is(err, ErrEngineDestroyed) {
		e.logger.Err(err).Msg("publish state flags")
	}
}

// noteRemoteResult keeps the offline flag in line with the outcome of a
// remote call. A rejection still means the remote answered.
func (e *cacheEngine) noteRemoteResult(ctx context.Context, err error) {
	offline := errors.Is(err, adapter.ErrTransport)
	if e.State().Offline == offline {
		return
	}
	e.setFlags(ctx, func(s *models.CacheState) { s.Offline = offline })
}

func (e *cacheEngine) Initialize(ctx context.Context) error {
	e.mu.Lock()
	switch {
	case !e.alive:
		e.mu.Unlock()
		return ErrEngineDestroyed
	case e.initialized:
		e.mu.Unlock()
		return ErrAlreadyInitialized
	}
	e.initialized = true
	e.mu.Unlock()

	records, meta, err := e.mirror.Load(ctx)
	if err != nil {
		return fmt.Errorf("load cache mirror: %w", err)
	}

	if e.mirrorBelongsElsewhere(ctx) {
		e.logger.Info().Str("model", e.cfg.Model).Msg("cached data belongs to another collection, dropping it")
		records, meta = nil, models.CacheMeta{}
		if err = e.dropLocalCache(ctx); err != nil {
			return err
		}
	}

	drafts, err := e.loadDrafts(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("outbox unreadable, continuing without drafts")
	}
	records = overlayDrafts(records, drafts)

	log := e.logger.With().Int("records", len(records)).Int("drafts", len(drafts)).Logger()

	if len(records) > 0 {
		records = e.resolver.Resolve(ctx, records)
		meta.RecordCount = len(records)
		meta = meta.WithStaleness(e.now(), e.cfg.FreshnessWindow)

		if _, err = e.commit(ctx, false, func(cur models.CacheState) (models.CacheState, error) {
			cur.Records = records
			cur.Meta = meta
			cur.Loading = false
			return cur, nil
		}); err != nil {
			return err
		}
		log.Info().Bool("stale", meta.IsStale).Msg("cache restored from local store")

		if meta.IsStale {
			e.syncInBackground()
		}
	} else {
		e.setFlags(ctx, func(s *models.CacheState) { s.Loading = true })
		if err = e.Sync(ctx, true); err != nil {
			log.Warn().Err(err).Msg("initial sync failed")
		}
		e.setFlags(ctx, func(s *models.CacheState) { s.Loading = false })
	}

	e.workers.Start(e.bgCtx)
	return nil
}

// syncInBackground runs an incremental sync without blocking the caller.
// The sync outlives ctx and ends with Destroy.
func (e *cacheEngine) syncInBackground() {
	e.bg.Add(1)
	go func() {
		defer e.bg.Done()
		_ = e.Sync(e.bgCtx, false)
	}()
}

// mirrorBelongsElsewhere reports whether the local store was filled for a
// different remote collection, and records the current one.
func (e *cacheEngine) mirrorBelongsElsewhere(ctx context.Context) bool {
	doc, err := e.partitions.Get(ctx, store.PartitionSettings, settingCollection)
	if err != nil && !errors.Is(err, store.ErrKeyNotFound) {
		e.logger.Warn().Err(err).Msg("read collection setting")
	}

	other := false
	if err == nil {
		model, _ := doc[settingValue].(string)
		other = model != e.cfg.Model
	}

	if err != nil || other {
		putErr := e.partitions.Put(ctx, store.PartitionSettings, store.Document{
			"key":        settingCollection,
			settingValue: e.cfg.Model,
		})
		if putErr != nil {
			e.logger.Warn().Err(putErr).Msg("write collection setting")
		}
	}
	return other
}

// dropLocalCache clears the mirror and every cached label.
func (e *cacheEngine) dropLocalCache(ctx context.Context) error {
	if err := e.mirror.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache mirror: %w", err)
	}
	if err := e.partitions.Clear(ctx, store.PartitionLabels); err != nil {
		return fmt.Errorf("clear labels: %w", err)
	}
	e.resolver.Reset()
	return nil
}

func (e *cacheEngine) Destroy() {
	e.mu.Lock()
	if !e.alive {
		e.mu.Unlock()
		return
	}
	e.alive = false
	e.mu.Unlock()

	e.stopBg()
	e.workers.Stop()
	e.wait()
	e.logger.Info().Msg("cache engine destroyed")
}

// wait blocks until background syncs started by the engine return.
func (e *cacheEngine) wait() {
	e.bg.Wait()
}

func (e *cacheEngine) Status() models.CacheStatus {
	return StatusSummary(e.State(), e.now(), e.cfg.FreshnessWindow)
}

func (e *cacheEngine) Recent() []models.Record {
	return RecentRecords(e.State(), e.cfg.RecentLimit)
}
