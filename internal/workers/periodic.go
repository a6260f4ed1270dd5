// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-record-cache/internal/logger"
)

// DefaultInterval is used when a [Periodic] is given a non-positive
// interval.
const DefaultInterval = 5 * time.Minute

// Periodic calls a function on a fixed interval. The first call happens one
// interval after Start. Calls never overlap: a tick that fires while the
// function is still running is dropped by the ticker.
type Periodic struct {
	name     string
	interval time.Duration
	tick     func(ctx context.Context)
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ Worker = (*Periodic)(nil)

// NewPeriodic returns an idle worker that runs tick every interval.
func NewPeriodic(name string, interval time.Duration, tick func(ctx context.Context), log *logger.Logger) *Periodic {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Periodic{
		name:     name,
		interval: interval,
		tick:     tick,
		logger:   log,
	}
}

// Interval returns the effective interval.
func (p *Periodic) Interval() time.Duration {
	return p.interval
}

// Start implements [Worker]. A running loop is stopped first.
func (p *Periodic) Start(ctx context.Context) {
	p.Stop()

	p.mu.Lock()
	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.wg.Add(1)
	p.mu.Unlock()

	p.logger.Debug().
		Str("worker", p.name).
		Dur("interval", p.interval).
		Msg("periodic worker started")

	go func() {
		defer p.wg.Done()
		t := time.NewTicker(p.interval)
		defer t.Stop()

		for {
			select {
			case <-loopCtx.Done():
				return
			case <-t.C:
				p.tick(loopCtx)
			}
		}
	}()
}

// Stop implements [Worker].
func (p *Periodic) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	p.wg.Wait()

	p.logger.Debug().Str("worker", p.name).Msg("periodic worker stopped")
}

// Running reports whether the loop is active.
func (p *Periodic) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}
