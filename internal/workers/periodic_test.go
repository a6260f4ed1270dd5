// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-record-cache/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodic_Ticks(t *testing.T) {
	var calls atomic.Int32
	p := NewPeriodic("test", 10*time.Millisecond, func(context.Context) { calls.Add(1) }, logger.Nop())

	p.Start(context.Background())
	defer p.Stop()

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	assert.True(t, p.Running())
}

func TestPeriodic_StopWaitsAndHalts(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})

	p := NewPeriodic("test", 5*time.Millisecond, func(context.Context) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		calls.Add(1)
	}, logger.Nop())

	p.Start(context.Background())
	<-started

	stopped := make(chan struct{})
	go func() {
		p.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a tick was still running")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-stopped

	after := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, calls.Load(), "no ticks after Stop")
	assert.False(t, p.Running())
}

func TestPeriodic_TickSeesCancellation(t *testing.T) {
	ctxErr := make(chan error, 1)
	p := NewPeriodic("test", 5*time.Millisecond, func(ctx context.Context) {
		<-ctx.Done()
		select {
		case ctxErr <- ctx.Err():
		default:
		}
	}, logger.Nop())

	p.Start(context.Background())
	time.Sleep(15 * time.Millisecond)
	p.Stop()

	select {
	case err := <-ctxErr:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("tick never observed cancellation")
	}
}

func TestPeriodic_ParentContextCancels(t *testing.T) {
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPeriodic("test", 5*time.Millisecond, func(context.Context) { calls.Add(1) }, logger.Nop())

	p.Start(ctx)
	cancel()
	time.Sleep(10 * time.Millisecond)
	frozen := calls.Load()
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, frozen, calls.Load())
	p.Stop()
}

func TestPeriodic_RestartAndDoubleStop(t *testing.T) {
	p := NewPeriodic("test", time.Hour, func(context.Context) {}, logger.Nop())

	p.Stop() // not running: no-op
	p.Start(context.Background())
	p.Start(context.Background())
	assert.True(t, p.Running())

	p.Stop()
	p.Stop()
	assert.False(t, p.Running())
}

func TestPeriodic_DefaultInterval(t *testing.T) {
	p := NewPeriodic("test", 0, func(context.Context) {}, logger.Nop())
	assert.Equal(t, DefaultInterval, p.Interval())
}
