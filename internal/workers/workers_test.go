// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// ── Start / Stop ─────────────────────────────────────────────────────────────

func TestPeriodicJob_Start_CallsTask(t *testing.T) {
	var calls atomic.Int64
	job := NewPeriodicJob()

	// 10ms interval: about 5 ticks in 55ms
	job.Start(context.Background(), 10*time.Millisecond, func(context.Context) { calls.Add(1) })
	time.Sleep(55 * time.Millisecond)
	job.Stop()

	assert.GreaterOrEqual(t, calls.Load(), int64(3))
}

func TestPeriodicJob_NoCallBeforeFirstInterval(t *testing.T) {
	var calls atomic.Int64
	job := NewPeriodicJob()

	job.Start(context.Background(), time.Hour, func(context.Context) { calls.Add(1) })
	time.Sleep(20 * time.Millisecond)
	job.Stop()

	assert.Zero(t, calls.Load())
}

func TestPeriodicJob_Stop_StopsGoroutine(t *testing.T) {
	var calls atomic.Int64
	job := NewPeriodicJob()

	job.Start(context.Background(), 10*time.Millisecond, func(context.Context) { calls.Add(1) })
	time.Sleep(30 * time.Millisecond)
	job.Stop()

	callsAfterStop := calls.Load()
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, callsAfterStop, calls.Load())
}

func TestPeriodicJob_Stop_BeforeStart_NoPanic(t *testing.T) {
	job := NewPeriodicJob()

	assert.NotPanics(t, func() { job.Stop() })
	assert.NotPanics(t, func() { job.Stop() })
}

func TestPeriodicJob_ContextCancelStops(t *testing.T) {
	var calls atomic.Int64
	ctx, cancel := context.WithCancel(context.Background())
	job := NewPeriodicJob()

	job.Start(ctx, 10*time.Millisecond, func(context.Context) { calls.Add(1) })
	time.Sleep(25 * time.Millisecond)
	cancel()
	time.Sleep(5 * time.Millisecond)
	callsAfterCancel := calls.Load()
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, callsAfterCancel, calls.Load())
	job.Stop()
}

func TestPeriodicJob_Restart_ReplacesTask(t *testing.T) {
	var first, second atomic.Int64
	job := NewPeriodicJob()

	job.Start(context.Background(), 10*time.Millisecond, func(context.Context) { first.Add(1) })
	time.Sleep(25 * time.Millisecond)
	job.Start(context.Background(), 10*time.Millisecond, func(context.Context) { second.Add(1) })
	firstAfterRestart := first.Load()
	time.Sleep(35 * time.Millisecond)
	job.Stop()

	assert.Equal(t, firstAfterRestart, first.Load())
	assert.GreaterOrEqual(t, second.Load(), int64(1))
}

func TestPeriodicJob_TaskReceivesCancelledContextOnStop(t *testing.T) {
	started := make(chan struct{})
	done := make(chan error, 1)
	job := NewPeriodicJob()

	var once atomic.Bool
	job.Start(context.Background(), 5*time.Millisecond, func(ctx context.Context) {
		if !once.CompareAndSwap(false, true) {
			return
		}
		close(started)
		<-ctx.Done()
		done <- ctx.Err()
	})

	<-started
	job.Stop()

	assert.ErrorIs(t, <-done, context.Canceled)
}

// ── Logging ──────────────────────────────────────────────────────────────────

func TestPeriodicJob_LogsToContextLogger(t *testing.T) {
	var buf syncBuffer
	ctx := zerolog.New(&buf).WithContext(context.Background())
	job := NewPeriodicJob()

	job.Start(ctx, time.Hour, func(context.Context) {})
	job.Stop()

	out := buf.String()
	assert.Contains(t, out, "periodic job started")
	assert.Contains(t, out, "periodic job stopped")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// compile-time check
var _ Job = (*PeriodicJob)(nil)
