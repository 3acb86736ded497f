// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/stock-watch/internal/logger"
)

// DefaultInterval is used when Start receives a non-positive interval.
const DefaultInterval = 30 * time.Second

// PeriodicJob calls a task on every tick of a time.Ticker.
type PeriodicJob struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPeriodicJob creates an idle PeriodicJob.
func NewPeriodicJob() *PeriodicJob {
	return &PeriodicJob{}
}

// Start implements [Job]. It stops any previously running ticker, then
// launches a goroutine that calls task every interval. The first call happens
// one interval after Start. The goroutine exits when ctx is cancelled or
// Stop is called. Lifecycle events go to the logger attached to ctx.
func (j *PeriodicJob) Start(ctx context.Context, interval time.Duration, task func(ctx context.Context)) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		log := logger.FromContext(jobCtx)
		log.Debug().Dur("interval", interval).Msg("periodic job started")

		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				log.Debug().Msg("periodic job stopped")
				return
			case <-t.C:
				task(jobCtx)
			}
		}
	}()
}

// Stop implements [Job].
func (j *PeriodicJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
