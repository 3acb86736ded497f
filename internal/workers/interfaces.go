// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers provides the background ticker used by the client to
// refresh data on a fixed period.
package workers

import (
	"context"
	"time"
)

// Job runs a task on a fixed period until stopped.
//
// Example:
//
//	job := workers.NewPeriodicJob()
//	job.Start(ctx, 30*time.Second, func(ctx context.Context) {
//	    // refresh
//	})
//	defer job.Stop()
type Job interface {
	// Start launches the ticker. A running job is stopped first.
	Start(ctx context.Context, interval time.Duration, task func(ctx context.Context))

	// Stop cancels the ticker and waits for the goroutine to exit.
	// Safe to call on a job that is not running.
	Stop()
}
