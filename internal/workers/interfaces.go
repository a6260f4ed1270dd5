// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package workers runs the background loops of the cache client. A worker
// is started with a context and stopped explicitly; [Workers] starts and
// stops a group of them together.
package workers

import "context"

// Worker is a background loop.
//
// Start launches the loop and returns immediately. The loop ends when ctx
// is cancelled or Stop is called. Stop blocks until the loop has exited and
// is safe to call on a worker that is not running.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}
