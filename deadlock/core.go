// Copyright (C) 2026 The Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package deadlock

import (
	"context"
	"sync"
)

// Detector is the process-wide orchestrator tying the lock registry, the
// blocked-wait table, the timed-lock driver and the diagnostic reporter
// together. One Detector is constructed by Register and shared by every
// Mutex created afterward through the package-level
// NewMutex/NewRecursiveMutex helpers; tests construct their own with
// newDetector so they don't trip over each other's state or the
// package-level default.
type Detector struct {
	registry  *registry
	blocked   *blockedWaitTable
	reporter  *reporter
	observers *observerSet

	mu       sync.Mutex
	enabled  bool
	shutdown context.CancelFunc
}

func newDetector(sink Sink) *Detector {
	observers := newObserverSet()
	return &Detector{
		registry:  newRegistry(),
		blocked:   newBlockedWaitTable(),
		reporter:  newReporter(sink, observers),
		observers: observers,
		enabled:   true,
	}
}

func (det *Detector) isEnabled() bool {
	det.mu.Lock()
	e := det.enabled
	det.mu.Unlock()
	return e
}

func (det *Detector) setEnabled(v bool) {
	det.mu.Lock()
	det.enabled = v
	det.mu.Unlock()
}

// AddObserver registers o to receive every Report this Detector emits
// from this point on.
func (det *Detector) AddObserver(o Observer) {
	det.observers.add(o)
}

// TrackedMutexes reports how many mutexes are currently registered.
func (det *Detector) TrackedMutexes() int { return det.registry.count() }

// BlockedGoroutines reports how many goroutines are currently recorded as
// stalled acquiring a mutex.
func (det *Detector) BlockedGoroutines() int { return det.blocked.len() }

// Close stops the background janitor started by Register, if any. It is
// safe to call on a Detector built directly with newDetector (a no-op).
func (det *Detector) Close() {
	det.mu.Lock()
	cancel := det.shutdown
	det.shutdown = nil
	det.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
