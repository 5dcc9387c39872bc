// Copyright (C) 2026 The Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package deadlock

import (
	"sync"
	"time"
)

// Gate durations are package vars rather than consts, mirroring the
// instrumented-sync package's threshold var: tests shrink them so
// contention scenarios don't take a full second of wall-clock time to
// produce a Block warning.
var (
	defaultGateMS    = 1000
	mainThreadGateMS = 500
	shrunkGateMS     = 300
)

// noEscalateGate is the sentinel meaning "do not time out further on
// this attempt": once a cycle has been reported, the driver stops
// escalating and falls back to an untimed, indefinitely-blocking
// acquire, exactly as the native pthread_mutex_lock fallback would.
const noEscalateGate = -1

// timedLocker is satisfied by sync.Mutex and sync.RWMutex (used as a
// writer lock), both of which gained TryLock in Go 1.18. It is this
// core's rendering of the "underlying timed acquisition" platform
// primitive: Go has no pthread_mutex_timedlock equivalent, so the driver
// polls TryLock with a short, capped backoff until either the gate
// elapses or the lock is won.
type timedLocker interface {
	sync.Locker
	TryLock() bool
}

// tryLockFor polls l.TryLock() until it succeeds or timeout elapses.
// Returns true on success.
func tryLockFor(l timedLocker, timeout time.Duration) bool {
	if timeout < 0 {
		l.Lock()
		return true
	}
	deadline := time.Now().Add(timeout)
	backoff := time.Millisecond
	for {
		if l.TryLock() {
			return true
		}
		if !time.Now().Before(deadline) {
			return false
		}
		time.Sleep(backoff)
		if backoff < 10*time.Millisecond {
			backoff = min(2*backoff, 10*time.Millisecond)
		}
	}
}

// acquire performs the timed-lock driver contract (spec §4.2): it blocks
// until l has been acquired by the calling goroutine, bounding the time
// spent blocked per iteration and escalating to Block warnings,
// self-deadlock detection, and cycle detection as the wait drags on.
//
// On success, depth/owner/enter_time are updated and any blocked edge
// inserted during the wait is removed.
func (det *Detector) acquire(l timedLocker, d *LockDescriptor) {
	gid := currentGID()

	// A recursive mutex's native primitive recognizes same-owner
	// reentry internally and never actually re-blocks on it; this core
	// has no such primitive to defer to, so the fast path here is the
	// rendering of that behavior: bump depth and return without ever
	// touching l.
	if owner, _, _ := d.snapshot(); owner == gid && d.Recursive {
		d.acquireSuccess(gid, nowMS())
		return
	}

	mainThread := isMainGoroutine(gid)

	gate := defaultGateMS
	if mainThread {
		gate = mainThreadGateMS
	}

	t0 := nowMS()
	selfLockDetected := false
	isDeadlocked := false
	edgeInserted := false

	for {
		var timeout time.Duration
		if gate < 0 {
			timeout = -1
		} else {
			timeout = time.Duration(gate) * time.Millisecond
		}
		if tryLockFor(l, timeout) {
			break
		}

		dt := nowMS() - t0
		owner, _, enterTime := d.snapshot()

		// Block warnings repeat on every timeout tick once a deadlock
		// hasn't already been established, so the caller keeps getting
		// sampled evidence of the stall. On the main thread the gate then
		// alternates 1000<->300, which changes how often the stall is
		// sampled; every tick past the gate still warns.
		if dt > int64(gate) && !isDeadlocked && !selfLockDetected {
			heldMS := int64(0)
			if enterTime != 0 {
				heldMS = nowMS() - enterTime
			}
			det.reporter.block(gid, owner, d.Address, dt, heldMS, mainThread, nil)
			if mainThread {
				if gate < defaultGateMS {
					gate = defaultGateMS
				} else {
					gate = shrunkGateMS
				}
			}
		}

		if owner == gid && !d.Recursive {
			if !selfLockDetected {
				selfLockDetected = true
				det.reporter.selfDeadlock(gid, d.Address, mainThread, captureStack(gid, minStackFrames))
			}
		}

		if !edgeInserted {
			det.blocked.record(gid, d)
			edgeInserted = true
		}

		cycles := det.blocked.detectCycles(gid, false)
		if len(cycles) > 0 {
			stack := captureStack(gid, minStackFrames)
			for _, c := range cycles {
				det.reporter.cycle(gid, mainThread, c, stack)
			}
			isDeadlocked = true
			gate = noEscalateGate
		}
	}

	if edgeInserted {
		det.blocked.clear(gid)
	}

	d.acquireSuccess(gid, nowMS())
}
