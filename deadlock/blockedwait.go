// Copyright (C) 2026 The Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package deadlock

import "sync"

// blockedWaitTable records, for every goroutine currently stalled
// acquiring a mutex, the identity of the mutex and the goroutine that
// owns it. It is a sequence rather than a keyed map because a single
// goroutine may be recorded as blocked on multiple mutexes concurrently
// (rw-lock write acquisitions; unused by this core's inert RWMutex today,
// but the shape is kept for that declared extension point).
type blockedWaitTable struct {
	mu    sync.Mutex
	edges []*BlockedEdge
}

func newBlockedWaitTable() *blockedWaitTable {
	return &blockedWaitTable{}
}

// record appends a new edge snapshotting ownerThread at call time.
func (t *blockedWaitTable) record(blockedThread int64, d *LockDescriptor) *BlockedEdge {
	owner, _, _ := d.snapshot()
	e := &BlockedEdge{
		Mutex:         d.Address,
		Kind:          d.Kind,
		BlockedThread: blockedThread,
		OwnerThread:   owner,
	}
	t.mu.Lock()
	t.edges = append(t.edges, e)
	t.mu.Unlock()
	return e
}

// clear removes the first edge whose BlockedThread matches. The common
// case is at most one; multi-edge goroutines are handled by repeated
// calls, one per successful acquisition.
func (t *blockedWaitTable) clear(blockedThread int64) {
	t.mu.Lock()
	for i, e := range t.edges {
		if e.BlockedThread == blockedThread {
			t.edges = append(t.edges[:i], t.edges[i+1:]...)
			break
		}
	}
	t.mu.Unlock()
}

// clearMutex drops every edge referencing addr, used when a descriptor is
// torn down while goroutines are still recorded as blocked on it.
func (t *blockedWaitTable) clearMutex(addr uintptr) {
	t.mu.Lock()
	kept := t.edges[:0]
	for _, e := range t.edges {
		if e.Mutex != addr {
			kept = append(kept, e)
		}
	}
	t.edges = kept
	t.mu.Unlock()
}

// scan performs read-only iteration under the table's guard.
func (t *blockedWaitTable) scan(visit func(*BlockedEdge)) {
	t.mu.Lock()
	for _, e := range t.edges {
		visit(e)
	}
	t.mu.Unlock()
}

// len reports the current number of recorded edges.
func (t *blockedWaitTable) len() int {
	t.mu.Lock()
	n := len(t.edges)
	t.mu.Unlock()
	return n
}
