// Copyright (C) 2026 The Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package deadlock

import "sync"

// MutexKind tags the two kinds of primitive the registry can describe.
// Only Mutex has full semantics in the core; RWLock is a declared
// extension point, see RWMutex.
type MutexKind int

const (
	KindMutex MutexKind = iota
	KindRWMutex
)

func (k MutexKind) String() string {
	if k == KindRWMutex {
		return "rwlock"
	}
	return "mutex"
}

// noThread is the sentinel meaning "no owner", matching spec's owner==0.
const noThread int64 = 0

// LockDescriptor is the registry's record for one live mutex.
//
// Invariants: Depth >= 0; Depth > 0 iff Owner != noThread; if !Recursive
// then Depth is 0 or 1. Owner/Depth/EnterTime are mutated only while the
// mutating goroutine holds (or last held) the underlying primitive, so
// they are serialized by that primitive; readers without the primitive
// held may observe a stale snapshot and must tolerate it.
type LockDescriptor struct {
	Address   uintptr
	Kind      MutexKind
	Recursive bool

	state sync.Mutex // protects the fields below against racing lock/unlock only
	Owner int64
	Depth int
	// EnterTime is the monotonic millisecond timestamp at which Depth
	// transitioned 0->1; 0 when free.
	EnterTime int64
}

func newLockDescriptor(addr uintptr, kind MutexKind, recursive bool) *LockDescriptor {
	return &LockDescriptor{
		Address:   addr,
		Kind:      kind,
		Recursive: recursive,
	}
}

// snapshot returns a consistent, possibly-stale read of the mutable fields.
func (d *LockDescriptor) snapshot() (owner int64, depth int, enterTime int64) {
	d.state.Lock()
	owner, depth, enterTime = d.Owner, d.Depth, d.EnterTime
	d.state.Unlock()
	return
}

// BlockedEdge records one currently-stalled acquisition: blockedThread is
// waiting on mutex, which ownerThread held at the moment the edge was
// recorded (a snapshot that may be stale by the time it's read again).
type BlockedEdge struct {
	Mutex         uintptr
	Kind          MutexKind
	BlockedThread int64
	OwnerThread   int64
	Dumped        bool
}
