// Copyright (C) 2026 The Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package deadlock

import "github.com/puzpuzpuz/xsync/v3"

// registry maps every live mutex address to its descriptor and ownership
// state. It is process-wide, shared state; since Mutex construction and
// Close call onInit/onDestroy far more often than anything walks the
// whole set, this uses a sharded, lock-striped concurrent map rather
// than a single stdlib map behind one mutex.
type registry struct {
	descriptors *xsync.MapOf[uintptr, *LockDescriptor]
}

func newRegistry() *registry {
	return &registry{
		descriptors: xsync.NewMapOf[uintptr, *LockDescriptor](),
	}
}

// onInit creates a descriptor for addr, replacing any existing one. This
// is intentionally idempotent: the platform (and the Go allocator) may
// recycle an address after a prior destroy.
func (r *registry) onInit(addr uintptr, kind MutexKind, recursive bool) *LockDescriptor {
	d := newLockDescriptor(addr, kind, recursive)
	r.descriptors.Store(addr, d)
	return d
}

// onDestroy removes the descriptor for addr. Missing address is a no-op.
func (r *registry) onDestroy(addr uintptr) {
	r.descriptors.Delete(addr)
}

// lookup returns the descriptor for addr, or nil if the mutex was never
// registered (e.g. created before the detector was installed).
func (r *registry) lookup(addr uintptr) *LockDescriptor {
	d, _ := r.descriptors.Load(addr)
	return d
}

// count is used by tests and the janitor service.
func (r *registry) count() int {
	return r.descriptors.Size()
}

// acquireSuccess records that the calling goroutine gid now holds d,
// applying the side effects spec'd for a successful acquire.
func (d *LockDescriptor) acquireSuccess(gid int64, now int64) {
	d.state.Lock()
	d.Depth++
	d.Owner = gid
	if d.Depth == 1 {
		d.EnterTime = now
	}
	d.state.Unlock()
}

// release implements the unlock path (spec §4.6): decrements Depth iff the
// calling goroutine is the owner. Returns ok=false (and leaves state
// unmutated) if the caller is not the owner, so the caller can log an
// "unlock by non-owner" warning. The returned depth is Depth after the
// decrement, so a recursive mutex's caller can tell a nested unlock
// (depth still > 0, the real primitive was never relocked on reentry and
// so must not be released yet) from the outermost one (depth reaches 0,
// the real primitive's one matching release).
func (d *LockDescriptor) release(gid int64) (ok bool, depth int) {
	d.state.Lock()
	defer d.state.Unlock()
	if d.Owner != gid {
		return false, d.Depth
	}
	d.Depth--
	if d.Depth == 0 {
		d.Owner = noThread
		d.EnterTime = 0
	}
	return true, d.Depth
}
