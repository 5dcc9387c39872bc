// Copyright (C) 2026 The Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package deadlock

import (
	"sync"
	"unsafe"
)

// Mutex is a drop-in replacement for sync.Mutex that participates in
// deadlock detection: every Lock/Unlock is routed through a Detector's
// registry, timed-lock driver and reporter. This is this core's
// rendering of the native GOT-hook: there is nothing to intercept in Go,
// so the wrapper type itself is the hook.
type Mutex struct {
	mu   sync.Mutex
	det  *Detector
	desc *LockDescriptor
}

// NewMutex returns a Mutex tracked by the package-level default
// Detector (the one returned by the first call to Register). If Register
// had not been called before the first NewMutex or NewRecursiveMutex
// call, every Mutex made this way behaves as a plain sync.Mutex.
func NewMutex() *Mutex { return defaultDetector().NewMutex() }

// NewRecursiveMutex is NewMutex's recursive counterpart: the same
// goroutine may Lock it repeatedly without blocking, matching
// PTHREAD_MUTEX_RECURSIVE semantics.
func NewRecursiveMutex() *Mutex { return defaultDetector().NewRecursiveMutex() }

// NewMutex returns a Mutex tracked by det.
func (det *Detector) NewMutex() *Mutex {
	return det.newMutex(false)
}

// NewRecursiveMutex returns a recursive Mutex tracked by det.
func (det *Detector) NewRecursiveMutex() *Mutex {
	return det.newMutex(true)
}

func (det *Detector) newMutex(recursive bool) *Mutex {
	m := &Mutex{det: det}
	m.desc = det.registry.onInit(m.address(), KindMutex, recursive)
	return m
}

func (m *Mutex) address() uintptr { return uintptr(unsafe.Pointer(m)) }

// Lock acquires m, blocking the calling goroutine through the timed-lock
// driver. If m was never registered with a Detector (the zero Mutex, or
// a Detector-less default) it falls back to a plain sync.Mutex.Lock.
func (m *Mutex) Lock() {
	if m.det == nil || m.desc == nil || !m.det.isEnabled() {
		m.mu.Lock()
		return
	}
	m.det.acquire(&m.mu, m.desc)
}

// TryLock attempts to acquire m without blocking. Unlike Lock, a failed
// TryLock is not a "blocked" event: nothing is recorded and no warning
// is ever emitted for it, mirroring the native core (which has no
// try_lock interception at all).
func (m *Mutex) TryLock() bool {
	if !m.mu.TryLock() {
		return false
	}
	if m.det != nil && m.desc != nil && m.det.isEnabled() {
		m.desc.acquireSuccess(currentGID(), nowMS())
	}
	return true
}

// Unlock releases m. A non-owner unlock is logged as a usage error but
// the real sync.Mutex.Unlock still runs, exactly as the native hook glue
// always passes an unlock call through regardless of what the owner
// check decided. A recursive mutex's nested unlock is different: its
// matching Lock never touched the real primitive (see acquire's
// reentrant fast path), so the real sync.Mutex.Unlock only runs once
// Depth has unwound to 0, mirroring how a real PTHREAD_MUTEX_RECURSIVE
// primitive only truly unlocks on the outermost unlock.
func (m *Mutex) Unlock() {
	if m.det != nil && m.desc != nil && m.det.isEnabled() {
		gid := currentGID()
		ok, depth := m.desc.release(gid)
		if !ok {
			owner, _, _ := m.desc.snapshot()
			m.det.reporter.unlockByNonOwner(gid, owner, m.desc.Address)
		}
		if ok && depth > 0 {
			return
		}
	}
	m.mu.Unlock()
}

// Close removes m's bookkeeping from its Detector. Callers that
// heap-allocate a Mutex and let it go out of scope without destroying it
// leak one registry entry, same as a native mutex whose pthread_destroy
// is never called; for long-lived mutexes this is harmless.
func (m *Mutex) Close() {
	if m.det == nil || m.desc == nil {
		return
	}
	m.det.registry.onDestroy(m.desc.Address)
	m.det.blocked.clearMutex(m.desc.Address)
}

// RWMutex is a drop-in replacement for sync.RWMutex. Per spec's
// read/write-lock decision, it is declared but inert: every method
// passes straight through to the embedded sync.RWMutex with no registry
// entry, no timed-lock escalation and no blocked-edge recording,
// matching the native core's rwlock hooks, which all return "pass
// through" unconditionally.
type RWMutex struct {
	rw sync.RWMutex
}

// NewRWMutex returns an inert RWMutex. It takes no Detector because
// there is nothing for one to track.
func NewRWMutex() *RWMutex { return &RWMutex{} }

func (m *RWMutex) Lock()    { m.rw.Lock() }
func (m *RWMutex) Unlock()  { m.rw.Unlock() }
func (m *RWMutex) RLock()   { m.rw.RLock() }
func (m *RWMutex) RUnlock() { m.rw.RUnlock() }
