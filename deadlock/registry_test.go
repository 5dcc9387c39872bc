// Copyright (C) 2026 The Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package deadlock

import "testing"

func TestRegistryAcquireReleaseInvariants(t *testing.T) {
	r := newRegistry()
	d := r.onInit(0x1000, KindMutex, false)

	if owner, depth, _ := d.snapshot(); owner != noThread || depth != 0 {
		t.Fatalf("fresh descriptor should be free, got owner=%d depth=%d", owner, depth)
	}

	d.acquireSuccess(42, 100)
	owner, depth, enter := d.snapshot()
	if owner != 42 || depth != 1 || enter != 100 {
		t.Fatalf("unexpected state after acquire: owner=%d depth=%d enter=%d", owner, depth, enter)
	}

	if ok, _ := d.release(7); ok {
		t.Fatal("release by non-owner must return false")
	}
	owner, depth, _ = d.snapshot()
	if owner != 42 || depth != 1 {
		t.Fatal("a failed release must not mutate state")
	}

	if ok, remaining := d.release(42); !ok || remaining != 0 {
		t.Fatalf("release by the owner must succeed and empty the depth, got ok=%v remaining=%d", ok, remaining)
	}
	owner, depth, enter = d.snapshot()
	if owner != noThread || depth != 0 || enter != 0 {
		t.Fatalf("descriptor should be free after release, got owner=%d depth=%d enter=%d", owner, depth, enter)
	}
}

func TestRegistryRecursiveDepth(t *testing.T) {
	r := newRegistry()
	d := r.onInit(0x2000, KindMutex, true)

	d.acquireSuccess(1, 10)
	d.acquireSuccess(1, 20)
	owner, depth, enter := d.snapshot()
	if owner != 1 || depth != 2 || enter != 10 {
		t.Fatalf("reentrant acquire should bump depth without moving enter_time, got owner=%d depth=%d enter=%d", owner, depth, enter)
	}

	if ok, remaining := d.release(1); !ok || remaining != 1 {
		t.Fatalf("first release of a reentrant lock should not free it, got ok=%v remaining=%d", ok, remaining)
	}
	owner, depth, _ = d.snapshot()
	if owner != 1 || depth != 1 {
		t.Fatalf("first release of a reentrant lock should not free it, got owner=%d depth=%d", owner, depth)
	}

	if ok, remaining := d.release(1); !ok || remaining != 0 {
		t.Fatalf("second release should free the lock, got ok=%v remaining=%d", ok, remaining)
	}
	owner, depth, _ = d.snapshot()
	if owner != noThread || depth != 0 {
		t.Fatalf("second release should free the lock, got owner=%d depth=%d", owner, depth)
	}
}

func TestRegistryLookupAndDestroy(t *testing.T) {
	r := newRegistry()
	if r.lookup(0x9999) != nil {
		t.Fatal("lookup of an unregistered address must be nil")
	}

	r.onInit(0x3000, KindMutex, false)
	if r.count() != 1 {
		t.Fatalf("expected 1 tracked mutex, got %d", r.count())
	}
	if r.lookup(0x3000) == nil {
		t.Fatal("lookup should find the registered descriptor")
	}

	r.onDestroy(0x3000)
	if r.count() != 0 {
		t.Fatalf("expected 0 tracked mutexes after destroy, got %d", r.count())
	}
	r.onDestroy(0x3000) // destroying twice is a no-op, not an error
}
