// Copyright (C) 2026 The Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package deadlock

// Cycle is one deadlock link: an ordered sequence of blocked edges whose
// OwnerThread/BlockedThread chain closes back on the starting goroutine.
type Cycle []BlockedEdge

// detectCycles walks the blocked-wait edges reachable from blockedThread's
// wait points and discovers directed cycles in the wait-for graph. It is
// the Go rendering of find_dead_locks/find_next_jump from the original
// native implementation, preserving the partial-cycle suppression rule
// verbatim: that rule is load-bearing for correctness under concurrent
// detection and must not be skipped.
//
// The whole walk runs under the table's guard and is released before this
// function returns, so callers (the reporter) never hold the blocked-wait
// lock while formatting or logging.
func (t *blockedWaitTable) detectCycles(blockedThread int64, force bool) []Cycle {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.edges) < 2 {
		return nil
	}

	var startPoints []*BlockedEdge
	for _, e := range t.edges {
		if e.BlockedThread == blockedThread {
			if !force && e.Dumped {
				return nil
			}
			startPoints = append(startPoints, e)
		}
	}
	if len(startPoints) == 0 {
		return nil
	}

	var cycles []Cycle
	for _, start := range startPoints {
		path := []*BlockedEdge{start}
		current := start
		for {
			next := t.findSuccessor(current)
			if next == nil {
				break
			}
			path = append(path, next)
			if next.OwnerThread == blockedThread {
				cycles = append(cycles, copyCycle(path))
				break
			}
			current = next
		}
	}

	if len(cycles) == 0 {
		return nil
	}

	if len(cycles) >= len(startPoints) {
		for _, e := range t.edges {
			if e.BlockedThread == blockedThread {
				e.Dumped = true
			}
		}
		return cycles
	}

	// Fewer cycles than start points: this goroutine has multiple wait
	// points and not all of them have been recorded yet due to racing
	// updates. Discard everything; the next timeout tick retries with
	// complete information.
	return nil
}

// findSuccessor returns the first edge (other than from, in table
// insertion order) whose BlockedThread equals from's OwnerThread. Ties
// are broken by insertion order, making the walk deterministic for a
// fixed table state.
func (t *blockedWaitTable) findSuccessor(from *BlockedEdge) *BlockedEdge {
	for _, e := range t.edges {
		if e == from {
			continue
		}
		if e.BlockedThread == from.OwnerThread {
			return e
		}
	}
	return nil
}

func copyCycle(path []*BlockedEdge) Cycle {
	c := make(Cycle, len(path))
	for i, e := range path {
		c[i] = *e
	}
	return c
}
