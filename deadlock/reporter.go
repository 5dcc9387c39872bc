// Copyright (C) 2026 The Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package deadlock

import (
	"fmt"
	"strings"

	"github.com/datougui2020/android-memory-watch/internal/logfacility"
)

const (
	tagBlock     = "MUTEX:Block"
	tagDeadlock  = "MUTEX:Deadlock"
	tagUnlock    = "MUTEX:Unlock"
	tagBootstrap = "MUTEX:Bootstrap"
)

// Sink is the pluggable logging sink contract the diagnostic reporter
// writes through: two severities, a tag, and a preformatted UTF-8 body.
type Sink interface {
	Warn(tag, msg string)
	Error(tag, msg string)
}

// loggerSink adapts a logfacility.Logger to the Sink contract.
type loggerSink struct {
	l logfacility.Logger
}

func newLoggerSink(l logfacility.Logger) Sink {
	return &loggerSink{l: l}
}

func (s *loggerSink) Warn(tag, msg string) {
	s.l.Warnf("[%s] %s", tag, msg)
}

func (s *loggerSink) Error(tag, msg string) {
	s.l.Errorf("[%s] %s", tag, msg)
}

// reporter formats the three diagnostic categories and fans them out to
// the configured Sink, the prometheus counters, and any registered
// Observer. It never allocates unbounded memory: stack traces are bounded
// by captureStack's frame cap and every per-report buffer is scoped to
// the call.
type reporter struct {
	sink      Sink
	observers *observerSet
}

func newReporter(sink Sink, observers *observerSet) *reporter {
	return &reporter{sink: sink, observers: observers}
}

// block emits a Block warning: caller tid/name, owner tid, mutex
// address, elapsed time, how long the owner has held the lock, and the
// underlying primitive error (if any).
func (r *reporter) block(gid, owner int64, addr uintptr, elapsedMS, heldMS int64, mainThread bool, err error) {
	metricBlockWarnings.Inc()
	msg := fmt.Sprintf("[tid %d/%s] blocked by [tid %d] on lock(%#x) %dms, holds: %dms, err: %v",
		gid, goroutineName(gid), owner, addr, elapsedMS, heldMS, err)
	r.sink.Warn(tagBlock, msg)
	r.observers.publish(Report{
		Kind:            ReportBlock,
		Tag:             tagBlock,
		Mutex:           addr,
		BlockedThread:   gid,
		OwnerThread:     owner,
		BlockedForMS:    elapsedMS,
		OwnerHeldForMS:  heldMS,
		MainThread:      mainThread,
		UnderlyingError: err,
	})
}

// selfDeadlock emits a Self-deadlock report: a header, an optional "Main
// Thread" annotation, the thread's name, and its stack trace.
func (r *reporter) selfDeadlock(gid int64, addr uintptr, mainThread bool, stack string) {
	metricSelfDeadlocks.Inc()
	var b strings.Builder
	b.WriteString("[DEAD LOCK] thread self-locked on a non-recursive mutex ------------------------------>\n\n")
	if mainThread {
		b.WriteString("WARNING: Main thread deadlocked!\n")
	}
	fmt.Fprintf(&b, "Deadlock callstack, thread: %d (%s), lock(%#x):\n", gid, goroutineName(gid), addr)
	b.WriteString(stack)
	b.WriteString("[End] Dead Lock")

	r.sink.Error(tagDeadlock, b.String())
	r.observers.publish(Report{
		Kind:          ReportSelfDeadlock,
		Tag:           tagDeadlock,
		Mutex:         addr,
		BlockedThread: gid,
		OwnerThread:   gid,
		MainThread:    mainThread,
		Stack:         stack,
	})
}

// cycle emits one Cycle deadlock report: a header, optional main-thread
// annotation, one line per edge of the cycle, then the origin thread's
// stack trace.
func (r *reporter) cycle(gid int64, mainThread bool, c Cycle, stack string) {
	metricCycles.Inc()
	var b strings.Builder
	b.WriteString("[Warning] Dead Lock found --------------------->\n")
	if mainThread {
		b.WriteString("WARNING: Main thread deadlocked!\n")
	}
	for _, e := range c {
		fmt.Fprintf(&b, "[thread %d] blocked by [thread %d] on lock(%#x) >>>>\n",
			e.BlockedThread, e.OwnerThread, e.Mutex)
	}
	fmt.Fprintf(&b, "Deadlock callstack, thread: %d (%s):\n", gid, goroutineName(gid))
	b.WriteString(stack)
	b.WriteString("[End] Dead Lock")

	r.sink.Error(tagDeadlock, b.String())
	r.observers.publish(Report{
		Kind:          ReportCycle,
		Tag:           tagDeadlock,
		BlockedThread: gid,
		MainThread:    mainThread,
		Cycle:         c,
		Stack:         stack,
	})
}

// unlockByNonOwner emits the usage-error warning from the unlock path.
func (r *reporter) unlockByNonOwner(gid, owner int64, addr uintptr) {
	msg := fmt.Sprintf("[tid %d] unlock by non-owner thread (owner is tid %d) on lock(%#x)", gid, owner, addr)
	r.sink.Warn(tagUnlock, msg)
}
