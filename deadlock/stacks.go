// Copyright (C) 2026 The Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package deadlock

import (
	"bytes"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/maruel/panicparse/stack"
)

// minStackFrames is the frame cap spec requires for a reported stack
// trace (at least 15 frames).
const minStackFrames = 15

// captureStack returns a formatted, frame-capped stack trace for the
// goroutine identified by gid. It is this core's rendering of the
// "stack-trace capture with frame cap" platform primitive: rather than
// unwinding the native call stack directly, it takes a full runtime dump
// and picks the goroutine of interest out of it, the same technique the
// crash-reporting path elsewhere in this family of tools uses to attach
// per-goroutine stacks to a report.
func captureStack(gid int64, frameCap int) string {
	if frameCap <= 0 {
		frameCap = minStackFrames
	}

	dump := fullGoroutineDump()
	ctx, err := stack.ParseDump(bytes.NewReader(dump), io.Discard, false)
	if err != nil {
		return fallbackStack(dump, frameCap)
	}

	for _, routine := range ctx.Goroutines {
		if int64(routine.ID) != gid {
			continue
		}
		calls := routine.Stack.Calls
		if len(calls) > frameCap {
			calls = calls[:frameCap]
		}
		var b strings.Builder
		for _, c := range calls {
			fmt.Fprintf(&b, "\tat %s\n", c.FullSrcLine())
		}
		return b.String()
	}

	return fallbackStack(dump, frameCap)
}

func fullGoroutineDump() []byte {
	buf := make([]byte, 64<<10)
	for {
		n := runtime.Stack(buf, true)
		if n < len(buf) {
			return buf[:n]
		}
		buf = make([]byte, 2*len(buf))
	}
}

// fallbackStack is used when the dump can't be parsed into per-goroutine
// records (best-effort per spec §7: deadlock detection itself never
// fails). It returns the first frameCap lines of the raw dump rather than
// nothing.
func fallbackStack(dump []byte, frameCap int) string {
	lines := strings.Split(string(dump), "\n")
	if len(lines) > frameCap {
		lines = lines[:frameCap]
	}
	return strings.Join(lines, "\n")
}
