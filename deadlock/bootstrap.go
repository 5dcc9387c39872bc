// Copyright (C) 2026 The Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package deadlock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/datougui2020/android-memory-watch/internal/logfacility"
)

var (
	defaultOnce sync.Once
	defaultDet  *Detector
)

// defaultDetector returns the Detector the first Register call installed,
// or a disabled fallback Detector if Register had not run by the first
// call; that fallback then stays the default. NewMutex and
// NewRecursiveMutex use this.
func defaultDetector() *Detector {
	defaultOnce.Do(func() {
		defaultDet = newDetector(newLoggerSink(logfacility.DefaultLogger.NewFacility("mutex", "deadlock instrumentation")))
		defaultDet.setEnabled(false)
	})
	return defaultDet
}

// Register performs the one-time bootstrap: constructs a Detector,
// probes that the timed-lock primitive actually behaves on this runtime,
// starts the background janitor, and — if the caller supplied one —
// installs a HookInstaller. The first call's Detector becomes the
// package-level default consulted by NewMutex/NewRecursiveMutex, unless
// one of those already ran before any Register call, in which case the
// disabled fallback it installed stays the default. Later calls each
// return an independent Detector.
func Register(cfg Config) *Detector {
	sink := cfg.Sink
	if sink == nil {
		sink = newLoggerSink(logfacility.DefaultLogger.NewFacility("mutex", "deadlock instrumentation"))
	}

	det := newDetector(sink)
	for _, o := range cfg.Observers {
		det.AddObserver(o)
	}

	if !probeTimedLock() {
		sink.Warn(tagBootstrap, "deadlock instrumentation probe failed, disabling core")
		det.setEnabled(false)
		installDefault(det)
		return det
	}

	if cfg.Installer != nil {
		if err := cfg.Installer.Install(cfg.TargetBinary); err != nil {
			sink.Warn(tagBootstrap, fmt.Sprintf("hook installer failed, continuing without it: %v", err))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	det.mu.Lock()
	det.shutdown = cancel
	det.mu.Unlock()

	sup := newSupervisor(det, cfg.JanitorInterval)
	go sup.Serve(ctx) //nolint:errcheck // Serve only returns once ctx is canceled by Close

	installDefault(det)
	return det
}

func installDefault(det *Detector) {
	defaultOnce.Do(func() { defaultDet = det })
}

// probeTimedLock mirrors the native bootstrap's "init a transient mutex,
// attempt a timed acquire, then destroy" ritual: there is no lazy
// linkage for Go to resolve, so this is vestigial, but it is kept as the
// literal translation of that step and as a canary should TryLock ever
// be unavailable on some future build target.
func probeTimedLock() bool {
	var m sync.Mutex
	if !tryLockFor(&m, 10*time.Millisecond) {
		return false
	}
	m.Unlock()
	return true
}
