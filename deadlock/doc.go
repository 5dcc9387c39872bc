// Copyright (C) 2026 The Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

// Package deadlock instruments process-wide mutex operations and reports,
// in real time, self-deadlocks on non-recursive mutexes, prolonged
// blocking, and cyclic wait-for dependencies across goroutines.
//
// It is the Go rendering of a runtime deadlock-detection core originally
// built by hooking libc's pthread_mutex_* entry points on Android: rather
// than patching a binary's GOT, callers swap sync.Mutex/sync.RWMutex for
// Mutex/RWMutex from this package, which perform the same bookkeeping from
// inside ordinary Go calls.
//
// The core is strictly observational: it never refuses or delays a lock
// grant beyond the bounded escalation gate, and it never alters a caller's
// control flow because of something it detects. It only reports.
package deadlock
