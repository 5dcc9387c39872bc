// Copyright (C) 2026 The Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package deadlock

import (
	"fmt"
	"sync"

	"github.com/petermattis/goid"
)

// mainGID is the goroutine id observed while this package's init ran,
// which is the main goroutine's id on every Go runtime version observed
// in practice. There is no portable, documented way to ask the runtime
// "is this the main goroutine", so this is the pragmatic stand-in for
// spec's "application's main/UI thread" used to pick the tighter 500ms
// gate.
var mainGID = goid.Get()

func currentGID() int64 {
	return goid.Get()
}

func isMainGoroutine(gid int64) bool {
	return gid == mainGID
}

var (
	namesMu sync.Mutex
	names   = make(map[int64]string)
)

// SetGoroutineName attaches a human-readable name to the calling
// goroutine's id, for use in diagnostic reports. Go has no native
// per-goroutine name (unlike pthread_setname_np), so this is this
// package's rendering of the "thread name query" platform primitive.
func SetGoroutineName(name string) {
	namesMu.Lock()
	names[currentGID()] = name
	namesMu.Unlock()
}

func goroutineName(gid int64) string {
	namesMu.Lock()
	name, ok := names[gid]
	namesMu.Unlock()
	if !ok {
		return fmt.Sprintf("goroutine-%d", gid)
	}
	return name
}
