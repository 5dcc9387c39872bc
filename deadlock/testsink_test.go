// Copyright (C) 2026 The Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package deadlock

import "sync"

// testSink is a message-capturing Sink, mirroring the message-capturing
// AddHandler pattern used to test the instrumented-sync package this
// core is modeled on.
type testSink struct {
	mu     sync.Mutex
	warns  []string
	errors []string
}

func (s *testSink) Warn(tag, msg string) {
	s.mu.Lock()
	s.warns = append(s.warns, tag+": "+msg)
	s.mu.Unlock()
}

func (s *testSink) Error(tag, msg string) {
	s.mu.Lock()
	s.errors = append(s.errors, tag+": "+msg)
	s.mu.Unlock()
}

func (s *testSink) warnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.warns)
}

func (s *testSink) errorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.errors)
}
