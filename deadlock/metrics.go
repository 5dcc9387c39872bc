// Copyright (C) 2026 The Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package deadlock

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricBlockWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "amw",
		Subsystem: "deadlock",
		Name:      "block_warnings_total",
		Help:      "Total number of Block warnings emitted by the timed-lock driver.",
	})
	metricSelfDeadlocks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "amw",
		Subsystem: "deadlock",
		Name:      "self_deadlocks_total",
		Help:      "Total number of self-deadlock reports emitted.",
	})
	metricCycles = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "amw",
		Subsystem: "deadlock",
		Name:      "cycles_total",
		Help:      "Total number of cyclic wait-for deadlocks reported.",
	})
	metricBlockedEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "amw",
		Subsystem: "deadlock",
		Name:      "blocked_edges",
		Help:      "Current number of recorded blocked-wait edges.",
	})
	metricTrackedMutexes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "amw",
		Subsystem: "deadlock",
		Name:      "tracked_mutexes",
		Help:      "Current number of live mutexes known to the lock registry.",
	})
)
