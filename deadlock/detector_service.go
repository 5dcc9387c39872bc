// Copyright (C) 2026 The Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this file,
// You can obtain one at https://mozilla.org/MPL/2.0/.

package deadlock

import (
	"context"
	"time"

	"github.com/thejerf/suture/v4"
)

const defaultJanitorInterval = 5 * time.Second

// janitorService periodically refreshes the tracked-mutex/blocked-edge
// gauges. It never mutates deadlock state itself: cycle detection already
// runs inline on every timed-lock tick, so this service exists purely to
// keep the gauges live between acquisitions and to make the blocked-wait
// table's size observable even while the process is otherwise idle.
type janitorService struct {
	det      *Detector
	interval time.Duration
}

func newJanitorService(det *Detector, interval time.Duration) *janitorService {
	if interval <= 0 {
		interval = defaultJanitorInterval
	}
	return &janitorService{det: det, interval: interval}
}

// Serve implements suture.Service. It runs until ctx is canceled.
func (j *janitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *janitorService) sweep() {
	metricTrackedMutexes.Set(float64(j.det.registry.count()))
	metricBlockedEdges.Set(float64(j.det.blocked.len()))
}

// newSupervisor wires a janitorService into a thejerf/suture/v4
// supervisor: supervised background work recovers from panics and
// restarts with backoff rather than taking the whole process down.
func newSupervisor(det *Detector, interval time.Duration) *suture.Supervisor {
	sup := suture.NewSimple("deadlock-janitor")
	sup.Add(newJanitorService(det, interval))
	return sup
}
