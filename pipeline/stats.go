// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import "sync/atomic"

// Stats counts what the pipeline did since it was created.
type Stats struct {
	Built       uint64 // command lists published
	Empty       uint64 // "nothing to draw" publications
	Failed      uint64 // scene errors and panics
	Superseded  uint64 // lists discarded before they were taken
	Presented   uint64 // new frames presented
	Represented uint64 // previous frames presented again
	Skipped     uint64 // Present calls with nothing to show
	Dropped     uint64 // frames whose draw or present failed
}

type counters struct {
	built       atomic.Uint64
	empty       atomic.Uint64
	failed      atomic.Uint64
	superseded  atomic.Uint64
	presented   atomic.Uint64
	represented atomic.Uint64
	skipped     atomic.Uint64
	dropped     atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		Built:       c.built.Load(),
		Empty:       c.empty.Load(),
		Failed:      c.failed.Load(),
		Superseded:  c.superseded.Load(),
		Presented:   c.presented.Load(),
		Represented: c.represented.Load(),
		Skipped:     c.skipped.Load(),
		Dropped:     c.dropped.Load(),
	}
}
