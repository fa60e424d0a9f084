// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pipeline renders scenes into command lists on a background
// worker and hands the latest one to a presentation loop.
//
// The control side sends messages (Resize, ParameterChange, SceneSwitch,
// Stop) through an unbounded queue; sending never blocks. The worker drains
// everything queued, then rebuilds at most once using the latest values.
// A finished CommandList is published to a single-entry Slot by atomic
// exchange, disposing any list the presentation side has not taken yet.
//
// The presentation side calls Present at its own cadence. A fresh list is
// drawn to a newly acquired surface and kept, so that the next Present can
// show it again when nothing new was published.
//
//	p, err := pipeline.New(ctx, map[string]pipeline.Scene{"demo": scene})
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	p.Resize(800, 600)
//	for frame := range ticks {
//	    p.Present(source)
//	}
//
// Close stops the worker, disposes the unconsumed list and the last frame,
// and finally disposes the context the pipeline was created with.
package pipeline
