// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import "github.com/gogpu/impeller"

// Scene records one frame of content. Render is called on the worker with
// a fresh recorder culled to the viewport. It returns false when there is
// nothing to draw. An error or a panic counts as nothing to draw for that
// frame; the pipeline keeps running.
//
// A Scene may also implement io.Closer, in which case the worker closes it
// on exit, and ParameterSetter.
type Scene interface {
	Render(rec *impeller.Recorder, width, height int) (bool, error)
}

// SceneFunc adapts a function to Scene.
type SceneFunc func(rec *impeller.Recorder, width, height int) (bool, error)

// Render calls f.
func (f SceneFunc) Render(rec *impeller.Recorder, width, height int) (bool, error) {
	return f(rec, width, height)
}

// ParameterSetter is implemented by scenes that take a tunable parameter,
// such as an element count or an animation phase.
type ParameterSetter interface {
	SetParameter(v float64)
}
