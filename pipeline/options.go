// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

// Option configures New.
type Option func(*options)

type options struct {
	initial  string
	param    float64
	hasParam bool
}

// WithInitialScene selects the scene active before any SceneSwitch. It is
// required when more than one scene is registered.
func WithInitialScene(id string) Option {
	return func(o *options) {
		o.initial = id
	}
}

// WithParameter sets the parameter every ParameterSetter scene starts
// with.
func WithParameter(v float64) Option {
	return func(o *options) {
		o.param = v
		o.hasParam = true
	}
}
