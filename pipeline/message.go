// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import "fmt"

// Message is a control message for the render worker. The set of messages
// is closed: Resize, ParameterChange, SceneSwitch and Stop.
type Message interface {
	fmt.Stringer
	message()
}

// Resize sets the viewport in pixels. A non-positive dimension means the
// target is not drawable (for example a minimized window).
type Resize struct {
	Width, Height int
}

// ParameterChange is forwarded to every scene implementing ParameterSetter.
type ParameterChange struct {
	Value float64
}

// SceneSwitch makes the scene registered under ID active.
type SceneSwitch struct {
	ID string
}

// Stop ends the worker after publishing an empty frame.
type Stop struct{}

func (Resize) message()          {}
func (ParameterChange) message() {}
func (SceneSwitch) message()     {}
func (Stop) message()            {}

func (m Resize) String() string          { return fmt.Sprintf("Resize(%d, %d)", m.Width, m.Height) }
func (m ParameterChange) String() string { return fmt.Sprintf("ParameterChange(%g)", m.Value) }
func (m SceneSwitch) String() string     { return fmt.Sprintf("SceneSwitch(%q)", m.ID) }
func (Stop) String() string              { return "Stop" }
