// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package platform

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/impeller"
)

// ErrUnknownTarget is returned for a Target with an unrecognized kind.
var ErrUnknownTarget = errors.New("platform: unknown target kind")

// TargetKind is the kind of native object a Target refers to.
type TargetKind int

const (
	// TargetMetalDrawable is a CAMetalDrawable.
	TargetMetalDrawable TargetKind = iota + 1
	// TargetMetalTexture is an MTLTexture, for example one owned by a
	// compositor that presents it itself.
	TargetMetalTexture
	// TargetFramebuffer is an OpenGL framebuffer object name.
	TargetFramebuffer
)

func (k TargetKind) String() string {
	switch k {
	case TargetMetalDrawable:
		return "metal-drawable"
	case TargetMetalTexture:
		return "metal-texture"
	case TargetFramebuffer:
		return "framebuffer"
	}
	return fmt.Sprintf("TargetKind(%d)", int(k))
}

// Target is a presentable render target handed out by a Host.
type Target struct {
	Kind TargetKind

	// Handle is the native object: a drawable or texture pointer, or a
	// framebuffer name.
	Handle uintptr

	// Size is the drawable size in pixels. Framebuffers need it; Metal
	// targets carry their own.
	Size impeller.ISize

	// Format is the framebuffer's pixel format. Ignored for Metal targets.
	Format gputypes.TextureFormat
}

// OpenSurface wraps t as a surface of ctx. The context backend must match
// the target kind.
func OpenSurface(ctx *impeller.Context, t Target) (*impeller.Surface, error) {
	switch t.Kind {
	case TargetMetalDrawable:
		return impeller.WrapMetalDrawable(ctx, t.Handle)
	case TargetMetalTexture:
		return impeller.WrapMetalTexture(ctx, t.Handle)
	case TargetFramebuffer:
		return impeller.WrapFramebuffer(ctx, uint64(t.Handle), t.Format, t.Size)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownTarget, t.Kind)
}
