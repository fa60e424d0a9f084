// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package platform

import (
	"fmt"
	"sync"

	"github.com/gogpu/impeller"
)

// Host is the windowing collaborator.
type Host interface {
	// Acquire returns the next presentable target. ok is false when none
	// is available, for example while the window is hidden.
	Acquire() (t Target, ok bool)

	// Retain adds a reference to the native object behind t.
	Retain(t Target)

	// Release drops a reference added by Retain.
	Release(t Target)
}

// HostSource supplies surfaces wrapped around targets acquired from a
// Host. The target stays retained until its surface is released.
//
// HostSource implements pipeline.SurfaceSource.
type HostSource struct {
	ctx  *impeller.Context
	host Host

	mu   sync.Mutex
	held map[*impeller.Surface]Target
}

// NewHostSource returns a source opening host's targets on ctx.
func NewHostSource(ctx *impeller.Context, host Host) (*HostSource, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: context", impeller.ErrNilArgument)
	}
	if host == nil {
		return nil, fmt.Errorf("%w: host", impeller.ErrNilArgument)
	}
	return &HostSource{ctx: ctx, host: host, held: make(map[*impeller.Surface]Target)}, nil
}

// AcquireSurface acquires and retains a target and wraps it. It returns
// nil without an error when the host has no target.
func (s *HostSource) AcquireSurface() (*impeller.Surface, error) {
	t, ok := s.host.Acquire()
	if !ok {
		return nil, nil
	}
	s.host.Retain(t)
	surf, err := OpenSurface(s.ctx, t)
	if err != nil {
		s.host.Release(t)
		return nil, err
	}

	s.mu.Lock()
	s.held[surf] = t
	s.mu.Unlock()
	return surf, nil
}

// ReleaseSurface disposes surf and releases its target.
func (s *HostSource) ReleaseSurface(surf *impeller.Surface) {
	if surf == nil {
		return
	}
	surf.Dispose()

	s.mu.Lock()
	t, ok := s.held[surf]
	delete(s.held, surf)
	s.mu.Unlock()
	if ok {
		s.host.Release(t)
	}
}

// Outstanding reports how many surfaces have not been released.
func (s *HostSource) Outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.held)
}

// SwapchainSource supplies surfaces from a Vulkan swapchain.
//
// SwapchainSource implements pipeline.SurfaceSource.
type SwapchainSource struct {
	sc *impeller.VulkanSwapchain
}

// NewSwapchainSource returns a source acquiring from sc. The caller keeps
// ownership of sc.
func NewSwapchainSource(sc *impeller.VulkanSwapchain) (*SwapchainSource, error) {
	if sc == nil {
		return nil, fmt.Errorf("%w: swapchain", impeller.ErrNilArgument)
	}
	return &SwapchainSource{sc: sc}, nil
}

// AcquireSurface returns the swapchain's next surface, or nil when none is
// available.
func (s *SwapchainSource) AcquireSurface() (*impeller.Surface, error) {
	return s.sc.AcquireNextSurface()
}

// ReleaseSurface disposes surf.
func (s *SwapchainSource) ReleaseSurface(surf *impeller.Surface) {
	if surf != nil {
		surf.Dispose()
	}
}
