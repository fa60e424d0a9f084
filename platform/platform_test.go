// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package platform

import (
	"testing"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/impeller"
	"github.com/gogpu/impeller/internal/abi/abitest"
	"github.com/gogpu/impeller/pipeline"
)

var (
	_ pipeline.SurfaceSource = (*HostSource)(nil)
	_ pipeline.SurfaceSource = (*SwapchainSource)(nil)
)

func newEngine(t *testing.T) (*impeller.Engine, *abitest.Engine) {
	t.Helper()
	fake := abitest.New()
	eng, err := impeller.NewEngine(fake.Table(), impeller.WithStrict(false))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.Empty(t, fake.Leaks(), "leaked native objects")
		assert.Empty(t, fake.Violations(), "native misuse")
	})
	return eng, fake
}

// fakeHost hands out its targets in order and counts drawable references.
type fakeHost struct {
	targets []Target
	refs    map[uintptr]int
}

func newFakeHost(targets ...Target) *fakeHost {
	return &fakeHost{targets: targets, refs: map[uintptr]int{}}
}

func (h *fakeHost) Acquire() (Target, bool) {
	if len(h.targets) == 0 {
		return Target{}, false
	}
	t := h.targets[0]
	h.targets = h.targets[1:]
	return t, true
}

func (h *fakeHost) Retain(t Target)  { h.refs[t.Handle]++ }
func (h *fakeHost) Release(t Target) { h.refs[t.Handle]-- }

func TestOpenSurface(t *testing.T) {
	eng, _ := newEngine(t)
	metal, err := eng.NewMetalContext()
	require.NoError(t, err)
	defer metal.Dispose()
	gl, err := eng.NewOpenGLESContext(func(string) uintptr { return 1 })
	require.NoError(t, err)
	defer gl.Dispose()

	fbo := Target{
		Kind:   TargetFramebuffer,
		Handle: 3,
		Size:   impeller.ISize{Width: 64, Height: 32},
		Format: gputypes.TextureFormatRGBA8Unorm,
	}

	tests := []struct {
		name string
		ctx  *impeller.Context
		t    Target
		err  error
	}{
		{"drawable", metal, Target{Kind: TargetMetalDrawable, Handle: 0x10}, nil},
		{"texture", metal, Target{Kind: TargetMetalTexture, Handle: 0x20}, nil},
		{"framebuffer", gl, fbo, nil},
		{"drawable on gl", gl, Target{Kind: TargetMetalDrawable, Handle: 0x10}, impeller.ErrBackendMismatch},
		{"framebuffer on metal", metal, fbo, impeller.ErrBackendMismatch},
		{"null drawable", metal, Target{Kind: TargetMetalDrawable}, impeller.ErrNilArgument},
		{"unknown", metal, Target{Handle: 1}, ErrUnknownTarget},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := OpenSurface(tt.ctx, tt.t)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				assert.Nil(t, s)
				return
			}
			require.NoError(t, err)
			s.Dispose()
		})
	}
}

func TestHostSourceBalancesReferences(t *testing.T) {
	eng, fake := newEngine(t)
	ctx, err := eng.NewMetalContext()
	require.NoError(t, err)
	defer ctx.Dispose()

	host := newFakeHost(
		Target{Kind: TargetMetalDrawable, Handle: 0x10},
		Target{Kind: TargetMetalDrawable}, // rejected: null drawable
		Target{Kind: TargetMetalDrawable, Handle: 0x30},
	)
	src, err := NewHostSource(ctx, host)
	require.NoError(t, err)

	s, err := src.AcquireSurface()
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, 1, host.refs[0x10], "held while the surface is in use")
	assert.Equal(t, 1, src.Outstanding())
	src.ReleaseSurface(s)
	assert.Zero(t, host.refs[0x10])
	assert.True(t, s.IsDisposed())

	_, err = src.AcquireSurface()
	assert.ErrorIs(t, err, impeller.ErrNilArgument)
	assert.Zero(t, host.refs[0], "a rejected target is released")

	s, err = src.AcquireSurface()
	require.NoError(t, err)
	src.ReleaseSurface(s)

	s, err = src.AcquireSurface()
	assert.NoError(t, err)
	assert.Nil(t, s, "no target, no surface")
	assert.Zero(t, src.Outstanding())
	assert.Equal(t, 1, fake.Live(), "only the context is alive")

	src.ReleaseSurface(nil)
}

func TestSourceValidation(t *testing.T) {
	_, err := NewHostSource(nil, newFakeHost())
	assert.ErrorIs(t, err, impeller.ErrNilArgument)

	eng, _ := newEngine(t)
	ctx, err := eng.NewMetalContext()
	require.NoError(t, err)
	defer ctx.Dispose()
	_, err = NewHostSource(ctx, nil)
	assert.ErrorIs(t, err, impeller.ErrNilArgument)

	_, err = NewSwapchainSource(nil)
	assert.ErrorIs(t, err, impeller.ErrNilArgument)
}

func TestSwapchainSource(t *testing.T) {
	eng, fake := newEngine(t)
	ctx, err := eng.NewVulkanContext(impeller.VulkanSettings{
		Resolve: func(uintptr, string) uintptr { return 1 },
	})
	require.NoError(t, err)
	defer ctx.Dispose()
	sc, err := impeller.NewVulkanSwapchain(ctx, 0x77)
	require.NoError(t, err)
	defer sc.Dispose()

	src, err := NewSwapchainSource(sc)
	require.NoError(t, err)
	s, err := src.AcquireSurface()
	require.NoError(t, err)
	require.NotNil(t, s)
	src.ReleaseSurface(s)
	assert.True(t, s.IsDisposed())

	fake.Fail("VulkanSwapchainAcquireNextSurfaceNew", 1)
	s, err = src.AcquireSurface()
	assert.NoError(t, err)
	assert.Nil(t, s)
	src.ReleaseSurface(nil)
}

func TestPresentThroughHost(t *testing.T) {
	eng, fake := newEngine(t)
	ctx, err := eng.NewMetalContext()
	require.NoError(t, err)

	var targets []Target
	for i := 1; i <= 3; i++ {
		targets = append(targets, Target{Kind: TargetMetalDrawable, Handle: uintptr(0x100 * i)})
	}
	host := newFakeHost(targets...)
	src, err := NewHostSource(ctx, host)
	require.NoError(t, err)

	scene := pipeline.SceneFunc(func(rec *impeller.Recorder, w, h int) (bool, error) {
		return true, rec.ClipRect(impeller.Rect{Width: float32(w), Height: float32(h)}, impeller.ClipIntersect)
	})
	p, err := pipeline.New(ctx, map[string]pipeline.Scene{"clip": scene})
	require.NoError(t, err)

	require.NoError(t, p.Resize(320, 240))
	require.Eventually(t, func() bool { return p.Stats().Built == 1 }, time.Second, time.Millisecond)
	for range 3 {
		ok, err := p.Present(src)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := p.Present(src)
	require.NoError(t, err)
	assert.False(t, ok, "the host ran out of drawables")

	require.NoError(t, p.Close())
	assert.Equal(t, 3, fake.Presents())
	for _, tg := range targets {
		assert.Zero(t, host.refs[tg.Handle])
	}
}
