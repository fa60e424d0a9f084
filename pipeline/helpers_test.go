// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/impeller"
	"github.com/gogpu/impeller/internal/abi/abitest"
)

const (
	waitFor = 2 * time.Second
	tick    = time.Millisecond
)

// newPipeline returns a pipeline over a fake Metal context. The pipeline is
// closed at the end of the test, after which nothing may be left alive.
func newPipeline(t *testing.T, scenes map[string]Scene, opts ...Option) (*Pipeline, *abitest.Engine) {
	t.Helper()
	fake := abitest.New()
	eng, err := impeller.NewEngine(fake.Table(), impeller.WithStrict(false))
	require.NoError(t, err)
	ctx, err := eng.NewMetalContext()
	require.NoError(t, err)

	p, err := New(ctx, scenes, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = p.Close()
		assert.Empty(t, fake.Leaks(), "leaked native objects")
		assert.Empty(t, fake.Violations(), "native misuse")
	})
	return p, fake
}

// boxScene fills the viewport and records every size it was asked for.
type boxScene struct {
	mu    sync.Mutex
	sizes [][2]int
	param float64

	// block, when set, is received from before the first frame returns.
	entered chan struct{}
	block   chan struct{}
}

func (s *boxScene) Render(rec *impeller.Recorder, width, height int) (bool, error) {
	s.mu.Lock()
	s.sizes = append(s.sizes, [2]int{width, height})
	first := len(s.sizes) == 1
	s.mu.Unlock()

	if first && s.block != nil {
		close(s.entered)
		<-s.block
	}
	if err := rec.ClipRect(impeller.Rect{Width: float32(width), Height: float32(height)}, impeller.ClipIntersect); err != nil {
		return false, err
	}
	return true, nil
}

func (s *boxScene) Sizes() [][2]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][2]int(nil), s.sizes...)
}

func (s *boxScene) Renders() int { return len(s.Sizes()) }

// paramScene is a boxScene taking a parameter.
type paramScene struct {
	boxScene
}

func (s *paramScene) SetParameter(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.param = v
}

func (s *paramScene) Param() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.param
}

// closerScene records whether it was closed.
type closerScene struct {
	boxScene
	closed int
	err    error
}

func (s *closerScene) Close() error {
	s.closed++
	return s.err
}

// takeList waits for the next publication and returns it.
func takeList(t *testing.T, p *Pipeline) *impeller.CommandList {
	t.Helper()
	var list *impeller.CommandList
	require.Eventually(t, func() bool {
		l, ok := p.Slot().Take()
		list = l
		return ok
	}, waitFor, tick)
	return list
}

// drawableSource hands out wrapped Metal drawables and counts them.
type drawableSource struct {
	ctx      *impeller.Context
	none     bool
	acquired int
	released int
}

func (s *drawableSource) AcquireSurface() (*impeller.Surface, error) {
	if s.none {
		return nil, nil
	}
	s.acquired++
	return impeller.WrapMetalDrawable(s.ctx, 0xd00d)
}

func (s *drawableSource) ReleaseSurface(surf *impeller.Surface) {
	s.released++
	surf.Dispose()
}
