// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import "github.com/gogpu/impeller"

// SurfaceSource supplies one presentable surface per frame.
type SurfaceSource interface {
	// AcquireSurface returns a surface for the next frame, or nil without
	// an error when no target is available right now.
	AcquireSurface() (*impeller.Surface, error)
	// ReleaseSurface disposes a surface returned by AcquireSurface, along
	// with any platform resources it holds.
	ReleaseSurface(s *impeller.Surface)
}

// Present takes the latest publication and shows it on a surface from src.
// When nothing was published since the previous call, the previous frame
// is shown again. A published "nothing to draw" drops the previous frame.
//
// Present reports whether a frame reached the screen. A false result with
// a nil error means the frame was skipped.
func (p *Pipeline) Present(src SurfaceSource) (bool, error) {
	if src == nil {
		return false, impeller.ErrNilArgument
	}
	p.presentMu.Lock()
	defer p.presentMu.Unlock()

	fresh := false
	if l, ok := p.slot.Take(); ok {
		if p.last != nil {
			p.last.Dispose()
		}
		p.last = l
		fresh = l != nil
	}
	if p.last == nil {
		p.stats.skipped.Add(1)
		return false, nil
	}

	s, err := src.AcquireSurface()
	if err != nil {
		p.stats.skipped.Add(1)
		return false, err
	}
	if s == nil {
		p.stats.skipped.Add(1)
		return false, nil
	}
	defer src.ReleaseSurface(s)

	if !s.DrawCommandList(p.last) || !s.Present() {
		p.stats.dropped.Add(1)
		impeller.Logger().Warn("pipeline: frame dropped", "fresh", fresh)
		return false, nil
	}
	if fresh {
		p.stats.presented.Add(1)
	} else {
		p.stats.represented.Add(1)
	}
	return true, nil
}
