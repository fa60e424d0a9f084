package impeller

import (
	"fmt"
	"runtime"

	"github.com/gogpu/impeller/internal/abi"
)

// Paint describes how shapes are filled or stroked. Paints are copied into
// command lists when drawn, so one Paint can be modified and reused between
// draw calls.
type Paint struct {
	*Handle
}

// NewPaint creates a paint with the engine defaults: opaque black fill,
// source-over blending, 1px butt-capped miter-joined strokes.
func (e *Engine) NewPaint() (*Paint, error) {
	h, err := fromOwned(e, abi.KindPaint, e.api.PaintNew())
	if err != nil {
		return nil, err
	}
	return &Paint{Handle: h}, nil
}

// NewSolidPaint creates a fill paint of color c.
func (e *Engine) NewSolidPaint(c Color) (*Paint, error) {
	p, err := e.NewPaint()
	if err != nil {
		return nil, err
	}
	if err := p.SetColor(c); err != nil {
		p.Dispose()
		return nil, err
	}
	return p, nil
}

func (p *Paint) SetColor(c Color) error {
	ptr, err := p.Borrow()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(p)
	n := c.native()
	p.api().PaintSetColor(ptr, &n)
	return nil
}

func (p *Paint) SetBlendMode(m BlendMode) error {
	if !m.Valid() {
		return fmt.Errorf("impeller: invalid blend mode %d", int32(m))
	}
	ptr, err := p.Borrow()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(p)
	p.api().PaintSetBlendMode(ptr, int32(m))
	return nil
}

func (p *Paint) SetDrawStyle(s DrawStyle) error {
	ptr, err := p.Borrow()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(p)
	p.api().PaintSetDrawStyle(ptr, int32(s))
	return nil
}

func (p *Paint) SetStrokeCap(c StrokeCap) error {
	ptr, err := p.Borrow()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(p)
	p.api().PaintSetStrokeCap(ptr, int32(c))
	return nil
}

func (p *Paint) SetStrokeJoin(j StrokeJoin) error {
	ptr, err := p.Borrow()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(p)
	p.api().PaintSetStrokeJoin(ptr, int32(j))
	return nil
}

func (p *Paint) SetStrokeWidth(w float32) error {
	ptr, err := p.Borrow()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(p)
	p.api().PaintSetStrokeWidth(ptr, w)
	return nil
}

func (p *Paint) SetStrokeMiter(limit float32) error {
	ptr, err := p.Borrow()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(p)
	p.api().PaintSetStrokeMiter(ptr, limit)
	return nil
}

// SetColorFilter sets or, with nil, clears the color filter.
func (p *Paint) SetColorFilter(f *ColorFilter) error {
	return setPaintObject(p, f, p.api().PaintSetColorFilter)
}

// SetColorSource sets or, with nil, clears the shader that replaces the
// paint color.
func (p *Paint) SetColorSource(s *ColorSource) error {
	return setPaintObject(p, s, p.api().PaintSetColorSource)
}

// SetImageFilter sets or, with nil, clears the image filter.
func (p *Paint) SetImageFilter(f *ImageFilter) error {
	return setPaintObject(p, f, p.api().PaintSetImageFilter)
}

// SetMaskFilter sets or, with nil, clears the mask filter.
func (p *Paint) SetMaskFilter(f *MaskFilter) error {
	return setPaintObject(p, f, p.api().PaintSetMaskFilter)
}

// setPaintObject passes an optional object to a paint setter. The engine
// retains what it needs.
func setPaintObject[T interface {
	comparable
	Borrow() (uintptr, error)
}](p *Paint, obj T, set func(paint, obj uintptr)) error {
	ptr, err := p.Borrow()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(p)
	op, err := borrowOptional(obj)
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(obj)
	set(ptr, op)
	return nil
}
