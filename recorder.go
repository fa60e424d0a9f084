package impeller

import (
	"fmt"
	"runtime"

	"github.com/gogpu/impeller/internal/abi"
)

// Recorder records drawing commands into a CommandList.
//
// A Recorder is not safe for concurrent use. It mirrors the engine's save
// stack and transform on the Go side so that unbalanced restores are
// reported as errors instead of being silently ignored natively.
//
// After Build the Recorder is finalized: every further recording call
// fails with ErrAlreadyFinalized. Build does not dispose the Recorder.
type Recorder struct {
	*Handle

	cull      *Rect
	finalized bool
	ops       int

	// transform is the current matrix; stack holds the matrices saved by
	// Save and SaveLayer, one entry per outstanding save.
	transform Matrix
	stack     []Matrix
}

// NewRecorder opens a recorder. cull, when non-nil, bounds what the
// resulting command list may draw.
func (e *Engine) NewRecorder(cull *Rect) (*Recorder, error) {
	var nc *abi.Rect
	if cull != nil {
		nc = cull.native()
	}
	h, err := fromOwned(e, abi.KindDisplayListBuilder, e.api.DisplayListBuilderNew(nc))
	if err != nil {
		return nil, err
	}
	r := &Recorder{Handle: h, transform: Identity(), stack: make([]Matrix, 0, 8)}
	if cull != nil {
		c := *cull
		r.cull = &c
	}
	return r, nil
}

// builder returns the native pointer for a recording call.
func (r *Recorder) builder() (uintptr, error) {
	ptr, err := r.Borrow()
	if err != nil {
		return 0, err
	}
	if r.finalized {
		return 0, ErrAlreadyFinalized
	}
	return ptr, nil
}

// record runs f with the builder pointer and counts it as one command.
func (r *Recorder) record(f func(t *abi.Table, b uintptr)) error {
	b, err := r.builder()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(r)
	f(r.api(), b)
	r.ops++
	return nil
}

// --------------------------------------------------------------------------
// State Management
// --------------------------------------------------------------------------

// Save pushes the current transform and clip.
func (r *Recorder) Save() error {
	return r.record(func(t *abi.Table, b uintptr) {
		t.DisplayListBuilderSave(b)
		r.stack = append(r.stack, r.transform)
	})
}

// SaveLayer pushes state and redirects drawing to an offscreen layer that is
// composited with paint on Restore. backdrop, when non-nil, filters what is
// already drawn behind the layer.
func (r *Recorder) SaveLayer(bounds Rect, paint *Paint, backdrop *ImageFilter) error {
	pp, err := borrowOptional(paint)
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(paint)
	bp, err := borrowOptional(backdrop)
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(backdrop)
	return r.record(func(t *abi.Table, b uintptr) {
		t.DisplayListBuilderSaveLayer(b, bounds.native(), pp, bp)
		r.stack = append(r.stack, r.transform)
	})
}

// Restore pops the state pushed by the matching Save or SaveLayer.
func (r *Recorder) Restore() error {
	b, err := r.builder()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(r)
	if len(r.stack) == 0 {
		return ErrUnbalancedRestore
	}
	r.api().DisplayListBuilderRestore(b)
	r.transform = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	r.ops++
	return nil
}

// SaveCount returns the depth of the save stack. A fresh recorder reports 1.
func (r *Recorder) SaveCount() int {
	return len(r.stack) + 1
}

// RestoreToCount pops saves until SaveCount equals count.
func (r *Recorder) RestoreToCount(count int) error {
	b, err := r.builder()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(r)
	if count < 1 || count > r.SaveCount() {
		return fmt.Errorf("%w: restore to %d with save count %d", ErrUnbalancedRestore, count, r.SaveCount())
	}
	if count == r.SaveCount() {
		return nil
	}
	r.api().DisplayListBuilderRestoreToCount(b, uint32(count))
	r.transform = r.stack[count-1]
	r.stack = r.stack[:count-1]
	r.ops++
	return nil
}

// --------------------------------------------------------------------------
// Transform
// --------------------------------------------------------------------------

// Translate moves the origin by (x, y) in the current coordinate space.
func (r *Recorder) Translate(x, y float32) error {
	return r.record(func(t *abi.Table, b uintptr) {
		t.DisplayListBuilderTranslate(b, x, y)
		r.transform = r.transform.Multiply(Translate(x, y))
	})
}

// Scale scales the current coordinate space.
func (r *Recorder) Scale(sx, sy float32) error {
	return r.record(func(t *abi.Table, b uintptr) {
		t.DisplayListBuilderScale(b, sx, sy)
		r.transform = r.transform.Multiply(Scale(sx, sy))
	})
}

// Rotate rotates the current coordinate space by degrees.
func (r *Recorder) Rotate(degrees float32) error {
	return r.record(func(t *abi.Table, b uintptr) {
		t.DisplayListBuilderRotate(b, degrees)
		r.transform = r.transform.Multiply(Rotate(degrees))
	})
}

// Transform concatenates m onto the current transform.
func (r *Recorder) Transform(m Matrix) error {
	return r.record(func(t *abi.Table, b uintptr) {
		t.DisplayListBuilderTransform(b, m.native())
		r.transform = r.transform.Multiply(m)
	})
}

// SetTransform replaces the current transform.
func (r *Recorder) SetTransform(m Matrix) error {
	return r.record(func(t *abi.Table, b uintptr) {
		t.DisplayListBuilderSetTransform(b, m.native())
		r.transform = m
	})
}

// ResetTransform sets the current transform to identity without popping
// the save stack.
func (r *Recorder) ResetTransform() error {
	return r.record(func(t *abi.Table, b uintptr) {
		t.DisplayListBuilderResetTransform(b)
		r.transform = Identity()
	})
}

// GetTransform returns the composed transform at the top of the stack.
func (r *Recorder) GetTransform() Matrix {
	return r.transform
}

// --------------------------------------------------------------------------
// Clipping
// --------------------------------------------------------------------------

func (r *Recorder) ClipRect(rect Rect, op ClipOperation) error {
	return r.record(func(t *abi.Table, b uintptr) { t.DisplayListBuilderClipRect(b, rect.native(), int32(op)) })
}

func (r *Recorder) ClipOval(oval Rect, op ClipOperation) error {
	return r.record(func(t *abi.Table, b uintptr) { t.DisplayListBuilderClipOval(b, oval.native(), int32(op)) })
}

func (r *Recorder) ClipRoundedRect(rect Rect, radii RoundingRadii, op ClipOperation) error {
	return r.record(func(t *abi.Table, b uintptr) {
		t.DisplayListBuilderClipRoundedRect(b, rect.native(), radii.native(), int32(op))
	})
}

func (r *Recorder) ClipPath(path *Path, op ClipOperation) error {
	pp, err := borrow(path, "path")
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(path)
	return r.record(func(t *abi.Table, b uintptr) { t.DisplayListBuilderClipPath(b, pp, int32(op)) })
}

// --------------------------------------------------------------------------
// Drawing
// --------------------------------------------------------------------------

// drawWith resolves a required paint before recording.
func (r *Recorder) drawWith(paint *Paint, f func(t *abi.Table, b, p uintptr)) error {
	pp, err := borrow(paint, "paint")
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(paint)
	return r.record(func(t *abi.Table, b uintptr) { f(t, b, pp) })
}

// DrawPaint fills the whole clip with paint.
func (r *Recorder) DrawPaint(paint *Paint) error {
	return r.drawWith(paint, func(t *abi.Table, b, p uintptr) { t.DisplayListBuilderDrawPaint(b, p) })
}

func (r *Recorder) DrawLine(from, to Point, paint *Paint) error {
	return r.drawWith(paint, func(t *abi.Table, b, p uintptr) {
		t.DisplayListBuilderDrawLine(b, from.native(), to.native(), p)
	})
}

// DrawDashedLine draws a line alternating on and off segments of the given
// lengths.
func (r *Recorder) DrawDashedLine(from, to Point, on, off float32, paint *Paint) error {
	return r.drawWith(paint, func(t *abi.Table, b, p uintptr) {
		t.DisplayListBuilderDrawDashedLine(b, from.native(), to.native(), on, off, p)
	})
}

func (r *Recorder) DrawRect(rect Rect, paint *Paint) error {
	return r.drawWith(paint, func(t *abi.Table, b, p uintptr) { t.DisplayListBuilderDrawRect(b, rect.native(), p) })
}

func (r *Recorder) DrawOval(oval Rect, paint *Paint) error {
	return r.drawWith(paint, func(t *abi.Table, b, p uintptr) { t.DisplayListBuilderDrawOval(b, oval.native(), p) })
}

func (r *Recorder) DrawRoundedRect(rect Rect, radii RoundingRadii, paint *Paint) error {
	return r.drawWith(paint, func(t *abi.Table, b, p uintptr) {
		t.DisplayListBuilderDrawRoundedRect(b, rect.native(), radii.native(), p)
	})
}

// DrawRoundedRectDifference fills the area inside outer but outside inner.
func (r *Recorder) DrawRoundedRectDifference(outer Rect, outerRadii RoundingRadii, inner Rect, innerRadii RoundingRadii, paint *Paint) error {
	return r.drawWith(paint, func(t *abi.Table, b, p uintptr) {
		t.DisplayListBuilderDrawRoundedRectDifference(b, outer.native(), outerRadii.native(), inner.native(), innerRadii.native(), p)
	})
}

func (r *Recorder) DrawPath(path *Path, paint *Paint) error {
	pp, err := borrow(path, "path")
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(path)
	return r.drawWith(paint, func(t *abi.Table, b, p uintptr) { t.DisplayListBuilderDrawPath(b, pp, p) })
}

// DrawShadow draws the shadow an occluder shaped like path casts at the
// given elevation.
func (r *Recorder) DrawShadow(path *Path, c Color, elevation float32, occluderTransparent bool, devicePixelRatio float32) error {
	pp, err := borrow(path, "path")
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(path)
	n := c.native()
	return r.record(func(t *abi.Table, b uintptr) {
		t.DisplayListBuilderDrawShadow(b, pp, &n, elevation, occluderTransparent, devicePixelRatio)
	})
}

// DrawTexture draws t with its top-left corner at p. paint may be nil.
func (r *Recorder) DrawTexture(tex *Texture, p Point, sampling TextureSampling, paint *Paint) error {
	tp, err := borrow(tex, "texture")
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(tex)
	pp, err := borrowOptional(paint)
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(paint)
	return r.record(func(t *abi.Table, b uintptr) {
		t.DisplayListBuilderDrawTexture(b, tp, p.native(), int32(sampling), pp)
	})
}

// DrawTextureRect draws the src region of t into dst. paint may be nil.
func (r *Recorder) DrawTextureRect(tex *Texture, src, dst Rect, sampling TextureSampling, paint *Paint) error {
	tp, err := borrow(tex, "texture")
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(tex)
	pp, err := borrowOptional(paint)
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(paint)
	return r.record(func(t *abi.Table, b uintptr) {
		t.DisplayListBuilderDrawTextureRect(b, tp, src.native(), dst.native(), int32(sampling), pp)
	})
}

// DrawCommandList replays a finished list into this recorder.
func (r *Recorder) DrawCommandList(list *CommandList, opacity float32) error {
	lp, err := borrow(list, "command list")
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(list)
	return r.record(func(t *abi.Table, b uintptr) { t.DisplayListBuilderDrawDisplayList(b, lp, opacity) })
}

// DrawParagraph draws laid out text with its top-left corner at p.
func (r *Recorder) DrawParagraph(para *Paragraph, p Point) error {
	pp, err := borrow(para, "paragraph")
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(para)
	return r.record(func(t *abi.Table, b uintptr) { t.DisplayListBuilderDrawParagraph(b, pp, p.native()) })
}

// --------------------------------------------------------------------------
// Finalization
// --------------------------------------------------------------------------

// Build finalizes the recorder into an immutable CommandList. It may be
// called once; later calls return ErrAlreadyFinalized. The recorder must
// still be disposed.
func (r *Recorder) Build() (*CommandList, error) {
	b, err := r.builder()
	if err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(r)
	ptr := r.api().DisplayListBuilderCreateDisplayListNew(b)
	h, err := fromOwned(r.Engine(), abi.KindDisplayList, ptr)
	if err != nil {
		return nil, err
	}
	r.finalized = true
	return &CommandList{Handle: h, cull: r.cull, ops: r.ops}, nil
}

// Finalized reports whether Build has succeeded.
func (r *Recorder) Finalized() bool { return r.finalized }
