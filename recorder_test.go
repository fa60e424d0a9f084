package impeller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRecorder(t *testing.T, e *Engine, cull *Rect) *Recorder {
	t.Helper()
	r, err := e.NewRecorder(cull)
	require.NoError(t, err)
	t.Cleanup(r.Dispose)
	return r
}

func TestRecorderSaveRestoreBalance(t *testing.T) {
	e, fake := newTestEngine(t)
	r := newRecorder(t, e, nil)

	assert.Equal(t, 1, r.SaveCount())
	assert.ErrorIs(t, r.Restore(), ErrUnbalancedRestore)

	require.NoError(t, r.Save())
	require.NoError(t, r.SaveLayer(Rect{Width: 10, Height: 10}, nil, nil))
	assert.Equal(t, 3, r.SaveCount())

	require.NoError(t, r.Restore())
	require.NoError(t, r.Restore())
	assert.Equal(t, 1, r.SaveCount())
	assert.ErrorIs(t, r.Restore(), ErrUnbalancedRestore)

	ptr, _ := r.Borrow()
	obj, ok := fake.Object(ptr)
	require.True(t, ok)
	assert.Equal(t, uint32(1), obj.SaveCount)
	assert.Equal(t, []string{"Save", "SaveLayer", "Restore", "Restore"}, obj.Ops,
		"an unbalanced restore must not reach the engine")
}

func TestRecorderRestoreRestoresTransform(t *testing.T) {
	e, _ := newTestEngine(t)
	r := newRecorder(t, e, nil)

	require.NoError(t, r.Translate(10, 20))
	require.NoError(t, r.Save())
	require.NoError(t, r.Scale(2, 2))
	require.NoError(t, r.Rotate(90))
	assert.NotEqual(t, Translate(10, 20), r.GetTransform())

	require.NoError(t, r.Restore())
	assert.Equal(t, Translate(10, 20), r.GetTransform())
}

func TestRecorderTransformComposes(t *testing.T) {
	e, _ := newTestEngine(t)
	r := newRecorder(t, e, nil)

	require.NoError(t, r.Translate(10, 0))
	require.NoError(t, r.Scale(2, 2))
	p := r.GetTransform().TransformPoint(Pt(1, 1))
	assert.InDelta(t, 12, p.X, eps)
	assert.InDelta(t, 2, p.Y, eps)

	require.NoError(t, r.SetTransform(Scale(3, 3)))
	assert.Equal(t, Scale(3, 3), r.GetTransform())
}

func TestRecorderResetTransformKeepsStack(t *testing.T) {
	e, _ := newTestEngine(t)
	r := newRecorder(t, e, nil)

	require.NoError(t, r.Save())
	require.NoError(t, r.Translate(5, 5))
	require.NoError(t, r.Save())
	require.NoError(t, r.ResetTransform())

	assert.True(t, r.GetTransform().IsIdentity())
	assert.Equal(t, 3, r.SaveCount())

	require.NoError(t, r.Restore())
	assert.Equal(t, Translate(5, 5), r.GetTransform())
}

func TestRecorderRestoreToCount(t *testing.T) {
	e, _ := newTestEngine(t)
	r := newRecorder(t, e, nil)

	for range 4 {
		require.NoError(t, r.Save())
		require.NoError(t, r.Translate(1, 0))
	}
	assert.Equal(t, 5, r.SaveCount())

	require.NoError(t, r.RestoreToCount(2))
	assert.Equal(t, 2, r.SaveCount())
	x, _ := r.GetTransform().Translation()
	assert.InDelta(t, 1, x, eps)

	require.NoError(t, r.RestoreToCount(2), "restoring to the current count is a no-op")
	assert.ErrorIs(t, r.RestoreToCount(0), ErrUnbalancedRestore)
	assert.ErrorIs(t, r.RestoreToCount(3), ErrUnbalancedRestore)
}

func TestRecorderBuild(t *testing.T) {
	e, fake := newTestEngine(t)
	cull := Rect{Width: 100, Height: 50}
	r := newRecorder(t, e, &cull)
	paint := mustPaint(t, e)

	require.NoError(t, r.DrawPaint(paint))
	require.NoError(t, r.DrawRect(Rect{X: 1, Y: 1, Width: 4, Height: 4}, paint))
	require.NoError(t, r.DrawLine(Pt(0, 0), Pt(10, 10), paint))

	list, err := r.Build()
	require.NoError(t, err)
	defer list.Dispose()
	assert.True(t, r.Finalized())
	assert.Equal(t, 3, list.Ops())
	bounds, ok := list.Bounds()
	assert.True(t, ok)
	assert.Equal(t, cull, bounds)

	lp, _ := list.Borrow()
	obj, _ := fake.Object(lp)
	assert.Equal(t, []string{"DrawPaint", "DrawRect", "DrawLine"}, obj.Ops)

	_, err = r.Build()
	assert.ErrorIs(t, err, ErrAlreadyFinalized)
	assert.ErrorIs(t, r.DrawPaint(paint), ErrAlreadyFinalized)
	assert.ErrorIs(t, r.Save(), ErrAlreadyFinalized)
	assert.ErrorIs(t, r.Restore(), ErrAlreadyFinalized)
}

func TestRecorderUnboundedList(t *testing.T) {
	e, _ := newTestEngine(t)
	r := newRecorder(t, e, nil)
	list, err := r.Build()
	require.NoError(t, err)
	defer list.Dispose()
	_, ok := list.Bounds()
	assert.False(t, ok)
	assert.Zero(t, list.Ops())
}

func TestRecorderDisposeAfterBuild(t *testing.T) {
	e, fake := newTestEngine(t)
	r, err := e.NewRecorder(nil)
	require.NoError(t, err)
	rp, _ := r.Borrow()

	list, err := r.Build()
	require.NoError(t, err)
	r.Dispose()
	r.Dispose()
	assert.Equal(t, 1, fake.Deallocs(rp))

	// The list outlives its recorder.
	lp, err := list.Borrow()
	require.NoError(t, err)
	assert.Zero(t, fake.Deallocs(lp))
	list.Dispose()
	assert.Equal(t, 1, fake.Deallocs(lp))

	_, err = r.Build()
	assert.ErrorIs(t, err, ErrUseAfterFree)
}

func TestRecorderRejectsNilAndReleasedObjects(t *testing.T) {
	e, fake := newTestEngine(t)
	r := newRecorder(t, e, nil)

	assert.ErrorIs(t, r.DrawRect(Rect{Width: 1, Height: 1}, nil), ErrNilArgument)
	assert.ErrorIs(t, r.DrawPath(nil, nil), ErrNilArgument)
	assert.ErrorIs(t, r.DrawCommandList(nil, 1), ErrNilArgument)
	assert.ErrorIs(t, r.ClipPath(nil, ClipIntersect), ErrNilArgument)

	p, err := e.NewPaint()
	require.NoError(t, err)
	p.Dispose()
	assert.ErrorIs(t, r.DrawPaint(p), ErrUseAfterFree)
	assert.ErrorIs(t, r.SaveLayer(Rect{}, p, nil), ErrUseAfterFree)

	rp, _ := r.Borrow()
	obj, _ := fake.Object(rp)
	assert.Empty(t, obj.Ops)
}

func TestRecorderNestedCommandList(t *testing.T) {
	e, fake := newTestEngine(t)
	paint := mustPaint(t, e)

	inner := newRecorder(t, e, nil)
	require.NoError(t, inner.DrawOval(Rect{Width: 5, Height: 5}, paint))
	child, err := inner.Build()
	require.NoError(t, err)
	defer child.Dispose()

	outer := newRecorder(t, e, nil)
	require.NoError(t, outer.ClipRect(Rect{Width: 10, Height: 10}, ClipIntersect))
	require.NoError(t, outer.DrawCommandList(child, 0.5))
	require.NoError(t, outer.DrawCommandList(child, 1))
	parent, err := outer.Build()
	require.NoError(t, err)
	defer parent.Dispose()

	pp, _ := parent.Borrow()
	obj, _ := fake.Object(pp)
	assert.Equal(t, []string{"ClipRect", "DrawDisplayList", "DrawDisplayList"}, obj.Ops)
}
