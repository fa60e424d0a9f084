package impeller

import (
	"runtime"

	"github.com/gogpu/impeller/internal/abi"
)

// Path is an immutable vector path.
type Path struct {
	*Handle
}

// Bounds returns the axis-aligned bounding box of the path.
func (p *Path) Bounds() (Rect, error) {
	ptr, err := p.Borrow()
	if err != nil {
		return Rect{}, err
	}
	defer runtime.KeepAlive(p)
	var r abi.Rect
	p.api().PathGetBounds(ptr, &r)
	return Rect(r), nil
}

// PathBuilder accumulates path segments. CopyPath snapshots the segments so
// far; TakePath snapshots them and resets the builder.
type PathBuilder struct {
	*Handle
}

// NewPathBuilder creates an empty path builder.
func (e *Engine) NewPathBuilder() (*PathBuilder, error) {
	h, err := fromOwned(e, abi.KindPathBuilder, e.api.PathBuilderNew())
	if err != nil {
		return nil, err
	}
	return &PathBuilder{Handle: h}, nil
}

// do runs f with the builder's pointer.
func (b *PathBuilder) do(f func(t *abi.Table, ptr uintptr)) error {
	ptr, err := b.Borrow()
	if err != nil {
		return err
	}
	defer runtime.KeepAlive(b)
	f(b.api(), ptr)
	return nil
}

// MoveTo starts a new contour at p.
func (b *PathBuilder) MoveTo(p Point) error {
	return b.do(func(t *abi.Table, ptr uintptr) { t.PathBuilderMoveTo(ptr, p.native()) })
}

// LineTo adds a straight segment to p.
func (b *PathBuilder) LineTo(p Point) error {
	return b.do(func(t *abi.Table, ptr uintptr) { t.PathBuilderLineTo(ptr, p.native()) })
}

// QuadraticCurveTo adds a quadratic Bézier segment.
func (b *PathBuilder) QuadraticCurveTo(cp, end Point) error {
	return b.do(func(t *abi.Table, ptr uintptr) { t.PathBuilderQuadraticCurveTo(ptr, cp.native(), end.native()) })
}

// CubicCurveTo adds a cubic Bézier segment.
func (b *PathBuilder) CubicCurveTo(cp1, cp2, end Point) error {
	return b.do(func(t *abi.Table, ptr uintptr) {
		t.PathBuilderCubicCurveTo(ptr, cp1.native(), cp2.native(), end.native())
	})
}

// AddRect adds a closed rectangle contour.
func (b *PathBuilder) AddRect(r Rect) error {
	return b.do(func(t *abi.Table, ptr uintptr) { t.PathBuilderAddRect(ptr, r.native()) })
}

// AddArc adds an arc of the ellipse inscribed in oval, from startDegrees
// to endDegrees clockwise.
func (b *PathBuilder) AddArc(oval Rect, startDegrees, endDegrees float32) error {
	return b.do(func(t *abi.Table, ptr uintptr) { t.PathBuilderAddArc(ptr, oval.native(), startDegrees, endDegrees) })
}

// AddOval adds the ellipse inscribed in oval.
func (b *PathBuilder) AddOval(oval Rect) error {
	return b.do(func(t *abi.Table, ptr uintptr) { t.PathBuilderAddOval(ptr, oval.native()) })
}

// AddRoundedRect adds a rounded rectangle contour.
func (b *PathBuilder) AddRoundedRect(r Rect, radii RoundingRadii) error {
	return b.do(func(t *abi.Table, ptr uintptr) { t.PathBuilderAddRoundedRect(ptr, r.native(), radii.native()) })
}

// Close closes the current contour.
func (b *PathBuilder) Close() error {
	return b.do(func(t *abi.Table, ptr uintptr) { t.PathBuilderClose(ptr) })
}

// CopyPath returns a path of the segments added so far. The builder keeps
// its contents.
func (b *PathBuilder) CopyPath(fill FillType) (*Path, error) {
	return b.path(fill, b.api().PathBuilderCopyPathNew)
}

// TakePath returns a path of the segments added so far and resets the
// builder.
func (b *PathBuilder) TakePath(fill FillType) (*Path, error) {
	return b.path(fill, b.api().PathBuilderTakePathNew)
}

func (b *PathBuilder) path(fill FillType, create func(uintptr, int32) uintptr) (*Path, error) {
	ptr, err := b.Borrow()
	if err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(b)
	h, err := fromOwned(b.Engine(), abi.KindPath, create(ptr, int32(fill)))
	if err != nil {
		return nil, err
	}
	return &Path{Handle: h}, nil
}
