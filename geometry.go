package impeller

import (
	"image"
	"image/color"

	"github.com/gogpu/impeller/internal/abi"
)

// Point is a location in logical pixels.
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float32) Point { return Point{X: x, Y: y} }

// Size is a floating point extent.
type Size struct {
	Width, Height float32
}

// ISize is an integer extent in physical pixels.
type ISize struct {
	Width, Height int64
}

// IsEmpty reports whether either dimension is not positive.
func (s ISize) IsEmpty() bool { return s.Width <= 0 || s.Height <= 0 }

// Rect is an axis-aligned rectangle given by its origin and size.
type Rect struct {
	X, Y, Width, Height float32
}

// RectFromImage converts an image.Rectangle.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{X: float32(r.Min.X), Y: float32(r.Min.Y), Width: float32(r.Dx()), Height: float32(r.Dy())}
}

// IsEmpty returns true if the rectangle has zero or negative area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains returns true if p lies inside r. The right and bottom edges are
// exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Union returns the smallest rectangle containing both r and o. Empty
// rectangles are ignored.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.X+r.Width, o.X+o.Width), max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// RoundingRadii holds per-corner radii for rounded rectangles.
type RoundingRadii struct {
	TopLeft, BottomLeft, TopRight, BottomRight Point
}

// UniformRadii returns radii with every corner set to r.
func UniformRadii(r float32) RoundingRadii {
	p := Point{X: r, Y: r}
	return RoundingRadii{TopLeft: p, BottomLeft: p, TopRight: p, BottomRight: p}
}

// ColorSpace selects how color components are interpreted.
type ColorSpace int32

const (
	ColorSpaceSRGB ColorSpace = iota
	ColorSpaceExtendedSRGB
	ColorSpaceDisplayP3
)

// Color is a non-premultiplied RGBA color with float components in [0, 1].
type Color struct {
	R, G, B, A float32
	Space      ColorSpace
}

// RGBA returns an sRGB color.
func RGBA(r, g, b, a float32) Color { return Color{R: r, G: g, B: b, A: a} }

// Common colors.
var (
	Transparent = Color{}
	Black       = RGBA(0, 0, 0, 1)
	White       = RGBA(1, 1, 1, 1)
)

// ColorFrom converts any image/color value to an sRGB Color.
func ColorFrom(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA(float32(n.R)/255, float32(n.G)/255, float32(n.B)/255, float32(n.A)/255)
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float32) Color {
	c.A = a
	return c
}

func (c Color) native() abi.Color {
	return abi.Color{R: c.R, G: c.G, B: c.B, A: c.A, Space: int32(c.Space)}
}

func (p Point) native() *abi.Point { n := abi.Point(p); return &n }

func (r Rect) native() *abi.Rect { n := abi.Rect(r); return &n }

func (r RoundingRadii) native() *abi.RoundingRadii {
	return &abi.RoundingRadii{
		TopLeft:     abi.Point(r.TopLeft),
		BottomLeft:  abi.Point(r.BottomLeft),
		TopRight:    abi.Point(r.TopRight),
		BottomRight: abi.Point(r.BottomRight),
	}
}
