package impeller

import (
	"math"

	"github.com/gogpu/impeller/internal/abi"
)

// Matrix is a 4x4 transformation matrix in column-major order, the layout
// the engine expects. For 2D affine transforms only these entries matter:
//
//	| M[0]  M[4]  M[12] |
//	| M[1]  M[5]  M[13] |
//	|  0     0      1   |
//
// This represents the transformation:
//
//	x' = M[0]*x + M[4]*y + M[12]
//	y' = M[1]*x + M[5]*y + M[13]
type Matrix [16]float32

// Identity returns the identity transformation matrix.
func Identity() Matrix {
	return Matrix{0: 1, 5: 1, 10: 1, 15: 1}
}

// Translate creates a translation matrix.
func Translate(x, y float32) Matrix {
	m := Identity()
	m[12], m[13] = x, y
	return m
}

// Scale creates a scaling matrix.
func Scale(sx, sy float32) Matrix {
	m := Identity()
	m[0], m[5] = sx, sy
	return m
}

// Rotate creates a rotation matrix. The angle is in degrees, clockwise in
// a y-down coordinate system, matching the engine's Rotate.
func Rotate(degrees float32) Matrix {
	rad := float64(degrees) * math.Pi / 180
	sin, cos := math.Sincos(rad)
	m := Identity()
	m[0], m[1] = float32(cos), float32(sin)
	m[4], m[5] = float32(-sin), float32(cos)
	return m
}

// Multiply returns m * o. Applied to a point, o acts first and m second,
// so r.Multiply(Translate(x, y)) translates in r's local space.
func (m Matrix) Multiply(o Matrix) Matrix {
	var r Matrix
	for col := range 4 {
		for row := range 4 {
			var sum float32
			for k := range 4 {
				sum += m[k*4+row] * o[col*4+k]
			}
			r[col*4+row] = sum
		}
	}
	return r
}

// TransformPoint applies the transformation to a point.
func (m Matrix) TransformPoint(p Point) Point {
	x := m[0]*p.X + m[4]*p.Y + m[12]
	y := m[1]*p.X + m[5]*p.Y + m[13]
	w := m[3]*p.X + m[7]*p.Y + m[15]
	if w != 0 && w != 1 {
		x, y = x/w, y/w
	}
	return Point{X: x, Y: y}
}

// Invert returns the inverse of the 2D affine part of m.
// Returns the identity matrix if the matrix is not invertible.
func (m Matrix) Invert() Matrix {
	det := m.Determinant()
	if math.Abs(float64(det)) < 1e-10 {
		return Identity()
	}
	inv := 1 / det
	r := Identity()
	r[0] = m[5] * inv
	r[1] = -m[1] * inv
	r[4] = -m[4] * inv
	r[5] = m[0] * inv
	r[12] = (m[4]*m[13] - m[5]*m[12]) * inv
	r[13] = (m[1]*m[12] - m[0]*m[13]) * inv
	return r
}

// Determinant returns the determinant of the 2x2 linear part.
// A negative determinant means the transformation flips orientation.
func (m Matrix) Determinant() float32 {
	return m[0]*m[5] - m[4]*m[1]
}

// IsIdentity returns true if the matrix is the identity matrix.
func (m Matrix) IsIdentity() bool {
	const eps = 1e-6
	id := Identity()
	for i := range m {
		if math.Abs(float64(m[i]-id[i])) > eps {
			return false
		}
	}
	return true
}

// Translation returns the translation components of the matrix.
func (m Matrix) Translation() (x, y float32) {
	return m[12], m[13]
}

func (m Matrix) native() *abi.Matrix { n := abi.Matrix(m); return &n }

// ColorMatrix is a 4x5 row-major matrix applied to non-premultiplied RGBA
// colors. The fifth column is an offset.
type ColorMatrix [20]float32

// IdentityColorMatrix returns a color matrix that leaves colors unchanged.
func IdentityColorMatrix() ColorMatrix {
	return ColorMatrix{0: 1, 6: 1, 12: 1, 18: 1}
}

// GrayscaleColorMatrix returns a luminance-preserving desaturation.
func GrayscaleColorMatrix() ColorMatrix {
	const r, g, b = 0.2126, 0.7152, 0.0722
	return ColorMatrix{
		r, g, b, 0, 0,
		r, g, b, 0, 0,
		r, g, b, 0, 0,
		0, 0, 0, 1, 0,
	}
}
