package impeller

import (
	"runtime"

	"github.com/gogpu/impeller/internal/abi"
)

// ImageFilter transforms the rendered image of a draw or a save layer.
type ImageFilter struct {
	*Handle
}

// ColorFilter transforms each color a draw produces.
type ColorFilter struct {
	*Handle
}

// MaskFilter transforms the coverage mask of a draw.
type MaskFilter struct {
	*Handle
}

func (e *Engine) imageFilter(ptr uintptr) (*ImageFilter, error) {
	h, err := fromOwned(e, abi.KindImageFilter, ptr)
	if err != nil {
		return nil, err
	}
	return &ImageFilter{Handle: h}, nil
}

// NewBlurFilter creates a Gaussian blur with the given standard deviations.
func (e *Engine) NewBlurFilter(sigmaX, sigmaY float32, tile TileMode) (*ImageFilter, error) {
	return e.imageFilter(e.api.ImageFilterCreateBlurNew(sigmaX, sigmaY, int32(tile)))
}

// NewDilateFilter creates a morphological dilation.
func (e *Engine) NewDilateFilter(radiusX, radiusY float32) (*ImageFilter, error) {
	return e.imageFilter(e.api.ImageFilterCreateDilateNew(radiusX, radiusY))
}

// NewErodeFilter creates a morphological erosion.
func (e *Engine) NewErodeFilter(radiusX, radiusY float32) (*ImageFilter, error) {
	return e.imageFilter(e.api.ImageFilterCreateErodeNew(radiusX, radiusY))
}

// NewMatrixFilter creates a filter that transforms the image by m.
func (e *Engine) NewMatrixFilter(m Matrix, sampling TextureSampling) (*ImageFilter, error) {
	return e.imageFilter(e.api.ImageFilterCreateMatrixNew(m.native(), int32(sampling)))
}

// NewComposeFilter creates a filter applying inner first, then outer. Both
// inputs may be disposed afterwards.
func (e *Engine) NewComposeFilter(outer, inner *ImageFilter) (*ImageFilter, error) {
	op, err := borrow(outer, "outer filter")
	if err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(outer)
	ip, err := borrow(inner, "inner filter")
	if err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(inner)
	return e.imageFilter(e.api.ImageFilterCreateComposeNew(op, ip))
}

func (e *Engine) colorFilter(ptr uintptr) (*ColorFilter, error) {
	h, err := fromOwned(e, abi.KindColorFilter, ptr)
	if err != nil {
		return nil, err
	}
	return &ColorFilter{Handle: h}, nil
}

// NewBlendColorFilter blends c into every color using mode.
func (e *Engine) NewBlendColorFilter(c Color, mode BlendMode) (*ColorFilter, error) {
	n := c.native()
	return e.colorFilter(e.api.ColorFilterCreateBlendNew(&n, int32(mode)))
}

// NewMatrixColorFilter transforms every color by m.
func (e *Engine) NewMatrixColorFilter(m ColorMatrix) (*ColorFilter, error) {
	n := abi.ColorMatrix(m)
	return e.colorFilter(e.api.ColorFilterCreateColorMatrixNew(&n))
}

// NewBlurMaskFilter blurs the coverage mask.
func (e *Engine) NewBlurMaskFilter(style BlurStyle, sigma float32) (*MaskFilter, error) {
	h, err := fromOwned(e, abi.KindMaskFilter, e.api.MaskFilterCreateBlurNew(int32(style), sigma))
	if err != nil {
		return nil, err
	}
	return &MaskFilter{Handle: h}, nil
}
