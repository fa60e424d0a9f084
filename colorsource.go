package impeller

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gogpu/impeller/internal/abi"
)

// ColorSource is a shader that supplies colors in place of a paint's color.
type ColorSource struct {
	*Handle
}

// GradientStop is one color position along a gradient.
type GradientStop struct {
	Offset float32
	Color  Color
}

var errStops = errors.New("impeller: gradient needs at least two stops with non-decreasing offsets in [0, 1]")

// splitStops validates stops and converts them into the parallel arrays the
// engine expects.
func splitStops(stops []GradientStop) ([]abi.Color, []float32, error) {
	if len(stops) < 2 {
		return nil, nil, errStops
	}
	colors := make([]abi.Color, len(stops))
	offsets := make([]float32, len(stops))
	prev := float32(0)
	for i, s := range stops {
		if s.Offset < prev || s.Offset > 1 {
			return nil, nil, fmt.Errorf("%w: stop %d at %v", errStops, i, s.Offset)
		}
		prev = s.Offset
		colors[i] = s.Color.native()
		offsets[i] = s.Offset
	}
	return colors, offsets, nil
}

func (e *Engine) colorSource(ptr uintptr) (*ColorSource, error) {
	h, err := fromOwned(e, abi.KindColorSource, ptr)
	if err != nil {
		return nil, err
	}
	return &ColorSource{Handle: h}, nil
}

// NewLinearGradient creates a gradient from start to end, transformed by m.
func (e *Engine) NewLinearGradient(start, end Point, stops []GradientStop, tile TileMode, m Matrix) (*ColorSource, error) {
	colors, offsets, err := splitStops(stops)
	if err != nil {
		return nil, err
	}
	return e.colorSource(e.api.ColorSourceCreateLinearGradientNew(
		start.native(), end.native(), uint32(len(stops)), &colors[0], &offsets[0], int32(tile), m.native()))
}

// NewRadialGradient creates a gradient radiating from center.
func (e *Engine) NewRadialGradient(center Point, radius float32, stops []GradientStop, tile TileMode, m Matrix) (*ColorSource, error) {
	colors, offsets, err := splitStops(stops)
	if err != nil {
		return nil, err
	}
	return e.colorSource(e.api.ColorSourceCreateRadialGradientNew(
		center.native(), radius, uint32(len(stops)), &colors[0], &offsets[0], int32(tile), m.native()))
}

// NewSweepGradient creates an angular gradient around center between
// startDegrees and endDegrees.
func (e *Engine) NewSweepGradient(center Point, startDegrees, endDegrees float32, stops []GradientStop, tile TileMode, m Matrix) (*ColorSource, error) {
	colors, offsets, err := splitStops(stops)
	if err != nil {
		return nil, err
	}
	return e.colorSource(e.api.ColorSourceCreateSweepGradientNew(
		center.native(), startDegrees, endDegrees, uint32(len(stops)), &colors[0], &offsets[0], int32(tile), m.native()))
}

// NewImageSource creates a shader sampling t.
func (e *Engine) NewImageSource(t *Texture, tileX, tileY TileMode, sampling TextureSampling, m Matrix) (*ColorSource, error) {
	tp, err := borrow(t, "texture")
	if err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(t)
	return e.colorSource(e.api.ColorSourceCreateImageNew(tp, int32(tileX), int32(tileY), int32(sampling), m.native()))
}
