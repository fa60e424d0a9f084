package impeller

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/impeller/internal/abi"
)

func TestPaintSetters(t *testing.T) {
	e, _ := newTestEngine(t)
	p := mustPaint(t, e)

	require.NoError(t, p.SetDrawStyle(DrawStyleStroke))
	require.NoError(t, p.SetStrokeWidth(3))
	require.NoError(t, p.SetStrokeCap(CapRound))
	require.NoError(t, p.SetStrokeJoin(JoinBevel))
	require.NoError(t, p.SetStrokeMiter(4))
	require.NoError(t, p.SetBlendMode(BlendMultiply))
	assert.Error(t, p.SetBlendMode(BlendMode(-1)))
	assert.Error(t, p.SetBlendMode(BlendLuminosity+1))
}

func TestPaintAttachments(t *testing.T) {
	e, fake := newTestEngine(t)
	p := mustPaint(t, e)

	blur, err := e.NewBlurFilter(2, 2, TileClamp)
	require.NoError(t, err)
	mask, err := e.NewBlurMaskFilter(BlurNormal, 1.5)
	require.NoError(t, err)
	cf, err := e.NewMatrixColorFilter(GrayscaleColorMatrix())
	require.NoError(t, err)
	grad, err := e.NewLinearGradient(Pt(0, 0), Pt(10, 0), []GradientStop{
		{Offset: 0, Color: Black},
		{Offset: 1, Color: White},
	}, TileClamp, Identity())
	require.NoError(t, err)

	require.NoError(t, p.SetImageFilter(blur))
	require.NoError(t, p.SetMaskFilter(mask))
	require.NoError(t, p.SetColorFilter(cf))
	require.NoError(t, p.SetColorSource(grad))

	// Clearing is allowed.
	require.NoError(t, p.SetImageFilter(nil))
	require.NoError(t, p.SetColorSource(nil))

	blur.Dispose()
	assert.ErrorIs(t, p.SetImageFilter(blur), ErrUseAfterFree)

	mask.Dispose()
	cf.Dispose()
	grad.Dispose()
	assert.Zero(t, fake.LiveOf(abi.KindImageFilter))
}

func TestGradientStops(t *testing.T) {
	e, _ := newTestEngine(t)

	tests := []struct {
		name  string
		stops []GradientStop
		ok    bool
	}{
		{"none", nil, false},
		{"single", []GradientStop{{Offset: 0}}, false},
		{"two", []GradientStop{{Offset: 0}, {Offset: 1}}, true},
		{"equal offsets", []GradientStop{{Offset: 0}, {Offset: 0.5}, {Offset: 0.5}, {Offset: 1}}, true},
		{"decreasing", []GradientStop{{Offset: 0.6}, {Offset: 0.2}}, false},
		{"negative", []GradientStop{{Offset: -0.1}, {Offset: 1}}, false},
		{"above one", []GradientStop{{Offset: 0}, {Offset: 1.5}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := e.NewRadialGradient(Pt(5, 5), 5, tt.stops, TileMirror, Identity())
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			src.Dispose()
		})
	}

	sweep, err := e.NewSweepGradient(Pt(0, 0), 0, 270, []GradientStop{{0, Black}, {1, White}}, TileRepeat, Identity())
	require.NoError(t, err)
	sweep.Dispose()
}

func TestImageSource(t *testing.T) {
	e, _ := newTestEngine(t)
	tex, err := metalContext(t, e).NewTexture(PixelFormatRGBA8888, ISize{Width: 1, Height: 1}, make([]byte, 4))
	require.NoError(t, err)
	defer tex.Dispose()

	src, err := e.NewImageSource(tex, TileRepeat, TileRepeat, SamplingLinear, Scale(2, 2))
	require.NoError(t, err)
	src.Dispose()

	_, err = e.NewImageSource(nil, TileRepeat, TileRepeat, SamplingLinear, Identity())
	assert.ErrorIs(t, err, ErrNilArgument)
}

func TestComposeFilter(t *testing.T) {
	e, _ := newTestEngine(t)
	a, err := e.NewDilateFilter(1, 1)
	require.NoError(t, err)
	defer a.Dispose()
	b, err := e.NewErodeFilter(1, 1)
	require.NoError(t, err)
	defer b.Dispose()

	c, err := e.NewComposeFilter(a, b)
	require.NoError(t, err)
	c.Dispose()

	_, err = e.NewComposeFilter(a, nil)
	assert.ErrorIs(t, err, ErrNilArgument)

	m, err := e.NewMatrixFilter(Rotate(45), SamplingNearest)
	require.NoError(t, err)
	m.Dispose()

	bc, err := e.NewBlendColorFilter(RGBA(1, 0, 0, 0.5), BlendSourceOver)
	require.NoError(t, err)
	bc.Dispose()
}

func TestPathBuilder(t *testing.T) {
	e, fake := newTestEngine(t)
	b, err := e.NewPathBuilder()
	require.NoError(t, err)
	defer b.Dispose()

	require.NoError(t, b.MoveTo(Pt(0, 0)))
	require.NoError(t, b.LineTo(Pt(10, 0)))
	require.NoError(t, b.QuadraticCurveTo(Pt(15, 5), Pt(10, 10)))
	require.NoError(t, b.CubicCurveTo(Pt(5, 12), Pt(2, 12), Pt(0, 10)))
	require.NoError(t, b.Close())
	require.NoError(t, b.AddRect(Rect{X: 20, Y: 20, Width: 5, Height: 5}))

	copied, err := b.CopyPath(FillNonZero)
	require.NoError(t, err)
	defer copied.Dispose()
	taken, err := b.TakePath(FillOdd)
	require.NoError(t, err)
	defer taken.Dispose()
	empty, err := b.CopyPath(FillNonZero)
	require.NoError(t, err)
	defer empty.Dispose()

	cb, err := copied.Bounds()
	require.NoError(t, err)
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 25, Height: 25}, cb)

	cp, _ := copied.Borrow()
	tp, _ := taken.Borrow()
	ep, _ := empty.Borrow()
	co, _ := fake.Object(cp)
	to, _ := fake.Object(tp)
	eo, _ := fake.Object(ep)
	assert.Equal(t, co.Ops, to.Ops)
	assert.Empty(t, eo.Ops, "TakePath resets the builder")

	r := newRecorder(t, e, nil)
	require.NoError(t, r.DrawPath(copied, mustPaint(t, e)))
	require.NoError(t, r.ClipPath(taken, ClipDifference))
	require.NoError(t, r.DrawShadow(copied, Black, 4, false, 2))
}

func TestRectGeometry(t *testing.T) {
	r := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	assert.True(t, r.Contains(Pt(0, 0)))
	assert.False(t, r.Contains(Pt(10, 5)))
	assert.Equal(t, Rect{X: 0, Y: 0, Width: 20, Height: 15}, r.Union(Rect{X: 15, Y: 5, Width: 5, Height: 10}))
	assert.Equal(t, r, r.Union(Rect{}))
	assert.Equal(t, r, Rect{}.Union(r))
	assert.Equal(t, Rect{X: 1, Y: 2, Width: 3, Height: 4}, RectFromImage(image.Rect(1, 2, 4, 6)))
	assert.True(t, ISize{Width: 0, Height: 5}.IsEmpty())
}

func TestColorFrom(t *testing.T) {
	c := ColorFrom(color.NRGBA{R: 255, G: 0, B: 51, A: 255})
	assert.InDelta(t, 1, c.R, 1e-6)
	assert.InDelta(t, 0.2, c.B, 1e-6)
	assert.Equal(t, ColorSpaceSRGB, c.Space)
	assert.Equal(t, float32(0.5), White.WithAlpha(0.5).A)
}

func TestFontWeightOf(t *testing.T) {
	tests := []struct {
		css  int
		want FontWeight
	}{
		{0, FontWeight100},
		{100, FontWeight100},
		{400, FontWeightNormal},
		{449, FontWeight400},
		{450, FontWeight500},
		{700, FontWeightBold},
		{1000, FontWeight900},
	}
	for _, tt := range tests {
		if got := FontWeightOf(tt.css); got != tt.want {
			t.Errorf("FontWeightOf(%d) = %d, want %d", tt.css, got, tt.want)
		}
	}
}
