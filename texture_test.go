package impeller

import (
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/impeller/internal/abi"
)

func TestPixelFormatFor(t *testing.T) {
	pf, err := PixelFormatFor(gputypes.TextureFormatRGBA8Unorm)
	require.NoError(t, err)
	assert.Equal(t, PixelFormatRGBA8888, pf)

	_, err = PixelFormatFor(gputypes.TextureFormatR8Unorm)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestTextureUploadPinsUntilRelease(t *testing.T) {
	e, fake := newTestEngine(t)
	ctx := metalContext(t, e)
	before := abi.Registered()

	pixels := []byte{
		1, 2, 3, 4, 5, 6, 7, 8,
		9, 10, 11, 12, 13, 14, 15, 16,
	}
	tex, err := ctx.NewTexture(PixelFormatRGBA8888, ISize{Width: 2, Height: 2}, pixels)
	require.NoError(t, err)
	assert.Equal(t, ISize{Width: 2, Height: 2}, tex.Size())
	assert.Equal(t, PixelFormatRGBA8888, tex.Format())
	assert.Equal(t, before+1, abi.Registered(), "upload stays pinned while the texture lives")

	tp, _ := tex.Borrow()
	obj, _ := fake.Object(tp)
	assert.Equal(t, pixels, obj.Contents)

	tex.Dispose()
	assert.Equal(t, before, abi.Registered(), "release callback must unpin the upload")
}

func TestTextureUploadFailureReleasesPin(t *testing.T) {
	e, fake := newTestEngine(t)
	ctx := metalContext(t, e)
	before := abi.Registered()

	fake.Fail("TextureCreateWithContentsNew", 1)
	_, err := ctx.NewTexture(PixelFormatRGBA8888, ISize{Width: 1, Height: 1}, make([]byte, 4))
	assert.ErrorIs(t, err, ErrCreation)
	assert.Equal(t, before, abi.Registered())
}

func TestTextureUploadValidation(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := metalContext(t, e)

	_, err := ctx.NewTexture(PixelFormatRGBA8888, ISize{}, nil)
	assert.Error(t, err)
	_, err = ctx.NewTexture(PixelFormatRGBA8888, ISize{Width: 2, Height: 2}, make([]byte, 15))
	assert.Error(t, err)
	_, err = ctx.NewTexture(PixelFormat(99), ISize{Width: 1, Height: 1}, make([]byte, 4))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = ctx.NewTextureFromImage(nil, ISize{})
	assert.ErrorIs(t, err, ErrNilArgument)
}

func TestTextureFromImage(t *testing.T) {
	e, fake := newTestEngine(t)
	ctx := metalContext(t, e)

	img := image.NewNRGBA(image.Rect(10, 10, 14, 12))
	for y := 10; y < 12; y++ {
		for x := 10; x < 14; x++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 255})
		}
	}

	tex, err := ctx.NewTextureFromImage(img, ISize{})
	require.NoError(t, err)
	defer tex.Dispose()
	assert.Equal(t, ISize{Width: 4, Height: 2}, tex.Size())
	tp, _ := tex.Borrow()
	obj, _ := fake.Object(tp)
	require.Len(t, obj.Contents, 4*2*4)
	assert.Equal(t, []byte{255, 0, 0, 255}, obj.Contents[:4])

	scaled, err := ctx.NewTextureFromImage(img, ISize{Width: 8, Height: 4})
	require.NoError(t, err)
	defer scaled.Dispose()
	sp, _ := scaled.Borrow()
	obj, _ = fake.Object(sp)
	assert.Len(t, obj.Contents, 8*4*4)
}

func TestTextureGLHandle(t *testing.T) {
	e, _ := newTestEngine(t)
	gl := glContext(t, e)

	tex, err := gl.NewTextureFromGLHandle(42, PixelFormatRGBA8888, ISize{Width: 4, Height: 4})
	require.NoError(t, err)
	defer tex.Dispose()
	h, err := tex.GLHandle()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), h)

	_, err = gl.NewTextureFromGLHandle(0, PixelFormatRGBA8888, ISize{Width: 4, Height: 4})
	assert.ErrorIs(t, err, ErrNilArgument)
	_, err = metalContext(t, e).NewTextureFromGLHandle(42, PixelFormatRGBA8888, ISize{Width: 4, Height: 4})
	assert.ErrorIs(t, err, ErrBackendMismatch)
}

func TestDrawTexture(t *testing.T) {
	e, fake := newTestEngine(t)
	ctx := metalContext(t, e)
	tex, err := ctx.NewTexture(PixelFormatRGBA8888, ISize{Width: 1, Height: 1}, make([]byte, 4))
	require.NoError(t, err)
	defer tex.Dispose()

	r := newRecorder(t, e, nil)
	require.NoError(t, r.DrawTexture(tex, Pt(0, 0), SamplingLinear, nil))
	require.NoError(t, r.DrawTextureRect(tex, Rect{Width: 1, Height: 1}, Rect{Width: 10, Height: 10}, SamplingNearest, mustPaint(t, e)))
	assert.ErrorIs(t, r.DrawTexture(nil, Pt(0, 0), SamplingLinear, nil), ErrNilArgument)

	rp, _ := r.Borrow()
	obj, _ := fake.Object(rp)
	assert.Equal(t, []string{"DrawTexture", "DrawTextureRect"}, obj.Ops)
}
