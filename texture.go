package impeller

import (
	"fmt"
	"image"
	"runtime"
	"unsafe"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"

	"github.com/gogpu/impeller/internal/abi"
)

// Texture is GPU image data owned by a context.
type Texture struct {
	*Handle
	size   ISize
	format PixelFormat
}

// Size returns the texture extent in pixels.
func (t *Texture) Size() ISize { return t.size }

// Format returns the pixel format.
func (t *Texture) Format() PixelFormat { return t.format }

// PixelFormatFor maps a WebGPU texture format onto the engine's pixel
// formats.
func PixelFormatFor(f gputypes.TextureFormat) (PixelFormat, error) {
	switch f {
	case gputypes.TextureFormatRGBA8Unorm:
		return PixelFormatRGBA8888, nil
	}
	return 0, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
}

func bytesPerPixel(f PixelFormat) (int64, error) {
	switch f {
	case PixelFormatRGBA8888:
		return 4, nil
	}
	return 0, fmt.Errorf("%w: %d", ErrUnsupportedFormat, int32(f))
}

// NewTexture uploads tightly packed pixels. The slice is pinned and handed
// to the engine without copying, so it must not be modified until the
// texture has been disposed.
func (c *Context) NewTexture(format PixelFormat, size ISize, pixels []byte) (*Texture, error) {
	if size.IsEmpty() {
		return nil, fmt.Errorf("impeller: invalid texture size %dx%d", size.Width, size.Height)
	}
	bpp, err := bytesPerPixel(format)
	if err != nil {
		return nil, err
	}
	if want := size.Width * size.Height * bpp; int64(len(pixels)) != want {
		return nil, fmt.Errorf("impeller: texture data is %d bytes, want %d", len(pixels), want)
	}
	cp, err := c.Borrow()
	if err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(c)

	// The engine may read the pixels after this call returns; they stay
	// pinned until it invokes the release callback.
	var pinner runtime.Pinner
	pinner.Pin(&pixels[0])
	id := abi.Register(func() {
		pinner.Unpin()
		runtime.KeepAlive(pixels)
	})

	desc := abi.TextureDescriptor{PixelFormat: int32(format), Size: abi.ISize(size), MipCount: 1}
	mapping := abi.Mapping{
		Data:      unsafe.Pointer(&pixels[0]),
		Length:    uint64(len(pixels)),
		OnRelease: abi.ReleaseCallback(),
	}
	ptr := c.api().TextureCreateWithContentsNew(cp, &desc, &mapping, id)
	if ptr == 0 {
		abi.ReleaseContents(id)
	}
	h, err := fromOwned(c.Engine(), abi.KindTexture, ptr)
	if err != nil {
		return nil, err
	}
	Logger().Debug("impeller: texture created", "width", size.Width, "height", size.Height, "format", int32(format))
	return &Texture{Handle: h, size: size, format: format}, nil
}

// NewTextureFromImage uploads img as premultiplied RGBA. A non-empty size
// rescales the image with bilinear filtering; otherwise the image's own
// bounds are used.
func (c *Context) NewTextureFromImage(img image.Image, size ISize) (*Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: image", ErrNilArgument)
	}
	src := img.Bounds()
	if size.IsEmpty() {
		size = ISize{Width: int64(src.Dx()), Height: int64(src.Dy())}
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(size.Width), int(size.Height)))
	if src.Dx() == dst.Rect.Dx() && src.Dy() == dst.Rect.Dy() {
		draw.Copy(dst, image.Point{}, img, src, draw.Src, nil)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Rect, img, src, draw.Src, nil)
	}
	return c.NewTexture(PixelFormatRGBA8888, size, dst.Pix)
}

// NewTextureFromGLHandle adopts an existing OpenGL texture. The GL texture
// remains owned by the caller.
func (c *Context) NewTextureFromGLHandle(handle uint64, format PixelFormat, size ISize) (*Texture, error) {
	if c.backend != BackendOpenGLES {
		return nil, fmt.Errorf("%w: GL texture on %s context", ErrBackendMismatch, c.backend)
	}
	if handle == 0 {
		return nil, fmt.Errorf("%w: GL texture handle", ErrNilArgument)
	}
	create := c.api().TextureCreateWithOpenGLTextureHandleNew
	if create == nil {
		return nil, fmt.Errorf("%w: GL textures", ErrUnsupported)
	}
	cp, err := c.Borrow()
	if err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(c)
	desc := abi.TextureDescriptor{PixelFormat: int32(format), Size: abi.ISize(size), MipCount: 1}
	h, err := fromOwned(c.Engine(), abi.KindTexture, create(cp, &desc, handle))
	if err != nil {
		return nil, err
	}
	return &Texture{Handle: h, size: size, format: format}, nil
}

// GLHandle returns the OpenGL name of a texture on an OpenGL ES context.
func (t *Texture) GLHandle() (uint64, error) {
	ptr, err := t.Borrow()
	if err != nil {
		return 0, err
	}
	defer runtime.KeepAlive(t)
	if t.api().TextureGetOpenGLHandle == nil {
		return 0, fmt.Errorf("%w: GL textures", ErrUnsupported)
	}
	return t.api().TextureGetOpenGLHandle(ptr), nil
}
