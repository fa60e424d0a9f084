package impeller

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/impeller/internal/abi"
)

// Surface is a presentable render target wrapped around a platform
// drawable, texture or framebuffer. A Surface serves a single frame: once
// presented it cannot be drawn to or presented again.
//
// The Context a surface was created from must outlive it.
type Surface struct {
	*Handle

	mu    sync.Mutex
	spent bool
}

func newSurface(e *Engine, ptr uintptr) (*Surface, error) {
	h, err := fromOwned(e, abi.KindSurface, ptr)
	if err != nil {
		return nil, err
	}
	return &Surface{Handle: h}, nil
}

// contextFor validates ctx for wrapping a surface of backend want.
func contextFor(ctx *Context, want Backend, target string) (uintptr, error) {
	if ctx == nil {
		return 0, fmt.Errorf("%w: context", ErrNilArgument)
	}
	if ctx.backend != want {
		return 0, fmt.Errorf("%w: %s needs a %s context, got %s", ErrBackendMismatch, target, want, ctx.backend)
	}
	return ctx.Borrow()
}

// WrapMetalDrawable wraps a CAMetalDrawable.
func WrapMetalDrawable(ctx *Context, drawable uintptr) (*Surface, error) {
	cp, err := contextFor(ctx, BackendMetal, "metal drawable")
	if err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(ctx)
	if drawable == 0 {
		return nil, fmt.Errorf("%w: metal drawable", ErrNilArgument)
	}
	create := ctx.api().SurfaceCreateWrappedMetalDrawableNew
	if create == nil {
		return nil, fmt.Errorf("%w: metal surfaces", ErrUnsupported)
	}
	return newSurface(ctx.Engine(), create(cp, drawable))
}

// WrapMetalTexture wraps an MTLTexture.
func WrapMetalTexture(ctx *Context, texture uintptr) (*Surface, error) {
	cp, err := contextFor(ctx, BackendMetal, "metal texture")
	if err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(ctx)
	if texture == 0 {
		return nil, fmt.Errorf("%w: metal texture", ErrNilArgument)
	}
	create := ctx.api().SurfaceCreateWrappedMetalTextureNew
	if create == nil {
		return nil, fmt.Errorf("%w: metal surfaces", ErrUnsupported)
	}
	return newSurface(ctx.Engine(), create(cp, texture))
}

// WrapFramebuffer wraps an OpenGL framebuffer object of the given format
// and size. fbo must not be zero.
func WrapFramebuffer(ctx *Context, fbo uint64, format gputypes.TextureFormat, size ISize) (*Surface, error) {
	cp, err := contextFor(ctx, BackendOpenGLES, "framebuffer")
	if err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(ctx)
	if fbo == 0 {
		return nil, fmt.Errorf("%w: framebuffer object", ErrNilArgument)
	}
	if size.IsEmpty() {
		return nil, fmt.Errorf("impeller: invalid framebuffer size %dx%d", size.Width, size.Height)
	}
	pf, err := PixelFormatFor(format)
	if err != nil {
		return nil, err
	}
	create := ctx.api().SurfaceCreateWrappedFBONew
	if create == nil {
		return nil, fmt.Errorf("%w: framebuffer surfaces", ErrUnsupported)
	}
	n := abi.ISize(size)
	return newSurface(ctx.Engine(), create(cp, fbo, int32(pf), &n))
}

// DrawCommandList renders list into the surface. It returns false on a
// transient GPU failure, when the surface has already been presented, or
// when either object has been released.
func (s *Surface) DrawCommandList(list *CommandList) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spent {
		return false
	}
	sp, err := s.Borrow()
	if err != nil {
		return false
	}
	defer runtime.KeepAlive(s)
	lp, err := borrow(list, "command list")
	if err != nil {
		return false
	}
	defer runtime.KeepAlive(list)
	ok := s.api().SurfaceDrawDisplayList(sp, lp)
	Logger().Debug("impeller: surface draw", "success", ok)
	return ok
}

// Present shows the surface contents. A surface can be presented once;
// later calls return false.
func (s *Surface) Present() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.spent {
		return false
	}
	sp, err := s.Borrow()
	if err != nil {
		return false
	}
	defer runtime.KeepAlive(s)
	s.spent = true
	return s.api().SurfacePresent(sp)
}
