package impeller

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/gogpu/impeller/internal/abi"
)

// Backend is the graphics API a Context renders with.
type Backend int

const (
	BackendMetal Backend = iota
	BackendOpenGLES
	BackendVulkan
)

func (b Backend) String() string {
	switch b {
	case BackendMetal:
		return "metal"
	case BackendOpenGLES:
		return "opengles"
	case BackendVulkan:
		return "vulkan"
	}
	return fmt.Sprintf("Backend(%d)", int(b))
}

// ProcResolver resolves an OpenGL ES function by name, typically through
// eglGetProcAddress. It returns 0 for unknown functions.
type ProcResolver func(name string) uintptr

// VulkanProcResolver resolves a Vulkan function for instance, typically
// through vkGetInstanceProcAddr. instance is 0 for global commands.
type VulkanProcResolver func(instance uintptr, name string) uintptr

// VulkanSettings configures NewVulkanContext.
type VulkanSettings struct {
	Resolve          VulkanProcResolver
	EnableValidation bool
}

// VulkanInfo exposes the Vulkan objects behind a Vulkan context.
type VulkanInfo struct {
	Instance                 uintptr
	PhysicalDevice           uintptr
	LogicalDevice            uintptr
	GraphicsQueueFamilyIndex uint32
	GraphicsQueueIndex       uint32
}

// Context is a rendering context bound to one backend. Resolver callbacks
// passed at creation stay registered until the native context has been
// deallocated, since the engine may call them at any time before that.
type Context struct {
	*Handle
	backend Backend
	pin     *resolverPin
}

// resolverPin keeps a resolver registered while any native object that may
// call it is alive. Objects that hold a native reference to the context,
// such as swapchains, take their own share.
type resolverPin struct {
	mu   sync.Mutex
	id   uintptr
	refs int
}

func (p *resolverPin) acquire() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refs++
}

func (p *resolverPin) release() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refs--
	if p.refs == 0 {
		abi.Unregister(p.id)
	}
}

// Backend returns the graphics API of c.
func (c *Context) Backend() Backend { return c.backend }

// NewMetalContext creates a Metal context.
func (e *Engine) NewMetalContext() (*Context, error) {
	if e.api.ContextCreateMetalNew == nil {
		return nil, fmt.Errorf("%w: metal", ErrUnsupported)
	}
	return e.newContext(BackendMetal, e.api.ContextCreateMetalNew(e.version), 0)
}

// NewOpenGLESContext creates an OpenGL ES context whose functions are looked
// up through resolve. The GL context must be current on the calling thread.
func (e *Engine) NewOpenGLESContext(resolve ProcResolver) (*Context, error) {
	if resolve == nil {
		return nil, fmt.Errorf("%w: proc resolver", ErrNilArgument)
	}
	if e.api.ContextCreateOpenGLESNew == nil {
		return nil, fmt.Errorf("%w: opengles", ErrUnsupported)
	}
	id := abi.Register(abi.ProcResolver(resolve))
	ptr := e.api.ContextCreateOpenGLESNew(e.version, abi.ProcAddressCallback(), id)
	return e.newContext(BackendOpenGLES, ptr, id)
}

// NewVulkanContext creates a Vulkan context whose functions are looked up
// through s.Resolve.
func (e *Engine) NewVulkanContext(s VulkanSettings) (*Context, error) {
	if s.Resolve == nil {
		return nil, fmt.Errorf("%w: vulkan proc resolver", ErrNilArgument)
	}
	if e.api.ContextCreateVulkanNew == nil {
		return nil, fmt.Errorf("%w: vulkan", ErrUnsupported)
	}
	id := abi.Register(abi.VulkanProcResolver(s.Resolve))
	settings := abi.VulkanSettings{
		UserData:            id,
		ProcAddressCallback: abi.VulkanProcAddressCallback(),
		EnableValidation:    s.EnableValidation,
	}
	ptr := e.api.ContextCreateVulkanNew(e.version, &settings)
	return e.newContext(BackendVulkan, ptr, id)
}

// newContext wraps ptr. resolverID, when non-zero, is unregistered once the
// native context is gone, or immediately if creation failed.
func (e *Engine) newContext(b Backend, ptr, resolverID uintptr) (*Context, error) {
	h, err := fromOwned(e, abi.KindContext, ptr)
	if err != nil {
		if resolverID != 0 {
			abi.Unregister(resolverID)
		}
		return nil, fmt.Errorf("%s context: %w", b, err)
	}
	c := &Context{Handle: h, backend: b}
	if resolverID != 0 {
		c.pin = &resolverPin{id: resolverID, refs: 1}
		h.onDealloc(c.pin.release)
	}
	Logger().Info("impeller: context created", "backend", b.String(), "version", VersionString(e.version))
	return c, nil
}

// VulkanInfo returns the Vulkan instance and device backing c.
func (c *Context) VulkanInfo() (VulkanInfo, error) {
	if c.backend != BackendVulkan {
		return VulkanInfo{}, fmt.Errorf("%w: %s", ErrBackendMismatch, c.backend)
	}
	ptr, err := c.Borrow()
	if err != nil {
		return VulkanInfo{}, err
	}
	defer runtime.KeepAlive(c)
	if c.api().ContextGetVulkanInfo == nil {
		return VulkanInfo{}, fmt.Errorf("%w: vulkan info", ErrUnsupported)
	}
	var info abi.VulkanInfo
	if !c.api().ContextGetVulkanInfo(ptr, &info) {
		return VulkanInfo{}, fmt.Errorf("impeller: vulkan info unavailable")
	}
	return VulkanInfo(info), nil
}
