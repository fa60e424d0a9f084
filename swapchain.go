package impeller

import (
	"fmt"
	"runtime"

	"github.com/gogpu/impeller/internal/abi"
)

// VulkanSwapchain presents to a VkSurfaceKHR. It keeps its context and the
// context's resolver alive until it is disposed.
type VulkanSwapchain struct {
	*Handle
	ctx *Context
}

// NewVulkanSwapchain creates a swapchain for vkSurface on a Vulkan context.
// The swapchain takes ownership of vkSurface.
func NewVulkanSwapchain(ctx *Context, vkSurface uintptr) (*VulkanSwapchain, error) {
	cp, err := contextFor(ctx, BackendVulkan, "swapchain")
	if err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(ctx)
	if vkSurface == 0 {
		return nil, fmt.Errorf("%w: vulkan surface", ErrNilArgument)
	}
	create := ctx.api().VulkanSwapchainCreateNew
	if create == nil {
		return nil, fmt.Errorf("%w: vulkan swapchains", ErrUnsupported)
	}
	h, err := fromOwned(ctx.Engine(), abi.KindVulkanSwapchain, create(cp, vkSurface))
	if err != nil {
		return nil, err
	}
	// The native swapchain holds a context reference and may resolve procs
	// while tearing down.
	ctx.pin.acquire()
	h.onDealloc(ctx.pin.release)
	return &VulkanSwapchain{Handle: h, ctx: ctx}, nil
}

// Context returns the context the swapchain renders with.
func (s *VulkanSwapchain) Context() *Context { return s.ctx }

// AcquireNextSurface returns the next presentable surface, or nil when none
// is available right now (for example while the window is minimized).
func (s *VulkanSwapchain) AcquireNextSurface() (*Surface, error) {
	sp, err := s.Borrow()
	if err != nil {
		return nil, err
	}
	defer runtime.KeepAlive(s)
	ptr := s.api().VulkanSwapchainAcquireNextSurfaceNew(sp)
	if ptr == 0 {
		return nil, nil
	}
	return newSurface(s.Engine(), ptr)
}
