package impeller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/impeller/internal/abi"
	"github.com/gogpu/impeller/internal/abi/abitest"
)

// newTestEngine returns an engine over a fake native library. At the end of
// the test it asserts that nothing leaked and nothing was misused.
func newTestEngine(t *testing.T, opts ...EngineOption) (*Engine, *abitest.Engine) {
	t.Helper()
	fake := abitest.New()
	e, err := NewEngine(fake.Table(), append([]EngineOption{WithStrict(false)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.Empty(t, fake.Leaks(), "leaked native objects")
		assert.Empty(t, fake.Violations(), "native misuse")
	})
	return e, fake
}

func metalContext(t *testing.T, e *Engine) *Context {
	t.Helper()
	ctx, err := e.NewMetalContext()
	require.NoError(t, err)
	t.Cleanup(ctx.Dispose)
	return ctx
}

func vulkanContext(t *testing.T, e *Engine) *Context {
	t.Helper()
	ctx, err := e.NewVulkanContext(VulkanSettings{
		Resolve: func(uintptr, string) uintptr { return 0xfeed },
	})
	require.NoError(t, err)
	t.Cleanup(ctx.Dispose)
	return ctx
}

func glContext(t *testing.T, e *Engine) *Context {
	t.Helper()
	ctx, err := e.NewOpenGLESContext(func(string) uintptr { return 0xbeef })
	require.NoError(t, err)
	t.Cleanup(ctx.Dispose)
	return ctx
}

func mustPaint(t *testing.T, e *Engine) *Paint {
	t.Helper()
	p, err := e.NewSolidPaint(RGBA(1, 0, 0, 1))
	require.NoError(t, err)
	t.Cleanup(p.Dispose)
	return p
}

// abitestTableWithout returns a fake table with entry points removed by
// strip, as an older engine build would lack them.
func abitestTableWithout(t *testing.T, strip func(*abi.Table)) *abi.Table {
	t.Helper()
	tbl := abitest.New().Table()
	strip(tbl)
	return tbl
}
