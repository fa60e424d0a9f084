// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/impeller"
	"github.com/gogpu/impeller/internal/abi"
	"github.com/gogpu/impeller/internal/abi/abitest"
)

// fakeProber simulates the system loader. Libraries listed in libs can be
// opened and export the symbols listed for them; ProcAddress resolves any
// name not listed in missing.
type fakeProber struct {
	mu      sync.Mutex
	libs    map[string][]string
	missing map[string]bool

	opened  []string
	closed  int
	calls   []string
	args    [][]uintptr
	handles map[uintptr]string
}

func newFakeProber(libs map[string][]string) *fakeProber {
	return &fakeProber{libs: libs, missing: map[string]bool{}, handles: map[uintptr]string{}}
}

func (f *fakeProber) Open(name string) (uintptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, name)
	if _, ok := f.libs[name]; !ok {
		return 0, fmt.Errorf("%s: cannot open shared object file", name)
	}
	h := uintptr(0x100 * (len(f.handles) + 1))
	f.handles[h] = name
	return h, nil
}

func (f *fakeProber) Symbol(lib uintptr, name string) (uintptr, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.libs[f.handles[lib]] {
		if s == name {
			return lib + 1, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", abi.ErrSymbolNotFound, name)
}

func (f *fakeProber) Close(uintptr) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeProber) ProcAddress(fn uintptr, name string, args ...uintptr) uintptr {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	f.args = append(f.args, append([]uintptr{fn}, args...))
	if f.missing[name] {
		return 0
	}
	return 0xc0de
}

func (f *fakeProber) Opened() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.opened...)
}

var (
	vulkanLib = map[string][]string{"libvulkan.so.1": {"vkGetInstanceProcAddr"}}
	eglLib    = map[string][]string{"libEGL.so.1": {"eglGetProcAddress"}}
)

func merge(ms ...map[string][]string) map[string][]string {
	out := map[string][]string{}
	for _, m := range ms {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

func newEngine(t *testing.T) (*impeller.Engine, *abitest.Engine) {
	t.Helper()
	fake := abitest.New()
	eng, err := impeller.NewEngine(fake.Table(), impeller.WithStrict(false))
	require.NoError(t, err)
	return eng, fake
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		err  bool
	}{
		{"", KindAuto, false},
		{"auto", KindAuto, false},
		{"Metal", KindMetal, false},
		{" vulkan ", KindVulkan, false},
		{"gles", KindOpenGLES, false},
		{"opengles", KindOpenGLES, false},
		{"d3d12", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.err {
			assert.ErrorIs(t, err, ErrUnknownBackend, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		if tt.want != KindAuto {
			back, err := ParseKind(got.String())
			require.NoError(t, err)
			assert.Equal(t, got, back, "String round-trips through ParseKind")
		}
	}
}

func TestCandidates(t *testing.T) {
	assert.Equal(t, []Kind{KindMetal, KindVulkan}, Candidates(KindAuto, PlatformDarwin))
	assert.Equal(t, []Kind{KindVulkan, KindOpenGLES}, Candidates(KindAuto, PlatformLinux))
	assert.Equal(t, []Kind{KindVulkan, KindOpenGLES}, Candidates(KindAuto, PlatformWindows))
	assert.Equal(t, []Kind{KindMetal}, Candidates(KindMetal, PlatformLinux))

	// Callers may modify the returned slice.
	c := Candidates(KindAuto, PlatformDarwin)
	c[0] = KindOpenGLES
	assert.Equal(t, KindMetal, Candidates(KindAuto, PlatformDarwin)[0])
}

func TestPlatformFor(t *testing.T) {
	assert.Equal(t, PlatformDarwin, platformFor("darwin"))
	assert.Equal(t, PlatformLinux, platformFor("linux"))
	assert.Equal(t, PlatformWindows, platformFor("windows"))
	assert.Equal(t, PlatformOther, platformFor("plan9"))
	assert.NotEqual(t, PlatformAuto, DetectPlatform())

	p, err := ParsePlatform("macos")
	require.NoError(t, err)
	assert.Equal(t, PlatformDarwin, p)
	_, err = ParsePlatform("beos")
	assert.Error(t, err)
}

func TestLoaderCacheProbesOnce(t *testing.T) {
	prober := newFakeProber(nil)
	cache := NewLoaderCache(prober)

	_, err := cache.Load(KindVulkan, PlatformLinux)
	assert.ErrorIs(t, err, ErrBackendNotAvailable)
	assert.Equal(t, []string{"libvulkan.so.1", "libvulkan.so"}, prober.Opened())

	_, err2 := cache.Load(KindVulkan, PlatformLinux)
	assert.Equal(t, err, err2, "cached failure is returned as is")
	assert.Len(t, prober.Opened(), 2, "a cached failure must not probe again")
	assert.Equal(t, 1, cache.Probes())

	cache.Reset()
	_, err = cache.Load(KindVulkan, PlatformLinux)
	assert.Error(t, err)
	assert.Len(t, prober.Opened(), 4)
}

func TestLoaderCacheSuccess(t *testing.T) {
	prober := newFakeProber(vulkanLib)
	cache := NewLoaderCache(prober)

	l, err := cache.Load(KindVulkan, PlatformLinux)
	require.NoError(t, err)
	assert.Equal(t, "libvulkan.so.1", l.Path())
	assert.Equal(t, KindVulkan, l.Kind())

	l2, err := cache.Load(KindVulkan, PlatformLinux)
	require.NoError(t, err)
	assert.Same(t, l, l2)
	assert.Equal(t, 1, cache.Probes())

	assert.Equal(t, uintptr(0xc0de), l.VulkanProc(0, "vkCreateInstance"))
	assert.Equal(t, []string{"vkCreateInstance"}, prober.calls)
	// The bootstrap function resolves to itself without a native call.
	assert.NotZero(t, l.VulkanProc(0, "vkGetInstanceProcAddr"))
	assert.Len(t, prober.calls, 1)
}

func TestProcResolutionArguments(t *testing.T) {
	prober := newFakeProber(merge(vulkanLib, eglLib))
	cache := NewLoaderCache(prober)

	vk, err := cache.Load(KindVulkan, PlatformLinux)
	require.NoError(t, err)
	gl, err := cache.Load(KindOpenGLES, PlatformLinux)
	require.NoError(t, err)

	vk.VulkanProc(0x77, "vkCreateDevice")
	gl.GLProc("glDrawArrays")
	assert.Equal(t, []string{"vkCreateDevice", "glDrawArrays"}, prober.calls)
	assert.Equal(t, [][]uintptr{{vk.entry, 0x77}, {gl.entry}}, prober.args,
		"the instance precedes the name and GL passes only the name")
}

func TestLoaderMissingSymbolClosesLibrary(t *testing.T) {
	prober := newFakeProber(map[string][]string{
		"libvulkan.so.1": nil,
		"libvulkan.so":   {"vkGetInstanceProcAddr"},
	})
	cache := NewLoaderCache(prober)

	l, err := cache.Load(KindVulkan, PlatformLinux)
	require.NoError(t, err)
	assert.Equal(t, "libvulkan.so", l.Path())
	assert.Equal(t, 1, prober.closed)
}

func TestGLProcFallsBackToExports(t *testing.T) {
	prober := newFakeProber(map[string][]string{"libEGL.so.1": {"eglGetProcAddress", "glClear"}})
	prober.missing["glClear"] = true
	prober.missing["glBogus"] = true
	cache := NewLoaderCache(prober)

	l, err := cache.Load(KindOpenGLES, PlatformLinux)
	require.NoError(t, err)
	assert.Equal(t, uintptr(0xc0de), l.GLProc("glDrawArrays"))
	assert.NotZero(t, l.GLProc("glClear"))
	assert.Zero(t, l.GLProc("glBogus"))
}

func TestSetProberResets(t *testing.T) {
	cache := NewLoaderCache(newFakeProber(nil))
	_, err := cache.Load(KindVulkan, PlatformLinux)
	require.Error(t, err)

	cache.SetProber(newFakeProber(vulkanLib))
	_, err = cache.Load(KindVulkan, PlatformLinux)
	assert.NoError(t, err)
}

func TestLoadersIsShared(t *testing.T) {
	assert.Same(t, Loaders(), Loaders())
}

func TestCreateFallsThrough(t *testing.T) {
	eng, fake := newEngine(t)
	prober := newFakeProber(eglLib)
	before := abi.Registered()

	ctx, err := Create(eng, KindAuto, PlatformLinux, WithLoaders(NewLoaderCache(prober)))
	require.NoError(t, err)
	assert.Equal(t, impeller.BackendOpenGLES, ctx.Backend())
	assert.Equal(t, 1, fake.Live(), "only the chosen context is alive")
	assert.Equal(t, before+1, abi.Registered())

	ctx.Dispose()
	assert.Empty(t, fake.Leaks())
	assert.Empty(t, fake.Violations())
	assert.Equal(t, before, abi.Registered())
}

func TestCreateFactoryFailureFallsThrough(t *testing.T) {
	eng, fake := newEngine(t)
	prober := newFakeProber(merge(vulkanLib, eglLib))
	before := abi.Registered()

	fake.Fail("ContextCreateVulkanNew", 1)
	ctx, err := Create(eng, KindAuto, PlatformLinux, WithLoaders(NewLoaderCache(prober)))
	require.NoError(t, err)
	assert.Equal(t, impeller.BackendOpenGLES, ctx.Backend())
	assert.Equal(t, before+1, abi.Registered(), "the failed vulkan resolver was released")

	ctx.Dispose()
	assert.Empty(t, fake.Leaks())
}

func TestCreateUnusableDeviceFallsThrough(t *testing.T) {
	eng, fake := newEngine(t)
	prober := newFakeProber(merge(vulkanLib, eglLib))

	fake.Fail("ContextGetVulkanInfo", 1)
	ctx, err := Create(eng, KindAuto, PlatformLinux, WithLoaders(NewLoaderCache(prober)))
	require.NoError(t, err)
	assert.Equal(t, impeller.BackendOpenGLES, ctx.Backend())
	assert.Equal(t, 1, fake.LiveOf(abi.KindContext), "the vulkan context was released")

	ctx.Dispose()
	assert.Empty(t, fake.Leaks())
	assert.Empty(t, fake.Violations())
}

func TestCreatePreferredVulkan(t *testing.T) {
	eng, fake := newEngine(t)
	prober := newFakeProber(merge(vulkanLib, eglLib))

	ctx, err := Create(eng, KindVulkan, PlatformLinux, WithLoaders(NewLoaderCache(prober)), WithVulkanValidation(true))
	require.NoError(t, err)
	assert.Equal(t, impeller.BackendVulkan, ctx.Backend())
	assert.Contains(t, prober.calls, "vkCreateInstance")

	ctx.Dispose()
	assert.Empty(t, fake.Leaks())
	assert.Empty(t, fake.Violations())
	assert.Contains(t, prober.calls, "vkDestroyInstance", "teardown resolves through the loader")
}

func TestCreateMetal(t *testing.T) {
	eng, fake := newEngine(t)
	cache := NewLoaderCache(newFakeProber(nil))

	ctx, err := Create(eng, KindAuto, PlatformDarwin, WithLoaders(cache))
	require.NoError(t, err)
	assert.Equal(t, impeller.BackendMetal, ctx.Backend())
	assert.Zero(t, cache.Probes(), "metal needs no loader")
	ctx.Dispose()

	_, err = Create(eng, KindMetal, PlatformLinux, WithLoaders(cache))
	assert.ErrorIs(t, err, ErrBackendNotAvailable)
	assert.Empty(t, fake.Leaks())
}

func TestCreateAllFail(t *testing.T) {
	eng, fake := newEngine(t)
	prober := newFakeProber(nil)
	cache := NewLoaderCache(prober)

	_, err := Create(eng, KindAuto, PlatformLinux, WithLoaders(cache))
	var pe *ProbeError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, PlatformLinux, pe.Platform)
	require.Len(t, pe.Failures, 2)
	assert.Equal(t, KindVulkan, pe.Failures[0].Backend)
	assert.Equal(t, KindOpenGLES, pe.Failures[1].Backend)
	assert.ErrorIs(t, err, ErrBackendNotAvailable)
	assert.Contains(t, err.Error(), "Linux")
	assert.Contains(t, err.Error(), "libvulkan.so.1")
	assert.Empty(t, fake.Leaks())

	// A second attempt is answered from the cache.
	opened := len(prober.Opened())
	_, err = Create(eng, KindAuto, PlatformLinux, WithLoaders(cache))
	assert.Error(t, err)
	assert.Len(t, prober.Opened(), opened)

	_, err = Create(eng, KindAuto, PlatformWindows, WithLoaders(cache))
	assert.Contains(t, err.Error(), "vulkan-1.dll")
}

func TestCreateArguments(t *testing.T) {
	_, err := Create(nil, KindAuto, PlatformAuto)
	assert.ErrorIs(t, err, impeller.ErrNilArgument)

	eng, _ := newEngine(t)
	_, err = Create(eng, Kind(42), PlatformLinux)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}
