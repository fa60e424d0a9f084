// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/gogpu/impeller"
	"github.com/gogpu/impeller/internal/abi"
)

// Prober is the probing strategy used to find loader libraries. The
// default implementation goes through the system dynamic loader; tests
// substitute a fake.
type Prober interface {
	// Open loads a shared library by file name or path.
	Open(name string) (uintptr, error)
	// Symbol returns the address of an exported symbol.
	Symbol(lib uintptr, name string) (uintptr, error)
	// Close unloads a library returned by Open.
	Close(lib uintptr) error
	// ProcAddress calls the resolver at fn with args followed by name as a
	// NUL-terminated string, and returns the address it reports.
	ProcAddress(fn uintptr, name string, args ...uintptr) uintptr
}

type systemProber struct{}

func (systemProber) Open(name string) (uintptr, error)                { return abi.Open(name) }
func (systemProber) Symbol(lib uintptr, name string) (uintptr, error) { return abi.Symbol(lib, name) }
func (systemProber) Close(lib uintptr) error                          { return abi.Close(lib) }

func (systemProber) ProcAddress(fn uintptr, name string, args ...uintptr) uintptr {
	cname := cstring(name)
	p := abi.Call(fn, append(args, uintptr(unsafe.Pointer(&cname[0])))...)
	runtime.KeepAlive(cname)
	return p
}

// SystemProber returns the prober backed by the platform dynamic loader.
func SystemProber() Prober { return systemProber{} }

// Loader is an opened loader library together with its bootstrap symbol.
// Its resolver methods are handed to the engine and stay valid for the
// life of the process.
type Loader struct {
	kind   Kind
	path   string
	lib    uintptr
	entry  uintptr
	prober Prober
}

// Kind returns the backend the loader serves.
func (l *Loader) Kind() Kind { return l.kind }

// Path returns the library name that was opened.
func (l *Loader) Path() string { return l.path }

// VulkanProc resolves a Vulkan command through vkGetInstanceProcAddr.
func (l *Loader) VulkanProc(instance uintptr, name string) uintptr {
	if name == "vkGetInstanceProcAddr" {
		return l.entry
	}
	return l.prober.ProcAddress(l.entry, name, instance)
}

// GLProc resolves an OpenGL ES or EGL function through eglGetProcAddress,
// falling back to the library's own exports for core functions that some
// EGL implementations do not report.
func (l *Loader) GLProc(name string) uintptr {
	if p := l.prober.ProcAddress(l.entry, name); p != 0 {
		return p
	}
	if sym, err := l.prober.Symbol(l.lib, name); err == nil {
		return sym
	}
	return 0
}

func cstring(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

type loaderKey struct {
	kind     Kind
	platform Platform
}

type loaderEntry struct {
	loader *Loader
	err    error
}

// LoaderCache remembers the outcome of loader probing. Each backend is
// probed at most once; a failure is remembered and returned again without
// touching the filesystem.
//
// A LoaderCache is safe for concurrent use.
type LoaderCache struct {
	mu      sync.Mutex
	prober  Prober
	entries map[loaderKey]loaderEntry
	probes  int
}

// NewLoaderCache returns an empty cache probing with p. A nil p uses the
// system loader.
func NewLoaderCache(p Prober) *LoaderCache {
	if p == nil {
		p = systemProber{}
	}
	return &LoaderCache{prober: p, entries: make(map[loaderKey]loaderEntry)}
}

var (
	defaultLoadersOnce sync.Once
	defaultLoaders     *LoaderCache
)

// Loaders returns the process-wide cache, creating it on first use.
func Loaders() *LoaderCache {
	defaultLoadersOnce.Do(func() {
		defaultLoaders = NewLoaderCache(nil)
	})
	return defaultLoaders
}

// Load returns the loader for k on platform p, probing on the first call.
func (c *LoaderCache) Load(k Kind, p Platform) (*Loader, error) {
	key := loaderKey{kind: k, platform: p.resolve()}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e.loader, e.err
	}
	l, err := c.probe(key)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrBackendNotAvailable, err)
	}
	c.entries[key] = loaderEntry{loader: l, err: err}
	return l, err
}

// probe opens the first loader library that exports the bootstrap symbol.
// Libraries lacking the symbol are closed again. Caller holds c.mu.
func (c *LoaderCache) probe(key loaderKey) (*Loader, error) {
	c.probes++
	names := loaderNames(key.kind, key.platform)
	symbol := bootstrapSymbol(key.kind)
	if len(names) == 0 || symbol == "" {
		return nil, fmt.Errorf("%s needs no loader library", key.kind)
	}

	var errs []error
	for _, name := range names {
		lib, err := c.prober.Open(name)
		if err != nil {
			impeller.Logger().Debug("backend: loader probe failed", "backend", key.kind.String(), "library", name, "err", err)
			errs = append(errs, err)
			continue
		}
		entry, err := c.prober.Symbol(lib, symbol)
		if err != nil {
			impeller.Logger().Debug("backend: bootstrap symbol missing", "library", name, "symbol", symbol)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			_ = c.prober.Close(lib)
			continue
		}
		impeller.Logger().Debug("backend: loader found", "backend", key.kind.String(), "library", name)
		return &Loader{kind: key.kind, path: name, lib: lib, entry: entry, prober: c.prober}, nil
	}
	return nil, fmt.Errorf("%s loader not found: %w", key.kind, errors.Join(errs...))
}

// Probes reports how many times the filesystem was probed. Cached results
// do not count.
func (c *LoaderCache) Probes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.probes
}

// Reset forgets every cached result so the next Load probes again.
// Libraries already opened stay loaded: contexts created from them may
// still resolve symbols through their loaders.
func (c *LoaderCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.probes = 0
}

// SetProber replaces the probing strategy and resets the cache.
func (c *LoaderCache) SetProber(p Prober) {
	if p == nil {
		p = systemProber{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prober = p
	clear(c.entries)
	c.probes = 0
}
