// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package abitest provides an in-memory implementation of the Impeller C
// API for tests. It mimics native reference counting, counts deallocations
// per object, reports leaks and misuse, and can inject factory and
// presentation failures.
package abitest

import (
	"fmt"
	"sort"
	"sync"
	"unsafe"

	"github.com/gogpu/impeller/internal/abi"
)

// Version is the value returned by GetVersion.
const Version uint32 = 1<<22 | 1<<12

// Object is a snapshot of a fake native object.
type Object struct {
	Kind     abi.Kind
	Refs     int
	Deallocs int

	// Builders and display lists.
	Ops       []string
	SaveCount uint32
	Cull      *abi.Rect

	// Contexts.
	Backend  string
	Resolver uintptr

	// Surfaces and swapchains.
	Context uintptr
	Size    abi.ISize
	Spent   bool

	// Textures and fonts.
	Contents []byte
	UserData []uintptr
	GLHandle uint64

	// Paragraph builders and paragraphs.
	Text  string
	Width float32
}

// Draw records one SurfaceDrawDisplayList call.
type Draw struct {
	Surface     uintptr
	DisplayList uintptr
	Ops         []string
	OK          bool
}

// Engine is the fake native library. The zero value is not usable; call New.
type Engine struct {
	mu         sync.Mutex
	next       uintptr
	objects    map[uintptr]*Object
	fail       map[string]int
	violations []string
	draws      []Draw
	presents   int
	resolved   []string
}

// New returns an empty fake engine.
func New() *Engine {
	return &Engine{
		next:    0x1000,
		objects: make(map[uintptr]*Object),
		fail:    make(map[string]int),
	}
}

// Fail makes the next n calls of the entry point named fn fail. Factories
// return null, bool functions return false. n < 0 fails forever, n == 0
// clears the injection.
func (e *Engine) Fail(fn string, n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n == 0 {
		delete(e.fail, fn)
		return
	}
	e.fail[fn] = n
}

// shouldFail consumes one injected failure for fn. Caller holds e.mu.
func (e *Engine) shouldFail(fn string) bool {
	n, ok := e.fail[fn]
	if !ok {
		return false
	}
	if n > 0 {
		if n == 1 {
			delete(e.fail, fn)
		} else {
			e.fail[fn] = n - 1
		}
	}
	return true
}

// Live returns how many objects have not been deallocated.
func (e *Engine) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, o := range e.objects {
		if o.Deallocs == 0 {
			n++
		}
	}
	return n
}

// LiveOf returns how many objects of kind k have not been deallocated.
func (e *Engine) LiveOf(k abi.Kind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, o := range e.objects {
		if o.Kind == k && o.Deallocs == 0 {
			n++
		}
	}
	return n
}

// Leaks describes every object still alive, sorted by address.
func (e *Engine) Leaks() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	ptrs := make([]uintptr, 0, len(e.objects))
	for p, o := range e.objects {
		if o.Deallocs == 0 {
			ptrs = append(ptrs, p)
		}
	}
	sort.Slice(ptrs, func(i, j int) bool { return ptrs[i] < ptrs[j] })
	out := make([]string, len(ptrs))
	for i, p := range ptrs {
		o := e.objects[p]
		out[i] = fmt.Sprintf("%s@%#x refs=%d", o.Kind, p, o.Refs)
	}
	return out
}

// Object returns a copy of the object at ptr.
func (e *Engine) Object(ptr uintptr) (Object, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.objects[ptr]
	if !ok {
		return Object{}, false
	}
	c := *o
	c.Ops = append([]string(nil), o.Ops...)
	return c, true
}

// Deallocs returns how many times the object at ptr reached the native
// deallocator. Anything above one is a double free.
func (e *Engine) Deallocs(ptr uintptr) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if o, ok := e.objects[ptr]; ok {
		return o.Deallocs
	}
	return 0
}

// Violations lists misuse detected so far: releases of dead objects and
// dead objects passed as arguments.
func (e *Engine) Violations() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.violations...)
}

// Draws returns every SurfaceDrawDisplayList call in order.
func (e *Engine) Draws() []Draw {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Draw(nil), e.draws...)
}

// Presents returns how many successful SurfacePresent calls were made.
func (e *Engine) Presents() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.presents
}

// Resolved returns the proc names looked up through resolver callbacks.
func (e *Engine) Resolved() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.resolved...)
}

// alloc creates a live object unless fn is failing. Caller holds e.mu.
func (e *Engine) alloc(fn string, k abi.Kind) (uintptr, *Object) {
	if e.shouldFail(fn) {
		return 0, nil
	}
	e.next += 0x10
	o := &Object{Kind: k, Refs: 1}
	e.objects[e.next] = o
	return e.next, o
}

// use returns the live object at ptr, recording a violation when it is
// dead, unknown, or of the wrong kind. Caller holds e.mu.
func (e *Engine) use(fn string, ptr uintptr, k abi.Kind) *Object {
	o, ok := e.objects[ptr]
	switch {
	case !ok:
		e.violations = append(e.violations, fmt.Sprintf("%s: unknown %s %#x", fn, k, ptr))
		return nil
	case o.Deallocs > 0:
		e.violations = append(e.violations, fmt.Sprintf("%s: %s %#x used after free", fn, k, ptr))
		return nil
	case o.Kind != k:
		e.violations = append(e.violations, fmt.Sprintf("%s: %#x is %s, want %s", fn, ptr, o.Kind, k))
		return nil
	}
	return o
}

// optional is like use but accepts a null pointer.
func (e *Engine) optional(fn string, ptr uintptr, k abi.Kind) {
	if ptr != 0 {
		e.use(fn, ptr, k)
	}
}

func (e *Engine) retain(k abi.Kind) func(uintptr) {
	return func(ptr uintptr) {
		e.mu.Lock()
		defer e.mu.Unlock()
		if o := e.use(k.String()+"Retain", ptr, k); o != nil {
			o.Refs++
		}
	}
}

func (e *Engine) release(k abi.Kind) func(uintptr) {
	return func(ptr uintptr) {
		var after []func()
		e.mu.Lock()
		o, ok := e.objects[ptr]
		switch {
		case !ok || o.Kind != k:
			e.violations = append(e.violations, fmt.Sprintf("%sRelease: unknown %#x", k, ptr))
		case o.Deallocs > 0:
			o.Deallocs++
			e.violations = append(e.violations, fmt.Sprintf("%sRelease: double free of %#x", k, ptr))
		default:
			o.Refs--
			if o.Refs == 0 {
				o.Deallocs++
				after = e.dealloc(ptr, o)
			}
		}
		e.mu.Unlock()
		// Callbacks into Go run without the lock, as native code would.
		for _, f := range after {
			f()
		}
	}
}

// dealloc tears down o and returns callbacks to run once e.mu is released.
// Caller holds e.mu.
func (e *Engine) dealloc(ptr uintptr, o *Object) []func() {
	var after []func()
	for _, ud := range o.UserData {
		ud := ud
		after = append(after, func() { abi.ReleaseContents(ud) })
	}
	switch o.Kind {
	case abi.KindContext:
		if o.Resolver != 0 {
			// Native teardown resolves destroy functions through the
			// callback supplied at creation.
			ud, backend := o.Resolver, o.Backend
			after = append(after, func() {
				var p uintptr
				if backend == "vulkan" {
					p = abi.ResolveVulkanProc(ud, 0, "vkDestroyInstance")
				} else {
					p = abi.ResolveProc(ud, "glFinish")
				}
				if p == 0 {
					e.mu.Lock()
					e.violations = append(e.violations, fmt.Sprintf("ContextRelease: resolver of %#x gone before teardown", ptr))
					e.mu.Unlock()
				}
			})
		}
	case abi.KindVulkanSwapchain:
		ctx := o.Context
		after = append(after, func() { e.release(abi.KindContext)(ctx) })
	}
	return after
}

func (e *Engine) resolve(name string, p uintptr) uintptr {
	e.mu.Lock()
	e.resolved = append(e.resolved, name)
	e.mu.Unlock()
	return p
}

// bytesAt copies n bytes starting at p.
func bytesAt(p unsafe.Pointer, n uint64) []byte {
	if p == nil || n == 0 {
		return nil
	}
	return append([]byte(nil), unsafe.Slice((*byte)(p), n)...)
}
