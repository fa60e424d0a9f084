package impeller

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/gogpu/impeller/internal/abi"
)

// Handle owns references to one native object.
//
// A Handle starts with the single reference handed over by the native
// factory. Retain and Release add and drop references in balanced pairs;
// the release that drops the last one runs the native deallocator, after
// which every operation fails with ErrUseAfterFree. Dispose drops whatever
// references remain and is safe to call any number of times.
//
// A Handle is safe for concurrent use.
type Handle struct {
	st      *handleState
	cleanup runtime.Cleanup
}

// handleState is kept apart from Handle so the GC cleanup can reach it
// without keeping the Handle alive.
type handleState struct {
	mu       sync.Mutex
	eng      *Engine
	kind     abi.Kind
	ptr      uintptr
	refs     int
	disposed bool

	// after runs once the native object has been deallocated.
	after []func()
}

// fromOwned takes ownership of ptr, the result of a native factory. A zero
// ptr means the factory failed.
func fromOwned(e *Engine, kind abi.Kind, ptr uintptr) (*Handle, error) {
	if ptr == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCreation, kind)
	}
	st := &handleState{eng: e, kind: kind, ptr: ptr, refs: 1}
	h := &Handle{st: st}
	h.cleanup = runtime.AddCleanup(h, (*handleState).collect, st)
	return h, nil
}

// Kind returns the native object family, e.g. "Paint" or "Context".
func (h *Handle) Kind() string { return h.st.kind.String() }

// Refs returns the number of references this handle still holds.
func (h *Handle) Refs() int {
	h.st.mu.Lock()
	defer h.st.mu.Unlock()
	return h.st.refs
}

// IsDisposed reports whether the native object is no longer reachable
// through this handle.
func (h *Handle) IsDisposed() bool {
	h.st.mu.Lock()
	defer h.st.mu.Unlock()
	return h.st.disposed
}

// Borrow returns the native pointer without transferring ownership. The
// pointer is valid only while the handle holds a reference, and only while
// the handle stays reachable: callers keep it alive with runtime.KeepAlive
// until the native call that uses the pointer has returned.
func (h *Handle) Borrow() (uintptr, error) {
	h.st.mu.Lock()
	defer h.st.mu.Unlock()
	if h.st.disposed {
		return 0, h.st.useAfterFree("Borrow")
	}
	return h.st.ptr, nil
}

// Retain adds a native reference. Each Retain must be paired with a Release.
func (h *Handle) Retain() error {
	h.st.mu.Lock()
	defer h.st.mu.Unlock()
	if h.st.disposed {
		return h.st.useAfterFree("Retain")
	}
	h.st.eng.api.Retain(h.st.kind, h.st.ptr)
	h.st.refs++
	return nil
}

// Release drops one reference. Dropping the last one deallocates the
// native object.
func (h *Handle) Release() error {
	last, after, err := h.release()
	if err != nil {
		return err
	}
	if last {
		h.cleanup.Stop()
		runAll(after)
	}
	return nil
}

func (h *Handle) release() (last bool, after []func(), err error) {
	h.st.mu.Lock()
	defer h.st.mu.Unlock()
	if h.st.disposed {
		return false, nil, h.st.useAfterFree("Release")
	}
	h.st.eng.api.Release(h.st.kind, h.st.ptr)
	h.st.refs--
	if h.st.refs > 0 {
		return false, nil, nil
	}
	return true, h.st.finish(), nil
}

// Dispose drops every reference still held. It is idempotent.
func (h *Handle) Dispose() {
	h.st.mu.Lock()
	if h.st.disposed {
		h.st.mu.Unlock()
		return
	}
	after := h.st.releaseAll()
	h.st.mu.Unlock()

	h.cleanup.Stop()
	runAll(after)
}

// Detach transfers ownership of the native object to the caller, who then
// becomes responsible for releasing it. The handle is disposed without
// calling the deallocator. Detach fails with ErrSharedHandle while more
// than one reference is held or while the handle keeps callbacks pinned.
func (h *Handle) Detach() (uintptr, error) {
	h.st.mu.Lock()
	defer h.st.mu.Unlock()
	switch {
	case h.st.disposed:
		return 0, h.st.useAfterFree("Detach")
	case h.st.refs > 1:
		return 0, fmt.Errorf("%w: %s has %d references", ErrSharedHandle, h.st.kind, h.st.refs)
	case len(h.st.after) > 0:
		return 0, fmt.Errorf("%w: %s owns pinned callbacks", ErrSharedHandle, h.st.kind)
	}
	ptr := h.st.ptr
	h.st.disposed = true
	h.st.ptr = 0
	h.st.refs = 0
	h.cleanup.Stop()
	return ptr, nil
}

// onDealloc registers f to run after the native object is deallocated.
func (h *Handle) onDealloc(f func()) {
	h.st.mu.Lock()
	defer h.st.mu.Unlock()
	h.st.after = append(h.st.after, f)
}

func (h *Handle) api() *abi.Table { return h.st.eng.api }

// Engine returns the engine that created the object.
func (h *Handle) Engine() *Engine { return h.st.eng }

// releaseAll drops every remaining reference. Caller holds st.mu.
func (st *handleState) releaseAll() []func() {
	for st.refs > 0 {
		st.eng.api.Release(st.kind, st.ptr)
		st.refs--
	}
	return st.finish()
}

// finish marks the state dead and hands back the post-dealloc hooks.
// Caller holds st.mu.
func (st *handleState) finish() []func() {
	st.disposed = true
	st.ptr = 0
	after := st.after
	st.after = nil
	return after
}

// collect runs when a Handle becomes unreachable without being disposed.
func (st *handleState) collect() {
	st.mu.Lock()
	if st.disposed {
		st.mu.Unlock()
		return
	}
	Logger().Warn("impeller: handle collected without Dispose", "kind", st.kind.String(), "refs", st.refs)
	after := st.releaseAll()
	st.mu.Unlock()
	runAll(after)
}

func (st *handleState) useAfterFree(op string) error {
	err := fmt.Errorf("%w: %s on %s", ErrUseAfterFree, op, st.kind)
	if st.eng.strict {
		panic(err)
	}
	Logger().Error("impeller: use after free", "op", op, "kind", st.kind.String())
	return err
}

func runAll(fs []func()) {
	for _, f := range fs {
		f()
	}
}

// borrow returns the native pointer of a required argument. The caller
// keeps v alive across the native call.
func borrow[T interface {
	comparable
	Borrow() (uintptr, error)
}](v T, what string) (uintptr, error) {
	var zero T
	if v == zero {
		return 0, fmt.Errorf("%w: %s", ErrNilArgument, what)
	}
	return v.Borrow()
}

// borrowOptional returns the native pointer of an optional argument, or 0
// when v is nil.
func borrowOptional[T interface {
	comparable
	Borrow() (uintptr, error)
}](v T) (uintptr, error) {
	var zero T
	if v == zero {
		return 0, nil
	}
	return v.Borrow()
}
