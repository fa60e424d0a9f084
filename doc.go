// Package impeller provides lifetime-checked Go bindings to the Impeller
// rendering engine's C API.
//
// # Overview
//
// Every native object is owned by a [Handle]. A handle is created from the
// owned result of a native factory, can be retained and released in balanced
// pairs, and reaches the native deallocator exactly once. Using a handle
// after it has been released returns [ErrUseAfterFree], or panics when the
// engine runs in strict mode.
//
// Drawing is recorded, not executed: a [Recorder] collects commands into an
// immutable [CommandList] which is then drawn on a [Surface] and presented.
//
// # Quick Start
//
//	eng, err := impeller.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ctx, err := eng.NewMetalContext()
//	...
//	rec, _ := eng.NewRecorder(&impeller.Rect{Width: 800, Height: 600})
//	defer rec.Dispose()
//	paint, _ := eng.NewPaint()
//	defer paint.Dispose()
//	paint.SetColor(impeller.RGBA(1, 0, 0, 1))
//	rec.DrawRect(impeller.Rect{X: 10, Y: 10, Width: 100, Height: 100}, paint)
//	list, _ := rec.Build()
//	defer list.Dispose()
//
//	surface, _ := impeller.WrapMetalDrawable(ctx, drawable)
//	defer surface.Dispose()
//	surface.DrawCommandList(list)
//	surface.Present()
//
// # Backends
//
// Package backend picks and creates a rendering context (Metal, Vulkan or
// OpenGL ES) by probing the platform's loader libraries. Package pipeline
// records frames on a worker goroutine and hands them to the presentation
// side through a single-slot mailbox.
//
// # Logging
//
// The package is silent by default. See [SetLogger].
package impeller
