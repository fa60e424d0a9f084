// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/impeller"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend cannot be
	// used on this machine.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrUnknownBackend is returned for an unrecognized backend name.
	ErrUnknownBackend = errors.New("backend: unknown backend")
)

// CandidateError is the failure of one candidate backend.
type CandidateError struct {
	Backend Kind
	Err     error
}

func (e CandidateError) Error() string { return e.Backend.String() + ": " + e.Err.Error() }

func (e CandidateError) Unwrap() error { return e.Err }

// ProbeError is returned by Create when every candidate failed.
type ProbeError struct {
	Platform  Platform
	Preferred Kind
	Failures  []CandidateError
}

func (e *ProbeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "backend: no usable %s backend on %s", e.Preferred, platformName(e.Platform))
	for _, f := range e.Failures {
		b.WriteString("; ")
		b.WriteString(f.Error())
	}
	if hint := platformHint(e.Platform); hint != "" {
		b.WriteString(" (")
		b.WriteString(hint)
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap exposes ErrBackendNotAvailable and every candidate failure to
// errors.Is and errors.As.
func (e *ProbeError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	errs = append(errs, ErrBackendNotAvailable)
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}

func platformName(p Platform) string {
	switch p {
	case PlatformDarwin:
		return "macOS"
	case PlatformLinux:
		return "Linux"
	case PlatformWindows:
		return "Windows"
	}
	return p.String()
}

func platformHint(p Platform) string {
	switch p {
	case PlatformDarwin:
		return "Metal needs a Metal-capable GPU; Vulkan needs MoltenVK or the Vulkan SDK installed"
	case PlatformLinux:
		return "install a Vulkan loader and driver (libvulkan.so.1) or EGL (libEGL.so.1)"
	case PlatformWindows:
		return "install a GPU driver that provides vulkan-1.dll, or ANGLE for libEGL.dll"
	}
	return "no rendering backend is supported on this platform"
}

// Option configures Create.
type Option func(*options)

type options struct {
	loaders    *LoaderCache
	validation bool
}

// WithLoaders probes through c instead of the process-wide cache.
func WithLoaders(c *LoaderCache) Option {
	return func(o *options) {
		o.loaders = c
	}
}

// WithVulkanValidation enables the Vulkan validation layers.
func WithVulkanValidation(enable bool) Option {
	return func(o *options) {
		o.validation = enable
	}
}

// Create returns a context for the first candidate backend that works.
// A failed candidate releases whatever it created before the next one is
// tried. If all fail, the error is a *ProbeError.
func Create(eng *impeller.Engine, preferred Kind, platform Platform, opts ...Option) (*impeller.Context, error) {
	if eng == nil {
		return nil, fmt.Errorf("%w: engine", impeller.ErrNilArgument)
	}
	if preferred < KindAuto || preferred > KindOpenGLES {
		return nil, fmt.Errorf("%w: %v", ErrUnknownBackend, preferred)
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.loaders == nil {
		o.loaders = Loaders()
	}

	platform = platform.resolve()
	var failures []CandidateError
	for _, k := range Candidates(preferred, platform) {
		ctx, err := createCandidate(eng, k, platform, o)
		if err == nil {
			impeller.Logger().Info("backend: selected", "backend", k.String(), "platform", platform.String())
			return ctx, nil
		}
		impeller.Logger().Warn("backend: candidate failed", "backend", k.String(), "err", err)
		failures = append(failures, CandidateError{Backend: k, Err: err})
	}
	return nil, &ProbeError{Platform: platform, Preferred: preferred, Failures: failures}
}

func createCandidate(eng *impeller.Engine, k Kind, platform Platform, o options) (*impeller.Context, error) {
	switch k {
	case KindMetal:
		if platform != PlatformDarwin {
			return nil, fmt.Errorf("%w: metal requires macOS", ErrBackendNotAvailable)
		}
		return eng.NewMetalContext()

	case KindVulkan:
		l, err := o.loaders.Load(KindVulkan, platform)
		if err != nil {
			return nil, err
		}
		ctx, err := eng.NewVulkanContext(impeller.VulkanSettings{
			Resolve:          l.VulkanProc,
			EnableValidation: o.validation,
		})
		if err != nil {
			return nil, err
		}
		// A context without a usable device is not worth keeping.
		if _, err := ctx.VulkanInfo(); err != nil && !errors.Is(err, impeller.ErrUnsupported) {
			ctx.Dispose()
			return nil, fmt.Errorf("vulkan device unavailable: %w", err)
		}
		return ctx, nil

	case KindOpenGLES:
		l, err := o.loaders.Load(KindOpenGLES, platform)
		if err != nil {
			return nil, err
		}
		return eng.NewOpenGLESContext(l.GLProc)
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownBackend, k)
}
