// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package backend

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gogpu/impeller"
)

// Kind names a rendering backend.
type Kind int

const (
	// KindAuto selects the platform's candidates in priority order.
	KindAuto Kind = iota
	KindMetal
	KindVulkan
	KindOpenGLES
)

func (k Kind) String() string {
	switch k {
	case KindAuto:
		return "auto"
	case KindMetal:
		return "metal"
	case KindVulkan:
		return "vulkan"
	case KindOpenGLES:
		return "opengles"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Backend returns the context backend of a concrete kind.
func (k Kind) Backend() (impeller.Backend, bool) {
	switch k {
	case KindMetal:
		return impeller.BackendMetal, true
	case KindVulkan:
		return impeller.BackendVulkan, true
	case KindOpenGLES:
		return impeller.BackendOpenGLES, true
	}
	return 0, false
}

// ParseKind parses a backend name as used in configuration files and the
// IMPELLER_BACKEND variable. The empty string means auto.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return KindAuto, nil
	case "metal":
		return KindMetal, nil
	case "vulkan", "vk":
		return KindVulkan, nil
	case "opengles", "gles", "opengl":
		return KindOpenGLES, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownBackend, s)
}

// Platform is the operating system family candidates are chosen for.
type Platform int

const (
	// PlatformAuto detects the running platform.
	PlatformAuto Platform = iota
	PlatformDarwin
	PlatformLinux
	PlatformWindows
	PlatformOther
)

func (p Platform) String() string {
	switch p {
	case PlatformAuto:
		return "auto"
	case PlatformDarwin:
		return "darwin"
	case PlatformLinux:
		return "linux"
	case PlatformWindows:
		return "windows"
	}
	return "other"
}

// DetectPlatform returns the platform the process runs on.
func DetectPlatform() Platform {
	return platformFor(runtime.GOOS)
}

func platformFor(goos string) Platform {
	switch goos {
	case "darwin", "ios":
		return PlatformDarwin
	case "linux", "android", "freebsd":
		return PlatformLinux
	case "windows":
		return PlatformWindows
	}
	return PlatformOther
}

// ParsePlatform parses a platform hint. The empty string means auto.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return PlatformAuto, nil
	case "darwin", "macos":
		return PlatformDarwin, nil
	case "linux":
		return PlatformLinux, nil
	case "windows":
		return PlatformWindows, nil
	}
	return 0, fmt.Errorf("backend: unknown platform %q", s)
}

// resolve replaces PlatformAuto with the detected platform.
func (p Platform) resolve() Platform {
	if p == PlatformAuto {
		return DetectPlatform()
	}
	return p
}

// Priority order for automatic selection (first available wins). The
// platform's primary API comes first, the portable fallback next.
var (
	darwinPriority  = []Kind{KindMetal, KindVulkan}
	defaultPriority = []Kind{KindVulkan, KindOpenGLES}
)

// Candidates returns the backends Create tries, in order.
func Candidates(preferred Kind, p Platform) []Kind {
	if preferred != KindAuto {
		return []Kind{preferred}
	}
	if p.resolve() == PlatformDarwin {
		return append([]Kind(nil), darwinPriority...)
	}
	return append([]Kind(nil), defaultPriority...)
}

// loaderNames returns the system libraries providing the bootstrap symbol
// of k, most specific first. Metal needs no loader.
func loaderNames(k Kind, p Platform) []string {
	switch k {
	case KindVulkan:
		switch p {
		case PlatformWindows:
			return []string{"vulkan-1.dll"}
		case PlatformDarwin:
			return []string{"libvulkan.dylib", "libvulkan.1.dylib", "/usr/local/lib/libvulkan.dylib"}
		default:
			return []string{"libvulkan.so.1", "libvulkan.so"}
		}
	case KindOpenGLES:
		switch p {
		case PlatformWindows:
			return []string{"libEGL.dll"}
		case PlatformDarwin:
			return []string{"libEGL.dylib"}
		default:
			return []string{"libEGL.so.1", "libEGL.so"}
		}
	}
	return nil
}

// bootstrapSymbol is the one function looked up directly in the loader;
// everything else is resolved through it.
func bootstrapSymbol(k Kind) string {
	switch k {
	case KindVulkan:
		return "vkGetInstanceProcAddr"
	case KindOpenGLES:
		return "eglGetProcAddress"
	}
	return ""
}
