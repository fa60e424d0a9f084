// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build darwin || linux || freebsd || windows

package abi

import (
	"sync"

	"github.com/ebitengine/purego"
)

// Call invokes the C function at fn with integer-class arguments.
func Call(fn uintptr, args ...uintptr) uintptr {
	r1, _, _ := purego.SyscallN(fn, args...)
	return r1
}

func registerFunc(fptr any, sym uintptr) {
	purego.RegisterFunc(fptr, sym)
}

// Callback slots are process-wide: purego never frees a callback, so each
// trampoline is created once and user data selects the Go target.
var (
	procCallback       = sync.OnceValue(func() uintptr { return purego.NewCallback(procTrampoline) })
	vulkanProcCallback = sync.OnceValue(func() uintptr { return purego.NewCallback(vulkanProcTrampoline) })
	releaseCallback    = sync.OnceValue(func() uintptr { return purego.NewCallback(releaseTrampoline) })
)

// ProcAddressCallback returns the C function pointer for
// ImpellerProcAddressCallback.
func ProcAddressCallback() uintptr { return procCallback() }

// VulkanProcAddressCallback returns the C function pointer for
// ImpellerVulkanProcAddressCallback.
func VulkanProcAddressCallback() uintptr { return vulkanProcCallback() }

// ReleaseCallback returns the C function pointer invoked by native code when
// it is done with memory passed in a Mapping.
func ReleaseCallback() uintptr { return releaseCallback() }
