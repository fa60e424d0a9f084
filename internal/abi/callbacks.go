// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package abi

// ProcResolver resolves a GL/EGL function by name. It returns 0 when the
// function is unknown.
type ProcResolver func(name string) uintptr

// VulkanProcResolver resolves a Vulkan function for the given instance.
// instance is 0 for global commands.
type VulkanProcResolver func(instance uintptr, name string) uintptr

// ResolveProc dispatches a native proc-address request to the ProcResolver
// registered under userData.
func ResolveProc(userData uintptr, name string) uintptr {
	r, ok := Lookup(userData).(ProcResolver)
	if !ok || r == nil {
		return 0
	}
	return r(name)
}

// ResolveVulkanProc dispatches a native Vulkan proc-address request to the
// VulkanProcResolver registered under userData.
func ResolveVulkanProc(userData, instance uintptr, name string) uintptr {
	r, ok := Lookup(userData).(VulkanProcResolver)
	if !ok || r == nil {
		return 0
	}
	return r(instance, name)
}

// ReleaseContents runs the release func registered under userData once and
// unregisters it. Native code calls this when it no longer reads memory
// handed over in a Mapping.
func ReleaseContents(userData uintptr) {
	v := Lookup(userData)
	Unregister(userData)
	if f, ok := v.(func()); ok && f != nil {
		f()
	}
}

func procTrampoline(name, userData uintptr) uintptr {
	return ResolveProc(userData, GoString(name))
}

func vulkanProcTrampoline(instance, name, userData uintptr) uintptr {
	return ResolveVulkanProc(userData, instance, GoString(name))
}

func releaseTrampoline(userData uintptr) uintptr {
	ReleaseContents(userData)
	return 0
}
