// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package abi

import "unsafe"

// maxCString bounds the scan for a terminator in strings coming from native
// code. Proc names are short; anything longer is treated as garbage.
const maxCString = 1 << 12

// GoString copies the NUL-terminated C string at p into a Go string. p must
// not point into the Go heap.
func GoString(p uintptr) string {
	if p == 0 {
		return ""
	}
	ptr := unsafe.Pointer(p) //nolint:govet // p points to C memory
	n := 0
	for n < maxCString && *(*byte)(unsafe.Add(ptr, n)) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(ptr), n))
}
