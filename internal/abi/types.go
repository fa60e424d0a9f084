// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package abi

import "unsafe"

// C-compatible value types. Field order and widths follow impeller.h.

type Point struct {
	X, Y float32
}

type Size struct {
	Width, Height float32
}

type ISize struct {
	Width, Height int64
}

type Rect struct {
	X, Y, Width, Height float32
}

type RoundingRadii struct {
	TopLeft, BottomLeft, TopRight, BottomRight Point
}

type Color struct {
	R, G, B, A float32
	Space      int32
}

// Matrix is a 4x4 column-major transform.
type Matrix [16]float32

// ColorMatrix is a 4x5 row-major color transform.
type ColorMatrix [20]float32

type TextureDescriptor struct {
	PixelFormat int32
	Size        ISize
	MipCount    uint32
}

// Mapping describes a block of memory handed to native code. Data must stay
// pinned until OnRelease is invoked with the user data supplied alongside.
type Mapping struct {
	Data      unsafe.Pointer
	Length    uint64
	OnRelease uintptr
}

type VulkanSettings struct {
	UserData            uintptr
	ProcAddressCallback uintptr
	EnableValidation    bool
}

type VulkanInfo struct {
	Instance                 uintptr
	PhysicalDevice           uintptr
	LogicalDevice            uintptr
	GraphicsQueueFamilyIndex uint32
	GraphicsQueueIndex       uint32
}

type TextDecoration struct {
	Types     int32
	Color     Color
	Style     int32
	Thickness float32
}
