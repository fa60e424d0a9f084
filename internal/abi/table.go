// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package abi

import "unsafe"

// Table holds one func per Impeller C entry point. The C symbol for a field
// is "Impeller" followed by the field name. Fields tagged optional may be
// nil when the loaded library was built without that backend.
//
// Pointer arguments must not be retained by the callee beyond the call
// unless documented otherwise by impeller.h.
type Table struct {
	GetVersion func() uint32

	// Context
	ContextCreateMetalNew    func(version uint32) uintptr                                      `abi:"optional"`
	ContextCreateOpenGLESNew func(version uint32, callback, userData uintptr) uintptr          `abi:"optional"`
	ContextCreateVulkanNew   func(version uint32, settings *VulkanSettings) uintptr            `abi:"optional"`
	ContextGetVulkanInfo     func(ctx uintptr, info *VulkanInfo) bool                          `abi:"optional"`
	ContextRetain            func(ctx uintptr)
	ContextRelease           func(ctx uintptr)

	// Surface
	SurfaceCreateWrappedFBONew           func(ctx uintptr, fbo uint64, format int32, size *ISize) uintptr `abi:"optional"`
	SurfaceCreateWrappedMetalDrawableNew func(ctx, drawable uintptr) uintptr                           `abi:"optional"`
	SurfaceCreateWrappedMetalTextureNew  func(ctx, texture uintptr) uintptr                            `abi:"optional"`
	SurfaceDrawDisplayList               func(surface, displayList uintptr) bool
	SurfacePresent                       func(surface uintptr) bool
	SurfaceRetain                        func(surface uintptr)
	SurfaceRelease                       func(surface uintptr)

	// Vulkan swapchain
	VulkanSwapchainCreateNew             func(ctx, vulkanSurface uintptr) uintptr `abi:"optional"`
	VulkanSwapchainAcquireNextSurfaceNew func(swapchain uintptr) uintptr          `abi:"optional"`
	VulkanSwapchainRetain                func(swapchain uintptr)                  `abi:"optional"`
	VulkanSwapchainRelease               func(swapchain uintptr)                  `abi:"optional"`

	// Display list
	DisplayListRetain  func(dl uintptr)
	DisplayListRelease func(dl uintptr)

	DisplayListBuilderNew                       func(cull *Rect) uintptr
	DisplayListBuilderRetain                    func(b uintptr)
	DisplayListBuilderRelease                   func(b uintptr)
	DisplayListBuilderCreateDisplayListNew      func(b uintptr) uintptr
	DisplayListBuilderSave                      func(b uintptr)
	DisplayListBuilderSaveLayer                 func(b uintptr, bounds *Rect, paint, backdrop uintptr)
	DisplayListBuilderRestore                   func(b uintptr)
	DisplayListBuilderGetSaveCount              func(b uintptr) uint32
	DisplayListBuilderRestoreToCount            func(b uintptr, count uint32)
	DisplayListBuilderScale                     func(b uintptr, x, y float32)
	DisplayListBuilderRotate                    func(b uintptr, degrees float32)
	DisplayListBuilderTranslate                 func(b uintptr, x, y float32)
	DisplayListBuilderTransform                 func(b uintptr, m *Matrix)
	DisplayListBuilderSetTransform              func(b uintptr, m *Matrix)
	DisplayListBuilderGetTransform              func(b uintptr, out *Matrix)
	DisplayListBuilderResetTransform            func(b uintptr)
	DisplayListBuilderClipRect                  func(b uintptr, r *Rect, op int32)
	DisplayListBuilderClipOval                  func(b uintptr, r *Rect, op int32)
	DisplayListBuilderClipRoundedRect           func(b uintptr, r *Rect, radii *RoundingRadii, op int32)
	DisplayListBuilderClipPath                  func(b uintptr, path uintptr, op int32)
	DisplayListBuilderDrawPaint                 func(b, paint uintptr)
	DisplayListBuilderDrawLine                  func(b uintptr, from, to *Point, paint uintptr)
	DisplayListBuilderDrawDashedLine            func(b uintptr, from, to *Point, on, off float32, paint uintptr)
	DisplayListBuilderDrawRect                  func(b uintptr, r *Rect, paint uintptr)
	DisplayListBuilderDrawOval                  func(b uintptr, r *Rect, paint uintptr)
	DisplayListBuilderDrawRoundedRect           func(b uintptr, r *Rect, radii *RoundingRadii, paint uintptr)
	DisplayListBuilderDrawRoundedRectDifference func(b uintptr, outer *Rect, outerRadii *RoundingRadii, inner *Rect, innerRadii *RoundingRadii, paint uintptr)
	DisplayListBuilderDrawPath                  func(b, path, paint uintptr)
	DisplayListBuilderDrawDisplayList           func(b, dl uintptr, opacity float32)
	DisplayListBuilderDrawParagraph             func(b, paragraph uintptr, at *Point)
	DisplayListBuilderDrawShadow                func(b, path uintptr, color *Color, elevation float32, occluderTransparent bool, dpr float32)
	DisplayListBuilderDrawTexture               func(b, texture uintptr, at *Point, sampling int32, paint uintptr)
	DisplayListBuilderDrawTextureRect           func(b, texture uintptr, src, dst *Rect, sampling int32, paint uintptr)

	// Paint
	PaintNew              func() uintptr
	PaintRetain           func(p uintptr)
	PaintRelease          func(p uintptr)
	PaintSetColor         func(p uintptr, c *Color)
	PaintSetBlendMode     func(p uintptr, mode int32)
	PaintSetDrawStyle     func(p uintptr, style int32)
	PaintSetStrokeCap     func(p uintptr, c int32)
	PaintSetStrokeJoin    func(p uintptr, j int32)
	PaintSetStrokeWidth   func(p uintptr, w float32)
	PaintSetStrokeMiter   func(p uintptr, m float32)
	PaintSetColorFilter   func(p, filter uintptr)
	PaintSetColorSource   func(p, source uintptr)
	PaintSetImageFilter   func(p, filter uintptr)
	PaintSetMaskFilter    func(p, filter uintptr)

	// Paths
	PathRetain    func(p uintptr)
	PathRelease   func(p uintptr)
	PathGetBounds func(p uintptr, out *Rect)

	PathBuilderNew                func() uintptr
	PathBuilderRetain             func(b uintptr)
	PathBuilderRelease            func(b uintptr)
	PathBuilderMoveTo             func(b uintptr, at *Point)
	PathBuilderLineTo             func(b uintptr, at *Point)
	PathBuilderQuadraticCurveTo   func(b uintptr, cp, end *Point)
	PathBuilderCubicCurveTo       func(b uintptr, cp1, cp2, end *Point)
	PathBuilderAddRect            func(b uintptr, r *Rect)
	PathBuilderAddArc             func(b uintptr, oval *Rect, startDegrees, endDegrees float32)
	PathBuilderAddOval            func(b uintptr, oval *Rect)
	PathBuilderAddRoundedRect     func(b uintptr, r *Rect, radii *RoundingRadii)
	PathBuilderClose              func(b uintptr)
	PathBuilderCopyPathNew        func(b uintptr, fill int32) uintptr
	PathBuilderTakePathNew        func(b uintptr, fill int32) uintptr

	// Filters and color sources
	ColorFilterCreateBlendNew       func(c *Color, mode int32) uintptr
	ColorFilterCreateColorMatrixNew func(m *ColorMatrix) uintptr
	ColorFilterRetain               func(f uintptr)
	ColorFilterRelease              func(f uintptr)

	ImageFilterCreateBlurNew    func(sigmaX, sigmaY float32, tile int32) uintptr
	ImageFilterCreateDilateNew  func(radiusX, radiusY float32) uintptr
	ImageFilterCreateErodeNew   func(radiusX, radiusY float32) uintptr
	ImageFilterCreateMatrixNew  func(m *Matrix, sampling int32) uintptr
	ImageFilterCreateComposeNew func(outer, inner uintptr) uintptr
	ImageFilterRetain           func(f uintptr)
	ImageFilterRelease          func(f uintptr)

	MaskFilterCreateBlurNew func(style int32, sigma float32) uintptr
	MaskFilterRetain        func(f uintptr)
	MaskFilterRelease       func(f uintptr)

	ColorSourceCreateLinearGradientNew func(start, end *Point, stopCount uint32, colors *Color, stops *float32, tile int32, m *Matrix) uintptr
	ColorSourceCreateRadialGradientNew func(center *Point, radius float32, stopCount uint32, colors *Color, stops *float32, tile int32, m *Matrix) uintptr
	ColorSourceCreateSweepGradientNew  func(center *Point, start, end float32, stopCount uint32, colors *Color, stops *float32, tile int32, m *Matrix) uintptr
	ColorSourceCreateImageNew          func(texture uintptr, tileX, tileY, sampling int32, m *Matrix) uintptr
	ColorSourceRetain                  func(s uintptr)
	ColorSourceRelease                 func(s uintptr)

	// Textures
	TextureCreateWithContentsNew            func(ctx uintptr, desc *TextureDescriptor, contents *Mapping, userData uintptr) uintptr
	TextureCreateWithOpenGLTextureHandleNew func(ctx uintptr, desc *TextureDescriptor, handle uint64) uintptr `abi:"optional"`
	TextureGetOpenGLHandle                  func(t uintptr) uint64                                          `abi:"optional"`
	TextureRetain                           func(t uintptr)
	TextureRelease                          func(t uintptr)

	// Typography
	TypographyContextNew          func() uintptr
	TypographyContextRetain       func(c uintptr)
	TypographyContextRelease      func(c uintptr)
	TypographyContextRegisterFont func(c uintptr, contents *Mapping, userData uintptr, familyAlias string) bool

	ParagraphStyleNew               func() uintptr
	ParagraphStyleRetain            func(s uintptr)
	ParagraphStyleRelease           func(s uintptr)
	ParagraphStyleSetForeground     func(s, paint uintptr)
	ParagraphStyleSetBackground     func(s, paint uintptr)
	ParagraphStyleSetFontWeight     func(s uintptr, weight int32)
	ParagraphStyleSetFontStyle      func(s uintptr, style int32)
	ParagraphStyleSetFontFamily     func(s uintptr, family string)
	ParagraphStyleSetFontSize       func(s uintptr, size float32)
	ParagraphStyleSetHeight         func(s uintptr, height float32)
	ParagraphStyleSetTextAlignment  func(s uintptr, align int32)
	ParagraphStyleSetTextDirection  func(s uintptr, dir int32)
	ParagraphStyleSetTextDecoration func(s uintptr, d *TextDecoration)
	ParagraphStyleSetMaxLines       func(s uintptr, max uint32)
	ParagraphStyleSetLocale         func(s uintptr, locale string)
	ParagraphStyleSetEllipsis       func(s uintptr, ellipsis string)

	ParagraphBuilderNew                func(typography uintptr) uintptr
	ParagraphBuilderRetain             func(b uintptr)
	ParagraphBuilderRelease            func(b uintptr)
	ParagraphBuilderPushStyle          func(b, style uintptr)
	ParagraphBuilderPopStyle           func(b uintptr)
	ParagraphBuilderAddText            func(b uintptr, data *byte, length uint32)
	ParagraphBuilderBuildParagraphNew  func(b uintptr, width float32) uintptr

	ParagraphRetain               func(p uintptr)
	ParagraphRelease              func(p uintptr)
	ParagraphGetMaxWidth          func(p uintptr) float32
	ParagraphGetHeight            func(p uintptr) float32
	ParagraphGetLongestLineWidth  func(p uintptr) float32
	ParagraphGetMinIntrinsicWidth func(p uintptr) float32
	ParagraphGetMaxIntrinsicWidth func(p uintptr) float32
	ParagraphGetLineCount         func(p uintptr) uint32
}

// Retain increments the native reference count of ptr.
func (t *Table) Retain(k Kind, ptr uintptr) {
	if f := t.retainFunc(k); f != nil {
		f(ptr)
	}
}

// Release decrements the native reference count of ptr. The object is
// collected natively when the count reaches zero.
func (t *Table) Release(k Kind, ptr uintptr) {
	if f := t.releaseFunc(k); f != nil {
		f(ptr)
	}
}

func (t *Table) retainFunc(k Kind) func(uintptr) {
	switch k {
	case KindContext:
		return t.ContextRetain
	case KindDisplayList:
		return t.DisplayListRetain
	case KindDisplayListBuilder:
		return t.DisplayListBuilderRetain
	case KindPaint:
		return t.PaintRetain
	case KindPath:
		return t.PathRetain
	case KindPathBuilder:
		return t.PathBuilderRetain
	case KindTexture:
		return t.TextureRetain
	case KindSurface:
		return t.SurfaceRetain
	case KindColorSource:
		return t.ColorSourceRetain
	case KindColorFilter:
		return t.ColorFilterRetain
	case KindImageFilter:
		return t.ImageFilterRetain
	case KindMaskFilter:
		return t.MaskFilterRetain
	case KindTypographyContext:
		return t.TypographyContextRetain
	case KindParagraphStyle:
		return t.ParagraphStyleRetain
	case KindParagraphBuilder:
		return t.ParagraphBuilderRetain
	case KindParagraph:
		return t.ParagraphRetain
	case KindVulkanSwapchain:
		return t.VulkanSwapchainRetain
	}
	return nil
}

func (t *Table) releaseFunc(k Kind) func(uintptr) {
	switch k {
	case KindContext:
		return t.ContextRelease
	case KindDisplayList:
		return t.DisplayListRelease
	case KindDisplayListBuilder:
		return t.DisplayListBuilderRelease
	case KindPaint:
		return t.PaintRelease
	case KindPath:
		return t.PathRelease
	case KindPathBuilder:
		return t.PathBuilderRelease
	case KindTexture:
		return t.TextureRelease
	case KindSurface:
		return t.SurfaceRelease
	case KindColorSource:
		return t.ColorSourceRelease
	case KindColorFilter:
		return t.ColorFilterRelease
	case KindImageFilter:
		return t.ImageFilterRelease
	case KindMaskFilter:
		return t.MaskFilterRelease
	case KindTypographyContext:
		return t.TypographyContextRelease
	case KindParagraphStyle:
		return t.ParagraphStyleRelease
	case KindParagraphBuilder:
		return t.ParagraphBuilderRelease
	case KindParagraph:
		return t.ParagraphRelease
	case KindVulkanSwapchain:
		return t.VulkanSwapchainRelease
	}
	return nil
}

// BytesPtr returns a pointer to the first byte of b, or nil when b is empty.
// The caller must keep b alive for the duration of the native call.
func BytesPtr(b []byte) *byte {
	if len(b) == 0 {
		return nil
	}
	return unsafe.SliceData(b)
}
