// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package abitest

import (
	"strings"
	"unsafe"

	"github.com/gogpu/impeller/internal/abi"
)

type ref struct {
	ptr  uintptr
	kind abi.Kind
	null bool // null allowed
}

func obj(p uintptr, k abi.Kind) ref { return ref{ptr: p, kind: k} }
func opt(p uintptr, k abi.Kind) ref { return ref{ptr: p, kind: k, null: true} }

// builderOp appends name to the ops of builder b after validating refs.
func (e *Engine) builderOp(fn string, b uintptr, name string, refs ...ref) {
	e.mu.Lock()
	defer e.mu.Unlock()
	o := e.use(fn, b, abi.KindDisplayListBuilder)
	for _, r := range refs {
		if r.null && r.ptr == 0 {
			continue
		}
		e.use(fn, r.ptr, r.kind)
	}
	if o != nil {
		o.Ops = append(o.Ops, name)
	}
}

func (e *Engine) factory(fn string, k abi.Kind) func() uintptr {
	return func() uintptr {
		e.mu.Lock()
		defer e.mu.Unlock()
		p, _ := e.alloc(fn, k)
		return p
	}
}

// touch validates refs and applies f to the first one.
func (e *Engine) touch(fn string, f func(*Object), refs ...ref) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var first *Object
	for i, r := range refs {
		if r.null && r.ptr == 0 {
			continue
		}
		o := e.use(fn, r.ptr, r.kind)
		if i == 0 {
			first = o
		}
	}
	if first != nil && f != nil {
		f(first)
	}
}

func (e *Engine) newContext(fn, backend string, resolver uintptr, probe func() uintptr) uintptr {
	if probe != nil && probe() == 0 {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	p, o := e.alloc(fn, abi.KindContext)
	if o != nil {
		o.Backend = backend
		o.Resolver = resolver
	}
	return p
}

// Table returns an ABI table backed by e.
func (e *Engine) Table() *abi.Table {
	t := &abi.Table{
		GetVersion: func() uint32 { return Version },
	}

	// Contexts
	t.ContextCreateMetalNew = func(uint32) uintptr {
		return e.newContext("ContextCreateMetalNew", "metal", 0, nil)
	}
	t.ContextCreateOpenGLESNew = func(_ uint32, _, userData uintptr) uintptr {
		return e.newContext("ContextCreateOpenGLESNew", "opengles", userData, func() uintptr {
			return e.resolve("glGetString", abi.ResolveProc(userData, "glGetString"))
		})
	}
	t.ContextCreateVulkanNew = func(_ uint32, s *abi.VulkanSettings) uintptr {
		ud := s.UserData
		return e.newContext("ContextCreateVulkanNew", "vulkan", ud, func() uintptr {
			return e.resolve("vkCreateInstance", abi.ResolveVulkanProc(ud, 0, "vkCreateInstance"))
		})
	}
	t.ContextGetVulkanInfo = func(ctx uintptr, info *abi.VulkanInfo) bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		o := e.use("ContextGetVulkanInfo", ctx, abi.KindContext)
		if o == nil || o.Backend != "vulkan" || e.shouldFail("ContextGetVulkanInfo") {
			return false
		}
		*info = abi.VulkanInfo{Instance: ctx + 1, PhysicalDevice: ctx + 2, LogicalDevice: ctx + 3}
		return true
	}

	// Surfaces
	wrap := func(fn string, ctx, target uintptr, size abi.ISize) uintptr {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.use(fn, ctx, abi.KindContext) == nil || target == 0 {
			return 0
		}
		p, o := e.alloc(fn, abi.KindSurface)
		if o != nil {
			o.Context = ctx
			o.Size = size
		}
		return p
	}
	t.SurfaceCreateWrappedFBONew = func(ctx uintptr, fbo uint64, _ int32, size *abi.ISize) uintptr {
		return wrap("SurfaceCreateWrappedFBONew", ctx, uintptr(fbo), *size)
	}
	t.SurfaceCreateWrappedMetalDrawableNew = func(ctx, drawable uintptr) uintptr {
		return wrap("SurfaceCreateWrappedMetalDrawableNew", ctx, drawable, abi.ISize{})
	}
	t.SurfaceCreateWrappedMetalTextureNew = func(ctx, tex uintptr) uintptr {
		return wrap("SurfaceCreateWrappedMetalTextureNew", ctx, tex, abi.ISize{})
	}
	t.SurfaceDrawDisplayList = func(s, dl uintptr) bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		so := e.use("SurfaceDrawDisplayList", s, abi.KindSurface)
		do := e.use("SurfaceDrawDisplayList", dl, abi.KindDisplayList)
		d := Draw{Surface: s, DisplayList: dl}
		if do != nil {
			d.Ops = append([]string(nil), do.Ops...)
		}
		d.OK = so != nil && do != nil && !so.Spent && !e.shouldFail("SurfaceDrawDisplayList")
		e.draws = append(e.draws, d)
		return d.OK
	}
	t.SurfacePresent = func(s uintptr) bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		o := e.use("SurfacePresent", s, abi.KindSurface)
		if o == nil || o.Spent || e.shouldFail("SurfacePresent") {
			return false
		}
		o.Spent = true
		e.presents++
		return true
	}

	// Swapchain
	t.VulkanSwapchainCreateNew = func(ctx, vkSurface uintptr) uintptr {
		e.mu.Lock()
		defer e.mu.Unlock()
		c := e.use("VulkanSwapchainCreateNew", ctx, abi.KindContext)
		if c == nil || vkSurface == 0 {
			return 0
		}
		p, o := e.alloc("VulkanSwapchainCreateNew", abi.KindVulkanSwapchain)
		if o != nil {
			o.Context = ctx
			c.Refs++
		}
		return p
	}
	t.VulkanSwapchainAcquireNextSurfaceNew = func(sc uintptr) uintptr {
		e.mu.Lock()
		defer e.mu.Unlock()
		o := e.use("VulkanSwapchainAcquireNextSurfaceNew", sc, abi.KindVulkanSwapchain)
		if o == nil {
			return 0
		}
		p, s := e.alloc("VulkanSwapchainAcquireNextSurfaceNew", abi.KindSurface)
		if s != nil {
			s.Context = o.Context
		}
		return p
	}

	// Display list builder
	t.DisplayListBuilderNew = func(cull *abi.Rect) uintptr {
		e.mu.Lock()
		defer e.mu.Unlock()
		p, o := e.alloc("DisplayListBuilderNew", abi.KindDisplayListBuilder)
		if o != nil {
			o.SaveCount = 1
			if cull != nil {
				c := *cull
				o.Cull = &c
			}
		}
		return p
	}
	t.DisplayListBuilderCreateDisplayListNew = func(b uintptr) uintptr {
		e.mu.Lock()
		defer e.mu.Unlock()
		bo := e.use("DisplayListBuilderCreateDisplayListNew", b, abi.KindDisplayListBuilder)
		if bo == nil {
			return 0
		}
		p, o := e.alloc("DisplayListBuilderCreateDisplayListNew", abi.KindDisplayList)
		if o != nil {
			o.Ops = bo.Ops
			o.Cull = bo.Cull
			bo.Ops = nil
			bo.SaveCount = 1
		}
		return p
	}
	t.DisplayListBuilderSave = func(b uintptr) {
		e.touch("DisplayListBuilderSave", func(o *Object) {
			o.SaveCount++
			o.Ops = append(o.Ops, "Save")
		}, obj(b, abi.KindDisplayListBuilder))
	}
	t.DisplayListBuilderSaveLayer = func(b uintptr, _ *abi.Rect, paint, backdrop uintptr) {
		e.touch("DisplayListBuilderSaveLayer", func(o *Object) {
			o.SaveCount++
			o.Ops = append(o.Ops, "SaveLayer")
		}, obj(b, abi.KindDisplayListBuilder), opt(paint, abi.KindPaint), opt(backdrop, abi.KindImageFilter))
	}
	t.DisplayListBuilderRestore = func(b uintptr) {
		e.touch("DisplayListBuilderRestore", func(o *Object) {
			if o.SaveCount > 1 {
				o.SaveCount--
			}
			o.Ops = append(o.Ops, "Restore")
		}, obj(b, abi.KindDisplayListBuilder))
	}
	t.DisplayListBuilderGetSaveCount = func(b uintptr) uint32 {
		var n uint32
		e.touch("DisplayListBuilderGetSaveCount", func(o *Object) { n = o.SaveCount }, obj(b, abi.KindDisplayListBuilder))
		return n
	}
	t.DisplayListBuilderRestoreToCount = func(b uintptr, count uint32) {
		e.touch("DisplayListBuilderRestoreToCount", func(o *Object) {
			if count >= 1 && count < o.SaveCount {
				o.SaveCount = count
			}
			o.Ops = append(o.Ops, "RestoreToCount")
		}, obj(b, abi.KindDisplayListBuilder))
	}
	t.DisplayListBuilderScale = func(b uintptr, _, _ float32) { e.builderOp("DisplayListBuilderScale", b, "Scale") }
	t.DisplayListBuilderRotate = func(b uintptr, _ float32) { e.builderOp("DisplayListBuilderRotate", b, "Rotate") }
	t.DisplayListBuilderTranslate = func(b uintptr, _, _ float32) {
		e.builderOp("DisplayListBuilderTranslate", b, "Translate")
	}
	t.DisplayListBuilderTransform = func(b uintptr, _ *abi.Matrix) {
		e.builderOp("DisplayListBuilderTransform", b, "Transform")
	}
	t.DisplayListBuilderSetTransform = func(b uintptr, _ *abi.Matrix) {
		e.builderOp("DisplayListBuilderSetTransform", b, "SetTransform")
	}
	t.DisplayListBuilderGetTransform = func(b uintptr, out *abi.Matrix) {
		e.touch("DisplayListBuilderGetTransform", nil, obj(b, abi.KindDisplayListBuilder))
		*out = abi.Matrix{0: 1, 5: 1, 10: 1, 15: 1}
	}
	t.DisplayListBuilderResetTransform = func(b uintptr) {
		e.builderOp("DisplayListBuilderResetTransform", b, "ResetTransform")
	}
	t.DisplayListBuilderClipRect = func(b uintptr, _ *abi.Rect, _ int32) {
		e.builderOp("DisplayListBuilderClipRect", b, "ClipRect")
	}
	t.DisplayListBuilderClipOval = func(b uintptr, _ *abi.Rect, _ int32) {
		e.builderOp("DisplayListBuilderClipOval", b, "ClipOval")
	}
	t.DisplayListBuilderClipRoundedRect = func(b uintptr, _ *abi.Rect, _ *abi.RoundingRadii, _ int32) {
		e.builderOp("DisplayListBuilderClipRoundedRect", b, "ClipRoundedRect")
	}
	t.DisplayListBuilderClipPath = func(b, path uintptr, _ int32) {
		e.builderOp("DisplayListBuilderClipPath", b, "ClipPath", obj(path, abi.KindPath))
	}
	t.DisplayListBuilderDrawPaint = func(b, paint uintptr) {
		e.builderOp("DisplayListBuilderDrawPaint", b, "DrawPaint", obj(paint, abi.KindPaint))
	}
	t.DisplayListBuilderDrawLine = func(b uintptr, _, _ *abi.Point, paint uintptr) {
		e.builderOp("DisplayListBuilderDrawLine", b, "DrawLine", obj(paint, abi.KindPaint))
	}
	t.DisplayListBuilderDrawDashedLine = func(b uintptr, _, _ *abi.Point, _, _ float32, paint uintptr) {
		e.builderOp("DisplayListBuilderDrawDashedLine", b, "DrawDashedLine", obj(paint, abi.KindPaint))
	}
	t.DisplayListBuilderDrawRect = func(b uintptr, _ *abi.Rect, paint uintptr) {
		e.builderOp("DisplayListBuilderDrawRect", b, "DrawRect", obj(paint, abi.KindPaint))
	}
	t.DisplayListBuilderDrawOval = func(b uintptr, _ *abi.Rect, paint uintptr) {
		e.builderOp("DisplayListBuilderDrawOval", b, "DrawOval", obj(paint, abi.KindPaint))
	}
	t.DisplayListBuilderDrawRoundedRect = func(b uintptr, _ *abi.Rect, _ *abi.RoundingRadii, paint uintptr) {
		e.builderOp("DisplayListBuilderDrawRoundedRect", b, "DrawRoundedRect", obj(paint, abi.KindPaint))
	}
	t.DisplayListBuilderDrawRoundedRectDifference = func(b uintptr, _ *abi.Rect, _ *abi.RoundingRadii, _ *abi.Rect, _ *abi.RoundingRadii, paint uintptr) {
		e.builderOp("DisplayListBuilderDrawRoundedRectDifference", b, "DrawRoundedRectDifference", obj(paint, abi.KindPaint))
	}
	t.DisplayListBuilderDrawPath = func(b, path, paint uintptr) {
		e.builderOp("DisplayListBuilderDrawPath", b, "DrawPath", obj(path, abi.KindPath), obj(paint, abi.KindPaint))
	}
	t.DisplayListBuilderDrawDisplayList = func(b, dl uintptr, _ float32) {
		e.builderOp("DisplayListBuilderDrawDisplayList", b, "DrawDisplayList", obj(dl, abi.KindDisplayList))
	}
	t.DisplayListBuilderDrawParagraph = func(b, para uintptr, _ *abi.Point) {
		e.builderOp("DisplayListBuilderDrawParagraph", b, "DrawParagraph", obj(para, abi.KindParagraph))
	}
	t.DisplayListBuilderDrawShadow = func(b, path uintptr, _ *abi.Color, _ float32, _ bool, _ float32) {
		e.builderOp("DisplayListBuilderDrawShadow", b, "DrawShadow", obj(path, abi.KindPath))
	}
	t.DisplayListBuilderDrawTexture = func(b, tex uintptr, _ *abi.Point, _ int32, paint uintptr) {
		e.builderOp("DisplayListBuilderDrawTexture", b, "DrawTexture", obj(tex, abi.KindTexture), opt(paint, abi.KindPaint))
	}
	t.DisplayListBuilderDrawTextureRect = func(b, tex uintptr, _, _ *abi.Rect, _ int32, paint uintptr) {
		e.builderOp("DisplayListBuilderDrawTextureRect", b, "DrawTextureRect", obj(tex, abi.KindTexture), opt(paint, abi.KindPaint))
	}

	// Paint
	t.PaintNew = e.factory("PaintNew", abi.KindPaint)
	paintSet := func(fn string) func(uintptr) {
		return func(p uintptr) { e.touch(fn, nil, obj(p, abi.KindPaint)) }
	}
	t.PaintSetColor = func(p uintptr, _ *abi.Color) { paintSet("PaintSetColor")(p) }
	t.PaintSetBlendMode = func(p uintptr, _ int32) { paintSet("PaintSetBlendMode")(p) }
	t.PaintSetDrawStyle = func(p uintptr, _ int32) { paintSet("PaintSetDrawStyle")(p) }
	t.PaintSetStrokeCap = func(p uintptr, _ int32) { paintSet("PaintSetStrokeCap")(p) }
	t.PaintSetStrokeJoin = func(p uintptr, _ int32) { paintSet("PaintSetStrokeJoin")(p) }
	t.PaintSetStrokeWidth = func(p uintptr, _ float32) { paintSet("PaintSetStrokeWidth")(p) }
	t.PaintSetStrokeMiter = func(p uintptr, _ float32) { paintSet("PaintSetStrokeMiter")(p) }
	t.PaintSetColorFilter = func(p, f uintptr) {
		e.touch("PaintSetColorFilter", nil, obj(p, abi.KindPaint), opt(f, abi.KindColorFilter))
	}
	t.PaintSetColorSource = func(p, s uintptr) {
		e.touch("PaintSetColorSource", nil, obj(p, abi.KindPaint), opt(s, abi.KindColorSource))
	}
	t.PaintSetImageFilter = func(p, f uintptr) {
		e.touch("PaintSetImageFilter", nil, obj(p, abi.KindPaint), opt(f, abi.KindImageFilter))
	}
	t.PaintSetMaskFilter = func(p, f uintptr) {
		e.touch("PaintSetMaskFilter", nil, obj(p, abi.KindPaint), opt(f, abi.KindMaskFilter))
	}

	// Paths
	t.PathGetBounds = func(p uintptr, out *abi.Rect) {
		e.touch("PathGetBounds", func(o *Object) {
			if o.Cull != nil {
				*out = *o.Cull
			}
		}, obj(p, abi.KindPath))
	}
	t.PathBuilderNew = e.factory("PathBuilderNew", abi.KindPathBuilder)
	pathOp := func(fn, name string, r *abi.Rect) func(uintptr) {
		return func(b uintptr) {
			e.touch(fn, func(o *Object) {
				o.Ops = append(o.Ops, name)
				if r != nil {
					c := *r
					if o.Cull != nil {
						c = union(*o.Cull, c)
					}
					o.Cull = &c
				}
			}, obj(b, abi.KindPathBuilder))
		}
	}
	t.PathBuilderMoveTo = func(b uintptr, at *abi.Point) {
		pathOp("PathBuilderMoveTo", "MoveTo", &abi.Rect{X: at.X, Y: at.Y})(b)
	}
	t.PathBuilderLineTo = func(b uintptr, at *abi.Point) {
		pathOp("PathBuilderLineTo", "LineTo", &abi.Rect{X: at.X, Y: at.Y})(b)
	}
	t.PathBuilderQuadraticCurveTo = func(b uintptr, _, end *abi.Point) {
		pathOp("PathBuilderQuadraticCurveTo", "QuadTo", &abi.Rect{X: end.X, Y: end.Y})(b)
	}
	t.PathBuilderCubicCurveTo = func(b uintptr, _, _, end *abi.Point) {
		pathOp("PathBuilderCubicCurveTo", "CubicTo", &abi.Rect{X: end.X, Y: end.Y})(b)
	}
	t.PathBuilderAddRect = func(b uintptr, r *abi.Rect) { pathOp("PathBuilderAddRect", "AddRect", r)(b) }
	t.PathBuilderAddArc = func(b uintptr, r *abi.Rect, _, _ float32) { pathOp("PathBuilderAddArc", "AddArc", r)(b) }
	t.PathBuilderAddOval = func(b uintptr, r *abi.Rect) { pathOp("PathBuilderAddOval", "AddOval", r)(b) }
	t.PathBuilderAddRoundedRect = func(b uintptr, r *abi.Rect, _ *abi.RoundingRadii) {
		pathOp("PathBuilderAddRoundedRect", "AddRoundedRect", r)(b)
	}
	t.PathBuilderClose = func(b uintptr) { pathOp("PathBuilderClose", "Close", nil)(b) }
	makePath := func(fn string, take bool) func(uintptr, int32) uintptr {
		return func(b uintptr, _ int32) uintptr {
			e.mu.Lock()
			defer e.mu.Unlock()
			bo := e.use(fn, b, abi.KindPathBuilder)
			if bo == nil {
				return 0
			}
			p, o := e.alloc(fn, abi.KindPath)
			if o != nil {
				o.Ops = append([]string(nil), bo.Ops...)
				o.Cull = bo.Cull
				if take {
					bo.Ops, bo.Cull = nil, nil
				}
			}
			return p
		}
	}
	t.PathBuilderCopyPathNew = makePath("PathBuilderCopyPathNew", false)
	t.PathBuilderTakePathNew = makePath("PathBuilderTakePathNew", true)

	// Filters and color sources
	t.ColorFilterCreateBlendNew = func(*abi.Color, int32) uintptr {
		return e.factory("ColorFilterCreateBlendNew", abi.KindColorFilter)()
	}
	t.ColorFilterCreateColorMatrixNew = func(*abi.ColorMatrix) uintptr {
		return e.factory("ColorFilterCreateColorMatrixNew", abi.KindColorFilter)()
	}
	t.ImageFilterCreateBlurNew = func(_, _ float32, _ int32) uintptr {
		return e.factory("ImageFilterCreateBlurNew", abi.KindImageFilter)()
	}
	t.ImageFilterCreateDilateNew = func(_, _ float32) uintptr {
		return e.factory("ImageFilterCreateDilateNew", abi.KindImageFilter)()
	}
	t.ImageFilterCreateErodeNew = func(_, _ float32) uintptr {
		return e.factory("ImageFilterCreateErodeNew", abi.KindImageFilter)()
	}
	t.ImageFilterCreateMatrixNew = func(*abi.Matrix, int32) uintptr {
		return e.factory("ImageFilterCreateMatrixNew", abi.KindImageFilter)()
	}
	t.ImageFilterCreateComposeNew = func(outer, inner uintptr) uintptr {
		e.touch("ImageFilterCreateComposeNew", nil, obj(outer, abi.KindImageFilter), obj(inner, abi.KindImageFilter))
		return e.factory("ImageFilterCreateComposeNew", abi.KindImageFilter)()
	}
	t.MaskFilterCreateBlurNew = func(int32, float32) uintptr {
		return e.factory("MaskFilterCreateBlurNew", abi.KindMaskFilter)()
	}
	t.ColorSourceCreateLinearGradientNew = func(_, _ *abi.Point, _ uint32, _ *abi.Color, _ *float32, _ int32, _ *abi.Matrix) uintptr {
		return e.factory("ColorSourceCreateLinearGradientNew", abi.KindColorSource)()
	}
	t.ColorSourceCreateRadialGradientNew = func(_ *abi.Point, _ float32, _ uint32, _ *abi.Color, _ *float32, _ int32, _ *abi.Matrix) uintptr {
		return e.factory("ColorSourceCreateRadialGradientNew", abi.KindColorSource)()
	}
	t.ColorSourceCreateSweepGradientNew = func(_ *abi.Point, _, _ float32, _ uint32, _ *abi.Color, _ *float32, _ int32, _ *abi.Matrix) uintptr {
		return e.factory("ColorSourceCreateSweepGradientNew", abi.KindColorSource)()
	}
	t.ColorSourceCreateImageNew = func(tex uintptr, _, _, _ int32, _ *abi.Matrix) uintptr {
		e.touch("ColorSourceCreateImageNew", nil, obj(tex, abi.KindTexture))
		return e.factory("ColorSourceCreateImageNew", abi.KindColorSource)()
	}

	// Textures
	t.TextureCreateWithContentsNew = func(ctx uintptr, desc *abi.TextureDescriptor, m *abi.Mapping, userData uintptr) uintptr {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.use("TextureCreateWithContentsNew", ctx, abi.KindContext) == nil {
			return 0
		}
		p, o := e.alloc("TextureCreateWithContentsNew", abi.KindTexture)
		if o == nil {
			return 0
		}
		o.Size = desc.Size
		o.Contents = bytesAt(m.Data, m.Length)
		if userData != 0 {
			o.UserData = []uintptr{userData}
		}
		return p
	}
	t.TextureCreateWithOpenGLTextureHandleNew = func(ctx uintptr, desc *abi.TextureDescriptor, handle uint64) uintptr {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.use("TextureCreateWithOpenGLTextureHandleNew", ctx, abi.KindContext) == nil {
			return 0
		}
		p, o := e.alloc("TextureCreateWithOpenGLTextureHandleNew", abi.KindTexture)
		if o != nil {
			o.Size = desc.Size
			o.GLHandle = handle
		}
		return p
	}
	t.TextureGetOpenGLHandle = func(tex uintptr) uint64 {
		var h uint64
		e.touch("TextureGetOpenGLHandle", func(o *Object) { h = o.GLHandle }, obj(tex, abi.KindTexture))
		return h
	}

	// Typography
	t.TypographyContextNew = e.factory("TypographyContextNew", abi.KindTypographyContext)
	t.TypographyContextRegisterFont = func(c uintptr, m *abi.Mapping, userData uintptr, alias string) bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		o := e.use("TypographyContextRegisterFont", c, abi.KindTypographyContext)
		if o == nil || m.Length == 0 || e.shouldFail("TypographyContextRegisterFont") {
			return false
		}
		o.Ops = append(o.Ops, "RegisterFont:"+alias)
		if userData != 0 {
			o.UserData = append(o.UserData, userData)
		}
		return true
	}
	t.ParagraphStyleNew = e.factory("ParagraphStyleNew", abi.KindParagraphStyle)
	styleOp := func(fn string) func(uintptr) {
		return func(s uintptr) {
			e.touch(fn, func(o *Object) { o.Ops = append(o.Ops, strings.TrimPrefix(fn, "ParagraphStyle")) }, obj(s, abi.KindParagraphStyle))
		}
	}
	t.ParagraphStyleSetForeground = func(s, p uintptr) {
		e.touch("ParagraphStyleSetForeground", nil, obj(s, abi.KindParagraphStyle), obj(p, abi.KindPaint))
	}
	t.ParagraphStyleSetBackground = func(s, p uintptr) {
		e.touch("ParagraphStyleSetBackground", nil, obj(s, abi.KindParagraphStyle), obj(p, abi.KindPaint))
	}
	t.ParagraphStyleSetFontWeight = func(s uintptr, _ int32) { styleOp("ParagraphStyleSetFontWeight")(s) }
	t.ParagraphStyleSetFontStyle = func(s uintptr, _ int32) { styleOp("ParagraphStyleSetFontStyle")(s) }
	t.ParagraphStyleSetFontFamily = func(s uintptr, _ string) { styleOp("ParagraphStyleSetFontFamily")(s) }
	t.ParagraphStyleSetFontSize = func(s uintptr, _ float32) { styleOp("ParagraphStyleSetFontSize")(s) }
	t.ParagraphStyleSetHeight = func(s uintptr, _ float32) { styleOp("ParagraphStyleSetHeight")(s) }
	t.ParagraphStyleSetTextAlignment = func(s uintptr, _ int32) { styleOp("ParagraphStyleSetTextAlignment")(s) }
	t.ParagraphStyleSetTextDirection = func(s uintptr, dir int32) {
		e.touch("ParagraphStyleSetTextDirection", func(o *Object) {
			if dir == 0 {
				o.Ops = append(o.Ops, "SetTextDirection:rtl")
			} else {
				o.Ops = append(o.Ops, "SetTextDirection:ltr")
			}
		}, obj(s, abi.KindParagraphStyle))
	}
	t.ParagraphStyleSetTextDecoration = func(s uintptr, _ *abi.TextDecoration) {
		styleOp("ParagraphStyleSetTextDecoration")(s)
	}
	t.ParagraphStyleSetMaxLines = func(s uintptr, _ uint32) { styleOp("ParagraphStyleSetMaxLines")(s) }
	t.ParagraphStyleSetLocale = func(s uintptr, locale string) {
		e.touch("ParagraphStyleSetLocale", func(o *Object) { o.Ops = append(o.Ops, "SetLocale:"+locale) }, obj(s, abi.KindParagraphStyle))
	}
	t.ParagraphStyleSetEllipsis = func(s uintptr, _ string) { styleOp("ParagraphStyleSetEllipsis")(s) }

	t.ParagraphBuilderNew = func(tc uintptr) uintptr {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.use("ParagraphBuilderNew", tc, abi.KindTypographyContext) == nil {
			return 0
		}
		p, _ := e.alloc("ParagraphBuilderNew", abi.KindParagraphBuilder)
		return p
	}
	t.ParagraphBuilderPushStyle = func(b, s uintptr) {
		e.touch("ParagraphBuilderPushStyle", func(o *Object) { o.Ops = append(o.Ops, "PushStyle") },
			obj(b, abi.KindParagraphBuilder), obj(s, abi.KindParagraphStyle))
	}
	t.ParagraphBuilderPopStyle = func(b uintptr) {
		e.touch("ParagraphBuilderPopStyle", func(o *Object) { o.Ops = append(o.Ops, "PopStyle") }, obj(b, abi.KindParagraphBuilder))
	}
	t.ParagraphBuilderAddText = func(b uintptr, data *byte, n uint32) {
		text := string(bytesAt(unsafe.Pointer(data), uint64(n)))
		e.touch("ParagraphBuilderAddText", func(o *Object) { o.Text += text }, obj(b, abi.KindParagraphBuilder))
	}
	t.ParagraphBuilderBuildParagraphNew = func(b uintptr, width float32) uintptr {
		e.mu.Lock()
		defer e.mu.Unlock()
		bo := e.use("ParagraphBuilderBuildParagraphNew", b, abi.KindParagraphBuilder)
		if bo == nil {
			return 0
		}
		p, o := e.alloc("ParagraphBuilderBuildParagraphNew", abi.KindParagraph)
		if o != nil {
			o.Text, o.Width = bo.Text, width
			bo.Text = ""
		}
		return p
	}
	paragraph := func(fn string, f func(*Object) float32) func(uintptr) float32 {
		return func(p uintptr) float32 {
			var v float32
			e.touch(fn, func(o *Object) { v = f(o) }, obj(p, abi.KindParagraph))
			return v
		}
	}
	t.ParagraphGetMaxWidth = paragraph("ParagraphGetMaxWidth", func(o *Object) float32 { return o.Width })
	t.ParagraphGetHeight = paragraph("ParagraphGetHeight", func(o *Object) float32 {
		return LineHeight * float32(lineCount(o.Text))
	})
	t.ParagraphGetLongestLineWidth = paragraph("ParagraphGetLongestLineWidth", func(o *Object) float32 {
		return min(o.Width, GlyphAdvance*float32(longestLine(o.Text)))
	})
	t.ParagraphGetMinIntrinsicWidth = paragraph("ParagraphGetMinIntrinsicWidth", func(o *Object) float32 {
		return GlyphAdvance * float32(longestWord(o.Text))
	})
	t.ParagraphGetMaxIntrinsicWidth = paragraph("ParagraphGetMaxIntrinsicWidth", func(o *Object) float32 {
		return GlyphAdvance * float32(longestLine(o.Text))
	})
	t.ParagraphGetLineCount = func(p uintptr) uint32 {
		var n uint32
		e.touch("ParagraphGetLineCount", func(o *Object) { n = uint32(lineCount(o.Text)) }, obj(p, abi.KindParagraph))
		return n
	}

	// Retain and release for every kind.
	for _, k := range abi.Kinds() {
		setRefFuncs(t, k, e.retain(k), e.release(k))
	}
	return t
}

// Fake text metrics: every rune advances GlyphAdvance and every line is
// LineHeight tall. Lines break only at '\n'.
const (
	GlyphAdvance float32 = 8
	LineHeight   float32 = 16
)

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

func longestLine(s string) int {
	n := 0
	for _, l := range strings.Split(s, "\n") {
		n = max(n, len([]rune(l)))
	}
	return n
}

func longestWord(s string) int {
	n := 0
	for _, w := range strings.Fields(s) {
		n = max(n, len([]rune(w)))
	}
	return n
}

func union(a, b abi.Rect) abi.Rect {
	x0, y0 := min(a.X, b.X), min(a.Y, b.Y)
	x1, y1 := max(a.X+a.Width, b.X+b.Width), max(a.Y+a.Height, b.Y+b.Height)
	return abi.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func setRefFuncs(t *abi.Table, k abi.Kind, retain, release func(uintptr)) {
	switch k {
	case abi.KindContext:
		t.ContextRetain, t.ContextRelease = retain, release
	case abi.KindDisplayList:
		t.DisplayListRetain, t.DisplayListRelease = retain, release
	case abi.KindDisplayListBuilder:
		t.DisplayListBuilderRetain, t.DisplayListBuilderRelease = retain, release
	case abi.KindPaint:
		t.PaintRetain, t.PaintRelease = retain, release
	case abi.KindPath:
		t.PathRetain, t.PathRelease = retain, release
	case abi.KindPathBuilder:
		t.PathBuilderRetain, t.PathBuilderRelease = retain, release
	case abi.KindTexture:
		t.TextureRetain, t.TextureRelease = retain, release
	case abi.KindSurface:
		t.SurfaceRetain, t.SurfaceRelease = retain, release
	case abi.KindColorSource:
		t.ColorSourceRetain, t.ColorSourceRelease = retain, release
	case abi.KindColorFilter:
		t.ColorFilterRetain, t.ColorFilterRelease = retain, release
	case abi.KindImageFilter:
		t.ImageFilterRetain, t.ImageFilterRelease = retain, release
	case abi.KindMaskFilter:
		t.MaskFilterRetain, t.MaskFilterRelease = retain, release
	case abi.KindTypographyContext:
		t.TypographyContextRetain, t.TypographyContextRelease = retain, release
	case abi.KindParagraphStyle:
		t.ParagraphStyleRetain, t.ParagraphStyleRelease = retain, release
	case abi.KindParagraphBuilder:
		t.ParagraphBuilderRetain, t.ParagraphBuilderRelease = retain, release
	case abi.KindParagraph:
		t.ParagraphRetain, t.ParagraphRelease = retain, release
	case abi.KindVulkanSwapchain:
		t.VulkanSwapchainRetain, t.VulkanSwapchainRelease = retain, release
	}
}
