// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package abitest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/impeller/internal/abi"
)

func TestReleaseCountsDeallocOnce(t *testing.T) {
	e := New()
	tbl := e.Table()

	p := tbl.PaintNew()
	require.NotZero(t, p)
	tbl.Retain(abi.KindPaint, p)
	tbl.Release(abi.KindPaint, p)
	assert.Equal(t, 0, e.Deallocs(p))
	assert.Equal(t, 1, e.Live())

	tbl.Release(abi.KindPaint, p)
	assert.Equal(t, 1, e.Deallocs(p))
	assert.Zero(t, e.Live())
	assert.Empty(t, e.Violations())

	tbl.Release(abi.KindPaint, p)
	assert.Equal(t, 2, e.Deallocs(p))
	assert.Len(t, e.Violations(), 1)
}

func TestFailInjection(t *testing.T) {
	e := New()
	tbl := e.Table()

	e.Fail("PaintNew", 1)
	assert.Zero(t, tbl.PaintNew())
	assert.NotZero(t, tbl.PaintNew())

	e.Fail("PathBuilderNew", -1)
	assert.Zero(t, tbl.PathBuilderNew())
	assert.Zero(t, tbl.PathBuilderNew())
	e.Fail("PathBuilderNew", 0)
	assert.NotZero(t, tbl.PathBuilderNew())
}

func TestUseAfterFreeIsViolation(t *testing.T) {
	e := New()
	tbl := e.Table()

	b := tbl.DisplayListBuilderNew(nil)
	p := tbl.PaintNew()
	tbl.Release(abi.KindPaint, p)
	tbl.DisplayListBuilderDrawPaint(b, p)

	require.Len(t, e.Violations(), 1)
	assert.Contains(t, e.Violations()[0], "used after free")
}

func TestVulkanContextResolvesThroughUserData(t *testing.T) {
	e := New()
	tbl := e.Table()

	id := abi.Register(abi.VulkanProcResolver(func(_ uintptr, name string) uintptr {
		return uintptr(len(name))
	}))
	ctx := tbl.ContextCreateVulkanNew(Version, &abi.VulkanSettings{UserData: id})
	require.NotZero(t, ctx)
	assert.Equal(t, []string{"vkCreateInstance"}, e.Resolved())

	tbl.Release(abi.KindContext, ctx)
	abi.Unregister(id)
	assert.Empty(t, e.Violations())
}

func TestVulkanContextFailsWithoutResolver(t *testing.T) {
	e := New()
	ctx := e.Table().ContextCreateVulkanNew(Version, &abi.VulkanSettings{UserData: 0})
	assert.Zero(t, ctx)
	assert.Zero(t, e.Live())
}

func TestSurfaceIsSingleShot(t *testing.T) {
	e := New()
	tbl := e.Table()

	ctx := tbl.ContextCreateMetalNew(Version)
	s := tbl.SurfaceCreateWrappedMetalDrawableNew(ctx, 0xd00d)
	b := tbl.DisplayListBuilderNew(nil)
	dl := tbl.DisplayListBuilderCreateDisplayListNew(b)

	assert.True(t, tbl.SurfaceDrawDisplayList(s, dl))
	assert.True(t, tbl.SurfacePresent(s))
	assert.False(t, tbl.SurfacePresent(s))
	assert.False(t, tbl.SurfaceDrawDisplayList(s, dl))
	assert.Equal(t, 1, e.Presents())
}

func TestLeaksListsLiveObjects(t *testing.T) {
	e := New()
	tbl := e.Table()
	tbl.PaintNew()
	leaks := e.Leaks()
	require.Len(t, leaks, 1)
	assert.Contains(t, leaks[0], "Paint@")
}
