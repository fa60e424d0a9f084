// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package abi

import "fmt"

// Kind identifies the native object family a pointer belongs to. Each kind
// has its own retain and release entry points.
type Kind uint8

const (
	KindContext Kind = iota
	KindDisplayList
	KindDisplayListBuilder
	KindPaint
	KindPath
	KindPathBuilder
	KindTexture
	KindSurface
	KindColorSource
	KindColorFilter
	KindImageFilter
	KindMaskFilter
	KindTypographyContext
	KindParagraphStyle
	KindParagraphBuilder
	KindParagraph
	KindVulkanSwapchain

	kindCount
)

var kindNames = [kindCount]string{
	KindContext:            "Context",
	KindDisplayList:        "DisplayList",
	KindDisplayListBuilder: "DisplayListBuilder",
	KindPaint:              "Paint",
	KindPath:               "Path",
	KindPathBuilder:        "PathBuilder",
	KindTexture:            "Texture",
	KindSurface:            "Surface",
	KindColorSource:        "ColorSource",
	KindColorFilter:        "ColorFilter",
	KindImageFilter:        "ImageFilter",
	KindMaskFilter:         "MaskFilter",
	KindTypographyContext:  "TypographyContext",
	KindParagraphStyle:     "ParagraphStyle",
	KindParagraphBuilder:   "ParagraphBuilder",
	KindParagraph:          "Paragraph",
	KindVulkanSwapchain:    "VulkanSwapchain",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Kinds returns every known object kind.
func Kinds() []Kind {
	ks := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		ks = append(ks, k)
	}
	return ks
}
