// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package platform connects a windowing system to impeller surfaces.
//
// A Host is the only thing the rest of the module needs from a window: a
// way to acquire the next presentable Target and to retain and release the
// native drawable behind it. OpenSurface wraps a Target as an
// *impeller.Surface for the matching context backend.
//
// HostSource and SwapchainSource supply per-frame surfaces to
// pipeline.Pipeline.Present.
package platform
