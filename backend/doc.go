// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend picks and constructs a rendering context for the current
// platform.
//
// Backends are tried in priority order until one works. For each candidate
// the system loader library (libvulkan, libEGL) is opened, its bootstrap
// symbol resolved, and an [impeller.Context] created with a resolver that
// forwards the engine's symbol lookups to that bootstrap function:
//
//	eng, err := impeller.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//	ctx, err := backend.Create(eng, backend.KindAuto, backend.PlatformAuto)
//	if err != nil {
//		log.Fatal(err) // a *backend.ProbeError listing every candidate
//	}
//	defer ctx.Dispose()
//
// # Candidate Order
//
// With [KindAuto], macOS tries Metal then Vulkan (MoltenVK); every other
// platform tries Vulkan then OpenGL ES. An explicit kind is the only
// candidate.
//
// # Loader Cache
//
// Loader libraries are probed at most once per process and backend. The
// shared cache returned by [Loaders] is created on first use; tests swap
// the probing strategy with [LoaderCache.SetProber] or pass an isolated
// cache through [WithLoaders], and forget results with [LoaderCache.Reset].
package backend
