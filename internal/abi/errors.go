// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package abi

import "errors"

var (
	// ErrLibraryNotFound is returned when a shared library cannot be opened.
	ErrLibraryNotFound = errors.New("abi: library not found")

	// ErrSymbolNotFound is returned when a required symbol is missing.
	ErrSymbolNotFound = errors.New("abi: symbol not found")

	// ErrUnsupportedPlatform is returned on platforms without dynamic loading.
	ErrUnsupportedPlatform = errors.New("abi: dynamic loading not supported on this platform")
)
