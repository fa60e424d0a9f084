// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build darwin || linux || freebsd

package abi

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// Open loads the shared library name (a file name or a path).
func Open(name string) (uintptr, error) {
	lib, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrLibraryNotFound, name, err)
	}
	return lib, nil
}

// Symbol returns the address of name in lib.
func Symbol(lib uintptr, name string) (uintptr, error) {
	sym, err := purego.Dlsym(lib, name)
	if err != nil || sym == 0 {
		return 0, fmt.Errorf("%w: %s", ErrSymbolNotFound, name)
	}
	return sym, nil
}

// Close unloads lib.
func Close(lib uintptr) error {
	return purego.Dlclose(lib)
}
