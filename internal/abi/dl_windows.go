// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build windows

package abi

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// Open loads the DLL name (a file name or a path).
func Open(name string) (uintptr, error) {
	h, err := windows.LoadLibrary(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrLibraryNotFound, name, err)
	}
	return uintptr(h), nil
}

// Symbol returns the address of name in lib.
func Symbol(lib uintptr, name string) (uintptr, error) {
	sym, err := windows.GetProcAddress(windows.Handle(lib), name)
	if err != nil || sym == 0 {
		return 0, fmt.Errorf("%w: %s", ErrSymbolNotFound, name)
	}
	return sym, nil
}

// Close unloads lib.
func Close(lib uintptr) error {
	return windows.FreeLibrary(windows.Handle(lib))
}
