// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !(darwin || linux || freebsd || windows)

package abi

func Open(string) (uintptr, error)           { return 0, ErrUnsupportedPlatform }
func Symbol(uintptr, string) (uintptr, error) { return 0, ErrUnsupportedPlatform }
func Close(uintptr) error                     { return ErrUnsupportedPlatform }

func Call(uintptr, ...uintptr) uintptr { return 0 }

func registerFunc(any, uintptr) {}

func ProcAddressCallback() uintptr       { return 0 }
func VulkanProcAddressCallback() uintptr { return 0 }
func ReleaseCallback() uintptr           { return 0 }
