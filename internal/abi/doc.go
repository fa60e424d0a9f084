// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package abi is the raw binding to the Impeller C API.
//
// Everything that crosses into native code goes through a [Table]: one Go
// func field per exported C entry point. A Table is populated either by
// [Bind], which resolves the symbols from a loaded shared library, or by a
// test double such as the one in package abitest.
//
// Nothing in this package tracks ownership. Reference counting and
// use-after-free checks live in the handle layer of the root package.
package abi
