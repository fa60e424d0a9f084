// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package abi

import "sync"

// Native code may hold user data across calls (resolver callbacks, release
// notifications), so it never receives Go pointers. It receives an id from
// this registry instead and the trampolines map it back to the Go value.
var (
	handlesMu sync.RWMutex
	handles   = make(map[uintptr]any)
	nextID    uintptr = 1
)

// Register stores v and returns the id to hand to native code as user data.
// The value stays reachable until Unregister is called.
func Register(v any) uintptr {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	id := nextID
	nextID++
	handles[id] = v
	return id
}

// Lookup returns the value registered under id, or nil.
func Lookup(id uintptr) any {
	handlesMu.RLock()
	defer handlesMu.RUnlock()
	return handles[id]
}

// Unregister drops the value registered under id.
func Unregister(id uintptr) {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	delete(handles, id)
}

// Registered reports how many ids are live. Used by leak checks in tests.
func Registered() int {
	handlesMu.RLock()
	defer handlesMu.RUnlock()
	return len(handles)
}
