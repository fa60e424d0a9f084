// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package abi

import (
	"fmt"
	"reflect"
	"strings"
)

const symbolPrefix = "Impeller"

// Bind resolves every Table entry point from the library handle lib.
// Missing optional symbols leave their field nil; any other missing symbol
// fails the whole bind.
func Bind(lib uintptr) (*Table, error) {
	t := &Table{}
	v := reflect.ValueOf(t).Elem()
	typ := v.Type()

	var missing []string
	for i := range typ.NumField() {
		f := typ.Field(i)
		if f.Type.Kind() != reflect.Func {
			continue
		}
		name := symbolPrefix + f.Name
		sym, err := Symbol(lib, name)
		if err != nil {
			if f.Tag.Get("abi") != "optional" {
				missing = append(missing, name)
			}
			continue
		}
		registerFunc(v.Field(i).Addr().Interface(), sym)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrSymbolNotFound, strings.Join(missing, ", "))
	}
	return t, nil
}
