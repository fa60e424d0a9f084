// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import (
	"sync/atomic"

	"github.com/gogpu/impeller"
)

// frame is one publication. A nil list is a published "nothing to draw".
type frame struct {
	list *impeller.CommandList
}

// Slot hands the most recent CommandList from the worker to the
// presentation side. It holds at most one publication; publishing over an
// unconsumed list disposes that list. Every access is a single atomic
// exchange, so neither side ever waits for the other.
//
// The zero Slot is empty and ready to use.
type Slot struct {
	p atomic.Pointer[frame]
}

// Publish stores l, which may be nil to signal that there is nothing to
// draw. It reports whether an unconsumed list was disposed to make room;
// replacing an empty frame discards nothing.
func (s *Slot) Publish(l *impeller.CommandList) (discarded bool) {
	old := s.p.Swap(&frame{list: l})
	if old == nil || old.list == nil {
		return false
	}
	old.list.Dispose()
	return true
}

// Take empties the slot and returns what was published. ok is false when
// nothing was published since the last Take; l is nil when a "nothing to
// draw" publication was taken. The caller owns l.
func (s *Slot) Take() (l *impeller.CommandList, ok bool) {
	f := s.p.Swap(nil)
	if f == nil {
		return nil, false
	}
	return f.list, true
}

// Dispose empties the slot, disposing any unconsumed list.
func (s *Slot) Dispose() {
	if f := s.p.Swap(nil); f != nil && f.list != nil {
		f.list.Dispose()
	}
}
