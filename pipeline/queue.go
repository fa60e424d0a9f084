// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import "sync"

// queue is an unbounded FIFO with one reader. push never blocks; the
// reader takes everything queued at once and sleeps only when empty.
type queue struct {
	mu     sync.Mutex
	items  []Message
	closed bool

	// signal has room for one wakeup. The reader re-checks items after
	// every wakeup, so coalesced signals lose nothing.
	signal chan struct{}
}

func newQueue() *queue {
	return &queue{signal: make(chan struct{}, 1)}
}

// push appends m. It fails with ErrClosed after close or after a Stop was
// pushed, since nothing behind a Stop is ever delivered.
func (q *queue) push(m Message) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.items = append(q.items, m)
	if _, stop := m.(Stop); stop {
		q.closed = true
	}
	q.mu.Unlock()
	q.wake()
	return nil
}

// close rejects further pushes. Messages already queued are still
// delivered.
func (q *queue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.wake()
}

func (q *queue) wake() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// drain blocks until at least one message is queued and returns all of
// them in order. It returns false once the queue is closed and empty.
func (q *queue) drain() ([]Message, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			batch := q.items
			q.items = nil
			q.mu.Unlock()
			return batch, true
		}
		if q.closed {
			q.mu.Unlock()
			return nil, false
		}
		q.mu.Unlock()
		<-q.signal
	}
}

// len reports the number of queued messages.
func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
