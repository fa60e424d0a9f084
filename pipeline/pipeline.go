// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/impeller"
)

// Pipeline errors.
var (
	// ErrClosed is returned when sending to a pipeline after a Stop or Close.
	ErrClosed = errors.New("pipeline: closed")

	// ErrNoScene is returned by New without scenes, or with several scenes
	// and no WithInitialScene.
	ErrNoScene = errors.New("pipeline: no initial scene")

	// ErrUnknownScene is returned by New when the initial scene is not
	// registered.
	ErrUnknownScene = errors.New("pipeline: unknown scene")
)

// State is the worker's lifecycle state.
type State int32

const (
	// StateIdle means no drawable size is known yet.
	StateIdle State = iota
	// StateReady means a size and a scene are known.
	StateReady
	// StateRendering means the active scene is recording a frame.
	StateRendering
	// StateStopped is terminal.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateReady:
		return "ready"
	case StateRendering:
		return "rendering"
	case StateStopped:
		return "stopped"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Pipeline renders scenes on a worker goroutine and publishes the results
// for presentation.
//
// Send and its helpers may be called from one control goroutine; Present
// from one presentation goroutine, which may be the same. The worker
// starts with the first message.
type Pipeline struct {
	ctx    *impeller.Context
	scenes map[string]Scene
	opts   options

	queue *queue
	slot  Slot
	state atomic.Int32
	stats counters

	start sync.Once
	group errgroup.Group

	// last is the frame the presentation side shows again when nothing new
	// has been published. Guarded by presentMu.
	presentMu sync.Mutex
	last      *impeller.CommandList

	closeOnce sync.Once
	closeErr  error
}

// New creates a pipeline rendering with ctx. The pipeline takes ownership
// of ctx and disposes it in Close. scenes maps scene IDs to scenes; the
// map is copied.
func New(ctx *impeller.Context, scenes map[string]Scene, opts ...Option) (*Pipeline, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: context", impeller.ErrNilArgument)
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	copied := make(map[string]Scene, len(scenes))
	for id, s := range scenes {
		if s == nil {
			return nil, fmt.Errorf("%w: scene %q", impeller.ErrNilArgument, id)
		}
		copied[id] = s
	}
	if o.initial == "" {
		if len(copied) != 1 {
			return nil, fmt.Errorf("%w: %d scenes registered", ErrNoScene, len(copied))
		}
		for id := range copied {
			o.initial = id
		}
	}
	if _, ok := copied[o.initial]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, o.initial)
	}

	return &Pipeline{
		ctx:    ctx,
		scenes: copied,
		opts:   o,
		queue:  newQueue(),
	}, nil
}

// Context returns the context the pipeline renders with.
func (p *Pipeline) Context() *impeller.Context { return p.ctx }

// State returns the worker state.
func (p *Pipeline) State() State { return State(p.state.Load()) }

// Stats returns a snapshot of the frame counters.
func (p *Pipeline) Stats() Stats { return p.stats.snapshot() }

// Slot returns the hand-off slot, for consumers that present on their own
// instead of through Present.
func (p *Pipeline) Slot() *Slot { return &p.slot }

// Send queues m for the worker, starting it if necessary. It never blocks.
// Once a Stop has been queued it returns ErrClosed.
func (p *Pipeline) Send(m Message) error {
	if m == nil {
		return fmt.Errorf("%w: message", impeller.ErrNilArgument)
	}
	if p.State() == StateStopped {
		return ErrClosed
	}
	if err := p.queue.push(m); err != nil {
		return err
	}
	p.launch()
	return nil
}

// Resize sends a Resize message.
func (p *Pipeline) Resize(width, height int) error {
	return p.Send(Resize{Width: width, Height: height})
}

// SetParameter sends a ParameterChange message.
func (p *Pipeline) SetParameter(v float64) error {
	return p.Send(ParameterChange{Value: v})
}

// SwitchScene sends a SceneSwitch message.
func (p *Pipeline) SwitchScene(id string) error {
	return p.Send(SceneSwitch{ID: id})
}

func (p *Pipeline) launch() {
	p.start.Do(func() {
		impeller.Logger().Info("pipeline: worker started", "scene", p.opts.initial, "backend", p.ctx.Backend().String())
		p.group.Go(p.run)
	})
}

// Wait blocks until the worker has exited, which happens after a Stop
// message or Close. It returns the errors from closing scenes.
func (p *Pipeline) Wait() error {
	return p.group.Wait()
}

// Close stops the worker and releases everything the pipeline owns, in
// reverse order of creation: the worker is joined, then the unconsumed
// list, the last presented frame and the context are disposed. Close is
// idempotent and returns the first call's result.
func (p *Pipeline) Close() error {
	p.closeOnce.Do(func() {
		// Fails only if a Stop already closed the queue.
		_ = p.queue.push(Stop{})
		p.queue.close()
		p.launch()
		p.closeErr = p.group.Wait()

		p.slot.Dispose()
		p.presentMu.Lock()
		if p.last != nil {
			p.last.Dispose()
			p.last = nil
		}
		p.presentMu.Unlock()
		p.ctx.Dispose()

		st := p.stats.snapshot()
		impeller.Logger().Info("pipeline: closed",
			"built", st.Built, "presented", st.Presented, "superseded", st.Superseded)
	})
	return p.closeErr
}

// worker holds the state only the worker goroutine touches.
type worker struct {
	active  string
	width   int
	height  int
	hasSize bool
	rebuild bool
}

// run is the worker loop. It returns after Stop or when the queue is
// closed and drained.
func (p *Pipeline) run() error {
	w := worker{active: p.opts.initial}
	if p.opts.hasParam {
		p.forwardParameter(p.opts.param)
	}
	defer p.state.Store(int32(StateStopped))

	for {
		batch, ok := p.queue.drain()
		if !ok {
			p.publish(nil)
			return p.closeScenes()
		}
		for _, m := range batch {
			if _, stop := m.(Stop); stop {
				p.publish(nil)
				impeller.Logger().Debug("pipeline: stop received", "discarded", len(batch)-1)
				return p.closeScenes()
			}
			p.apply(&w, m)
		}
		if !w.rebuild {
			continue
		}
		w.rebuild = false
		if !w.hasSize {
			p.publish(nil)
			continue
		}

		p.state.Store(int32(StateRendering))
		list, err := p.render(p.scenes[w.active], w.width, w.height)
		p.state.Store(int32(StateReady))
		if err != nil {
			p.stats.failed.Add(1)
			impeller.Logger().Warn("pipeline: scene render failed", "scene", w.active, "err", err)
		}
		p.publish(list)
	}
}

// apply folds one message into the worker state. Only the latest values
// survive a batch.
func (p *Pipeline) apply(w *worker, m Message) {
	switch m := m.(type) {
	case Resize:
		w.width, w.height = m.Width, m.Height
		w.hasSize = m.Width > 0 && m.Height > 0
		w.rebuild = true
		if w.hasSize {
			p.state.Store(int32(StateReady))
		} else {
			p.state.Store(int32(StateIdle))
		}

	case ParameterChange:
		p.forwardParameter(m.Value)
		if _, ok := p.scenes[w.active].(ParameterSetter); ok && w.hasSize {
			w.rebuild = true
		}

	case SceneSwitch:
		if _, ok := p.scenes[m.ID]; !ok {
			impeller.Logger().Warn("pipeline: unknown scene", "scene", m.ID)
			return
		}
		w.active = m.ID
		if w.hasSize {
			w.rebuild = true
		}
	}
}

func (p *Pipeline) forwardParameter(v float64) {
	for _, s := range p.scenes {
		if ps, ok := s.(ParameterSetter); ok {
			ps.SetParameter(v)
		}
	}
}

// render records one frame of s. It returns a nil list when the scene has
// nothing to draw, and an error when recording failed or the scene
// panicked.
func (p *Pipeline) render(s Scene, width, height int) (list *impeller.CommandList, err error) {
	cull := impeller.Rect{Width: float32(width), Height: float32(height)}
	rec, err := p.ctx.Engine().NewRecorder(&cull)
	if err != nil {
		return nil, err
	}
	defer rec.Dispose()
	defer func() {
		if r := recover(); r != nil {
			list, err = nil, fmt.Errorf("pipeline: scene panicked: %v", r)
		}
	}()

	ok, err := s.Render(rec, width, height)
	if err != nil || !ok {
		return nil, err
	}
	return rec.Build()
}

func (p *Pipeline) publish(l *impeller.CommandList) {
	if l != nil {
		p.stats.built.Add(1)
	} else {
		p.stats.empty.Add(1)
	}
	if p.slot.Publish(l) {
		p.stats.superseded.Add(1)
	}
}

// closeScenes closes every scene implementing io.Closer, in ID order.
func (p *Pipeline) closeScenes() error {
	ids := make([]string, 0, len(p.scenes))
	for id := range p.scenes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var errs []error
	for _, id := range ids {
		c, ok := p.scenes[id].(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("scene %q: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
