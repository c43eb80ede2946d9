// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reload keeps a shader program compiled from files on disk,
// recompiling it when the files change. Compile errors do not stop
// anything: they become the current [State] until the next successful
// compile, so that a render loop can keep running while the sources
// are being edited.
//
// A [Program] is owned by the render goroutine. The [Watcher] goroutine
// only delivers change signals; all compilation happens in
// [Program.Poll] on the owning goroutine.
package reload

import (
	"context"
	"log/slog"
	"time"

	"cogentcore.org/lightfield/base/errors"
	"cogentcore.org/lightfield/gpu"
)

// ErrClosed is returned by [Program.WaitForChange] once the
// event source has stopped.
var ErrClosed = errors.New("reload: event source closed")

// Options configures a [Program].
type Options struct {
	// Debounce is the quiet time after the last change signal
	// before a recompile.
	Debounce time.Duration

	// MaxWait bounds the time from the first change signal to the
	// recompile while signals keep arriving. 0 means no bound.
	MaxWait time.Duration

	// Degrade makes [Open] continue without reloading when the
	// source files cannot be watched.
	Degrade bool

	// Now returns the current time; time.Now if nil.
	Now func() time.Time
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{Debounce: 100 * time.Millisecond, MaxWait: 500 * time.Millisecond}
}

// Program is a shader program that is recompiled when its sources change.
// It is not safe for concurrent use.
type Program struct {
	dev    gpu.Compiler
	src    Sources
	events EventSource
	opts   Options

	state *State

	// pending is true when change signals have been seen
	// since the last compile.
	pending bool

	// first and last are the times of the first and last
	// pending change signals.
	first time.Time
	last  time.Time

	// closed is true once the event channel has been closed.
	closed bool
}

// Open watches the source files of src and returns a [Program] compiled
// from them. If the files cannot be watched, it fails, unless
// opts.Degrade is set, in which case it logs a warning and the
// program never reloads.
func Open(dev gpu.Compiler, src Sources, opts Options) (*Program, error) {
	files, err := src.Files()
	if err != nil {
		return nil, err
	}
	var es EventSource
	w, err := NewWatcher(src.Dir, files...)
	if err != nil {
		if !opts.Degrade {
			return nil, err
		}
		slog.Warn("reload: cannot watch shader sources, reloading is disabled", "err", err)
		es = NewNeverSource()
	} else {
		es = w
	}
	pr, err := NewProgram(dev, src, es, opts)
	if err != nil {
		es.Close()
		return nil, err
	}
	return pr, nil
}

// NewProgram reads and compiles the sources. A compile error becomes the
// initial state; only a failure to read the sources is returned.
// The program takes ownership of events, closing it in [Program.Close].
func NewProgram(dev gpu.Compiler, src Sources, events EventSource, opts Options) (*Program, error) {
	pr := &Program{dev: dev, src: src, events: events, opts: opts}
	ps, _, err := src.read()
	if err != nil {
		return nil, err
	}
	pr.compile(ps)
	return pr, nil
}

func (pr *Program) now() time.Time {
	if pr.opts.Now != nil {
		return pr.opts.Now()
	}
	return time.Now()
}

// State returns the current state without checking for changes.
func (pr *Program) State() *State {
	return pr.state
}

// Poll is called once per frame. It takes all pending change signals
// without blocking and, once the coalescing window of a burst of signals
// has closed, recompiles once and replaces the state. Without change
// signals it returns the same state and does no work.
func (pr *Program) Poll() *State {
	now := pr.now()
	pr.drain(now)
	if pr.pending && pr.due(now) {
		pr.reload()
	}
	return pr.state
}

// WaitForChange blocks until a change has been signaled and its
// coalescing window has closed, so that the next [Program.Poll]
// recompiles. It returns immediately if a recompile is already due.
// It does not compile. It returns [ErrClosed] if the event source stops
// with no change pending, and the context error if ctx is done first.
func (pr *Program) WaitForChange(ctx context.Context) error {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		now := pr.now()
		pr.drain(now)
		if pr.pending && pr.due(now) {
			return nil
		}
		if pr.closed && !pr.pending {
			return ErrClosed
		}
		var events <-chan ChangeEvent
		if !pr.closed {
			events = pr.events.Events()
		}
		var wake <-chan time.Time
		if pr.pending {
			d := pr.deadline().Sub(now)
			if timer == nil {
				timer = time.NewTimer(d)
			} else {
				timer.Reset(d)
			}
			wake = timer.C
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				pr.closed = true
				continue
			}
			pr.observe(ev, pr.now())
		case <-wake:
		}
	}
}

// Close releases the current program and closes the event source.
func (pr *Program) Close() error {
	if pr.state != nil && pr.state.Program != nil {
		pr.state.Program.Release()
	}
	pr.state = nil
	return pr.events.Close()
}

// drain takes all change signals that are ready.
func (pr *Program) drain(now time.Time) {
	if pr.closed {
		return
	}
	for {
		select {
		case ev, ok := <-pr.events.Events():
			if !ok {
				pr.closed = true
				return
			}
			pr.observe(ev, now)
		default:
			return
		}
	}
}

func (pr *Program) observe(ev ChangeEvent, now time.Time) {
	slog.Debug("reload: change", "file", ev.Name, "op", ev.Op.String())
	if !pr.pending {
		pr.pending = true
		pr.first = now
	}
	pr.last = now
}

// deadline returns the time at which the pending recompile is due.
func (pr *Program) deadline() time.Time {
	dl := pr.last.Add(pr.opts.Debounce)
	if pr.opts.MaxWait > 0 {
		if mw := pr.first.Add(pr.opts.MaxWait); mw.Before(dl) {
			dl = mw
		}
	}
	return dl
}

func (pr *Program) due(now time.Time) bool {
	return !now.Before(pr.deadline())
}

// reload re-reads the sources and recompiles. A read failure becomes
// the error state, like a compile error.
func (pr *Program) reload() {
	pr.pending = false
	ps, st, err := pr.src.read()
	if err != nil {
		pr.setState(&State{Err: &gpu.CompileError{Label: pr.src.Label, Stage: st, Diagnostics: "error: " + err.Error(), Err: err}})
		return
	}
	pr.compile(ps)
}

func (pr *Program) compile(ps gpu.ProgramSource) {
	p, err := pr.dev.CompileProgram(ps)
	if err == nil {
		pr.setState(&State{Program: p})
		return
	}
	var ce *gpu.CompileError
	if !errors.As(err, &ce) {
		errors.Log(err)
		ce = &gpu.CompileError{Label: ps.Label, Diagnostics: "error: " + err.Error(), Err: err}
	}
	pr.setState(&State{Err: ce})
}

// setState replaces the state, releasing the previous program.
func (pr *Program) setState(st *State) {
	gen := 0
	if pr.state != nil {
		gen = pr.state.Generation
		if pr.state.Program != nil {
			pr.state.Program.Release()
		}
	}
	st.Generation = gen + 1
	st.Time = pr.now()
	pr.state = st
	if st.Err != nil {
		slog.Error("reload: program failed to compile", "program", pr.src.Label, "generation", st.Generation, "stage", st.Err.Stage.String())
		return
	}
	slog.Info("reload: program compiled", "program", pr.src.Label, "generation", st.Generation)
}
