// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reload

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cogentcore.org/lightfield/gpu"
	"cogentcore.org/lightfield/gpu/soft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	vertexSrc = `@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`
	fragmentSrc = `@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`
	brokenSrc = `@fragment
fn fs_main( -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`
)

// stubSource is an [EventSource] driven by the test.
type stubSource struct {
	ch chan ChangeEvent
}

func newStubSource() *stubSource {
	return &stubSource{ch: make(chan ChangeEvent, EventQueueSize)}
}

func (ss *stubSource) Events() <-chan ChangeEvent { return ss.ch }

func (ss *stubSource) Close() error {
	close(ss.ch)
	return nil
}

func (ss *stubSource) signal(name string) {
	ss.ch <- ChangeEvent{Name: name}
}

// countingCompiler counts compilations.
type countingCompiler struct {
	gpu.Compiler
	n int
}

func (cc *countingCompiler) CompileProgram(src gpu.ProgramSource) (gpu.Program, error) {
	cc.n++
	return cc.Compiler.CompileProgram(src)
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	t time.Time
}

func (fc *fakeClock) now() time.Time { return fc.t }

func (fc *fakeClock) advance(d time.Duration) { fc.t = fc.t.Add(d) }

func writeSources(t *testing.T, dir, vertex, fragment string) Sources {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "view.vert.wgsl"), []byte(vertex), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "view.frag.wgsl"), []byte(fragment), 0644))
	return Sources{Label: "view", Dir: dir, Vertex: "view.vert.wgsl", Fragment: "view.frag.wgsl"}
}

func newTestProgram(t *testing.T, vertex, fragment string, opts Options) (*Program, *stubSource, *countingCompiler, Sources) {
	t.Helper()
	src := writeSources(t, t.TempDir(), vertex, fragment)
	dev := soft.NewDevice()
	t.Cleanup(dev.Release)
	cc := &countingCompiler{Compiler: dev}
	ss := newStubSource()
	pr, err := NewProgram(cc, src, ss, opts)
	require.NoError(t, err)
	t.Cleanup(func() { pr.Close() })
	return pr, ss, cc, src
}

func TestInitialCompile(t *testing.T) {
	pr, _, cc, _ := newTestProgram(t, vertexSrc, fragmentSrc, Options{})
	st := pr.State()
	require.True(t, st.OK())
	assert.Equal(t, 1, st.Generation)
	assert.Equal(t, "view", st.Program.Label())
	assert.Equal(t, 1, cc.n)
}

func TestInitialCompileError(t *testing.T) {
	pr, _, _, _ := newTestProgram(t, vertexSrc, brokenSrc, Options{})
	st := pr.Poll()
	assert.False(t, st.OK())
	assert.Nil(t, st.Program)
	require.NotNil(t, st.Err)
	assert.Equal(t, gpu.FragmentShader, st.Err.Stage)
	assert.NotEmpty(t, st.Err.Diagnostics)
	assert.Equal(t, 1, st.Generation)
}

func TestMissingSource(t *testing.T) {
	dir := t.TempDir()
	src := Sources{Label: "view", Dir: dir, Vertex: "missing.wgsl", Fragment: "missing.wgsl"}
	_, err := NewProgram(soft.NewDevice(), src, newStubSource(), Options{})
	assert.ErrorIs(t, err, fs.ErrNotExist)

	src = Sources{Label: "view", Dir: dir}
	_, err = NewProgram(soft.NewDevice(), src, newStubSource(), Options{})
	assert.Error(t, err)
}

func TestPollIdempotent(t *testing.T) {
	pr, _, cc, _ := newTestProgram(t, vertexSrc, fragmentSrc, Options{})
	st := pr.Poll()
	for range 100 {
		assert.Same(t, st, pr.Poll())
	}
	assert.Equal(t, 1, cc.n)
}

func TestEditReload(t *testing.T) {
	pr, ss, cc, src := newTestProgram(t, vertexSrc, fragmentSrc, Options{})
	first := pr.Poll()
	require.True(t, first.OK())
	fp, err := src.Path(gpu.FragmentShader)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(fp, []byte(brokenSrc), 0644))
	ss.signal(fp)
	st := pr.Poll()
	assert.NotSame(t, first, st)
	require.NotNil(t, st.Err)
	assert.Equal(t, 2, st.Generation)
	assert.True(t, first.Program.(*soft.Program).Released())

	// the error state stays until the next change
	assert.Same(t, st, pr.Poll())

	require.NoError(t, os.WriteFile(fp, []byte(fragmentSrc), 0644))
	ss.signal(fp)
	st = pr.Poll()
	require.True(t, st.OK())
	assert.Equal(t, 3, st.Generation)
	assert.Equal(t, 3, cc.n)
}

func TestCoalesce(t *testing.T) {
	pr, ss, cc, _ := newTestProgram(t, vertexSrc, fragmentSrc, Options{})
	for range 5 {
		ss.signal("view.frag.wgsl")
	}
	st := pr.Poll()
	assert.Equal(t, 2, st.Generation)
	assert.Equal(t, 2, cc.n)
	assert.Same(t, st, pr.Poll())
}

func TestDebounce(t *testing.T) {
	fc := &fakeClock{t: time.Unix(1000, 0)}
	opts := Options{Debounce: 100 * time.Millisecond, MaxWait: 500 * time.Millisecond, Now: fc.now}
	pr, ss, cc, _ := newTestProgram(t, vertexSrc, fragmentSrc, opts)

	ss.signal("a")
	pr.Poll()
	fc.advance(50 * time.Millisecond)
	ss.signal("a")
	pr.Poll()
	fc.advance(70 * time.Millisecond)
	assert.Equal(t, 1, pr.Poll().Generation, "window still open")
	fc.advance(30 * time.Millisecond)
	assert.Equal(t, 2, pr.Poll().Generation, "quiet for the debounce time")
	assert.Equal(t, 2, cc.n)

	// a steady stream of signals is capped by MaxWait
	for range 9 {
		ss.signal("a")
		pr.Poll()
		fc.advance(60 * time.Millisecond)
	}
	assert.Equal(t, 3, pr.Poll().Generation)
	assert.Equal(t, 3, cc.n)
}

func TestReadFailure(t *testing.T) {
	pr, ss, _, src := newTestProgram(t, vertexSrc, fragmentSrc, Options{})
	fp, err := src.Path(gpu.FragmentShader)
	require.NoError(t, err)
	require.NoError(t, os.Remove(fp))
	ss.signal(fp)
	st := pr.Poll()
	require.NotNil(t, st.Err)
	assert.Equal(t, gpu.FragmentShader, st.Err.Stage)
	assert.ErrorIs(t, st.Err, fs.ErrNotExist)
}

func TestWaitForChange(t *testing.T) {
	pr, ss, cc, _ := newTestProgram(t, vertexSrc, fragmentSrc, Options{Debounce: 10 * time.Millisecond})

	go func() {
		time.Sleep(20 * time.Millisecond)
		ss.signal("a")
	}()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, pr.WaitForChange(ctx))
	assert.Equal(t, 1, cc.n, "waiting does not compile")
	assert.Equal(t, 2, pr.Poll().Generation)

	// already due
	ss.signal("a")
	assert.Equal(t, 2, pr.Poll().Generation)
	time.Sleep(15 * time.Millisecond)
	require.NoError(t, pr.WaitForChange(ctx))
	assert.Equal(t, 3, pr.Poll().Generation)
}

func TestWaitForChangeTimeout(t *testing.T) {
	pr, _, _, _ := newTestProgram(t, vertexSrc, fragmentSrc, Options{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, pr.WaitForChange(ctx), context.DeadlineExceeded)
}

func TestWaitForChangeClosed(t *testing.T) {
	src := writeSources(t, t.TempDir(), vertexSrc, fragmentSrc)
	dev := soft.NewDevice()
	defer dev.Release()
	ss := newStubSource()
	pr, err := NewProgram(dev, src, ss, Options{})
	require.NoError(t, err)
	ss.Close()
	assert.ErrorIs(t, pr.WaitForChange(context.Background()), ErrClosed)
	pr.state.Program.Release()
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	src := writeSources(t, dir, vertexSrc, fragmentSrc)
	dev := soft.NewDevice()
	defer dev.Release()
	pr, err := Open(dev, src, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, pr.State().OK())
	_, ok := pr.events.(*Watcher)
	assert.True(t, ok)
	assert.NoError(t, pr.Close())
	assert.Equal(t, 0, dev.Live())
}

func TestOpenDegrade(t *testing.T) {
	dir := t.TempDir()
	src := writeSources(t, dir, vertexSrc, fragmentSrc)
	src.Vertex = filepath.Join(dir, src.Vertex)
	src.Fragment = filepath.Join(dir, src.Fragment)
	src.Dir = filepath.Join(dir, "missing")

	dev := soft.NewDevice()
	defer dev.Release()
	_, err := Open(dev, src, DefaultOptions())
	assert.Error(t, err)

	opts := DefaultOptions()
	opts.Degrade = true
	pr, err := Open(dev, src, opts)
	require.NoError(t, err)
	_, ok := pr.events.(*NeverSource)
	assert.True(t, ok)
	assert.True(t, pr.Poll().OK())
	assert.NoError(t, pr.Close())
}
