// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reload

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ChangeEvent signals that a watched source may have changed.
// It carries no guarantee about the new content: consumers
// re-read every source when acting on it.
type ChangeEvent struct {
	// Name of the changed file
	Name string

	// Op is what happened to it
	Op fsnotify.Op
}

// EventSource delivers change signals to a [Program].
type EventSource interface {

	// Events returns the channel of change signals. It is closed
	// when the source stops.
	Events() <-chan ChangeEvent

	// Close stops the source.
	Close() error
}

// EventQueueSize is the capacity of the [Watcher] event channel.
const EventQueueSize = 16

// Watcher is an [EventSource] that watches shader files on disk.
// It watches the directories holding the files rather than the files
// themselves, so that saves which replace a file are seen.
type Watcher struct {
	watcher *fsnotify.Watcher
	events  chan ChangeEvent

	// dir is the watched directory, or "".
	dir string

	// files are the individually watched files.
	files map[string]bool

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewWatcher watches dir, if it is not empty, and each of the given files.
// Any error setting up the watches is returned, and nothing is left
// running. Events for files in dir or for the given files are delivered
// on [Watcher.Events].
func NewWatcher(dir string, files ...string) (*Watcher, error) {
	w := &Watcher{
		events: make(chan ChangeEvent, EventQueueSize),
		files:  make(map[string]bool),
		done:   make(chan struct{}),
	}
	var dirs []string
	addDir := func(d string) {
		if !slices.Contains(dirs, d) {
			dirs = append(dirs, d)
		}
	}
	if dir != "" {
		w.dir = filepath.Clean(dir)
		addDir(w.dir)
	}
	for _, f := range files {
		f = filepath.Clean(f)
		if _, err := os.Stat(f); err != nil {
			return nil, err
		}
		w.files[f] = true
		addDir(filepath.Dir(f))
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, d := range dirs {
		if err := fw.Add(d); err != nil {
			fw.Close()
			return nil, err
		}
	}
	w.watcher = fw
	w.wg.Add(1)
	go w.watchLoop()
	return w, nil
}

// Events returns the channel of change signals.
func (w *Watcher) Events() <-chan ChangeEvent {
	return w.events
}

// Close stops watching and closes the event channel.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}

// relevant returns true if the event is about a watched file.
func (w *Watcher) relevant(name string) bool {
	name = filepath.Clean(name)
	if w.files[name] {
		return true
	}
	return w.dir != "" && filepath.Dir(name) == w.dir
}

func (w *Watcher) watchLoop() {
	defer w.wg.Done()
	defer close(w.events)
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// an editor that saves by renaming a new file over the old
			// one reports only Remove or Chmod for the old file
			if !w.relevant(event.Name) {
				continue
			}
			w.send(ChangeEvent{Name: event.Name, Op: event.Op})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("reload: watcher", "err", err)
		}
	}
}

// send delivers ev without blocking. If the queue is full, a reload is
// already pending and ev is dropped.
func (w *Watcher) send(ev ChangeEvent) {
	select {
	case w.events <- ev:
	default:
		slog.Debug("reload: event queue full, dropping", "file", ev.Name)
	}
}

// NeverSource is an [EventSource] that never signals a change.
// It is used when watching is not possible and reloading is disabled.
type NeverSource struct {
	events    chan ChangeEvent
	closeOnce sync.Once
}

// NewNeverSource returns a new [NeverSource].
func NewNeverSource() *NeverSource {
	return &NeverSource{events: make(chan ChangeEvent)}
}

func (ns *NeverSource) Events() <-chan ChangeEvent { return ns.events }

func (ns *NeverSource) Close() error {
	ns.closeOnce.Do(func() { close(ns.events) })
	return nil
}
