package main

import (
	"github.com/fsnotify/fsnotify"
)

// fileWatcher wraps fsnotify down to the one thing runWatch needs: a
// channel that fires on every write to a single file.
type fileWatcher struct {
	w *fsnotify.Watcher
	c chan struct{}
}

func newFileWatcher(path string) (*fileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}
	fw := &fileWatcher{w: w, c: make(chan struct{})}
	go fw.pump()
	return fw, nil
}

func (fw *fileWatcher) pump() {
	defer close(fw.c)
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				fw.c <- struct{}{}
			}
		case _, ok := <-fw.w.Errors:
			if !ok {
				return
			}
		}
	}
}

// Events reports a tick every time the watched file is written to.
func (fw *fileWatcher) Events() <-chan struct{} { return fw.c }

func (fw *fileWatcher) Close() error { return fw.w.Close() }
