package vfs

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FSNotifyWatcher implements Watcher using fsnotify for OS-native notifications.
type FSNotifyWatcher struct {
	w    *fsnotify.Watcher
	evC  chan Event
	erC  chan error
	done chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// NewFSWatcher creates a new FSNotifyWatcher.
func NewFSWatcher() (*FSNotifyWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	fw := &FSNotifyWatcher{
		w:    w,
		evC:  make(chan Event, 128),
		erC:  make(chan error, 1),
		done: make(chan struct{}),
	}
	go fw.loop()
	return fw, nil
}

func (fw *FSNotifyWatcher) loop() {
	defer close(fw.evC)
	for {
		select {
		case ev, ok := <-fw.w.Events:
			if !ok {
				return
			}
			var op WatchOp
			if ev.Has(fsnotify.Create) {
				op |= OpCreate
			}
			if ev.Has(fsnotify.Write) {
				op |= OpWrite
			}
			if ev.Has(fsnotify.Remove) {
				op |= OpRemove
			}
			if ev.Has(fsnotify.Rename) {
				op |= OpRename
			}
			if ev.Has(fsnotify.Chmod) {
				op |= OpChmod
			}
			select {
			case fw.evC <- Event{Path: ev.Name, Op: op, Time: time.Now()}:
			case <-fw.done:
				return
			}
		case err, ok := <-fw.w.Errors:
			if !ok {
				return
			}
			select {
			case fw.erC <- err:
			default:
			}
		case <-fw.done:
			return
		}
	}
}

func (fw *FSNotifyWatcher) Events() <-chan Event     { return fw.evC }
func (fw *FSNotifyWatcher) Errors() <-chan error     { return fw.erC }
func (fw *FSNotifyWatcher) Add(name string) error    { return fw.w.Add(name) }
func (fw *FSNotifyWatcher) Remove(name string) error { return fw.w.Remove(name) }

// Close stops the watcher. Later calls return the first call's result.
func (fw *FSNotifyWatcher) Close() error {
	fw.closeOnce.Do(func() {
		close(fw.done)
		fw.closeErr = fw.w.Close()
	})
	return fw.closeErr
}
