package vfs

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"time"
)

// PollingWatcher is a mod-time polling watcher portable across OSes. It is
// the fallback when OS notifications are unavailable.
type PollingWatcher struct {
	fs       FileSystem
	interval time.Duration
	evCh     chan Event
	erCh     chan error

	mu    sync.Mutex
	paths map[string]time.Time // zero time: path did not exist at last poll
	stop  context.CancelFunc
	done  chan struct{}

	closeOnce sync.Once
}

func NewPollingWatcher(fs FileSystem, interval time.Duration) *PollingWatcher {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &PollingWatcher{
		fs:       fs,
		interval: interval,
		evCh:     make(chan Event, 64),
		erCh:     make(chan error, 1),
		paths:    make(map[string]time.Time),
	}
}

func (w *PollingWatcher) Events() <-chan Event { return w.evCh }
func (w *PollingWatcher) Errors() <-chan error { return w.erCh }

// Add starts tracking name from its current modification time.
func (w *PollingWatcher) Add(name string) error {
	var mod time.Time
	info, err := w.fs.Stat(name)
	switch {
	case err == nil:
		mod = info.ModTime()
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}
	w.mu.Lock()
	w.paths[name] = mod
	w.mu.Unlock()
	return nil
}

func (w *PollingWatcher) Remove(name string) error {
	w.mu.Lock()
	delete(w.paths, name)
	w.mu.Unlock()
	return nil
}

// Start begins polling every tracked path until ctx ends or Close is called.
func (w *PollingWatcher) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	w.stop = cancel
	w.done = make(chan struct{})
	go func() {
		defer close(w.done)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				for _, ev := range w.poll() {
					select {
					case w.evCh <- ev:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()
}

func (w *PollingWatcher) poll() []Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	var events []Event
	now := time.Now()
	for name, last := range w.paths {
		info, err := w.fs.Stat(name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && !last.IsZero() {
				w.paths[name] = time.Time{}
				events = append(events, Event{Path: name, Op: OpRemove, Time: now})
			} else if !errors.Is(err, fs.ErrNotExist) {
				select {
				case w.erCh <- err:
				default:
				}
			}
			continue
		}
		mod := info.ModTime()
		switch {
		case last.IsZero():
			w.paths[name] = mod
			events = append(events, Event{Path: name, Op: OpCreate, Time: now})
		case mod.After(last):
			w.paths[name] = mod
			events = append(events, Event{Path: name, Op: OpWrite, Time: now})
		}
	}
	return events
}

// Close stops polling and closes the event channel. Later calls are no-ops.
func (w *PollingWatcher) Close() error {
	w.closeOnce.Do(func() {
		if w.stop != nil {
			w.stop()
			<-w.done
		}
		close(w.evCh)
	})
	return nil
}
