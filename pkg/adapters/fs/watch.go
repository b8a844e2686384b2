package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/marl/pkg/core"
)

// debounceWindow coalesces the burst of filesystem events an atomic write
// produces into a single record event.
const debounceWindow = 50 * time.Millisecond

// Watch observes record changes under the store root. Events are debounced
// and filtered by a doublestar pattern matched against "kind/pk".
// The channel closes when ctx is cancelled.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern: %s", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := s.recursiveAdd(watcher); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	events := make(chan core.Event, 64)
	debouncer := newDebouncer(debounceWindow)
	s.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer func() {
			debouncer.stop()
			_ = watcher.Close()
			s.setWatcherActive(false)
			close(events)
		}()

		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				s.handleFSEvent(ctx, ev, watcher, pattern, debouncer, events)
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				if s.config.Logger != nil {
					s.config.Logger.Error("fsnotify error", "error", err)
				}
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		if s.config.Logger != nil {
			s.config.Logger.Error("watcher failed", "error", err)
		}
	}))

	return events, nil
}

func (s *Store) handleFSEvent(ctx context.Context, ev fsnotify.Event, watcher *fsnotify.Watcher, pattern string, debouncer *debouncer, events chan<- core.Event) {
	base := filepath.Base(ev.Name)
	if base == s.config.SystemDir || strings.HasPrefix(base, TempFilePrefix) {
		return
	}

	// New kind directories need to be watched too.
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			_ = watcher.Add(ev.Name)
			return
		}
	}

	eType := mapEventType(ev)
	if eType == "" {
		return
	}

	kind, pk, ok := s.resolveFromPath(ev.Name)
	if !ok {
		return
	}
	if matched, _ := doublestar.Match(pattern, kind+"/"+pk); !matched {
		return
	}

	debouncer.add(core.Event{
		Type:      eType,
		Kind:      kind,
		ID:        pk,
		Timestamp: time.Now().Unix(),
	}, func(e core.Event) {
		select {
		case events <- e:
		case <-ctx.Done():
		}
	})
}

// mapEventType converts an fsnotify operation into a record event type.
func mapEventType(ev fsnotify.Event) core.EventType {
	switch {
	case ev.Has(fsnotify.Create):
		return core.EventCreate
	case ev.Has(fsnotify.Write):
		return core.EventModify
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return core.EventDelete
	default:
		return ""
	}
}

// recursiveAdd watches the store root and every kind directory.
func (s *Store) recursiveAdd(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(s.Path, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == s.config.SystemDir {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// debouncer delays per-record events so that write bursts collapse into one.
type debouncer struct {
	window time.Duration
	mu     sync.Mutex
	timers map[string]*time.Timer
	done   bool
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{
		window: window,
		timers: make(map[string]*time.Timer),
	}
}

// add schedules fn for the event, replacing any pending event with the same
// record identity and type.
func (d *debouncer) add(e core.Event, fn func(core.Event)) {
	key := string(e.Type) + ":" + e.Kind + "/" + e.ID

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.done {
		return
	}
	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	d.timers[key] = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		delete(d.timers, key)
		stopped := d.done
		d.mu.Unlock()
		if !stopped {
			fn(e)
		}
	})
}

// stop cancels all pending timers.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.done = true
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
