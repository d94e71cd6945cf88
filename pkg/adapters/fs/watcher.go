package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aretw0/silt/pkg/core"
)

const defaultEventBuffer = 100

// debounceWindow suppresses the duplicate notifications a single atomic
// write produces (temp file create + rename).
const debounceWindow = 50 * time.Millisecond

// Watch emits an event for every document record created, modified, or
// removed under the store root whose key matches the doublestar pattern.
// An empty pattern matches every key. The channel closes when ctx ends.
//
// Events originate from the filesystem, so external writers (editors,
// sync tools) are observed the same way as this process's own saves.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern != "" {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid watch pattern: %s", pattern)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(r.Path); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", r.Path, err)
	}

	buffer := r.config.EventBuffer
	if buffer <= 0 {
		buffer = defaultEventBuffer
	}
	events := make(chan core.Event, buffer)
	deb := newDebouncer(debounceWindow)

	r.setWatcherActive(true)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer func() {
			_ = watcher.Close()
			close(events)
			r.setWatcherActive(false)
		}()

		for {
			select {
			case <-ctx.Done():
				return nil

			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				key, evType, relevant := r.classify(ev)
				if !relevant || !matchKey(pattern, key) {
					continue
				}
				if evType != core.EventDelete && !deb.Allow(key) {
					continue
				}
				out := core.Event{Type: evType, Key: key, Timestamp: time.Now().Unix()}
				select {
				case events <- out:
				case <-ctx.Done():
					return nil
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				if r.config.Logger != nil {
					r.config.Logger.Warn("watcher error", "error", err)
				}
			}
		}
	})

	return events, nil
}

// classify maps a filesystem notification onto a document event, filtering
// out everything that is not a document record (system dir, temp files).
func (r *Repository) classify(ev fsnotify.Event) (key string, evType core.EventType, relevant bool) {
	name := filepath.Base(ev.Name)
	if name == r.config.SystemDir || strings.HasPrefix(name, TempFilePrefix) {
		return "", "", false
	}
	key = keyFromRecordName(name)
	if key == "" {
		return "", "", false
	}

	switch {
	case ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename):
		// A rename away from the store is a removal from its perspective;
		// atomic writes rename INTO place, which arrives as Create.
		evType = core.EventDelete
	case ev.Op.Has(fsnotify.Create):
		evType = core.EventCreate
	case ev.Op.Has(fsnotify.Write):
		evType = core.EventModify
	default:
		return "", "", false
	}
	return key, evType, true
}

func matchKey(pattern, key string) bool {
	if pattern == "" {
		return true
	}
	ok, err := doublestar.Match(pattern, key)
	return err == nil && ok
}

// debouncer collapses bursts of notifications for the same key into one
// event per window.
type debouncer struct {
	window time.Duration

	mu   sync.Mutex
	seen map[string]time.Time
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{
		window: window,
		seen:   make(map[string]time.Time),
	}
}

// Allow reports whether an event for the key should pass through.
// Entries older than the window are evicted so the map stays bounded by the
// set of keys changed within one window, not every key ever touched.
func (d *debouncer) Allow(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	for k, last := range d.seen {
		if now.Sub(last) >= d.window {
			delete(d.seen, k)
		}
	}

	if last, ok := d.seen[key]; ok && now.Sub(last) < d.window {
		return false
	}
	d.seen[key] = now
	return true
}

var _ core.Watchable = (*Repository)(nil)
