// Package watch turns filesystem activity under the log roots into rescan
// signals.
package watch

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/janekbaraniewski/tokencost/internal/providers/shared"
)

const DefaultDebounce = 750 * time.Millisecond

// Watcher coalesces bursts of log writes into single signals on Trigger.
// Roots that do not exist yet are ignored; the periodic refresh covers them.
type Watcher struct {
	roots    []string
	debounce time.Duration
	trigger  chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

func New(roots []string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		roots:    roots,
		debounce: debounce,
		trigger:  make(chan struct{}, 1),
	}
}

// Trigger receives at most one pending signal at a time.
func (w *Watcher) Trigger() <-chan struct{} {
	return w.trigger
}

// Start registers watches on every directory under the roots and processes
// events until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}

	watched := 0
	for _, root := range w.roots {
		for _, dir := range shared.CollectDirs(root) {
			if err := fsw.Add(dir); err != nil {
				log.Printf("[watch] cannot watch %s: %v", dir, err)
				continue
			}
			watched++
		}
	}
	log.Printf("[watch] watching %d directories under %d roots", watched, len(w.roots))

	go w.loop(ctx, fsw)
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer fsw.Close()
	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handle(fsw, event)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			log.Printf("[watch] error: %v", err)
		}
	}
}

func (w *Watcher) handle(fsw *fsnotify.Watcher, event fsnotify.Event) {
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return
	}

	if event.Has(fsnotify.Create) {
		// New session directories (e.g. sessions/2026/02/11) need their own watch.
		for _, dir := range shared.CollectDirs(event.Name) {
			_ = fsw.Add(dir)
		}
	}

	if !strings.EqualFold(filepath.Ext(base), ".jsonl") {
		return
	}
	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
		w.schedule()
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Reset(w.debounce)
		return
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *Watcher) fire() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}
