// Package watcher parses documents dropped into an inbox directory.
//
// Files are parsed once they have been quiet for the debounce period,
// then optionally moved to a processed directory. Files already present
// when the watcher starts are parsed first.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pktechnic/erpdoc/internal/core/domain"
	"github.com/pktechnic/erpdoc/internal/core/ports/driving"
	"github.com/pktechnic/erpdoc/internal/logger"
)

// DefaultDebounce is used when the config leaves Debounce unset.
const DefaultDebounce = 500 * time.Millisecond

// supportedExt lists the inbox file types that are parsed.
var supportedExt = map[string]bool{".xml": true, ".csv": true, ".txt": true, ".pdf": true}

// Handler is told about every parsed file.
type Handler func(path string, rec *domain.Record, err error)

// Watcher feeds inbox files to a ParseService.
type Watcher struct {
	parser  driving.ParseService
	cfg     domain.WatchConfig
	handler Handler

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New creates a watcher. handler may be nil.
func New(parser driving.ParseService, cfg domain.WatchConfig, handler Handler) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if handler == nil {
		handler = func(string, *domain.Record, error) {}
	}
	return &Watcher{
		parser:  parser,
		cfg:     cfg,
		handler: handler,
		pending: make(map[string]*time.Timer),
	}
}

// Run watches the inbox until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w.cfg.Dir == "" {
		return fmt.Errorf("watch dir: %w", domain.ErrNotConfigured)
	}
	if w.cfg.ProcessedDir != "" {
		if err := os.MkdirAll(w.cfg.ProcessedDir, 0755); err != nil {
			return fmt.Errorf("create processed dir: %w", err)
		}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(w.cfg.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.cfg.Dir, err)
	}
	logger.Info("watching %s", w.cfg.Dir)

	ready := make(chan string)
	defer w.stopTimers()

	existing, err := w.scan()
	if err != nil {
		return err
	}
	for _, path := range existing {
		w.schedule(ctx, path, ready)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if path := w.handleEvent(ev); path != "" {
				w.schedule(ctx, path, ready)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: %v", err)
		case path := <-ready:
			w.process(ctx, path)
		}
	}
}

// handleEvent returns the path to parse for a create or write of a
// supported file, or "" when the event is ignored.
func (w *Watcher) handleEvent(ev fsnotify.Event) string {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return ""
	}
	if !eligible(ev.Name) {
		return ""
	}
	info, err := os.Stat(ev.Name)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return ev.Name
}

func eligible(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || strings.HasPrefix(base, "~$") {
		return false
	}
	return supportedExt[strings.ToLower(filepath.Ext(base))]
}

// scan lists eligible files already in the inbox.
func (w *Watcher) scan() ([]string, error) {
	entries, err := os.ReadDir(w.cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", w.cfg.Dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.Type().IsRegular() && eligible(e.Name()) {
			out = append(out, filepath.Join(w.cfg.Dir, e.Name()))
		}
	}
	return out, nil
}

// schedule (re)starts the quiet-period timer for path.
func (w *Watcher) schedule(ctx context.Context, path string, ready chan<- string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Reset(w.cfg.Debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.cfg.Debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

// process parses one file and moves it out of the inbox on success.
func (w *Watcher) process(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	opts := driving.ParseOptions{Store: true, Publish: w.cfg.Publish}
	rec, err := w.parser.ParseFile(ctx, path, opts)
	if err != nil {
		logger.Warn("watcher: %s: %v", filepath.Base(path), err)
	} else if w.cfg.ProcessedDir != "" {
		if dest, mvErr := w.moveProcessed(path); mvErr != nil {
			logger.Warn("watcher: move %s: %v", filepath.Base(path), mvErr)
		} else {
			logger.Debug("watcher: moved %s to %s", filepath.Base(path), dest)
		}
	}
	w.handler(path, rec, err)
}

// moveProcessed renames path into the processed directory, prefixing a
// timestamp when the name is taken.
func (w *Watcher) moveProcessed(path string) (string, error) {
	base := filepath.Base(path)
	dest := filepath.Join(w.cfg.ProcessedDir, base)
	if _, err := os.Stat(dest); err == nil {
		dest = filepath.Join(w.cfg.ProcessedDir, time.Now().UTC().Format("20060102T150405.000000000")+"-"+base)
	}
	return dest, os.Rename(path, dest)
}
