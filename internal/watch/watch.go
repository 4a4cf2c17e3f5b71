// Package watch implements incremental reindexing on file-system
// change, following the teacher's internal/indexing/watcher.go: an
// fsnotify watcher recursively registered over the project root,
// feeding a debounced batch of path events into the Index rather than
// reacting to every individual write.
package watch

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Thaylo/astograph/internal/index"
	"github.com/Thaylo/astograph/internal/pyast"
	"github.com/Thaylo/astograph/internal/scan"
)

// Watcher reindexes Index incrementally as files change under Root.
type Watcher struct {
	Root    string
	Index   *index.Index
	Walker  *scan.Walker
	Options pyast.ExtractOptions
	Debounce time.Duration

	// OnBatch, if set, is called after each debounced batch is
	// applied with the number of files changed and removed.
	OnBatch func(changed, removed int)

	fsw       *fsnotify.Watcher
	done      chan struct{}
	wg        sync.WaitGroup
	debouncer *eventDebouncer
}

// New builds a Watcher. Start must be called to begin watching.
func New(root string, idx *index.Index, walker *scan.Walker, opts pyast.ExtractOptions, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	w := &Watcher{
		Root:     root,
		Index:    idx,
		Walker:   walker,
		Options:  opts,
		Debounce: debounce,
		fsw:      fsw,
		done:     make(chan struct{}),
	}
	w.debouncer = newEventDebouncer(debounce, w.applyBatch)
	return w, nil
}

// Start registers watches for root and every subdirectory, then
// begins processing fsnotify events in the background.
func (w *Watcher) Start() error {
	if err := w.addWatches(w.Root); err != nil {
		return err
	}
	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop halts the watcher and waits for its goroutine to exit.
func (w *Watcher) Stop() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) addWatches(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (name == ".git" || name == "__pycache__" || name == ".venv" || name == "venv" || name == "node_modules") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			log.Printf("astograph: watch: failed to add watch for %s: %v", path, err)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("astograph: watch: fsnotify error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	info, statErr := os.Stat(ev.Name)
	if statErr == nil && info.IsDir() {
		if ev.Op&fsnotify.Create != 0 {
			if err := w.fsw.Add(ev.Name); err != nil {
				log.Printf("astograph: watch: failed to add watch for new directory %s: %v", ev.Name, err)
			}
		}
		return
	}

	rel, err := filepath.Rel(w.Root, ev.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	if !w.Walker.Included(rel) || w.Walker.Excluded(rel) {
		return
	}

	if ev.Op&fsnotify.Remove != 0 || ev.Op&fsnotify.Rename != 0 {
		w.debouncer.addRemoved(rel)
		return
	}
	if ev.Op&(fsnotify.Create|fsnotify.Write) != 0 {
		w.debouncer.addChanged(rel)
	}
}

func (w *Watcher) applyBatch(changed, removed []string) {
	for _, rel := range removed {
		w.Index.RemoveFile(rel)
	}
	for _, rel := range changed {
		w.Index.RemoveFile(rel)
		source, err := scan.ReadFile(filepath.Join(w.Root, rel))
		if err != nil {
			continue
		}
		w.Index.AddFile(rel, source, w.Options)
	}
	if w.OnBatch != nil {
		w.OnBatch(len(changed), len(removed))
	}
}

// eventDebouncer batches changed/removed paths behind a single timer,
// the same coalescing idiom the teacher uses for its own file watcher.
type eventDebouncer struct {
	mu      sync.Mutex
	changed map[string]bool
	removed map[string]bool
	delay   time.Duration
	timer   *time.Timer
	flush   func(changed, removed []string)
}

func newEventDebouncer(delay time.Duration, flush func(changed, removed []string)) *eventDebouncer {
	return &eventDebouncer{
		changed: make(map[string]bool),
		removed: make(map[string]bool),
		delay:   delay,
		flush:   flush,
	}
}

func (d *eventDebouncer) addChanged(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.removed, path)
	d.changed[path] = true
	d.reset()
}

func (d *eventDebouncer) addRemoved(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.changed, path)
	d.removed[path] = true
	d.reset()
}

func (d *eventDebouncer) reset() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.doFlush)
}

func (d *eventDebouncer) doFlush() {
	d.mu.Lock()
	changed := make([]string, 0, len(d.changed))
	for p := range d.changed {
		changed = append(changed, p)
	}
	removed := make([]string, 0, len(d.removed))
	for p := range d.removed {
		removed = append(removed, p)
	}
	d.changed = make(map[string]bool)
	d.removed = make(map[string]bool)
	d.mu.Unlock()

	if len(changed) == 0 && len(removed) == 0 {
		return
	}
	d.flush(changed, removed)
}
