package kb

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher keeps a cached index of the library's files and refreshes it
// when the tree changes on disk.
type Watcher struct {
	library *Library
	watcher *fsnotify.Watcher

	mu    sync.RWMutex
	index []Entry

	done chan struct{}
}

// NewWatcher builds the initial index and starts watching the tree.
// Close must be called to release the inotify handles.
func NewWatcher(library *Library) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		library: library,
		watcher: fsw,
		done:    make(chan struct{}),
	}
	if err := w.reindex(); err != nil {
		fsw.Close()
		return nil, err
	}
	go w.run()
	return w, nil
}

// Index returns a snapshot of the current file index.
func (w *Watcher) Index() []Entry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]Entry, len(w.index))
	copy(out, w.index)
	return out
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) != 0 {
				if err := w.reindex(); err != nil {
					log.Printf("kb: reindex failed: %v", err)
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("kb: watch error: %v", err)
		}
	}
}

// reindex walks the tree, rebuilds the file index and refreshes the set
// of watched directories. fsnotify watches are not recursive so every
// directory is added individually.
func (w *Watcher) reindex() error {
	var index []Entry
	var dirs []string

	root := w.library.Root()
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		name := d.Name()
		if name != "." && len(name) > 0 && name[0] == '.' {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return nil
		}
		if d.IsDir() {
			dirs = append(dirs, p)
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		index = append(index, Entry{
			Path:    filepath.ToSlash(rel),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	for _, dir := range dirs {
		// Re-adding an existing watch is a no-op.
		if err := w.watcher.Add(dir); err != nil {
			log.Printf("kb: cannot watch %s: %v", dir, err)
		}
	}

	w.mu.Lock()
	w.index = index
	w.mu.Unlock()
	return nil
}
