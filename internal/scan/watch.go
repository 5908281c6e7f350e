package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/mlund/file-format/core/errors"
	"github.com/mlund/file-format/internal/logging"
)

// Watch runs detection for every file created or written under the root
// until ctx is canceled. Every directory in the tree is registered with the
// watcher; directories created later are added as they appear.
func (s *Scanner) Watch(ctx context.Context) (<-chan Result, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}

	if err := addTree(w, s.opts.Root); err != nil {
		w.Close()
		return nil, err
	}
	logging.ScanEvent("watch_started", s.opts.Root, 0)

	results := make(chan Result)
	go func() {
		defer close(results)
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				// The file may be gone by the time the event arrives.
				st, err := os.Stat(event.Name)
				if err != nil {
					continue
				}
				if st.IsDir() {
					if event.Op&fsnotify.Create != 0 {
						if err := addTree(w, event.Name); err != nil {
							logging.Warn("watch add failed", "path", event.Name, "error", err)
						}
					}
					continue
				}
				if !st.Mode().IsRegular() || !s.match(event.Name) {
					continue
				}
				select {
				case results <- s.detectFile(event.Name):
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logging.Warn("watch error", "root", s.opts.Root, "error", err)
			}
		}
	}()
	return results, nil
}

// addTree registers dir and all its subdirectories with the watcher.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				return errors.NewIO("watch", path, err)
			}
		}
		return nil
	})
}
