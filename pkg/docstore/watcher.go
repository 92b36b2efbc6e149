// Copyright 2025 Sander Nunes
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package docstore

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces bursts of filesystem events into one
// notification. Editors and sync clients fire several events per save.
const watchDebounce = 2 * time.Second

// Watcher notifies a callback when a source directory changes. The
// callback typically triggers a cache rebuild check.
type Watcher struct {
	source  *DirectorySource
	watcher *fsnotify.Watcher
	onEvent func()
	logger  *slog.Logger
}

// NewWatcher creates a watcher over the source's directory tree.
func NewWatcher(source *DirectorySource, onEvent func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		source:  source,
		watcher: fsw,
		onEvent: onEvent,
		logger:  slog.Default().With("component", "corpus_watcher", "dir", source.Dir()),
	}

	if err := w.addRecursive(source.Dir()); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Start runs the event loop until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	go w.loop(ctx)
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if w.source.hiddenDir(path, d) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(watchDebounce, func() {
			select {
			case fire <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			relevant := event.Op&fsnotify.Create == fsnotify.Create ||
				event.Op&fsnotify.Write == fsnotify.Write ||
				event.Op&fsnotify.Remove == fsnotify.Remove ||
				event.Op&fsnotify.Rename == fsnotify.Rename
			if !relevant {
				continue
			}
			// Removals of eligible files matter even though Eligible
			// can no longer stat them; filter only additions.
			if event.Op&fsnotify.Create == fsnotify.Create || event.Op&fsnotify.Write == fsnotify.Write {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					// New subdirectories need their own watch.
					if err := w.addRecursive(event.Name); err != nil {
						w.logger.Warn("Failed to watch new directory", "path", event.Name, "error", err)
					}
					continue
				}
				if !w.source.Eligible(event.Name) {
					continue
				}
			}
			w.logger.Debug("Corpus change detected", "path", event.Name, "op", event.Op.String())
			schedule()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Watcher error", "error", err)

		case <-fire:
			if w.onEvent != nil {
				w.onEvent()
			}
		}
	}
}
