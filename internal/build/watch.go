package build

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch runs an initial build, then rebuilds whenever a document under the
// input directory changes. It blocks until stop is closed. Each rebuild
// starts a fresh evaluation session so documents always see clean state.
func Watch(cfg Config, stop <-chan struct{}) error {
	if _, err := Run(cfg); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// fsnotify does not recurse, so every subdirectory is added explicitly.
	err = filepath.WalkDir(cfg.Input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.Input, err)
	}

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".md") {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if _, err := Run(cfg); err != nil {
				cfg.Log.Error(err, "rebuild failed")
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cfg.Log.Error(err, "watch error")
		case <-stop:
			return nil
		}
	}
}
