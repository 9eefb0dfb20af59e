package main

import (
	"context"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/udoprog/st/logs"
	"github.com/udoprog/st/sources"
)

// Watch builds paths, then rebuilds whenever a source file under their
// directories changes, until ctx is done.
type Watch func(ctx context.Context, paths []string) error

const settle = 100 * time.Millisecond

func (Module) Watch(
	build Build,
	logger logs.Logger,
) Watch {
	return func(ctx context.Context, paths []string) error {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()

		for _, dir := range watchDirs(paths) {
			if err := watcher.Add(dir); err != nil {
				return err
			}
		}

		rebuild := func() {
			if _, err := build(ctx, paths); err != nil {
				logger.ErrorContext(ctx, "build", "error", err)
			}
		}
		rebuild()

		// editors write in bursts
		timer := time.NewTimer(settle)
		timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil

			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !isSourceEvent(ev) {
					continue
				}
				logger.DebugContext(ctx, "source changed",
					"path", ev.Name,
					"op", ev.Op.String(),
				)
				if ev.Op&fsnotify.Create != 0 {
					watchCreated(ctx, watcher, logger, ev.Name)
				}
				timer.Reset(settle)

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.WarnContext(ctx, "watch", "error", err)

			case <-timer.C:
				rebuild()
			}
		}
	}
}

// watchDirs lists the directories of the root sources and every directory
// below them, where module files are looked up.
func watchDirs(paths []string) []string {
	seen := make(map[string]bool)
	var ret []string
	for _, path := range paths {
		for _, dir := range dirsUnder(filepath.Dir(path)) {
			if !seen[dir] {
				seen[dir] = true
				ret = append(ret, dir)
			}
		}
	}
	return ret
}

func dirsUnder(root string) (ret []string) {
	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err == nil && entry.IsDir() {
			ret = append(ret, path)
		}
		return nil
	})
	return
}

// watchCreated adds a new module directory. Failing to watch it is logged;
// later edits there will not trigger rebuilds.
func watchCreated(ctx context.Context, watcher *fsnotify.Watcher, logger logs.Logger, path string) {
	if err := addTree(watcher, path); err != nil {
		logger.WarnContext(ctx, "watch", "path", path, "error", err)
	}
}

func addTree(watcher *fsnotify.Watcher, root string) error {
	for _, dir := range dirsUnder(root) {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}
	return nil
}

func isSourceEvent(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Ext(ev.Name) == sources.Ext || filepath.Ext(ev.Name) == ""
}
