package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// watch recompiles an input whenever it is written or recreated, until ctx
// is cancelled. Directories are watched rather than files because editors
// often save by renaming a new file over the old one.
func watch(ctx context.Context, files []string, cfg config) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	targets := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		targets[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	fmt.Printf("Watching %d file(s) for changes\n", len(targets))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(ev.Name)
			if !targets[name] || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			slog.Debug("changed", "file", name, "op", ev.Op.String())
			compileAndReport(name, cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Printf("⚠️ Watch error: %v\n", err)
		}
	}
}
