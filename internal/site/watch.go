// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package site

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay collapses the burst of events editors emit on save.
const reloadDelay = 300 * time.Millisecond

// Watch reloads the copy at path whenever it changes on disk and hands
// each good version to apply. A file that fails to parse is logged and
// the previous copy stays live. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, path string, apply func(*Content)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("site watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory so atomic rename-on-save keeps being seen.
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	target := filepath.Clean(path)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	reload := func() {
		c, err := Load(path)
		if err != nil {
			slog.Warn("site content reload failed, keeping previous copy", "path", path, "error", err)
			return
		}
		apply(c)
		slog.Info("site content reloaded", "path", path)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDelay, reload)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("site watcher error", "error", err)
		}
	}
}
