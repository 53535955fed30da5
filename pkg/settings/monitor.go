// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package settings

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/danctnix/tweaks/pkg/defaults"
	"github.com/danctnix/tweaks/pkg/valuemap"
)

// Monitor connects cb to every setting and watches the files behind
// file-backed settings until ctx is done. cb runs when a re-read value
// differs from the last one seen.
func (t *Tree) Monitor(ctx context.Context, cb Callback) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	byDir := make(map[string][]*Setting)
	last := make(map[*Setting]any)

	t.Walk(func(_ *Page, _ *Section, s *Setting) bool {
		if err := s.Connect(cb); err != nil {
			slog.Warn("change notifications unavailable", "setting", s.Name(), "error", err)
		}
		files := s.files()
		if len(files) == 0 {
			return true
		}
		if v, err := s.Get(ctx); err == nil {
			last[s] = v
		}
		seen := make(map[string]bool)
		for _, f := range files {
			dir := filepath.Dir(f)
			if seen[dir] {
				continue
			}
			seen[dir] = true
			byDir[dir] = append(byDir[dir], s)
		}
		return true
	})
	defer t.Close()

	for dir := range byDir {
		if _, err := os.Stat(dir); err != nil {
			slog.Debug("not watching missing directory", "dir", dir)
			continue
		}
		if err := watcher.Add(dir); err != nil {
			slog.Warn("failed to watch directory", "dir", dir, "error", err)
		}
	}

	dirty := make(map[string]bool)
	timer := time.NewTimer(defaults.MonitorDebounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			slog.Debug("file event", "name", ev.Name, "op", ev.Op.String())
			dirty[filepath.Dir(ev.Name)] = true
			timer.Reset(defaults.MonitorDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("file watcher error", "error", err)
		case <-timer.C:
			for dir := range dirty {
				for _, s := range byDir[dir] {
					v, err := s.Get(ctx)
					if err != nil {
						continue
					}
					if prev, seen := last[s]; seen && valuemap.Equal(prev, v) {
						continue
					}
					last[s] = v
					s.emit(v)
				}
			}
			clear(dirty)
		}
	}
}
