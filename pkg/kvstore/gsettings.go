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

package kvstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"

	"github.com/danctnix/tweaks/pkg/defaults"
)

// Runner executes the gsettings tool with args and returns its stdout.
type Runner func(ctx context.Context, args ...string) ([]byte, error)

// GSettings is a Store backed by the gsettings command line tool for schema
// lookup and typed reads and writes, and by dconf D-Bus signals for change
// notifications.
type GSettings struct {
	run     Runner
	watcher *DconfWatcher

	mu   sync.Mutex
	keys map[string]map[string]bool // schema -> key set, nil set for missing schema
}

// Option configures a GSettings store.
type Option func(*GSettings)

// WithRunner replaces the command runner.
func WithRunner(r Runner) Option {
	return func(g *GSettings) {
		g.run = r
	}
}

// WithWatcher sets the change notification source.
func WithWatcher(w *DconfWatcher) Option {
	return func(g *GSettings) {
		g.watcher = w
	}
}

// NewGSettings returns a store using the gsettings binary on PATH.
func NewGSettings(opts ...Option) *GSettings {
	g := &GSettings{
		run:  runGSettings,
		keys: make(map[string]map[string]bool),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.watcher == nil {
		g.watcher = NewDconfWatcher()
	}
	return g
}

func runGSettings(ctx context.Context, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.KVCommandTimeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "gsettings", args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("gsettings %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return out, nil
}

// Exists reports whether schema is installed and has key. Schema key lists
// are cached for the lifetime of the store.
func (g *GSettings) Exists(ctx context.Context, schema, key string) (bool, error) {
	g.mu.Lock()
	set, cached := g.keys[schema]
	g.mu.Unlock()

	if !cached {
		out, err := g.run(ctx, "list-keys", schema)
		if err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				return false, err
			}
			// non-zero exit: schema is not installed
			slog.Debug("gsettings schema not found", "schema", schema)
			set = nil
		} else {
			set = make(map[string]bool)
			for _, k := range strings.Fields(string(out)) {
				set[k] = true
			}
		}
		g.mu.Lock()
		g.keys[schema] = set
		g.mu.Unlock()
	}

	return set[key], nil
}

// Get reads key as kind.
func (g *GSettings) Get(ctx context.Context, schema, key string, kind Kind) (any, error) {
	out, err := g.run(ctx, "get", schema, key)
	if err != nil {
		return nil, err
	}
	v, err := parseVariant(string(out), kind)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s.%s: %w", schema, key, err)
	}
	return v, nil
}

// Set writes value to key as kind.
func (g *GSettings) Set(ctx context.Context, schema, key string, kind Kind, value any) error {
	text, err := formatVariant(value, kind)
	if err != nil {
		return fmt.Errorf("failed to encode %s.%s: %w", schema, key, err)
	}
	_, err = g.run(ctx, "set", schema, key, text)
	return err
}

// Watch subscribes fn to changes of key. The dconf path is derived from the
// schema id, which matches every non-relocatable GNOME schema.
func (g *GSettings) Watch(schema, key string, fn func()) (func(), error) {
	return g.watcher.Subscribe(DconfPath(schema, key), fn)
}

// Close releases the D-Bus connection, if any.
func (g *GSettings) Close() error {
	return g.watcher.Close()
}

// DconfPath returns the conventional dconf path of schema and key:
// org.gnome.desktop.interface + clock-format becomes
// /org/gnome/desktop/interface/clock-format.
func DconfPath(schema, key string) string {
	return "/" + strings.ReplaceAll(schema, ".", "/") + "/" + key
}
