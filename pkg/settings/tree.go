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
	"errors"
	"io/fs"
	"log/slog"
	"sort"
	"time"

	"github.com/danctnix/tweaks/pkg/backend"
	"github.com/danctnix/tweaks/pkg/definition"
	"github.com/danctnix/tweaks/pkg/valuemap"
)

// Page groups sections.
type Page struct {
	Name     string
	Weight   int
	Sections []*Section
}

// Section groups settings.
type Section struct {
	Name     string
	Weight   int
	Settings []*Setting
}

// Tree is the catalog of settings merged from definition directories.
type Tree struct {
	env     backend.Env
	catalog valuemap.Catalog
	maps    map[string]*valuemap.Map
	pages   []*Page
}

// Option configures a Tree.
type Option func(*Tree)

// WithCatalog sets the directories scanned for data source maps.
func WithCatalog(c valuemap.Catalog) Option {
	return func(t *Tree) {
		t.catalog = c
	}
}

// NewTree returns an empty tree whose settings bind to env.
func NewTree(env backend.Env, opts ...Option) *Tree {
	t := &Tree{
		env:  env,
		maps: make(map[string]*valuemap.Map),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// LoadDir merges the definition documents directly inside dir. Pages,
// sections and settings already present keep their first definition.
// Settings whose backend is unavailable are skipped, so a later directory
// may still provide them. A missing directory is not an error.
func (t *Tree) LoadDir(ctx context.Context, dir string) error {
	start := time.Now()
	defer func() {
		treeLoadDuration.Observe(time.Since(start).Seconds())
	}()

	files, err := definition.Files(dir)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("definition directory not found", "dir", dir)
		return nil
	}
	if err != nil {
		return err
	}

	slog.Info("loading definitions", "dir", dir, "files", len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		pages, err := definition.ParseFile(path)
		if err != nil {
			slog.Warn("skipping definition file", "file", path, "error", err)
			continue
		}
		for i := range pages {
			t.merge(ctx, &pages[i])
		}
	}

	t.sort()
	settingsLoaded.Set(float64(t.Len()))
	return nil
}

func (t *Tree) merge(ctx context.Context, dp *definition.Page) {
	page := t.page(dp.Name)
	if page == nil {
		page = &Page{Name: dp.Name, Weight: definition.WeightOf(dp.Weight)}
		t.pages = append(t.pages, page)
	}

	for i := range dp.Sections {
		ds := &dp.Sections[i]
		section := page.section(ds.Name)
		if section == nil {
			section = &Section{Name: ds.Name, Weight: definition.WeightOf(ds.Weight)}
			page.Sections = append(page.Sections, section)
		}

		for j := range ds.Settings {
			def := &ds.Settings[j]
			if section.setting(def.Name) != nil {
				continue
			}
			s, err := newSetting(ctx, def.Clone(), t.env, t.valueMap(def))
			if err != nil {
				slog.Info("setting unavailable",
					"setting", def.Name,
					"type", def.Type,
					"backend", def.BackendKind(),
					"error", err,
				)
				continue
			}
			section.Settings = append(section.Settings, s)
		}
	}
}

// valueMap returns the map for def: the data source map when one is named,
// otherwise the static map. Data source scans are done once per tree.
func (t *Tree) valueMap(def *definition.Setting) *valuemap.Map {
	if def.Data == "" {
		return def.Map.Clone()
	}
	if m, ok := t.maps[def.Data]; ok {
		return m.Clone()
	}
	if t.env.Daemon && def.Data == valuemap.SourceGTK3Themes {
		return def.Map.Clone()
	}
	m, ok := t.catalog.FromDataSource(def.Data)
	if !ok {
		slog.Warn("unknown data source", "setting", def.Name, "data", def.Data)
		return def.Map.Clone()
	}
	t.maps[def.Data] = m
	return m.Clone()
}

// sort orders pages, sections and settings by ascending weight. Equal
// weights keep insertion order.
func (t *Tree) sort() {
	sort.SliceStable(t.pages, func(i, j int) bool { return t.pages[i].Weight < t.pages[j].Weight })
	for _, p := range t.pages {
		sort.SliceStable(p.Sections, func(i, j int) bool { return p.Sections[i].Weight < p.Sections[j].Weight })
		for _, s := range p.Sections {
			sort.SliceStable(s.Settings, func(i, j int) bool { return s.Settings[i].Weight() < s.Settings[j].Weight() })
		}
	}
}

// Pages returns the pages in display order.
func (t *Tree) Pages() []*Page {
	return t.pages
}

// Len returns the number of settings.
func (t *Tree) Len() int {
	n := 0
	t.Walk(func(*Page, *Section, *Setting) bool {
		n++
		return true
	})
	return n
}

// Walk visits every setting in display order until fn returns false.
func (t *Tree) Walk(fn func(p *Page, sec *Section, s *Setting) bool) {
	for _, p := range t.pages {
		for _, sec := range p.Sections {
			for _, s := range sec.Settings {
				if !fn(p, sec, s) {
					return
				}
			}
		}
	}
}

// Find returns the setting at the given position.
func (t *Tree) Find(page, section, setting string) (*Setting, bool) {
	p := t.page(page)
	if p == nil {
		return nil, false
	}
	sec := p.section(section)
	if sec == nil {
		return nil, false
	}
	s := sec.setting(setting)
	return s, s != nil
}

// Lookup returns the first setting named name in display order.
func (t *Tree) Lookup(name string) (*Setting, bool) {
	var found *Setting
	t.Walk(func(_ *Page, _ *Section, s *Setting) bool {
		if s.Name() == name {
			found = s
			return false
		}
		return true
	})
	return found, found != nil
}

// Privileged returns the settings whose writes are staged, in display order.
func (t *Tree) Privileged() []*Setting {
	var out []*Setting
	t.Walk(func(_ *Page, _ *Section, s *Setting) bool {
		if s.NeedsRoot() {
			out = append(out, s)
		}
		return true
	})
	return out
}

// Close stops change notifications of every setting.
func (t *Tree) Close() {
	t.Walk(func(_ *Page, _ *Section, s *Setting) bool {
		s.Close()
		return true
	})
}

func (t *Tree) page(name string) *Page {
	for _, p := range t.pages {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (p *Page) section(name string) *Section {
	for _, s := range p.Sections {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func (sec *Section) setting(name string) *Setting {
	for _, s := range sec.Settings {
		if s.Name() == name {
			return s
		}
	}
	return nil
}
