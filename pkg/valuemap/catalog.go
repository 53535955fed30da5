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

package valuemap

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/ini.v1"
)

// Data sources understood by FromDataSource.
const (
	SourceGTK3Themes  = "gtk3themes"
	SourceIconThemes  = "iconthemes"
	SourceSoundThemes = "soundthemes"
)

const (
	// CustomSoundTheme is the label of the synthetic sound theme entry.
	CustomSoundTheme = "Custom Profile"
	// CustomSoundThemeValue is the native value of the synthetic entry.
	CustomSoundThemeValue = "__custom"

	themeDescriptor = "index.theme"
)

// Catalog describes where resource catalogs are scanned from.
type Catalog struct {
	// DataDirs are XDG data directories in scan order, system first.
	DataDirs []string
	// GTKMinor is the GTK 3 minor version used to recognize themes that ship
	// version-qualified stylesheets.
	GTKMinor int
}

// FromDataSource builds the map for a named data source. The boolean result
// is false for unknown sources.
func (c Catalog) FromDataSource(source string) (*Map, bool) {
	switch source {
	case SourceGTK3Themes:
		return c.GTK3Themes(), true
	case SourceIconThemes:
		return c.IconThemes(), true
	case SourceSoundThemes:
		return c.SoundThemes(), true
	default:
		return nil, false
	}
}

// GTK3Themes lists themes that provide a GTK 3 stylesheet, either the
// generic gtk-3.0/gtk.css or a gtk-3.<minor> directory for the current
// (even) minor version.
func (c Catalog) GTK3Themes() *Map {
	versioned := fmt.Sprintf("gtk-3.%d", c.evenMinor())
	themes := c.scan("themes", func(dir string) bool {
		return isFile(filepath.Join(dir, "gtk-3.0", "gtk.css")) || isDir(filepath.Join(dir, versioned))
	})

	m := &Map{}
	for _, dir := range themes {
		name := filepath.Base(dir)
		label := name
		if f := loadDescriptor(dir); f != nil {
			if s, err := f.GetSection("X-GNOME-Metatheme"); err == nil {
				label = s.Key("name").MustString(label)
			}
			if s, err := f.GetSection("Desktop Entry"); err == nil {
				label = s.Key("name").MustString(label)
			}
		}
		m.Set(label, name)
	}
	return m
}

// IconThemes lists icon themes with an index.theme descriptor.
func (c Catalog) IconThemes() *Map {
	return c.described("icons", "Icon Theme", &Map{})
}

// SoundThemes lists sound themes with an index.theme descriptor, preceded by
// the custom profile entry.
func (c Catalog) SoundThemes() *Map {
	m := New(Entry{Label: CustomSoundTheme, Native: CustomSoundThemeValue})
	return c.described("sounds", "Sound Theme", m)
}

func (c Catalog) described(kind, section string, m *Map) *Map {
	themes := c.scan(kind, func(dir string) bool {
		return isFile(filepath.Join(dir, themeDescriptor))
	})
	for _, dir := range themes {
		name := filepath.Base(dir)
		label := name
		if f := loadDescriptor(dir); f != nil {
			if s, err := f.GetSection(section); err == nil {
				label = s.Key("name").MustString(label)
			}
		}
		m.Set(label, name)
	}
	return m
}

// scan returns matching entries of <datadir>/<kind>/*, sorted by entry name.
// Entries with the same name keep data directory order.
func (c Catalog) scan(kind string, keep func(dir string) bool) []string {
	var found []string
	for _, root := range c.DataDirs {
		matches, err := filepath.Glob(filepath.Join(root, kind, "*"))
		if err != nil {
			continue
		}
		sort.Strings(matches)
		for _, dir := range matches {
			if keep(dir) {
				found = append(found, dir)
			}
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		return filepath.Base(found[i]) < filepath.Base(found[j])
	})
	return found
}

func (c Catalog) evenMinor() int {
	if c.GTKMinor%2 != 0 {
		return c.GTKMinor + 1
	}
	return c.GTKMinor
}

func loadDescriptor(dir string) *ini.File {
	path := filepath.Join(dir, themeDescriptor)
	if !isFile(path) {
		return nil
	}
	f, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveKeys:         true,
		Loose:                   true,
		AllowShadows:            false,
		SkipUnrecognizableLines: true,
		IgnoreInlineComment:     true,
	}, path)
	if err != nil {
		slog.Debug("ignoring unreadable theme descriptor", "path", path, "error", err)
		return nil
	}
	return f
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
