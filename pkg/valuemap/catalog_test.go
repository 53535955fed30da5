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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkfile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestCatalog_GTK3Themes(t *testing.T) {
	sys := t.TempDir()
	user := t.TempDir()

	mkfile(t, filepath.Join(sys, "themes", "Adwaita", "gtk-3.0", "gtk.css"), "")
	mkfile(t, filepath.Join(sys, "themes", "Materia", "gtk-3.24", "gtk.css"), "")
	mkfile(t, filepath.Join(sys, "themes", "Materia", "index.theme"),
		"[Desktop Entry]\nName=Materia Light\n\n[X-GNOME-Metatheme]\nname=Materia Meta\n")
	mkfile(t, filepath.Join(sys, "themes", "Old", "gtk-2.0", "gtkrc"), "")
	mkfile(t, filepath.Join(user, "themes", "Custom", "gtk-3.0", "gtk.css"), "")
	mkfile(t, filepath.Join(user, "themes", "Custom", "index.theme"),
		"[X-GNOME-Metatheme]\nName=My Theme\n")

	m := Catalog{DataDirs: []string{sys, user}, GTKMinor: 23}.GTK3Themes()

	assert.Equal(t, []string{"Adwaita", "My Theme", "Materia Light"}, m.Labels())
	v, ok := m.Native("Materia Light")
	require.True(t, ok)
	assert.Equal(t, "Materia", v)
	_, ok = m.Native("Old")
	assert.False(t, ok, "GTK 2 only themes must be skipped")
}

func TestCatalog_IconThemes(t *testing.T) {
	sys := t.TempDir()
	mkfile(t, filepath.Join(sys, "icons", "hicolor", "index.theme"), "[Icon Theme]\nName=Hicolor\n")
	mkfile(t, filepath.Join(sys, "icons", "Papirus", "index.theme"), "[Icon Theme]\nName=Papirus\nComment=x\n")
	mkfile(t, filepath.Join(sys, "icons", "default", "cursors", "x"), "")

	m := Catalog{DataDirs: []string{sys}}.IconThemes()

	assert.Equal(t, []string{"Papirus", "Hicolor"}, m.Labels())
	v, _ := m.Native("Hicolor")
	assert.Equal(t, "hicolor", v)
}

func TestCatalog_SoundThemes(t *testing.T) {
	sys := t.TempDir()
	mkfile(t, filepath.Join(sys, "sounds", "freedesktop", "index.theme"), "[Sound Theme]\nName=Default\n")
	mkfile(t, filepath.Join(sys, "sounds", "plain", "index.theme"), "[Other]\nfoo=bar\n")

	m := Catalog{DataDirs: []string{sys}}.SoundThemes()

	assert.Equal(t, []string{CustomSoundTheme, "Default", "plain"}, m.Labels())
	v, _ := m.Native(CustomSoundTheme)
	assert.Equal(t, CustomSoundThemeValue, v)
}

func TestCatalog_FromDataSource(t *testing.T) {
	c := Catalog{DataDirs: []string{t.TempDir()}}

	for _, src := range []string{SourceGTK3Themes, SourceIconThemes, SourceSoundThemes} {
		m, ok := c.FromDataSource(src)
		assert.True(t, ok, src)
		assert.NotNil(t, m, src)
	}

	_, ok := c.FromDataSource("qt5platformthemes")
	assert.False(t, ok)
}
