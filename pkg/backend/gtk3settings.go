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

package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/ini.v1"

	"github.com/danctnix/tweaks/pkg/defaults"
	"github.com/danctnix/tweaks/pkg/definition"
)

// GTK3Settings binds a setting to a key of the GTK 3 settings.ini file.
type GTK3Settings struct {
	path     string
	key      string
	typ      definition.Type
	fallback any
}

func newGTK3Settings(def *definition.Setting, env Env) *GTK3Settings {
	return &GTK3Settings{
		path:     filepath.Join(env.ConfigHome, defaults.GTK3SettingsFile),
		key:      def.Key.First(),
		typ:      def.Type,
		fallback: def.Default,
	}
}

func loadINI(path string) (*ini.File, error) {
	return ini.LoadSources(ini.LoadOptions{
		Loose:               true,
		KeyValueDelimiters:  "=",
		IgnoreInlineComment: true,
	}, path)
}

// Get returns the declared default when the file, section or key is absent.
func (g *GTK3Settings) Get(_ context.Context) (any, error) {
	cfg, err := loadINI(g.path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", g.path, err)
	}
	section, err := cfg.GetSection(defaults.GTK3SettingsSection)
	if err != nil || !section.HasKey(g.key) {
		return g.fallback, nil
	}

	k := section.Key(g.key)
	switch g.typ {
	case definition.TypeBoolean:
		return k.Bool()
	case definition.TypeNumber:
		return k.Float64()
	default:
		return k.String(), nil
	}
}

func (g *GTK3Settings) Set(_ context.Context, value any) error {
	cfg, err := loadINI(g.path)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", g.path, err)
	}
	cfg.Section(defaults.GTK3SettingsSection).Key(g.key).SetValue(formatValue(value))

	if err := os.MkdirAll(filepath.Dir(g.path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(g.path), err)
	}
	if err := cfg.SaveTo(g.path); err != nil {
		return fmt.Errorf("failed to write %s: %w", g.path, err)
	}
	return nil
}

func (g *GTK3Settings) Files() []string {
	return []string{g.path}
}
