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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/danctnix/tweaks/pkg/definition"
	apperrors "github.com/danctnix/tweaks/pkg/errors"
)

const soundThemeDescriptor = `[Sound Theme]
Name=Custom Profile
Inherits=freedesktop
Directories=.
`

// Symlink binds a setting to a symbolic link. With suffix matching the link
// is named after the target's extension, "<key>.<ext>".
type Symlink struct {
	link   string
	suffix bool
	active string
	expand func(string) string
}

func newSymlink(def *definition.Setting, env Env) *Symlink {
	return &Symlink{link: env.Expand(def.Key.First()), suffix: def.SourceExt, expand: env.Expand}
}

// newSoundTheme returns a suffix matching link inside a custom sound theme,
// creating the theme directory and its index.theme when missing.
func newSoundTheme(def *definition.Setting, env Env) (*Symlink, error) {
	s := newSymlink(def, env)
	s.suffix = true

	dir := filepath.Dir(s.link)
	descriptor := filepath.Join(dir, "index.theme")

	if _, err := os.Stat(dir); err == nil {
		if fi, err := os.Stat(descriptor); err != nil || !fi.Mode().IsRegular() {
			return nil, unavailable(def, "sound theme directory without index.theme", err)
		}
		return s, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, unavailable(def, "failed to create sound theme directory", err)
	}
	if err := os.WriteFile(descriptor, []byte(soundThemeDescriptor), 0o644); err != nil {
		return nil, unavailable(def, "failed to write index.theme", err)
	}
	return s, nil
}

// Get returns the link target, nil when no link exists.
func (s *Symlink) Get(_ context.Context) (any, error) {
	if s.suffix && s.active == "" {
		links, err := s.suffixLinks()
		if err != nil {
			return nil, err
		}
		if len(links) == 0 {
			return nil, nil
		}
		s.active = strings.TrimPrefix(links[0], s.link+".")
	}

	target, err := os.Readlink(s.current())
	if errors.Is(err, fs.ErrNotExist) {
		s.active = ""
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read link %s: %w", s.current(), err)
	}
	return target, nil
}

// Set replaces the link with one pointing at value. A nil value removes it.
func (s *Symlink) Set(_ context.Context, value any) error {
	if value == nil {
		return s.remove()
	}

	str, ok := value.(string)
	if !ok || str == "" {
		return apperrors.New(apperrors.ErrCodeInvalidRequest, fmt.Sprintf("expected a path, got %T %v", value, value))
	}
	target := s.expand(str)

	var ext string
	if s.suffix {
		ext = strings.TrimPrefix(filepath.Ext(target), ".")
		if ext == "" {
			return apperrors.New(apperrors.ErrCodeInvalidRequest, "target has no extension: "+target)
		}
	}

	if err := s.remove(); err != nil {
		return err
	}
	s.active = ext

	link := s.current()
	if err := os.MkdirAll(filepath.Dir(link), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(link), err)
	}
	if err := os.Symlink(target, link); err != nil {
		return fmt.Errorf("failed to link %s: %w", link, err)
	}
	return nil
}

func (s *Symlink) Files() []string {
	if !s.suffix {
		return []string{s.link}
	}
	links, err := s.suffixLinks()
	if err != nil || len(links) == 0 {
		return []string{s.link}
	}
	return links
}

func (s *Symlink) current() string {
	if s.suffix {
		return s.link + "." + s.active
	}
	return s.link
}

// remove deletes every link this backend may own.
func (s *Symlink) remove() error {
	links := []string{s.link}
	if s.suffix {
		var err error
		if links, err = s.suffixLinks(); err != nil {
			return err
		}
	}
	for _, l := range links {
		fi, err := os.Lstat(l)
		if err != nil || fi.Mode()&os.ModeSymlink == 0 {
			continue
		}
		if err := os.Remove(l); err != nil {
			return fmt.Errorf("failed to remove link %s: %w", l, err)
		}
	}
	s.active = ""
	return nil
}

// suffixLinks returns the "<key>.*" symlinks in lexical order.
func (s *Symlink) suffixLinks() ([]string, error) {
	matches, err := filepath.Glob(globEscape(s.link) + ".*")
	if err != nil {
		return nil, fmt.Errorf("failed to list %s.*: %w", s.link, err)
	}
	links := matches[:0]
	for _, m := range matches {
		if fi, err := os.Lstat(m); err == nil && fi.Mode()&os.ModeSymlink != 0 {
			links = append(links, m)
		}
	}
	sort.Strings(links)
	return links, nil
}

func globEscape(path string) string {
	r := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`, `\`, `\\`)
	return r.Replace(path)
}
