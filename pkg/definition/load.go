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

package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	apperrors "github.com/danctnix/tweaks/pkg/errors"
)

// Extensions recognized as definition documents.
var Extensions = []string{".yml", ".yaml"}

// Files returns the definition documents directly inside dir, sorted by
// name. Subdirectories are not searched.
func Files(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition directory %q: %w", dir, err)
	}

	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		for _, want := range Extensions {
			if ext == want {
				files = append(files, filepath.Join(dir, e.Name()))
				break
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// ParseFile reads one definition document.
func ParseFile(path string) ([]Page, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file %q: %w", path, err)
	}
	pages, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to parse definition file %q: %w", path, err)
	}
	return pages, nil
}

// Parse decodes a definition document: a YAML sequence of pages. An empty
// document yields no pages.
func Parse(r io.Reader) ([]Page, error) {
	var pages []Page
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&pages); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidDefinition, "malformed definition document", err)
	}

	for i := range pages {
		if pages[i].Name == "" {
			return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidDefinition,
				"page without name", map[string]any{"index": i})
		}
		for j := range pages[i].Sections {
			if pages[i].Sections[j].Name == "" {
				return nil, apperrors.NewWithContext(apperrors.ErrCodeInvalidDefinition,
					"section without name", map[string]any{"page": pages[i].Name, "index": j})
			}
		}
	}
	return pages, nil
}

// Validate checks the fields every backend relies on.
func (s *Setting) Validate() error {
	ctx := map[string]any{"setting": s.Name, "type": string(s.Type), "backend": string(s.BackendKind())}
	switch {
	case s.Name == "":
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidDefinition, "setting without name", ctx)
	case !s.Type.IsValid():
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidDefinition, "unknown setting type", ctx)
	case len(s.Key) == 0:
		return apperrors.NewWithContext(apperrors.ErrCodeInvalidDefinition, "setting without key", ctx)
	}
	return nil
}
