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
	"strings"

	"github.com/danctnix/tweaks/pkg/definition"
	apperrors "github.com/danctnix/tweaks/pkg/errors"
)

const (
	guardStartFormat = "/* TWEAKS-START %s */"
	guardEndFormat   = "/* TWEAKS-END %s */"
	urlPrefix        = `url("`
	urlSuffix        = `")`
	fileScheme       = "file://"
)

// CSS owns a guarded block of declarations in a user stylesheet. Content
// outside the block is never modified.
type CSS struct {
	path     string
	selector string
	rules    definition.Rules
	primary  string
	start    string
	end      string
}

func newCSS(def *definition.Setting, env Env) (*CSS, error) {
	primary, ok := def.CSS.Primary()
	if !ok {
		return nil, invalid(def, "css rules have no primary property")
	}
	if def.Guard == "" || def.Selector == "" {
		return nil, invalid(def, "css backend needs selector and guard")
	}
	return &CSS{
		path:     env.Expand(def.Key.First()),
		selector: def.Selector,
		rules:    def.CSS,
		primary:  primary,
		start:    fmt.Sprintf(guardStartFormat, def.Guard),
		end:      fmt.Sprintf(guardEndFormat, def.Guard),
	}, nil
}

// Get returns the primary property value of the block, nil when the file or
// the block does not exist.
func (c *CSS) Get(_ context.Context) (any, error) {
	content, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.path, err)
	}

	inBlock := false
	for _, line := range splitLines(string(content)) {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == c.start:
			inBlock = true
		case trimmed == c.end:
			if inBlock {
				return nil, nil
			}
		case inBlock:
			prop, val, ok := strings.Cut(trimmed, ":")
			if ok && strings.TrimSpace(prop) == c.primary {
				return decodeURL(strings.TrimSuffix(strings.TrimSpace(val), ";")), nil
			}
		}
	}
	return nil, nil
}

// Set writes the block, replacing an existing one in place or appending a
// new one. A nil value removes the block.
func (c *CSS) Set(_ context.Context, value any) error {
	var text string
	remove := value == nil
	if !remove {
		s, ok := value.(string)
		if !ok {
			return apperrors.New(apperrors.ErrCodeInvalidRequest, fmt.Sprintf("expected a string, got %T", value))
		}
		text = encodeURL(s)
	}

	content, err := os.ReadFile(c.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read %s: %w", c.path, err)
	}
	if os.IsNotExist(err) && remove {
		return nil
	}

	var (
		out     []string
		found   bool
		inBlock bool
		keep    bool
	)
	for _, line := range splitLines(string(content)) {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == c.start:
			// only the first block survives
			inBlock, keep = true, !remove && !found
			found = true
			if keep {
				if !strings.HasSuffix(line, "\n") {
					line += "\n"
				}
				out = append(out, line)
				out = append(out, c.body(text)...)
			}
		case trimmed == c.end && inBlock:
			inBlock = false
			if keep {
				out = append(out, line)
			}
		case inBlock:
			// old declarations are dropped
		default:
			out = append(out, line)
		}
	}
	if inBlock && keep {
		out = append(out, c.end+"\n")
	}

	if !found && !remove {
		out = appendLine(out, c.start+"\n")
		out = append(out, c.body(text)...)
		out = append(out, c.end+"\n")
	}

	return writeLines(c.path, out)
}

func (c *CSS) body(value string) []string {
	lines := make([]string, 0, len(c.rules)+2)
	lines = append(lines, c.selector+" {\n")
	for _, rule := range c.rules {
		v := rule.Template
		if v == definition.PrimaryPlaceholder {
			v = value
		}
		lines = append(lines, "\t"+rule.Property+": "+v+";\n")
	}
	return append(lines, "}\n")
}

func (c *CSS) Files() []string {
	return []string{c.path}
}

// encodeURL wraps absolute paths as file URLs.
func encodeURL(value string) string {
	if strings.HasPrefix(value, "/") {
		return urlPrefix + fileScheme + value + urlSuffix
	}
	return value
}

func decodeURL(value string) string {
	inner, ok := strings.CutPrefix(value, urlPrefix)
	if !ok {
		return value
	}
	inner = strings.TrimSuffix(inner, urlSuffix)
	return strings.TrimPrefix(inner, fileScheme)
}
