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
	"strconv"
	"strings"

	"github.com/danctnix/tweaks/pkg/defaults"
	"github.com/danctnix/tweaks/pkg/definition"
)

// Osksdl binds a setting to a "key = value" line of the on-screen keyboard
// boot configuration. Writes need root and are only staged.
type Osksdl struct {
	path     string
	key      string
	typ      definition.Type
	fallback any
	staged   any
}

func newOsksdl(def *definition.Setting, env Env) *Osksdl {
	return &Osksdl{
		path:     env.OskConfPath,
		key:      def.Key.First(),
		typ:      def.Type,
		fallback: def.Default,
	}
}

// Get returns the value of the first matching line, or the declared default
// when the file or line is absent.
func (o *Osksdl) Get(_ context.Context) (any, error) {
	content, err := os.ReadFile(o.path)
	if os.IsNotExist(err) {
		return o.fallback, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", o.path, err)
	}

	prefix := o.key + " = "
	for _, line := range splitLines(string(content)) {
		if rest, ok := strings.CutPrefix(line, prefix); ok {
			return parseTyped(o.typ, strings.TrimSpace(rest))
		}
	}
	return o.fallback, nil
}

// Set stages value. Fractional numbers are truncated to integers.
func (o *Osksdl) Set(_ context.Context, value any) error {
	switch v := value.(type) {
	case float64:
		value = int64(v)
	case float32:
		value = int64(v)
	}
	o.staged = value
	return nil
}

func (o *Osksdl) Section() string { return defaults.SectionOsksdl }
func (o *Osksdl) Key() string     { return o.key }

func (o *Osksdl) Staged() (string, bool) {
	switch v := o.staged.(type) {
	case nil:
		return "", false
	case bool:
		return strconv.FormatBool(v), true
	default:
		return formatValue(v), true
	}
}

func (o *Osksdl) Files() []string {
	return []string{o.path}
}
