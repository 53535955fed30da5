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
)

// Environment binds a setting to a login environment variable.
type Environment struct {
	key     string
	pamFile string
}

func newEnvironment(def *definition.Setting, env Env) *Environment {
	return &Environment{key: def.Key.First(), pamFile: env.PamEnvFile}
}

// Get reads the variable from the process environment, empty when unset.
func (e *Environment) Get(_ context.Context) (any, error) {
	return os.Getenv(e.key), nil
}

// Set rewrites the export line in the login environment file and updates
// the process environment.
func (e *Environment) Set(_ context.Context, value any) error {
	text := formatValue(value)

	content, err := os.ReadFile(e.pamFile)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read %s: %w", e.pamFile, err)
	}

	prefix := "export " + e.key + "="
	line := prefix + text + "\n"
	lines := splitLines(string(content))
	replaced := false
	for i, l := range lines {
		if strings.HasPrefix(l, prefix) {
			lines[i] = line
			replaced = true
			break
		}
	}
	if !replaced {
		lines = appendLine(lines, line)
	}

	if err := writeLines(e.pamFile, lines); err != nil {
		return err
	}
	if err := os.Setenv(e.key, text); err != nil {
		return fmt.Errorf("failed to set %s: %w", e.key, err)
	}
	return nil
}
