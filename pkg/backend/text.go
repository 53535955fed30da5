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
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "github.com/danctnix/tweaks/pkg/errors"
	"github.com/danctnix/tweaks/pkg/valuemap"
)

// splitLines splits text after each newline. The last element lacks a
// newline only when the text does.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// appendLine adds line, terminating an unterminated last line first.
func appendLine(lines []string, line string) []string {
	if n := len(lines); n > 0 && !strings.HasSuffix(lines[n-1], "\n") {
		lines[n-1] += "\n"
	}
	return append(lines, line)
}

// writeLines replaces path with the concatenated lines, keeping the mode of
// an existing file.
func writeLines(path string, lines []string) error {
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "")), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// trimAttr strips the NUL terminator and whitespace of a sysfs attribute.
func trimAttr(s string) string {
	return strings.Trim(s, " \t\r\n\x00")
}

func toFloat(value any) (float64, error) {
	if f, ok := valuemap.AsFloat(value); ok {
		return f, nil
	}
	if s, ok := value.(string); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, nil
		}
	}
	return 0, apperrors.New(apperrors.ErrCodeInvalidRequest, fmt.Sprintf("expected a number, got %T %v", value, value))
}
