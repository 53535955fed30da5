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
	"fmt"
	"io"
	"os"

	"gopkg.in/ini.v1"
)

// SaveStaged writes the staged values of all privileged settings as INI
// text, one section per privileged backend. Settings without a staged value
// are omitted.
func (t *Tree) SaveStaged(w io.Writer) error {
	cfg := ini.Empty(ini.LoadOptions{KeyValueDelimiters: "=", IgnoreInlineComment: true})

	for _, s := range t.Privileged() {
		st, _ := s.stager()
		v, ok := st.Staged()
		if !ok {
			continue
		}
		if _, err := cfg.Section(st.Section()).NewKey(st.Key(), v); err != nil {
			return fmt.Errorf("failed to stage %s: %w", s.Name(), err)
		}
		stagedValuesEmitted.WithLabelValues(st.Section()).Inc()
	}

	if _, err := cfg.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write staged configuration: %w", err)
	}
	return nil
}

// SaveStagedFile writes the staged configuration to path.
func (t *Tree) SaveStagedFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := t.SaveStaged(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
