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
	"math"
	"os"
	"strconv"

	"github.com/danctnix/tweaks/pkg/defaults"
	"github.com/danctnix/tweaks/pkg/definition"
)

// Sysfs binds a setting to a kernel attribute file. Writes need root and are
// only staged.
type Sysfs struct {
	path       string
	multiplier float64
	staged     *float64
}

func newSysfs(def *definition.Setting) (*Sysfs, error) {
	if def.SType != "" && def.SType != "int" {
		return nil, invalid(def, "unsupported stype "+def.SType)
	}
	path := def.Key.First()
	fi, err := os.Stat(path)
	if err != nil {
		return nil, unavailable(def, "attribute does not exist", err)
	}
	if fi.IsDir() {
		return nil, unavailable(def, "attribute is a directory", nil)
	}
	return &Sysfs{path: path, multiplier: def.MultiplierOrDefault()}, nil
}

// Get reads the attribute divided by the multiplier. Unparsable content
// reads as 0. The value read becomes the staged value.
func (s *Sysfs) Get(_ context.Context) (any, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	v := 0.0
	if n, err := strconv.ParseInt(trimAttr(string(raw)), 10, 64); err == nil {
		v = float64(n) / s.multiplier
	}
	s.staged = &v
	return v, nil
}

func (s *Sysfs) Set(_ context.Context, value any) error {
	f, err := toFloat(value)
	if err != nil {
		return err
	}
	s.staged = &f
	return nil
}

func (s *Sysfs) Section() string { return defaults.SectionSysfs }
func (s *Sysfs) Key() string     { return s.path }

func (s *Sysfs) Staged() (string, bool) {
	if s.staged == nil {
		return "", false
	}
	return strconv.FormatInt(int64(math.Round(*s.staged*s.multiplier)), 10), true
}
