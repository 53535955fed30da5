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

package cli

import (
	"context"
	"fmt"

	"github.com/danctnix/tweaks/pkg/hwinfo"
	"github.com/danctnix/tweaks/pkg/settings"
	"github.com/danctnix/tweaks/pkg/valuemap"
)

// settingView is the serialized form of one setting and its current value.
type settingView struct {
	Page     string   `json:"page" yaml:"page"`
	Section  string   `json:"section" yaml:"section"`
	Name     string   `json:"name" yaml:"name"`
	Type     string   `json:"type" yaml:"type"`
	Backend  string   `json:"backend" yaml:"backend"`
	Value    any      `json:"value" yaml:"value"`
	Choices  []string `json:"choices,omitempty" yaml:"choices,omitempty"`
	Help     string   `json:"help,omitempty" yaml:"help,omitempty"`
	ReadOnly bool     `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	Error    string   `json:"error,omitempty" yaml:"error,omitempty"`
}

func newSettingView(ctx context.Context, page, section string, s *settings.Setting) settingView {
	v := settingView{
		Page:     page,
		Section:  section,
		Name:     s.Name(),
		Type:     string(s.Type()),
		Backend:  string(s.Backend()),
		Choices:  s.Map().Labels(),
		Help:     s.Help(),
		ReadOnly: s.ReadOnly(),
	}

	value, err := s.Get(ctx)
	if err != nil {
		v.Error = err.Error()
		return v
	}
	if f, ok := valuemap.AsFloat(value); ok && s.Definition().Percentage {
		value = s.ToPercent(f)
	}
	v.Value = value
	return v
}

type settingList []settingView

func (l settingList) Header() []string {
	return []string{"PAGE", "SECTION", "SETTING", "VALUE"}
}

func (l settingList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, v := range l {
		rows = append(rows, []string{v.Page, v.Section, v.Name, v.display()})
	}
	return rows
}

func (v settingView) display() string {
	switch {
	case v.Error != "":
		return "error: " + v.Error
	case v.Value == nil:
		return "-"
	default:
		return fmt.Sprint(v.Value)
	}
}

type hardwareList []hwinfo.Entry

func (l hardwareList) Header() []string {
	return []string{"KEY", "VALUE"}
}

func (l hardwareList) Rows() [][]string {
	rows := make([][]string, 0, len(l))
	for _, e := range l {
		rows = append(rows, []string{e.Key, e.Value})
	}
	return rows
}
