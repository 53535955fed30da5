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
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/danctnix/tweaks/pkg/valuemap"
)

// DefaultWeight is used for pages, sections and settings without a weight.
const DefaultWeight = 50

// Type is the declared value type of a setting.
type Type string

const (
	TypeBoolean Type = "boolean"
	TypeChoice  Type = "choice"
	TypeFont    Type = "font"
	TypeFile    Type = "file"
	TypeColor   Type = "color"
	TypeNumber  Type = "number"
	TypeInfo    Type = "info"
)

// IsValid reports whether t is a known setting type.
func (t Type) IsValid() bool {
	switch t {
	case TypeBoolean, TypeChoice, TypeFont, TypeFile, TypeColor, TypeNumber, TypeInfo:
		return true
	default:
		return false
	}
}

// Kind names the storage backend of a setting.
type Kind string

const (
	KindGSettings    Kind = "gsettings"
	KindGTK3Settings Kind = "gtk3settings"
	KindEnvironment  Kind = "environment"
	KindSysfs        Kind = "sysfs"
	KindOsksdl       Kind = "osksdl"
	KindHardwareInfo Kind = "hardwareinfo"
	KindCSS          Kind = "css"
	KindSymlink      Kind = "symlink"
	KindSoundTheme   Kind = "soundtheme"
)

// Page is the top-level grouping of a definition document.
type Page struct {
	Name     string    `yaml:"name"`
	Weight   *int      `yaml:"weight,omitempty"`
	Sections []Section `yaml:"sections"`
}

// Section groups settings within a page.
type Section struct {
	Name     string    `yaml:"name"`
	Weight   *int      `yaml:"weight,omitempty"`
	Settings []Setting `yaml:"settings"`
}

// Setting is the declarative description of one setting. Backend specific
// fields are only meaningful for the backend that reads them.
type Setting struct {
	Name    string        `yaml:"name"`
	Type    Type          `yaml:"type"`
	Weight  *int          `yaml:"weight,omitempty"`
	Backend Kind          `yaml:"backend,omitempty"`
	Help    string        `yaml:"help,omitempty"`
	Map     *valuemap.Map `yaml:"map,omitempty"`
	Data    string        `yaml:"data,omitempty"`

	// Key is the backend address: schema.key candidates, a file path, an
	// environment variable name or a hardware probe name.
	Key Keys `yaml:"key,omitempty"`
	// GType overrides the value kind used by the gsettings backend.
	GType string `yaml:"gtype,omitempty"`
	// Default is returned by file backends when the value is absent.
	Default any `yaml:"default,omitempty"`

	// SType and Multiplier describe sysfs values.
	SType      string   `yaml:"stype,omitempty"`
	Multiplier *float64 `yaml:"multiplier,omitempty"`

	// Selector, CSS and Guard describe a guarded stylesheet block.
	Selector string `yaml:"selector,omitempty"`
	CSS      Rules  `yaml:"css,omitempty"`
	Guard    string `yaml:"guard,omitempty"`

	// SourceExt enables suffix matching for symlink backends.
	SourceExt bool `yaml:"source_ext,omitempty"`

	// Presentation hints for numeric settings.
	Min        *float64 `yaml:"min,omitempty"`
	Max        *float64 `yaml:"max,omitempty"`
	Step       *float64 `yaml:"step,omitempty"`
	Percentage bool     `yaml:"percentage,omitempty"`
}

// WeightOf returns w or DefaultWeight when unset.
func WeightOf(w *int) int {
	if w == nil {
		return DefaultWeight
	}
	return *w
}

// BackendKind returns the declared backend, defaulting to gsettings.
func (s *Setting) BackendKind() Kind {
	if s.Backend == "" {
		return KindGSettings
	}
	return s.Backend
}

// MultiplierOrDefault returns the sysfs multiplier, 1 when unset or zero.
func (s *Setting) MultiplierOrDefault() float64 {
	if s.Multiplier == nil || *s.Multiplier == 0 {
		return 1
	}
	return *s.Multiplier
}

// Clone returns a deep copy so callers can never mutate the parsed document.
func (s *Setting) Clone() Setting {
	out := *s
	out.Map = s.Map.Clone()
	out.Key = append(Keys(nil), s.Key...)
	out.CSS = append(Rules(nil), s.CSS...)
	return out
}

// Keys accepts either a single scalar or a sequence of scalars.
type Keys []string

// First returns the first key or an empty string.
func (k Keys) First() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *Keys) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*k = Keys{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return fmt.Errorf("invalid key list at line %d: %w", node.Line, err)
		}
		*k = list
		return nil
	default:
		return fmt.Errorf("key must be a string or list at line %d", node.Line)
	}
}

// MarshalYAML emits a scalar for a single key.
func (k Keys) MarshalYAML() (any, error) {
	if len(k) == 1 {
		return k[0], nil
	}
	return []string(k), nil
}

// Rule is one declaration of a guarded stylesheet block. A Template of "%"
// marks the primary property that carries the setting value.
type Rule struct {
	Property string
	Template string
}

// PrimaryPlaceholder marks the rule template replaced by the setting value.
const PrimaryPlaceholder = "%"

// Rules is an ordered property to template list decoded from a YAML mapping.
type Rules []Rule

// Primary returns the property whose template is the placeholder.
func (r Rules) Primary() (string, bool) {
	for _, rule := range r {
		if rule.Template == PrimaryPlaceholder {
			return rule.Property, true
		}
	}
	return "", false
}

// UnmarshalYAML implements yaml.Unmarshaler preserving declaration order.
func (r *Rules) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("css rules must be a mapping at line %d", node.Line)
	}
	out := make(Rules, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		out = append(out, Rule{
			Property: node.Content[i].Value,
			Template: node.Content[i+1].Value,
		})
	}
	*r = out
	return nil
}

// MarshalYAML emits an ordered mapping.
func (r Rules) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, rule := range r {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: rule.Property},
			&yaml.Node{Kind: yaml.ScalarNode, Value: rule.Template},
		)
	}
	return node, nil
}
