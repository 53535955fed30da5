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

package valuemap

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entry associates a display label with a native backend value.
type Entry struct {
	Label  string
	Native any
}

// Map is an ordered label to native value mapping with unique labels.
// The zero value is an empty map ready to use.
type Map struct {
	entries []Entry
	index   map[string]int
}

// New returns a map holding entries in order. A repeated label keeps its
// first position and takes the later value.
func New(entries ...Entry) *Map {
	m := &Map{}
	for _, e := range entries {
		m.Set(e.Label, e.Native)
	}
	return m
}

// Set adds label or replaces its native value in place.
func (m *Map) Set(label string, native any) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[label]; ok {
		m.entries[i].Native = native
		return
	}
	m.index[label] = len(m.entries)
	m.entries = append(m.entries, Entry{Label: label, Native: native})
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns a copy of the entries in declaration order.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Labels returns the labels in declaration order.
func (m *Map) Labels() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Label
	}
	return out
}

// Native maps a label to its native value.
func (m *Map) Native(label string) (any, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[label]
	if !ok {
		return nil, false
	}
	return m.entries[i].Native, true
}

// Label returns the first label, in declaration order, whose native value
// equals native.
func (m *Map) Label(native any) (string, bool) {
	if m == nil {
		return "", false
	}
	for _, e := range m.entries {
		if Equal(e.Native, native) {
			return e.Label, true
		}
	}
	return "", false
}

// ToLabel maps a native value to its label; unmapped values pass through.
func (m *Map) ToLabel(native any) any {
	if label, ok := m.Label(native); ok {
		return label
	}
	return native
}

// ToNative maps a label to its native value; values that are not a known
// label pass through.
func (m *Map) ToNative(value any) any {
	label, ok := value.(string)
	if !ok {
		return value
	}
	if native, ok := m.Native(label); ok {
		return native
	}
	return value
}

// Clone returns an independent copy.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	return New(m.entries...)
}

// UnmarshalYAML decodes a YAML mapping preserving key order.
func (m *Map) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("value map must be a mapping, got %s at line %d", kindName(node.Kind), node.Line)
	}
	*m = Map{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var label string
		if err := node.Content[i].Decode(&label); err != nil {
			return fmt.Errorf("invalid map label at line %d: %w", node.Content[i].Line, err)
		}
		var native any
		if err := node.Content[i+1].Decode(&native); err != nil {
			return fmt.Errorf("invalid map value for %q: %w", label, err)
		}
		m.Set(label, native)
	}
	return nil
}

// MarshalYAML encodes the map as an ordered YAML mapping.
func (m *Map) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range m.entries {
		var k, v yaml.Node
		if err := k.Encode(e.Label); err != nil {
			return nil, err
		}
		if err := v.Encode(e.Native); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, &k, &v)
	}
	return node, nil
}

// MarshalJSON encodes the map as an ordered JSON object.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Label)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Native)
		if err != nil {
			return nil, fmt.Errorf("failed to encode map value for %q: %w", e.Label, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	default:
		return "mapping"
	}
}
