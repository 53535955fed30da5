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

package kvstore

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-process Store. Schemas and keys must be declared with
// Define before they resolve.
type Memory struct {
	mu     sync.Mutex
	values map[string]map[string]any
	subs   map[string]map[uint64]func()
	nextID uint64
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		values: make(map[string]map[string]any),
		subs:   make(map[string]map[uint64]func()),
	}
}

// Define declares key in schema with an initial value.
func (m *Memory) Define(schema, key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.values[schema] == nil {
		m.values[schema] = make(map[string]any)
	}
	m.values[schema][key] = value
}

func (m *Memory) Exists(_ context.Context, schema, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.values[schema][key]
	return ok, nil
}

func (m *Memory) Get(_ context.Context, schema, key string, kind Kind) (any, error) {
	m.mu.Lock()
	v, ok := m.values[schema][key]
	m.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("no such key %s.%s", schema, key)
	}
	// round-trip through the text form so typing matches the real store
	text, err := formatVariant(v, kind)
	if err != nil {
		return nil, err
	}
	return parseVariant(text, kind)
}

func (m *Memory) Set(_ context.Context, schema, key string, kind Kind, value any) error {
	if _, err := formatVariant(value, kind); err != nil {
		return err
	}

	m.mu.Lock()
	if _, ok := m.values[schema][key]; !ok {
		m.mu.Unlock()
		return fmt.Errorf("no such key %s.%s", schema, key)
	}
	m.values[schema][key] = value
	m.mu.Unlock()

	m.notify(schema, key)
	return nil
}

// Change sets key as another process would, notifying watchers.
func (m *Memory) Change(schema, key string, value any) {
	m.Define(schema, key, value)
	m.notify(schema, key)
}

func (m *Memory) Watch(schema, key string, fn func()) (func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	path := DconfPath(schema, key)
	if m.subs[path] == nil {
		m.subs[path] = make(map[uint64]func())
	}
	id := m.nextID
	m.nextID++
	m.subs[path][id] = fn

	return func() {
		m.mu.Lock()
		delete(m.subs[path], id)
		m.mu.Unlock()
	}, nil
}

func (m *Memory) notify(schema, key string) {
	m.mu.Lock()
	var fns []func()
	for _, fn := range m.subs[DconfPath(schema, key)] {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
