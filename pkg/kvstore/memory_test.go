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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.Define("org.example", "enabled", false)

	ok, err := m.Exists(ctx, "org.example", "enabled")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Exists(ctx, "org.example", "other")
	require.NoError(t, err)
	assert.False(t, ok)

	calls := 0
	cancel, err := m.Watch("org.example", "enabled", func() { calls++ })
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "org.example", "enabled", KindBoolean, true))
	v, err := m.Get(ctx, "org.example", "enabled", KindBoolean)
	require.NoError(t, err)
	assert.Equal(t, true, v)
	assert.Equal(t, 1, calls)

	m.Change("org.example", "enabled", false)
	assert.Equal(t, 2, calls)

	cancel()
	m.Change("org.example", "enabled", true)
	assert.Equal(t, 2, calls)

	assert.Error(t, m.Set(ctx, "org.example", "other", KindBoolean, true))
	assert.Error(t, m.Set(ctx, "org.example", "enabled", KindBoolean, "yes"))
}

func TestMemory_NumberTyping(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.Define("org.example", "size", 3)

	v, err := m.Get(ctx, "org.example", "size", KindNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	v, err = m.Get(ctx, "org.example", "size", KindDouble)
	require.NoError(t, err)
	assert.Equal(t, 3.0, v)
}
