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
	"strings"
)

// Kind is the value type of a key.
type Kind string

const (
	KindBoolean Kind = "boolean"
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindDouble  Kind = "double"
)

// IsValid reports whether k is a supported value kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindBoolean, KindString, KindNumber, KindDouble:
		return true
	default:
		return false
	}
}

// Store is a typed key-value settings daemon organised in schemas.
//
// Values are bool for KindBoolean, string for KindString, int64 for
// KindNumber and float64 for KindDouble.
type Store interface {
	// Exists reports whether schema is installed and contains key.
	Exists(ctx context.Context, schema, key string) (bool, error)
	// Get reads key as kind.
	Get(ctx context.Context, schema, key string, kind Kind) (any, error)
	// Set writes value to key as kind.
	Set(ctx context.Context, schema, key string, kind Kind, value any) error
	// Watch calls fn after key changes. The returned function cancels the
	// subscription. fn may run on a different goroutine than the caller.
	Watch(schema, key string, fn func()) (func(), error)
}

// SplitKey splits a dotted "schema.key" address at its last dot.
func SplitKey(full string) (schema, key string, err error) {
	i := strings.LastIndex(full, ".")
	if i <= 0 || i == len(full)-1 {
		return "", "", fmt.Errorf("invalid key %q: expected schema.key", full)
	}
	return full[:i], full[i+1:], nil
}
