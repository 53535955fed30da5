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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVariant(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		kind    Kind
		want    any
		wantErr bool
	}{
		{"bool true", "true\n", KindBoolean, true, false},
		{"bool false", "false", KindBoolean, false, false},
		{"bool invalid", "yes", KindBoolean, nil, true},
		{"string", "'Adwaita'\n", KindString, "Adwaita", false},
		{"string escaped", `'it\'s'`, KindString, "it's", false},
		{"string unquoted", "Adwaita", KindString, nil, true},
		{"number", "42", KindNumber, int64(42), false},
		{"number annotated", "uint32 300", KindNumber, int64(300), false},
		{"number invalid", "abc", KindNumber, nil, true},
		{"double", "1.25", KindDouble, 1.25, false},
		{"double annotated", "double 2.0", KindDouble, 2.0, false},
		{"unknown kind", "1", Kind("array"), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVariant(tt.text, tt.kind)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatVariant(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		kind    Kind
		want    string
		wantErr bool
	}{
		{"bool", true, KindBoolean, "true", false},
		{"bool wrong type", "true", KindBoolean, "", true},
		{"string", "Cantarell 11", KindString, "'Cantarell 11'", false},
		{"string quote", "it's", KindString, `'it\'s'`, false},
		{"number from float", 2.6, KindNumber, "3", false},
		{"number from int", 7, KindNumber, "7", false},
		{"double whole", 2.0, KindDouble, "2.0", false},
		{"double fraction", 1.5, KindDouble, "1.5", false},
		{"number wrong type", "7", KindNumber, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatVariant(tt.value, tt.kind)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitKey(t *testing.T) {
	schema, key, err := SplitKey("org.gnome.desktop.interface.clock-format")
	require.NoError(t, err)
	assert.Equal(t, "org.gnome.desktop.interface", schema)
	assert.Equal(t, "clock-format", key)

	for _, bad := range []string{"", "nodot", ".key", "schema."} {
		_, _, err := SplitKey(bad)
		assert.Error(t, err, bad)
	}
}
