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

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/coreos/go-systemd/v22/journal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"Warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.in))
		})
	}
}

func TestNewLogger_JSONIncludesModuleAndVersion(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "tweaks", "v1.2.3", "info", FormatJSON)

	logger.Info("loaded", "settings", 3)
	logger.Debug("hidden")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "loaded", rec["msg"])
	assert.Equal(t, "tweaks", rec["module"])
	assert.Equal(t, "v1.2.3", rec["version"])
	assert.EqualValues(t, 3, rec["settings"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "tweaks", "dev", "debug", FormatText)

	logger.Debug("probe", "key", "cpu")

	out := buf.String()
	assert.Contains(t, out, "msg=probe")
	assert.Contains(t, out, "key=cpu")
	assert.Contains(t, out, "source=")
}

func TestJournalHandler(t *testing.T) {
	type sent struct {
		msg  string
		pri  journal.Priority
		vars map[string]string
	}
	var got []sent

	h := &journalHandler{
		level: slog.LevelInfo,
		send: func(msg string, pri journal.Priority, vars map[string]string) error {
			got = append(got, sent{msg, pri, vars})
			return nil
		},
	}

	logger := slog.New(h).With("module", "tweaks").WithGroup("setting")
	logger.Warn("read failed", "name", "Dark theme", "backend", "gsettings")
	logger.Debug("filtered")

	r := slog.NewRecord(time.Now(), slog.LevelError, "boom", 0)
	require.NoError(t, h.Handle(context.Background(), r))

	require.Len(t, got, 2)
	assert.Equal(t, "read failed", got[0].msg)
	assert.Equal(t, journal.PriWarning, got[0].pri)
	assert.Equal(t, "tweaks", got[0].vars["MODULE"])
	assert.Equal(t, "Dark theme", got[0].vars["SETTING_NAME"])
	assert.Equal(t, "gsettings", got[0].vars["SETTING_BACKEND"])
	assert.Equal(t, journal.PriErr, got[1].pri)
}

func TestJournalFieldName(t *testing.T) {
	assert.Equal(t, "SETTING_NAME", journalFieldName("setting.name"))
	assert.Equal(t, "ERROR", journalFieldName("error"))
	assert.Equal(t, "X", journalFieldName("_x"))
	assert.Equal(t, "FIELD", journalFieldName("__"))
}
