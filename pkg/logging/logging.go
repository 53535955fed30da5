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
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the handler used for log output.
type Format string

const (
	// FormatJSON writes JSON records to stderr.
	FormatJSON Format = "json"
	// FormatText writes logfmt-style records to stderr.
	FormatText Format = "text"
	// FormatJournal sends records to the systemd journal, falling back to JSON
	// on stderr when the journal socket is not available.
	FormatJournal Format = "journal"
)

// SupportedFormats returns the accepted values for the log format flag.
func SupportedFormats() []string {
	return []string{string(FormatJSON), string(FormatText), string(FormatJournal)}
}

// ParseLogLevel converts a case-insensitive level name into a slog.Level.
// Unknown values map to INFO.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a logger using the given output format.
func NewLogger(module, version, level string, format Format) *slog.Logger {
	return newLogger(os.Stderr, module, version, level, format)
}

func newLogger(w io.Writer, module, version, level string, format Format) *slog.Logger {
	lvl := ParseLogLevel(level)
	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl <= slog.LevelDebug,
	}

	var h slog.Handler
	switch format {
	case FormatText:
		h = slog.NewTextHandler(w, opts)
	case FormatJournal:
		if jh, ok := newJournalHandler(lvl); ok {
			h = jh
		} else {
			h = slog.NewJSONHandler(w, opts)
		}
	default:
		h = slog.NewJSONHandler(w, opts)
	}

	return slog.New(h).With(
		slog.String("module", module),
		slog.String("version", version),
	)
}

// SetDefaultLogger installs a logger with an explicit level and format as the slog default.
func SetDefaultLogger(module, version, level string, format Format) {
	slog.SetDefault(NewLogger(module, version, level, format))
}
