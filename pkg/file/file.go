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

package file

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"
)

// Options for configuring the Parser.
type Option func(*Parser)

// Parser parses small system and configuration files (proc files,
// os-release, theme descriptors) with customizable settings.
type Parser struct {
	delimiter    string
	maxSize      int
	skipComments bool
	kvDelimiter  string
	vTrimChars   string
}

// WithDelimiter sets the delimiter used to split entries in the file.
// Default is newline ("\n").
func WithDelimiter(delim string) Option {
	return func(p *Parser) {
		p.delimiter = delim
	}
}

// WithMaxSize sets the maximum size (in bytes) of the file to be parsed.
// Default is 1MB.
func WithMaxSize(size int) Option {
	return func(p *Parser) {
		p.maxSize = size
	}
}

// WithSkipComments sets whether to skip lines starting with '#'.
// Default is true.
func WithSkipComments(skip bool) Option {
	return func(p *Parser) {
		p.skipComments = skip
	}
}

// WithKVDelimiter sets the key-value delimiter used in GetMap and GetBlocks.
// Default is "=".
func WithKVDelimiter(kvDelim string) Option {
	return func(p *Parser) {
		p.kvDelimiter = kvDelim
	}
}

// WithVTrimChars sets characters to trim from values.
// Default is no trimming.
func WithVTrimChars(trimChars string) Option {
	return func(p *Parser) {
		p.vTrimChars = trimChars
	}
}

// NewParser creates a new file parser with the provided options.
// Default settings: newline delimiter ("\n"), 1MB max file size.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		delimiter:    "\n",
		maxSize:      1 << 20, // 1MB default
		skipComments: true,
		kvDelimiter:  "=",
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetString reads the whole file and returns its content with surrounding
// whitespace and NUL bytes removed. Device tree and sysfs attributes are
// commonly NUL terminated.
func (p *Parser) GetString(path string) (string, error) {
	b, err := p.read(path)
	if err != nil {
		return "", err
	}
	return strings.Trim(string(b), " \t\r\n\x00"), nil
}

// GetMap reads the file at the given path and parses its content into a map.
// Each line is split into key-value pairs using the configured delimiter.
// Lines without a delimiter are skipped. On duplicate keys the first wins.
func (p *Parser) GetMap(path string) (map[string]string, error) {
	parts, err := p.GetLines(path)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(parts))
	for _, part := range parts {
		key, value, ok := p.splitKV(part)
		if !ok {
			slog.Debug("skipping line without value", "line", part, "delimiter", p.kvDelimiter)
			continue
		}
		if _, exists := result[key]; exists {
			continue
		}
		result[key] = value
	}

	return result, nil
}

// GetValue returns the value of the first line whose key equals key.
// The boolean result reports whether the key was found.
func (p *Parser) GetValue(path, key string) (string, bool, error) {
	m, err := p.GetMap(path)
	if err != nil {
		return "", false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

// GetBlocks splits the file into records separated by blank lines and
// parses each record into a map, preserving record order. This is the
// layout of /proc/cpuinfo.
func (p *Parser) GetBlocks(path string) ([]map[string]string, error) {
	b, err := p.read(path)
	if err != nil {
		return nil, err
	}

	blocks := make([]map[string]string, 0)
	current := make(map[string]string)
	flush := func() {
		if len(current) > 0 {
			blocks = append(blocks, current)
			current = make(map[string]string)
		}
	}

	for _, line := range strings.Split(string(b), p.delimiter) {
		clean := strings.TrimSpace(line)
		if clean == "" {
			flush()
			continue
		}
		if p.skipComments && strings.HasPrefix(clean, "#") {
			continue
		}
		key, value, ok := p.splitKV(clean)
		if !ok {
			continue
		}
		if _, exists := current[key]; !exists {
			current[key] = value
		}
	}
	flush()

	return blocks, nil
}

// GetLines reads the file at the given path and splits its content into lines
// based on the configured delimiter. It returns a slice of non-empty lines.
// An error is returned if the file cannot be read, exceeds the maximum size,
// or contains invalid UTF-8 content.
func (p *Parser) GetLines(path string) ([]string, error) {
	b, err := p.read(path)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(string(b), p.delimiter)

	result := make([]string, 0, len(parts))
	for _, part := range parts {
		cleanPart := strings.TrimSpace(part)
		if cleanPart == "" {
			continue
		}

		if p.skipComments && strings.HasPrefix(cleanPart, "#") {
			continue
		}

		result = append(result, cleanPart)
	}

	return result, nil
}

func (p *Parser) splitKV(line string) (string, string, bool) {
	kv := strings.SplitN(line, p.kvDelimiter, 2)
	if len(kv) != 2 {
		return "", "", false
	}

	key := strings.TrimSpace(kv[0])
	value := strings.TrimSpace(kv[1])
	if p.vTrimChars != "" {
		value = strings.Trim(value, p.vTrimChars)
	}
	return key, value, true
}

func (p *Parser) read(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	}

	if len(b) > p.maxSize {
		return nil, fmt.Errorf("file %q exceeds maximum size of %d bytes", path, p.maxSize)
	}

	if !utf8.Valid(b) {
		return nil, fmt.Errorf("content of file %q is not valid UTF-8", path)
	}

	return b, nil
}
