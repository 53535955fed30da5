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
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/danctnix/tweaks/pkg/valuemap"
)

// parseVariant decodes the GVariant text form printed by gsettings.
// Numeric values may carry a type annotation such as "uint32 5".
func parseVariant(text string, kind Kind) (any, error) {
	text = strings.TrimSpace(text)

	switch kind {
	case KindBoolean:
		switch text {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, fmt.Errorf("invalid boolean value %q", text)
	case KindString:
		return unquote(text)
	case KindNumber:
		n, err := strconv.ParseInt(stripAnnotation(text), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number value %q: %w", text, err)
		}
		return n, nil
	case KindDouble:
		f, err := strconv.ParseFloat(stripAnnotation(text), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid double value %q: %w", text, err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported value kind %q", kind)
	}
}

// formatVariant encodes value as GVariant text accepted by gsettings set.
func formatVariant(value any, kind Kind) (string, error) {
	switch kind {
	case KindBoolean:
		b, ok := value.(bool)
		if !ok {
			return "", fmt.Errorf("expected boolean, got %T", value)
		}
		return strconv.FormatBool(b), nil
	case KindString:
		s, ok := value.(string)
		if !ok {
			return "", fmt.Errorf("expected string, got %T", value)
		}
		return quote(s), nil
	case KindNumber:
		f, ok := valuemap.AsFloat(value)
		if !ok {
			return "", fmt.Errorf("expected number, got %T", value)
		}
		return strconv.FormatInt(int64(math.Round(f)), 10), nil
	case KindDouble:
		f, ok := valuemap.AsFloat(value)
		if !ok {
			return "", fmt.Errorf("expected number, got %T", value)
		}
		s := strconv.FormatFloat(f, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		return s, nil
	default:
		return "", fmt.Errorf("unsupported value kind %q", kind)
	}
}

func stripAnnotation(text string) string {
	if i := strings.LastIndexByte(text, ' '); i >= 0 {
		return text[i+1:]
	}
	return text
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\', '\'':
			b.WriteByte('\\')
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

func unquote(text string) (string, error) {
	if len(text) < 2 || (text[0] != '\'' && text[0] != '"') || text[len(text)-1] != text[0] {
		return "", fmt.Errorf("invalid string value %q", text)
	}
	body := text[1 : len(text)-1]

	var b strings.Builder
	escaped := false
	for _, r := range body {
		if escaped {
			switch r {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteRune(r)
			}
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}
