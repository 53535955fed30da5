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

package settings

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/danctnix/tweaks/pkg/backend"
	"github.com/danctnix/tweaks/pkg/definition"
	apperrors "github.com/danctnix/tweaks/pkg/errors"
	"github.com/danctnix/tweaks/pkg/valuemap"
)

// Callback is invoked with the setting and its new value after an external
// change.
type Callback func(s *Setting, value any)

// Setting binds one definition to its backend and optional value map.
type Setting struct {
	def     definition.Setting
	backend backend.Backend
	vmap    *valuemap.Map

	mu       sync.Mutex
	callback Callback
	cancel   func()
}

// New builds a setting from def. The returned error means the setting is not
// usable on this host.
func New(ctx context.Context, def definition.Setting, env backend.Env) (*Setting, error) {
	return newSetting(ctx, def.Clone(), env, def.Map.Clone())
}

func newSetting(ctx context.Context, def definition.Setting, env backend.Env, vmap *valuemap.Map) (*Setting, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	b, err := backend.New(ctx, &def, env)
	if err != nil {
		settingsDroppedTotal.WithLabelValues(string(def.BackendKind())).Inc()
		return nil, err
	}
	return &Setting{def: def, backend: b, vmap: vmap}, nil
}

// Name returns the setting name.
func (s *Setting) Name() string { return s.def.Name }

// Type returns the declared value type.
func (s *Setting) Type() definition.Type { return s.def.Type }

// Weight returns the sort weight.
func (s *Setting) Weight() int { return definition.WeightOf(s.def.Weight) }

// Backend returns the backend kind.
func (s *Setting) Backend() definition.Kind { return s.def.BackendKind() }

// Help returns the optional help text.
func (s *Setting) Help() string { return s.def.Help }

// Definition returns a copy of the definition the setting was built from.
func (s *Setting) Definition() definition.Setting { return s.def.Clone() }

// Map returns a copy of the value map, nil when the setting has none.
func (s *Setting) Map() *valuemap.Map { return s.vmap.Clone() }

// NeedsRoot reports whether writes are staged for the privileged helper.
func (s *Setting) NeedsRoot() bool {
	_, ok := s.backend.(backend.Stager)
	return ok
}

// ReadOnly reports whether the setting rejects writes.
func (s *Setting) ReadOnly() bool {
	return s.def.Type == definition.TypeInfo || s.def.BackendKind() == definition.KindHardwareInfo
}

// Get reads the current value, translated to its label when a value map
// matches.
func (s *Setting) Get(ctx context.Context) (any, error) {
	v, err := s.backend.Get(ctx)
	settingReadsTotal.WithLabelValues(string(s.Backend()), status(err)).Inc()
	if err != nil {
		slog.Error("failed to read setting",
			"setting", s.Name(),
			"type", s.Type(),
			"backend", s.Backend(),
			"error", err,
		)
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeReadFailure, "failed to read setting", err, s.errContext())
	}
	return s.vmap.ToLabel(v), nil
}

// Set maps value to its native form and writes it. Privileged settings
// only stage the value.
func (s *Setting) Set(ctx context.Context, value any) error {
	err := s.backend.Set(ctx, s.vmap.ToNative(value))
	settingWritesTotal.WithLabelValues(string(s.Backend()), status(err)).Inc()
	if err == nil {
		slog.Debug("setting updated", "setting", s.Name(), "backend", s.Backend(), "staged", s.NeedsRoot())
		return nil
	}

	slog.Error("failed to write setting",
		"setting", s.Name(),
		"type", s.Type(),
		"backend", s.Backend(),
		"error", err,
	)
	if apperrors.CodeOf(err) != "" {
		return err
	}
	return apperrors.WrapWithContext(apperrors.ErrCodeWriteFailure, "failed to write setting", err, s.errContext())
}

// Connect registers cb as the change callback, replacing any previous one.
// Backends with change notifications start delivering them.
func (s *Setting) Connect(cb Callback) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.callback = cb
	sub, ok := s.backend.(backend.Subscriber)
	if !ok || s.cancel != nil {
		return nil
	}
	cancel, err := sub.Subscribe(s.changed)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.Name(), err)
	}
	s.cancel = cancel
	return nil
}

// Close stops change notifications.
func (s *Setting) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Setting) changed() {
	v, err := s.Get(context.Background())
	if err != nil {
		return
	}
	s.emit(v)
}

func (s *Setting) emit(v any) {
	s.mu.Lock()
	cb := s.callback
	s.mu.Unlock()

	if cb != nil {
		cb(s, v)
	}
}

func (s *Setting) stager() (backend.Stager, bool) {
	st, ok := s.backend.(backend.Stager)
	return st, ok
}

func (s *Setting) files() []string {
	if fb, ok := s.backend.(backend.FileBacked); ok {
		return fb.Files()
	}
	return nil
}

func (s *Setting) errContext() map[string]any {
	return map[string]any{
		"setting": s.Name(),
		"type":    string(s.Type()),
		"backend": string(s.Backend()),
	}
}

// ParseValue converts user input to a value for Set according to the
// declared type. Percentage settings accept 0-100 and scale it to the
// min/max range. "none" clears file settings.
func (s *Setting) ParseValue(text string) (any, error) {
	switch s.def.Type {
	case definition.TypeBoolean:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest, "invalid boolean", err, s.errContext())
		}
		return b, nil
	case definition.TypeNumber:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidRequest, "invalid number", err, s.errContext())
		}
		return s.FromPercent(f), nil
	case definition.TypeFile:
		if text == "" || text == "none" {
			return nil, nil
		}
		return text, nil
	default:
		return text, nil
	}
}

// FromPercent converts a percentage to the native range of a percentage
// setting. Other settings return v unchanged.
func (s *Setting) FromPercent(v float64) float64 {
	lo, span, ok := s.percentRange()
	if !ok {
		return v
	}
	return v/100*span + lo
}

// ToPercent converts a native value to a percentage of the min/max range.
// Other settings return v unchanged.
func (s *Setting) ToPercent(v float64) float64 {
	lo, span, ok := s.percentRange()
	if !ok {
		return v
	}
	return float64(int((v - lo) / span * 100))
}

func (s *Setting) percentRange() (float64, float64, bool) {
	d := s.def
	if !d.Percentage || d.Min == nil || d.Max == nil || *d.Max == *d.Min {
		return 0, 0, false
	}
	return *d.Min, *d.Max - *d.Min, true
}
