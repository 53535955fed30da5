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

package backend

import (
	"context"
	"log/slog"

	"github.com/danctnix/tweaks/pkg/definition"
	"github.com/danctnix/tweaks/pkg/kvstore"
)

// GSettings binds a setting to a key of the settings daemon.
type GSettings struct {
	store  kvstore.Store
	schema string
	key    string
	kind   kvstore.Kind
}

func newGSettings(ctx context.Context, def *definition.Setting, env Env) (*GSettings, error) {
	if env.Daemon {
		return nil, unavailable(def, "settings daemon not available in daemon mode", nil)
	}
	if env.Store == nil {
		return nil, unavailable(def, "no settings store configured", nil)
	}

	kind := gsettingsKind(def)
	if !kind.IsValid() {
		return nil, invalid(def, "unsupported gtype "+string(kind))
	}

	for _, candidate := range def.Key {
		schema, key, err := kvstore.SplitKey(candidate)
		if err != nil {
			return nil, invalid(def, err.Error())
		}
		ok, err := env.Store.Exists(ctx, schema, key)
		if err != nil {
			return nil, unavailable(def, "failed to look up "+candidate, err)
		}
		if ok {
			return &GSettings{store: env.Store, schema: schema, key: key, kind: kind}, nil
		}
	}

	slog.Debug("none of the keys exist", "setting", def.Name, "keys", []string(def.Key))
	return nil, unavailable(def, "none of the keys exist", nil)
}

// gsettingsKind derives the value kind from gtype, falling back to the
// declared setting type.
func gsettingsKind(def *definition.Setting) kvstore.Kind {
	if def.GType != "" {
		return kvstore.Kind(def.GType)
	}
	switch def.Type {
	case definition.TypeBoolean:
		return kvstore.KindBoolean
	case definition.TypeNumber:
		return kvstore.KindNumber
	default:
		return kvstore.KindString
	}
}

// Address returns the resolved schema and key.
func (g *GSettings) Address() (string, string) {
	return g.schema, g.key
}

func (g *GSettings) Get(ctx context.Context) (any, error) {
	return g.store.Get(ctx, g.schema, g.key, g.kind)
}

func (g *GSettings) Set(ctx context.Context, value any) error {
	return g.store.Set(ctx, g.schema, g.key, g.kind, value)
}

func (g *GSettings) Subscribe(fn func()) (func(), error) {
	return g.store.Watch(g.schema, g.key, fn)
}
