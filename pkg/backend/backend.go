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
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/danctnix/tweaks/pkg/defaults"
	"github.com/danctnix/tweaks/pkg/definition"
	apperrors "github.com/danctnix/tweaks/pkg/errors"
	"github.com/danctnix/tweaks/pkg/hwinfo"
	"github.com/danctnix/tweaks/pkg/kvstore"
	"github.com/danctnix/tweaks/pkg/valuemap"
)

func init() {
	// configparser style "key = value" lines
	ini.PrettyFormat = false
	ini.PrettyEqual = true
}

// Backend reads and writes the native value of one setting.
type Backend interface {
	Get(ctx context.Context) (any, error)
	Set(ctx context.Context, value any) error
}

// Stager is implemented by privileged backends. Their writes are held in
// memory and emitted into the staged configuration file for the helper.
type Stager interface {
	Backend
	// Section is the staged file section the value belongs to.
	Section() string
	// Key is the staged file key.
	Key() string
	// Staged returns the encoded staged value, false when nothing is staged.
	Staged() (string, bool)
}

// Subscriber is implemented by backends with change notifications.
type Subscriber interface {
	Subscribe(fn func()) (cancel func(), err error)
}

// FileBacked is implemented by backends whose value lives in regular files
// that may be edited by other processes.
type FileBacked interface {
	Files() []string
}

// Prober supplies read-only hardware facts.
type Prober interface {
	Probe(ctx context.Context, key string) (string, error)
}

// Env carries the host locations and services backends bind to.
type Env struct {
	HomeDir     string
	ConfigHome  string
	PamEnvFile  string
	OskConfPath string
	// Daemon disables backends that need a desktop session.
	Daemon bool
	Store  kvstore.Store
	Prober Prober
}

// DefaultEnv resolves locations for the current user.
func DefaultEnv() (Env, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Env{}, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, defaults.XDGConfigHome)
	}
	return Env{
		HomeDir:     home,
		ConfigHome:  configHome,
		PamEnvFile:  filepath.Join(home, defaults.PamEnvironmentFile),
		OskConfPath: defaults.OskConfigFile,
	}, nil
}

// Expand replaces a leading "~" with the home directory.
func (e Env) Expand(path string) string {
	if path == "~" {
		return e.HomeDir
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		return filepath.Join(e.HomeDir, rest)
	}
	return path
}

// New builds the backend declared by def. An error means the setting cannot
// be used on this host and should be dropped.
func New(ctx context.Context, def *definition.Setting, env Env) (Backend, error) {
	switch def.BackendKind() {
	case definition.KindGSettings:
		return newGSettings(ctx, def, env)
	case definition.KindGTK3Settings:
		return newGTK3Settings(def, env), nil
	case definition.KindEnvironment:
		return newEnvironment(def, env), nil
	case definition.KindSysfs:
		return newSysfs(def)
	case definition.KindOsksdl:
		return newOsksdl(def, env), nil
	case definition.KindHardwareInfo:
		return newHardwareInfo(def, env), nil
	case definition.KindCSS:
		return newCSS(def, env)
	case definition.KindSymlink:
		return newSymlink(def, env), nil
	case definition.KindSoundTheme:
		return newSoundTheme(def, env)
	default:
		return nil, invalid(def, "unknown backend")
	}
}

func errContext(def *definition.Setting) map[string]any {
	return map[string]any{
		"setting": def.Name,
		"type":    string(def.Type),
		"backend": string(def.BackendKind()),
	}
}

func invalid(def *definition.Setting, msg string) error {
	return apperrors.NewWithContext(apperrors.ErrCodeInvalidDefinition, msg, errContext(def))
}

func unavailable(def *definition.Setting, msg string, cause error) error {
	return apperrors.WrapWithContext(apperrors.ErrCodeBackendUnavailable, msg, cause, errContext(def))
}

// formatValue renders a native value as file text.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	}
	if f, ok := valuemap.AsFloat(v); ok {
		if f == math.Trunc(f) && math.Abs(f) < 1e15 {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// parseTyped decodes file text by the declared setting type.
func parseTyped(t definition.Type, text string) (any, error) {
	switch t {
	case definition.TypeBoolean:
		return text == "true", nil
	case definition.TypeNumber:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", text, err)
		}
		return f, nil
	default:
		return text, nil
	}
}

func ensureHardware(env Env) Prober {
	if env.Prober != nil {
		return env.Prober
	}
	return hwinfo.New()
}
