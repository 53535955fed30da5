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

package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/danctnix/tweaks/pkg/backend"
	"github.com/danctnix/tweaks/pkg/defaults"
	apperrors "github.com/danctnix/tweaks/pkg/errors"
	"github.com/danctnix/tweaks/pkg/hwinfo"
	"github.com/danctnix/tweaks/pkg/kvstore"
	"github.com/danctnix/tweaks/pkg/settings"
	"github.com/danctnix/tweaks/pkg/valuemap"
)

// newEnv builds the backend environment. The returned function releases
// the session connections.
var newEnv = func(daemon bool) (backend.Env, func(), error) {
	env, err := backend.DefaultEnv()
	if err != nil {
		return backend.Env{}, nil, err
	}
	env.Daemon = daemon
	env.Prober = hwinfo.New()
	if daemon {
		return env, func() {}, nil
	}

	store := kvstore.NewGSettings()
	env.Store = store
	return env, func() { _ = store.Close() }, nil
}

// loadTree builds the settings tree from every definition directory.
func loadTree(ctx context.Context, cmd *cli.Command) (*settings.Tree, func(), error) {
	env, release, err := newEnv(cmd.Bool("daemon"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to prepare environment: %w", err)
	}

	catalog := valuemap.Catalog{
		DataDirs: []string{
			defaults.SystemDataDir,
			filepath.Join(env.HomeDir, defaults.UserDataDir),
		},
		GTKMinor: defaults.GTKMinorVersion,
	}
	tree := settings.NewTree(env, settings.WithCatalog(catalog))

	for _, dir := range cmd.StringSlice("definitions") {
		if err := tree.LoadDir(ctx, dir); err != nil {
			tree.Close()
			release()
			return nil, nil, err
		}
	}

	return tree, func() {
		tree.Close()
		release()
	}, nil
}

// lookup finds a setting by name or fails with a usage error.
func lookup(tree *settings.Tree, name string) (*settings.Setting, error) {
	s, ok := tree.Lookup(name)
	if !ok {
		return nil, apperrors.NewWithContext(apperrors.ErrCodeNotFound, "unknown setting", map[string]any{"setting": name})
	}
	return s, nil
}
