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

package privileged

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/danctnix/tweaks/pkg/defaults"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var applyTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tweaks_privileged_apply_total",
		Help: "Privileged helper invocations by outcome.",
	},
	[]string{"status"},
)

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// Config describes how the privileged helper is launched.
type Config struct {
	// Launcher escalates privileges, pkexec by default.
	Launcher string
	// Helper receives the staged file path as its only argument.
	Helper string
	// Run executes the launcher. Nil uses exec.CommandContext.
	Run Runner
}

// DefaultConfig returns the stock pkexec invocation.
func DefaultConfig() Config {
	return Config{
		Launcher: defaults.PrivilegedLauncher,
		Helper:   defaults.PrivilegedHelper,
	}
}

// Saver writes a staged configuration file.
type Saver interface {
	SaveStagedFile(path string) error
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Apply hands the staged file at path to the helper and waits for it to
// finish. The outcome is logged, never returned: a cancelled prompt or a
// failing helper leaves the current device state untouched.
func Apply(ctx context.Context, cfg Config, path string) {
	run := cfg.Run
	if run == nil {
		run = runCommand
	}
	launcher, helper := cfg.Launcher, cfg.Helper
	if launcher == "" {
		launcher = defaults.PrivilegedLauncher
	}
	if helper == "" {
		helper = defaults.PrivilegedHelper
	}

	start := time.Now()
	out, err := run(ctx, launcher, helper, path)
	if err != nil {
		applyTotal.WithLabelValues("error").Inc()
		slog.Error("privileged helper failed",
			"launcher", launcher,
			"helper", helper,
			"path", path,
			"output", strings.TrimSpace(string(out)),
			"error", err,
		)
		return
	}

	applyTotal.WithLabelValues("success").Inc()
	slog.Info("privileged configuration applied",
		"helper", helper,
		"path", path,
		"duration", time.Since(start).String(),
	)
}

// StagingPath returns a fresh file name for a staged configuration in dir,
// or in the system temp directory when dir is empty.
func StagingPath(dir string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "tweaks-"+uuid.NewString()+".ini")
}

// Flush writes the staged configuration to a temporary file, applies it and
// removes the file afterwards.
func Flush(ctx context.Context, cfg Config, s Saver) error {
	path := StagingPath("")
	if err := s.SaveStagedFile(path); err != nil {
		return fmt.Errorf("failed to stage privileged configuration: %w", err)
	}
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove staged configuration", "path", path, "error", err)
		}
	}()

	Apply(ctx, cfg, path)
	return nil
}
