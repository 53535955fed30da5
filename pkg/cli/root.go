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
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/danctnix/tweaks/pkg/defaults"
	"github.com/danctnix/tweaks/pkg/logging"
	"github.com/danctnix/tweaks/pkg/privileged"
	"github.com/danctnix/tweaks/pkg/serializer"
	"github.com/danctnix/tweaks/pkg/settings"
)

const (
	name           = "tweaks"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Usage:   fmt.Sprintf("Output format: %v", serializer.SupportedFormats()),
		Value:   string(serializer.FormatTable),
	}
}

// Execute runs the tweaks command with the process arguments. It is called
// by main.main.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Usage:                 "Inspect and change device settings",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "definitions",
				Aliases: []string{"d"},
				Usage:   "Setting definition directory, repeatable; earlier directories win",
				Value:   slices.Clone(defaults.DefinitionDirs),
				Sources: cli.EnvVars("TWEAKS_DEFINITIONS"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("TWEAKS_LOG_LEVEL", "LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   fmt.Sprintf("Log format: %v", logging.SupportedFormats()),
				Value:   string(logging.FormatJSON),
				Sources: cli.EnvVars("TWEAKS_LOG_FORMAT"),
			},
			&cli.StringFlag{
				Name:    "metrics-file",
				Usage:   "Write Prometheus metrics to this file on exit",
				Sources: cli.EnvVars("TWEAKS_METRICS_FILE"),
			},
			&cli.BoolFlag{
				Name:    "daemon",
				Usage:   "Skip settings that need a desktop session",
				Sources: cli.EnvVars("TWEAKS_DAEMON"),
			},
			&cli.StringFlag{
				Name:    "helper",
				Usage:   "Privileged helper that applies staged configuration",
				Value:   defaults.PrivilegedHelper,
				Sources: cli.EnvVars("TWEAKS_HELPER"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			format := logging.Format(cmd.String("log-format"))
			if !slices.Contains(logging.SupportedFormats(), string(format)) {
				return ctx, fmt.Errorf("unknown log format: %q", format)
			}
			logging.SetDefaultLogger(name, version, cmd.String("log-level"), format)
			slog.Debug("starting",
				"name", name,
				"version", version,
				"commit", commit,
				"date", date,
			)
			return ctx, nil
		},
		After: func(_ context.Context, cmd *cli.Command) error {
			path := cmd.String("metrics-file")
			if path == "" {
				return nil
			}
			if err := settings.WriteMetrics(path); err != nil {
				return fmt.Errorf("failed to write metrics: %w", err)
			}
			return nil
		},
		Commands: []*cli.Command{
			listCmd(),
			getCmd(),
			setCmd(),
			saveCmd(),
			applyCmd(),
			infoCmd(),
			monitorCmd(),
		},
	}
}

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", f)
	}
	return f, nil
}

// outputWriter returns a serializer for the output flag, or for the root
// command's writer when no output file is given.
func outputWriter(cmd *cli.Command) (*serializer.Writer, error) {
	f, err := parseOutputFormat(cmd)
	if err != nil {
		return nil, err
	}
	if path := cmd.String("output"); path != "" {
		return serializer.NewFileWriterOrStdout(f, path), nil
	}
	return serializer.NewWriter(f, cmd.Root().Writer), nil
}

func helperConfig(cmd *cli.Command) privileged.Config {
	cfg := privileged.DefaultConfig()
	cfg.Helper = cmd.String("helper")
	cfg.Run = runHelper
	return cfg
}

// runHelper is nil in production so privileged.Apply executes the launcher.
var runHelper privileged.Runner
