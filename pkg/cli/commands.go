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

	"github.com/urfave/cli/v3"

	"github.com/danctnix/tweaks/pkg/hwinfo"
	"github.com/danctnix/tweaks/pkg/settings"
)

type snapshotter interface {
	Snapshot(ctx context.Context) ([]hwinfo.Entry, error)
}

// newProber is replaced in tests.
var newProber = func() snapshotter {
	return hwinfo.New()
}

func infoCmd() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Show hardware information",
		Flags: []cli.Flag{
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			w, err := outputWriter(cmd)
			if err != nil {
				return err
			}
			defer w.Close()

			entries, err := newProber().Snapshot(ctx)
			if err != nil {
				return err
			}
			return w.Serialize(ctx, hardwareList(entries))
		},
	}
}

func monitorCmd() *cli.Command {
	return &cli.Command{
		Name:  "monitor",
		Usage: "Print setting changes until interrupted",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			tree, release, err := loadTree(ctx, cmd)
			if err != nil {
				return err
			}
			defer release()

			out := cmd.Root().Writer
			slog.Info("monitoring settings", "count", tree.Len())
			err = tree.Monitor(ctx, func(s *settings.Setting, value any) {
				if value == nil {
					value = "-"
				}
				fmt.Fprintf(out, "%s: %v\n", s.Name(), value)
			})
			if ctx.Err() != nil {
				return nil
			}
			return err
		},
	}
}
