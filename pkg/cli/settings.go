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

	"github.com/danctnix/tweaks/pkg/privileged"
	"github.com/danctnix/tweaks/pkg/settings"
)

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List every setting with its current value",
		Description: `Load all definition directories and print each usable setting in
page, section and weight order. Settings whose backend is not available on
this host are left out.`,
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

			tree, release, err := loadTree(ctx, cmd)
			if err != nil {
				return err
			}
			defer release()

			var out settingList
			tree.Walk(func(p *settings.Page, sec *settings.Section, s *settings.Setting) bool {
				out = append(out, newSettingView(ctx, p.Name, sec.Name, s))
				return ctx.Err() == nil
			})
			if err := ctx.Err(); err != nil {
				return err
			}

			return w.Serialize(ctx, out)
		},
	}
}

func getCmd() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "Print the current value of one setting",
		ArgsUsage: "NAME",
		Flags: []cli.Flag{
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("expected exactly one setting name, got %d arguments", cmd.NArg())
			}
			w, err := outputWriter(cmd)
			if err != nil {
				return err
			}

			tree, release, err := loadTree(ctx, cmd)
			if err != nil {
				return err
			}
			defer release()

			if _, err := lookup(tree, cmd.Args().First()); err != nil {
				return err
			}
			var out settingList
			tree.Walk(func(p *settings.Page, sec *settings.Section, s *settings.Setting) bool {
				if s.Name() != cmd.Args().First() {
					return true
				}
				out = append(out, newSettingView(ctx, p.Name, sec.Name, s))
				return false
			})
			if out[0].Error != "" {
				return fmt.Errorf("failed to read %s: %s", out[0].Name, out[0].Error)
			}

			return w.Serialize(ctx, out)
		},
	}
}

func setCmd() *cli.Command {
	return &cli.Command{
		Name:      "set",
		Usage:     "Change the value of one setting",
		ArgsUsage: "NAME VALUE",
		Description: `VALUE is parsed according to the declared setting type. Choice settings
take the label shown by list. Percentage settings take 0-100.

Settings that need root (sysfs, osksdl) are staged and handed to the
privileged helper. Use --dry-run to print the staged configuration instead.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Print the staged privileged configuration instead of applying it",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 2 {
				return fmt.Errorf("expected NAME and VALUE, got %d arguments", cmd.NArg())
			}

			tree, release, err := loadTree(ctx, cmd)
			if err != nil {
				return err
			}
			defer release()

			s, err := lookup(tree, cmd.Args().Get(0))
			if err != nil {
				return err
			}
			value, err := s.ParseValue(cmd.Args().Get(1))
			if err != nil {
				return err
			}
			if err := s.Set(ctx, value); err != nil {
				return err
			}

			if !s.NeedsRoot() {
				slog.Info("setting changed", "setting", s.Name(), "value", value)
				return nil
			}
			if cmd.Bool("dry-run") {
				return tree.SaveStaged(cmd.Root().Writer)
			}
			return privileged.Flush(ctx, helperConfig(cmd), tree)
		},
	}
}
