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
	"os"

	"github.com/urfave/cli/v3"

	"github.com/danctnix/tweaks/pkg/privileged"
)

func saveCmd() *cli.Command {
	return &cli.Command{
		Name:  "save",
		Usage: "Write the staged configuration of all privileged settings",
		Description: `Read every setting that needs root and write their values as the INI
file consumed by the privileged helper, to --output or stdout.`,
		Flags: []cli.Flag{
			outputFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			tree, release, err := loadTree(ctx, cmd)
			if err != nil {
				return err
			}
			defer release()

			// reading stages the current device values
			for _, s := range tree.Privileged() {
				_, _ = s.Get(ctx)
			}

			if path := cmd.String("output"); path != "" {
				return tree.SaveStagedFile(path)
			}
			return tree.SaveStaged(cmd.Root().Writer)
		},
	}
}

func applyCmd() *cli.Command {
	return &cli.Command{
		Name:      "apply",
		Usage:     "Hand a staged configuration file to the privileged helper",
		ArgsUsage: "PATH",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("expected exactly one staged file, got %d arguments", cmd.NArg())
			}
			path := cmd.Args().First()
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("failed to read staged file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("staged file %s is a directory", path)
			}

			privileged.Apply(ctx, helperConfig(cmd), path)
			return nil
		},
	}
}
