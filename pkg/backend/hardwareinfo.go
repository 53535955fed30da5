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

	"github.com/danctnix/tweaks/pkg/definition"
	apperrors "github.com/danctnix/tweaks/pkg/errors"
)

// HardwareInfo exposes one read-only hardware probe.
type HardwareInfo struct {
	prober Prober
	key    string
}

func newHardwareInfo(def *definition.Setting, env Env) *HardwareInfo {
	return &HardwareInfo{prober: ensureHardware(env), key: def.Key.First()}
}

func (h *HardwareInfo) Get(ctx context.Context) (any, error) {
	return h.prober.Probe(ctx, h.key)
}

func (h *HardwareInfo) Set(context.Context, any) error {
	return apperrors.NewWithContext(apperrors.ErrCodeReadOnly, "hardware information is read-only",
		map[string]any{"key": h.key})
}
