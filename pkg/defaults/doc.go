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

// Package defaults provides centralized configuration constants for tweaks.
//
// This package defines timeout values, well-known file locations and the
// privileged helper command used across the codebase. Centralizing these
// values keeps backends, probes and the CLI consistent.
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.ProbeTimeout)
//	defer cancel()
//
// # Paths
//
// Paths relative to the user's home (PamEnvironmentFile, UserDataDir,
// XDGConfigHome) are resolved by backend.Env; absolute paths are used as is.
package defaults
