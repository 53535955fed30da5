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

package defaults

import "time"

// Probe timeouts for read-only hardware introspection.
const (
	// ProbeTimeout bounds a single hardware probe.
	// Probes respect parent context deadlines when shorter.
	ProbeTimeout = 5 * time.Second

	// RendererProbeTimeout bounds the external renderer-info helper used for
	// the GPU descriptor.
	RendererProbeTimeout = 3 * time.Second

	// SnapshotTimeout bounds a full hardware snapshot (all probes).
	SnapshotTimeout = 10 * time.Second
)

// Key-value store timeouts for calls to the settings daemon tooling.
const (
	// KVCommandTimeout is the timeout for a single gsettings invocation.
	KVCommandTimeout = 5 * time.Second

	// KVConnectTimeout is the timeout for connecting to the session bus.
	KVConnectTimeout = 5 * time.Second
)

// Monitor timings for file-backed change detection.
const (
	// MonitorDebounce coalesces bursts of filesystem events for one file.
	MonitorDebounce = 150 * time.Millisecond
)
