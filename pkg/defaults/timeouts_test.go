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

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		{"ProbeTimeout", ProbeTimeout, 1 * time.Second, 30 * time.Second},
		{"RendererProbeTimeout", RendererProbeTimeout, 1 * time.Second, 10 * time.Second},
		{"SnapshotTimeout", SnapshotTimeout, 5 * time.Second, 60 * time.Second},
		{"KVCommandTimeout", KVCommandTimeout, 1 * time.Second, 30 * time.Second},
		{"KVConnectTimeout", KVConnectTimeout, 1 * time.Second, 30 * time.Second},
		{"MonitorDebounce", MonitorDebounce, 10 * time.Millisecond, 1 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) is above maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestProbeTimeoutsFitSnapshot(t *testing.T) {
	// A single probe must finish within the snapshot budget
	if ProbeTimeout >= SnapshotTimeout {
		t.Errorf("ProbeTimeout (%v) should be less than SnapshotTimeout (%v)",
			ProbeTimeout, SnapshotTimeout)
	}
	if RendererProbeTimeout > ProbeTimeout {
		t.Errorf("RendererProbeTimeout (%v) should not exceed ProbeTimeout (%v)",
			RendererProbeTimeout, ProbeTimeout)
	}
}

func TestDefinitionDirsOrder(t *testing.T) {
	if len(DefinitionDirs) == 0 {
		t.Fatal("expected default definition directories")
	}
	if DefinitionDirs[0] != "/usr/share/tweaks" {
		t.Errorf("system definitions must load first, got %q", DefinitionDirs[0])
	}
}
