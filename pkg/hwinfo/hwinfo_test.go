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

package hwinfo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danctnix/tweaks/pkg/defaults"
)

const armCPUInfo = `processor	: 0
BogoMIPS	: 48.00
CPU implementer	: 0x41
CPU architecture: 8
CPU variant	: 0x0
CPU part	: 0xd03
CPU revision	: 4

processor	: 1
CPU implementer	: 0x41
CPU architecture: 8
CPU part	: 0xd03

processor	: 2
CPU implementer	: 0x41
CPU part	: 0xd08

processor	: 3
CPU implementer	: 0x99
CPU part	: 0x001
`

const x86CPUInfo = `processor	: 0
vendor_id	: GenuineIntel
model name	: Intel(R) Core(TM) i5-8250U CPU @ 1.60GHz
flags		: fpu vme de

processor	: 1
model name	: Intel(R) Core(TM) i5-8250U CPU @ 1.60GHz
`

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// testPaths returns paths under root that do not exist until written.
func testPaths(root string) Paths {
	return Paths{
		CPUInfo:    filepath.Join(root, "proc/cpuinfo"),
		ProcFS:     filepath.Join(root, "proc"),
		MemoryDir:  filepath.Join(root, "sys/devices/system/memory"),
		DMIDir:     filepath.Join(root, "sys/devices/virtual/dmi/id"),
		DeviceTree: filepath.Join(root, "proc/device-tree"),
		SoCDir:     filepath.Join(root, "sys/devices/soc0"),
		OSRelease:  []string{filepath.Join(root, "etc/os-release"), filepath.Join(root, "usr/lib/os-release")},
		Renderers:  []string{filepath.Join(root, "usr/libexec/renderer"), filepath.Join(root, "usr/lib/renderer")},
		DiskRoot:   root,
	}
}

func newTestProber(root string, opts ...Option) *Prober {
	base := []Option{
		WithPaths(testPaths(root)),
		WithUname(func() (string, string, error) { return "6.6.0-danctnix", "aarch64", nil }),
		WithStatfs(func(string) (uint64, error) { return 64 * gib, nil }),
	}
	return New(append(base, opts...)...)
}

func TestProbe_CPU(t *testing.T) {
	tests := []struct {
		name    string
		cpuinfo string
		want    string
	}{
		{"arm", armCPUInfo, "2x ARM Cortex-A53\n1x ARM Cortex-A72\n1x unknown cpu"},
		{"x86", x86CPUInfo, "2x Intel(R) Core(TM) i5-8250U CPU @ 1.60GHz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			write(t, filepath.Join(root, "proc/cpuinfo"), tt.cpuinfo)

			got, err := newTestProber(root).Probe(context.Background(), KeyCPU)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArmCore(t *testing.T) {
	assert.Equal(t, "Qualcomm Kryo 4XX Silver", armCore("0x51", "0x805"))
	assert.Equal(t, "ARM unknown core", armCore("0x41", "0xfff"))
	assert.Equal(t, "unknown cpu", armCore("zz", "0xd03"))
}

func TestProbe_MemoryBlocks(t *testing.T) {
	root := t.TempDir()
	memdir := filepath.Join(root, "sys/devices/system/memory")
	write(t, filepath.Join(memdir, "block_size_bytes"), "8000000\n")
	for _, b := range []string{"memory0", "memory1", "memory2", "memory3"} {
		write(t, filepath.Join(memdir, b, "online"), "1\n")
	}

	got, err := newTestProber(root).Probe(context.Background(), KeyMemory)
	require.NoError(t, err)
	// 4 x 128 MiB
	assert.Equal(t, "512 MB", got)
}

func TestProbe_MemoryMeminfoFallback(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "proc/meminfo"), "MemTotal:        3915264 kB\nMemFree:          123456 kB\n")

	got, err := newTestProber(root).Probe(context.Background(), KeyMemory)
	require.NoError(t, err)
	assert.Equal(t, "3.7 GB", got)
}

func TestFormatMemory(t *testing.T) {
	assert.Equal(t, "2.0 GB", formatMemory(2*gib))
	assert.Equal(t, "1024 MB", formatMemory(gib))
	assert.Equal(t, "768 MB", formatMemory(768*1024*1024))
}

func TestProbe_Disk(t *testing.T) {
	root := t.TempDir()
	p := newTestProber(root, WithStatfs(func(string) (uint64, error) { return 62_000_000_000, nil }))

	got, err := p.Probe(context.Background(), KeyDisk)
	require.NoError(t, err)
	assert.Equal(t, "57.74 GB", got)

	assert.Equal(t, "64.0 GB", formatDisk(64*gib))

	p = newTestProber(root, WithStatfs(func(string) (uint64, error) { return 0, errors.New("boom") }))
	_, err = p.Probe(context.Background(), KeyDisk)
	assert.Error(t, err)
}

func TestProbe_Chipset(t *testing.T) {
	t.Run("socinfo", func(t *testing.T) {
		root := t.TempDir()
		write(t, filepath.Join(root, "sys/devices/soc0/family"), "Snapdragon\n")
		write(t, filepath.Join(root, "sys/devices/soc0/machine"), "SDM845\n")

		got, err := newTestProber(root).Probe(context.Background(), KeyChipset)
		require.NoError(t, err)
		assert.Equal(t, "Snapdragon SDM845", got)
	})

	t.Run("device tree", func(t *testing.T) {
		root := t.TempDir()
		write(t, filepath.Join(root, "proc/device-tree/compatible"), "pine64,pinephone-1.2\x00pine64,pinephone\x00allwinner,sun50i-a64\x00")

		got, err := newTestProber(root).Probe(context.Background(), KeyChipset)
		require.NoError(t, err)
		assert.Equal(t, "Allwinner A64", got)
	})

	t.Run("absent", func(t *testing.T) {
		got, err := newTestProber(t.TempDir()).Probe(context.Background(), KeyChipset)
		require.NoError(t, err)
		assert.Equal(t, NotAvailable, got)
	})
}

func TestSocName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"qcom,sdm845", "Qualcomm Snapdragon 845"},
		{"rockchip,rk3399", "Rockchip RK3399"},
		{"qcom,sm9999", "Qualcomm SM9999"},
		{"acme,x100", "Acme X100"},
		{"nocomma", "nocomma"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, socName(tt.in))
		})
	}
}

func TestProbe_Model(t *testing.T) {
	t.Run("dmi", func(t *testing.T) {
		root := t.TempDir()
		write(t, filepath.Join(root, "sys/devices/virtual/dmi/id/chassis_vendor"), "LENOVO\n")
		write(t, filepath.Join(root, "sys/devices/virtual/dmi/id/product_name"), "20L8S02D00\n")

		got, err := newTestProber(root).Probe(context.Background(), KeyModel)
		require.NoError(t, err)
		assert.Equal(t, "LENOVO 20L8S02D00", got)
	})

	t.Run("device tree", func(t *testing.T) {
		root := t.TempDir()
		write(t, filepath.Join(root, "proc/device-tree/model"), "Pine64 PinePhone (1.2)\x00")

		got, err := newTestProber(root).Probe(context.Background(), KeyModel)
		require.NoError(t, err)
		assert.Equal(t, "Pine64 PinePhone (1.2)", got)
	})
}

func TestProbe_KernelArchitecture(t *testing.T) {
	p := newTestProber(t.TempDir())
	ctx := context.Background()

	got, err := p.Probe(ctx, KeyKernel)
	require.NoError(t, err)
	assert.Equal(t, "6.6.0-danctnix", got)

	got, err = p.Probe(ctx, KeyArchitecture)
	require.NoError(t, err)
	assert.Equal(t, "ARM64", got)

	assert.Equal(t, "x86_64", normalizeArch("x86_64"))
}

func TestProbe_Distro(t *testing.T) {
	root := t.TempDir()
	p := newTestProber(root)

	got, err := p.Probe(context.Background(), KeyDistro)
	require.NoError(t, err)
	assert.Equal(t, NotAvailable, got)

	write(t, filepath.Join(root, "usr/lib/os-release"), "# comment\nNAME=\"Arch Linux ARM\"\nPRETTY_NAME=\"Arch Linux ARM\"\nID=archarm\n")
	got, err = p.Probe(context.Background(), KeyDistro)
	require.NoError(t, err)
	assert.Equal(t, "Arch Linux ARM", got)
}

func TestProbe_GPU(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "usr/lib/renderer"), "#!/bin/sh\n")

	var ran []string
	p := newTestProber(root, WithRunner(func(_ context.Context, path string) ([]byte, error) {
		ran = append(ran, path)
		return []byte("Mali-400 MP\n"), nil
	}))

	got, err := p.Probe(context.Background(), KeyGPU)
	require.NoError(t, err)
	assert.Equal(t, "Mali-400 MP", got)
	assert.Equal(t, []string{filepath.Join(root, "usr/lib/renderer")}, ran)
}

func TestProbe_BoundedByProbeTimeout(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "usr/lib/renderer"), "#!/bin/sh\n")

	var deadline time.Time
	p := newTestProber(root, WithRunner(func(ctx context.Context, _ string) ([]byte, error) {
		deadline, _ = ctx.Deadline()
		return []byte("Mali-400 MP"), nil
	}))

	start := time.Now()
	_, err := p.Probe(context.Background(), KeyGPU)
	require.NoError(t, err)
	require.False(t, deadline.IsZero(), "probe context carries a deadline")
	assert.WithinDuration(t, start.Add(defaults.ProbeTimeout), deadline, time.Second)
}

func TestProbe_UnknownKey(t *testing.T) {
	got, err := newTestProber(t.TempDir()).Probe(context.Background(), "battery")
	require.NoError(t, err)
	assert.Equal(t, NotAvailable, got)
}

func TestSnapshot(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "proc/cpuinfo"), x86CPUInfo)

	entries, err := newTestProber(root).Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, len(Keys()))

	got := make(map[string]string)
	for i, e := range entries {
		assert.Equal(t, Keys()[i], e.Key)
		got[e.Key] = e.Value
	}
	assert.Equal(t, "ARM64", got[KeyArchitecture])
	assert.Equal(t, "2x Intel(R) Core(TM) i5-8250U CPU @ 1.60GHz", got[KeyCPU])
	// no meminfo under root: logged and reported as unavailable
	assert.Equal(t, NotAvailable, got[KeyMemory])
}

func TestSnapshot_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestProber(t.TempDir()).Snapshot(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
