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
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/prometheus/procfs"
	"golang.org/x/sync/errgroup"

	"github.com/danctnix/tweaks/pkg/defaults"
	"github.com/danctnix/tweaks/pkg/file"
)

// NotAvailable is reported for keys that cannot be probed on this host.
const NotAvailable = "N/A"

// Probe keys.
const (
	KeyModel        = "model"
	KeyCPU          = "cpu"
	KeyMemory       = "memory"
	KeyDisk         = "disk"
	KeyChipset      = "chipset"
	KeyGPU          = "gpu"
	KeyKernel       = "kernel"
	KeyArchitecture = "architecture"
	KeyDistro       = "distro"
)

// Keys returns every supported probe key in display order.
func Keys() []string {
	return []string{
		KeyModel, KeyChipset, KeyCPU, KeyMemory, KeyDisk,
		KeyGPU, KeyArchitecture, KeyKernel, KeyDistro,
	}
}

const gib = 1024 * 1024 * 1024

// Paths locates the system files consulted by the probes.
type Paths struct {
	CPUInfo    string
	ProcFS     string
	MemoryDir  string
	DMIDir     string
	DeviceTree string
	SoCDir     string
	OSRelease  []string
	Renderers  []string
	DiskRoot   string
}

// DefaultPaths returns the standard Linux locations.
func DefaultPaths() Paths {
	return Paths{
		CPUInfo:    "/proc/cpuinfo",
		ProcFS:     procfs.DefaultMountPoint,
		MemoryDir:  "/sys/devices/system/memory",
		DMIDir:     "/sys/devices/virtual/dmi/id",
		DeviceTree: "/proc/device-tree",
		SoCDir:     "/sys/devices/soc0",
		OSRelease:  []string{"/etc/os-release", "/usr/lib/os-release"},
		Renderers: []string{
			"/usr/libexec/gnome-control-center-print-renderer",
			"/usr/lib/gnome-control-center-print-renderer",
		},
		DiskRoot: "/",
	}
}

// Prober reads hardware and system information.
type Prober struct {
	paths  Paths
	uname  func() (release, machine string, err error)
	statfs func(path string) (uint64, error)
	run    func(ctx context.Context, path string) ([]byte, error)
	parser *file.Parser
}

// Option configures a Prober.
type Option func(*Prober)

// WithPaths overrides the probed file locations.
func WithPaths(p Paths) Option {
	return func(pr *Prober) {
		pr.paths = p
	}
}

// WithUname replaces the kernel identification source.
func WithUname(fn func() (release, machine string, err error)) Option {
	return func(pr *Prober) {
		pr.uname = fn
	}
}

// WithStatfs replaces the filesystem size source. fn returns the total size
// in bytes of the filesystem containing path.
func WithStatfs(fn func(path string) (uint64, error)) Option {
	return func(pr *Prober) {
		pr.statfs = fn
	}
}

// WithRunner replaces the renderer helper execution.
func WithRunner(fn func(ctx context.Context, path string) ([]byte, error)) Option {
	return func(pr *Prober) {
		pr.run = fn
	}
}

// New returns a Prober for the running host.
func New(opts ...Option) *Prober {
	p := &Prober{
		paths:  DefaultPaths(),
		uname:  uname,
		statfs: filesystemSize,
		run:    runRenderer,
		parser: file.NewParser(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe returns the value for key. Keys that are unknown or whose sources
// are absent yield NotAvailable.
func (p *Prober) Probe(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, defaults.ProbeTimeout)
	defer cancel()

	var (
		v   string
		err error
	)
	switch key {
	case KeyModel:
		v, err = p.model()
	case KeyCPU:
		v, err = p.cpus()
	case KeyMemory:
		v, err = p.memory()
	case KeyDisk:
		v, err = p.disk()
	case KeyChipset:
		v, err = p.chipset()
	case KeyGPU:
		v = p.gpu(ctx)
	case KeyKernel:
		v, _, err = p.uname()
	case KeyArchitecture:
		var machine string
		_, machine, err = p.uname()
		v = normalizeArch(machine)
	case KeyDistro:
		v, err = p.distro()
	}
	if err != nil {
		return "", fmt.Errorf("failed to probe %s: %w", key, err)
	}
	if v == "" {
		return NotAvailable, nil
	}
	return v, nil
}

// Entry is one probed value.
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Snapshot probes every key concurrently. Failed probes report
// NotAvailable and are logged; the returned error is only set when ctx ends
// before the probes complete.
func (p *Prober) Snapshot(ctx context.Context) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.SnapshotTimeout)
	defer cancel()

	keys := Keys()
	entries := make([]Entry, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		g.Go(func() error {
			v, err := p.Probe(gctx, key)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				slog.Warn("hardware probe failed", "key", key, "error", err)
				v = NotAvailable
			}
			entries[i] = Entry{Key: key, Value: v}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("hardware snapshot interrupted: %w", err)
	}
	return entries, nil
}

func (p *Prober) model() (string, error) {
	if isDir(p.paths.DMIDir) {
		vendor := p.optional(filepath.Join(p.paths.DMIDir, "chassis_vendor"))
		product := p.optional(filepath.Join(p.paths.DMIDir, "product_name"))
		return strings.TrimSpace(vendor + " " + product), nil
	}
	if isDir(p.paths.DeviceTree) {
		return p.optional(filepath.Join(p.paths.DeviceTree, "model")), nil
	}
	return "", nil
}

// memory counts hotpluggable memory blocks, falling back to MemTotal.
func (p *Prober) memory() (string, error) {
	var total uint64

	if isDir(p.paths.MemoryDir) {
		blocks, err := filepath.Glob(filepath.Join(p.paths.MemoryDir, "memory*", "online"))
		if err != nil {
			return "", err
		}
		raw, err := p.parser.GetString(filepath.Join(p.paths.MemoryDir, "block_size_bytes"))
		if err != nil {
			return "", err
		}
		size, err := strconv.ParseUint(strings.TrimPrefix(raw, "0x"), 16, 64)
		if err != nil {
			return "", fmt.Errorf("invalid memory block size %q: %w", raw, err)
		}
		total = uint64(len(blocks)) * size
	} else {
		pfs, err := procfs.NewFS(p.paths.ProcFS)
		if err != nil {
			return "", err
		}
		mi, err := pfs.Meminfo()
		if err != nil {
			return "", err
		}
		if mi.MemTotal == nil {
			return "", errors.New("MemTotal missing from meminfo")
		}
		total = *mi.MemTotal * 1024
	}

	return formatMemory(total), nil
}

func formatMemory(bytes uint64) string {
	if bytes > gib {
		return fmt.Sprintf("%.1f GB", float64(bytes)/gib)
	}
	return fmt.Sprintf("%.0f MB", float64(bytes)/(1024*1024))
}

func (p *Prober) disk() (string, error) {
	total, err := p.statfs(p.paths.DiskRoot)
	if err != nil {
		return "", err
	}
	return formatDisk(total), nil
}

func formatDisk(bytes uint64) string {
	gb := float64(bytes) / gib
	s := strconv.FormatFloat(math.Round(gb*100)/100, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + " GB"
}

func (p *Prober) gpu(ctx context.Context) string {
	for _, path := range p.paths.Renderers {
		if !isFile(path) {
			continue
		}
		out, err := p.run(ctx, path)
		if err != nil {
			slog.Warn("renderer probe failed", "path", path, "error", err)
			continue
		}
		return strings.TrimSpace(string(out))
	}
	return ""
}

func runRenderer(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.RendererProbeTimeout)
	defer cancel()
	return exec.CommandContext(ctx, path).Output()
}

func (p *Prober) distro() (string, error) {
	parser := file.NewParser(
		file.WithKVDelimiter("="),
		file.WithVTrimChars(`"'`),
		file.WithSkipComments(true),
	)
	for _, path := range p.paths.OSRelease {
		v, ok, err := parser.GetValue(path, "PRETTY_NAME")
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", err
		}
		if ok {
			return v, nil
		}
	}
	return "", nil
}

func normalizeArch(machine string) string {
	switch machine {
	case "aarch64":
		return "ARM64"
	default:
		return machine
	}
}

// optional returns the trimmed content of path, or "" when it is unreadable.
func (p *Prober) optional(path string) string {
	v, err := p.parser.GetString(path)
	if err != nil {
		return ""
	}
	return v
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
