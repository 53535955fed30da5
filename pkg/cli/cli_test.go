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
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/danctnix/tweaks/pkg/backend"
	apperrors "github.com/danctnix/tweaks/pkg/errors"
	"github.com/danctnix/tweaks/pkg/hwinfo"
	"github.com/danctnix/tweaks/pkg/kvstore"
	"github.com/danctnix/tweaks/pkg/serializer"
)

const schema = "org.gnome.desktop.interface"

type fakeProber map[string]string

func (f fakeProber) Probe(_ context.Context, key string) (string, error) {
	if v, ok := f[key]; ok {
		return v, nil
	}
	return hwinfo.NotAvailable, nil
}

func (f fakeProber) Snapshot(_ context.Context) ([]hwinfo.Entry, error) {
	out := make([]hwinfo.Entry, 0, len(f))
	for _, k := range hwinfo.Keys() {
		if v, ok := f[k]; ok {
			out = append(out, hwinfo.Entry{Key: k, Value: v})
		}
	}
	return out, nil
}

type helperCall struct {
	name string
	args []string
	body string
}

type fixture struct {
	defs   string
	attr   string
	store  *kvstore.Memory
	calls  []helperCall
	stdout bytes.Buffer
}

func setup(t *testing.T) *fixture {
	t.Helper()
	home := t.TempDir()
	f := &fixture{
		defs:  t.TempDir(),
		attr:  filepath.Join(home, "brightness"),
		store: kvstore.NewMemory(),
	}
	f.store.Define(schema, "gtk-enable-animations", true)
	require.NoError(t, os.WriteFile(f.attr, []byte("1000\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(f.defs, "device.yml"), []byte(`
- name: Appearance
  weight: 10
  sections:
    - name: Motion
      settings:
        - name: Animations
          type: boolean
          key: `+schema+`.gtk-enable-animations
- name: Hardware
  weight: 20
  sections:
    - name: Panel
      settings:
        - name: Brightness
          type: number
          backend: sysfs
          key: `+f.attr+`
          stype: int
          multiplier: 1000
    - name: About
      settings:
        - name: Kernel
          type: info
          backend: hardwareinfo
          key: kernel
`), 0o644))

	prober := fakeProber{"kernel": "6.6.0", "cpu": "4x ARM Cortex-A53"}

	oldEnv, oldHelper, oldProber := newEnv, runHelper, newProber
	t.Cleanup(func() {
		newEnv, runHelper, newProber = oldEnv, oldHelper, oldProber
	})
	newEnv = func(daemon bool) (backend.Env, func(), error) {
		return backend.Env{
			HomeDir:     home,
			ConfigHome:  filepath.Join(home, ".config"),
			PamEnvFile:  filepath.Join(home, ".pam_environment"),
			OskConfPath: filepath.Join(home, "osk.conf"),
			Daemon:      daemon,
			Store:       f.store,
			Prober:      prober,
		}, func() {}, nil
	}
	newProber = func() snapshotter { return prober }
	runHelper = func(_ context.Context, name string, args ...string) ([]byte, error) {
		c := helperCall{name: name, args: args}
		if b, err := os.ReadFile(args[len(args)-1]); err == nil {
			c.body = string(b)
		}
		f.calls = append(f.calls, c)
		return nil, nil
	}
	return f
}

func (f *fixture) run(args ...string) error {
	root := newRootCmd()
	root.Writer = &f.stdout
	full := append([]string{name, "--definitions", f.defs, "--log-level", "error"}, args...)
	return root.Run(context.Background(), full)
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		format  string
		want    serializer.Format
		wantErr bool
	}{
		{"yaml", serializer.FormatYAML, false},
		{"json", serializer.FormatJSON, false},
		{"table", serializer.FormatTable, false},
		{"xml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			cmd := &cli.Command{
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Value: tt.format},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					got, err := parseOutputFormat(c)
					if tt.wantErr {
						assert.Error(t, err)
						return nil
					}
					assert.NoError(t, err)
					assert.Equal(t, tt.want, got)
					return nil
				},
			}
			require.NoError(t, cmd.Run(context.Background(), []string{"test"}))
		})
	}
}

func TestRoot_UnknownLogFormat(t *testing.T) {
	f := setup(t)
	err := f.run("--log-format", "xml", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log format")
}

func TestList_JSON(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.run("list", "--format", "json"))

	var got []settingView
	require.NoError(t, json.Unmarshal(f.stdout.Bytes(), &got))
	require.Len(t, got, 3)

	assert.Equal(t, "Animations", got[0].Name)
	assert.Equal(t, "Appearance", got[0].Page)
	assert.Equal(t, true, got[0].Value)
	assert.Equal(t, "Brightness", got[1].Name)
	assert.EqualValues(t, 1, got[1].Value)
	assert.Equal(t, "Kernel", got[2].Name)
	assert.Equal(t, "6.6.0", got[2].Value)
	assert.True(t, got[2].ReadOnly)
}

func TestList_Daemon(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.run("--daemon", "list", "--format", "json"))

	var got []settingView
	require.NoError(t, json.Unmarshal(f.stdout.Bytes(), &got))
	for _, v := range got {
		assert.NotEqual(t, "Animations", v.Name, "session settings are dropped in daemon mode")
	}
}

func TestList_OutputFile(t *testing.T) {
	f := setup(t)
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, f.run("list", "--format", "yaml", "--output", path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "name: Brightness")
	assert.Empty(t, f.stdout.String())
}

func TestGet(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.run("get", "Kernel"))

	out := f.stdout.String()
	assert.Contains(t, out, "SETTING")
	assert.Contains(t, out, "6.6.0")
	assert.NotContains(t, out, "Brightness")
}

func TestGet_Errors(t *testing.T) {
	f := setup(t)
	err := f.run("get", "Missing")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))
	assert.ErrorContains(t, err, "unknown setting")
	assert.True(t, apperrors.HasCode(f.run("set", "Missing", "1"), apperrors.ErrCodeNotFound))
	assert.Error(t, f.run("get"))
}

func TestSet_Session(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.run("set", "Animations", "false"))

	v, err := f.store.Get(context.Background(), schema, "gtk-enable-animations", kvstore.KindBoolean)
	require.NoError(t, err)
	assert.Equal(t, false, v)
	assert.Empty(t, f.calls)
}

func TestSet_Errors(t *testing.T) {
	f := setup(t)
	assert.Error(t, f.run("set", "Animations", "maybe"))
	assert.Error(t, f.run("set", "Kernel", "7.0"))
	assert.Error(t, f.run("set", "Animations"))
}

func TestSet_PrivilegedDryRun(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.run("set", "--dry-run", "Brightness", "2.5"))

	out := f.stdout.String()
	assert.Contains(t, out, "[sysfs]")
	assert.Contains(t, out, f.attr+" = 2500")
	assert.Empty(t, f.calls)

	b, err := os.ReadFile(f.attr)
	require.NoError(t, err)
	assert.Equal(t, "1000\n", string(b), "device file is not written")
}

func TestSet_PrivilegedFlush(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.run("--helper", "/usr/libexec/apply-tweaks", "set", "Brightness", "2.5"))

	require.Len(t, f.calls, 1)
	assert.Equal(t, "pkexec", f.calls[0].name)
	assert.Equal(t, "/usr/libexec/apply-tweaks", f.calls[0].args[0])
	assert.Contains(t, f.calls[0].body, f.attr+" = 2500")
}

func TestSave(t *testing.T) {
	f := setup(t)
	path := filepath.Join(t.TempDir(), "staged.ini")
	require.NoError(t, f.run("save", "--output", path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[sysfs]")
	assert.Contains(t, string(b), f.attr+" = 1000")
}

func TestApply(t *testing.T) {
	f := setup(t)
	path := filepath.Join(t.TempDir(), "staged.ini")
	require.NoError(t, os.WriteFile(path, []byte("[osksdl]\nanimations = false\n"), 0o600))

	require.NoError(t, f.run("apply", path))
	require.Len(t, f.calls, 1)
	assert.Equal(t, []string{"pk-tweaks-action", path}, f.calls[0].args)
	assert.Contains(t, f.calls[0].body, "animations = false")

	assert.Error(t, f.run("apply", filepath.Join(t.TempDir(), "missing.ini")))
	assert.Error(t, f.run("apply", t.TempDir()))
}

func TestInfo(t *testing.T) {
	f := setup(t)
	require.NoError(t, f.run("info"))

	lines := strings.Split(strings.TrimSpace(f.stdout.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "KEY"))
	assert.Contains(t, lines[1], "4x ARM Cortex-A53")
	assert.Contains(t, lines[2], "6.6.0")
}

func TestMetricsFile(t *testing.T) {
	f := setup(t)
	path := filepath.Join(t.TempDir(), "tweaks.prom")
	require.NoError(t, f.run("--metrics-file", path, "get", "Kernel"))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "tweaks_setting_reads_total")
}
