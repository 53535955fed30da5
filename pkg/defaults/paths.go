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

// Definition search directories, in load order. Earlier directories win on
// name collisions.
var DefinitionDirs = []string{
	"/usr/share/tweaks",
	"/etc/tweaks",
	"settings",
	"../settings",
}

// Backend file locations.
const (
	// GTK3SettingsFile is relative to the XDG config home.
	GTK3SettingsFile = "gtk-3.0/settings.ini"

	// GTK3SettingsSection holds every GTK setting key.
	GTK3SettingsSection = "Settings"

	// XDGConfigHome is used when XDG_CONFIG_HOME is unset, relative to home.
	XDGConfigHome = ".config"

	// PamEnvironmentFile is relative to home.
	PamEnvironmentFile = ".pam_environment"

	// OskConfigFile is the on-screen keyboard boot configuration.
	OskConfigFile = "/boot/osk.conf"

	// SystemDataDir contains system-wide themes, icons and sounds.
	SystemDataDir = "/usr/share"

	// UserDataDir contains per-user themes, icons and sounds, relative to home.
	UserDataDir = ".local/share"

	// GTKMinorVersion is the GTK 3 minor version assumed for theme discovery.
	GTKMinorVersion = 24
)

// Privileged helper invocation.
var (
	// PrivilegedLauncher escalates privileges for the helper.
	PrivilegedLauncher = "pkexec"

	// PrivilegedHelper applies a staged config file passed as its only argument.
	PrivilegedHelper = "pk-tweaks-action"
)

// Staged config sections.
const (
	SectionSysfs  = "sysfs"
	SectionOsksdl = "osksdl"
)
