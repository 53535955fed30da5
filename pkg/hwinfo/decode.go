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
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/danctnix/tweaks/pkg/file"
)

// cpus summarises /proc/cpuinfo as "<count>x <model>" lines in order of
// first appearance. ARM cores are named from their implementer and part IDs.
func (p *Prober) cpus() (string, error) {
	parser := file.NewParser(file.WithKVDelimiter(":"), file.WithSkipComments(false))
	blocks, err := parser.GetBlocks(p.paths.CPUInfo)
	if err != nil {
		return "", err
	}

	var order []string
	counts := make(map[string]int)
	add := func(model string) {
		if counts[model] == 0 {
			order = append(order, model)
		}
		counts[model]++
	}

	for _, b := range blocks {
		if name, ok := b["model name"]; ok {
			add(name)
		}
		if impl, ok := b["CPU implementer"]; ok {
			add(armCore(impl, b["CPU part"]))
		}
	}

	lines := make([]string, 0, len(order))
	for _, model := range order {
		lines = append(lines, fmt.Sprintf("%dx %s", counts[model], model))
	}
	return strings.Join(lines, "\n"), nil
}

func armCore(implementer, part string) string {
	impl, err := parseHex(implementer)
	if err != nil {
		return "unknown cpu"
	}
	vendor, ok := armImplementers[impl]
	if !ok {
		return "unknown cpu"
	}
	partID, err := parseHex(part)
	if err != nil {
		return vendor + " unknown core"
	}
	if name, ok := armParts[impl][partID]; ok {
		return vendor + " " + name
	}
	return vendor + " unknown core"
}

func parseHex(s string) (uint64, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	return strconv.ParseUint(s, 16, 64)
}

// chipset prefers the socinfo driver and falls back to the last entry of
// the device tree compatible list.
func (p *Prober) chipset() (string, error) {
	if isDir(p.paths.SoCDir) {
		machine := p.optional(filepath.Join(p.paths.SoCDir, "machine"))
		family := p.optional(filepath.Join(p.paths.SoCDir, "family"))
		if machine != "" {
			return strings.TrimSpace(family + " " + machine), nil
		}
	}

	if isDir(p.paths.DeviceTree) {
		raw, err := p.parser.GetString(filepath.Join(p.paths.DeviceTree, "compatible"))
		if err != nil {
			return "", err
		}
		entries := strings.Split(raw, "\x00")
		return socName(entries[len(entries)-1]), nil
	}
	return "", nil
}

// socName turns a "vendor,part" compatible string into a marketing name.
func socName(compatible string) string {
	vendor, part, ok := strings.Cut(compatible, ",")
	if !ok {
		return compatible
	}

	name, known := socVendors[vendor]
	if !known {
		name = cases.Title(language.Und).String(vendor)
	}
	if model, ok := socParts[vendor][part]; ok {
		return name + " " + model
	}
	return name + " " + strings.ToUpper(part)
}

var armImplementers = map[uint64]string{
	0x41: "ARM",
	0x42: "Broadcom",
	0x48: "HiSilicon",
	0x4e: "NVIDIA",
	0x51: "Qualcomm",
	0x53: "Samsung",
	0x61: "Apple",
}

var armParts = map[uint64]map[uint64]string{
	0x41: {
		0xc07: "Cortex-A7",
		0xc09: "Cortex-A9",
		0xc0f: "Cortex-A15",
		0xd03: "Cortex-A53",
		0xd04: "Cortex-A35",
		0xd05: "Cortex-A55",
		0xd07: "Cortex-A57",
		0xd08: "Cortex-A72",
		0xd09: "Cortex-A73",
		0xd0a: "Cortex-A75",
		0xd0b: "Cortex-A76",
		0xd0d: "Cortex-A77",
		0xd41: "Cortex-A78",
		0xd44: "Cortex-X1",
		0xd46: "Cortex-A510",
		0xd47: "Cortex-A710",
		0xd48: "Cortex-X2",
		0xd4d: "Cortex-A715",
		0xd4e: "Cortex-X3",
	},
	0x42: {
		0x516: "ThunderX2",
	},
	0x48: {
		0xd01: "TaiShan v110",
	},
	0x4e: {
		0x003: "Denver 2",
		0x004: "Carmel",
	},
	0x51: {
		0x201: "Kryo",
		0x205: "Kryo",
		0x211: "Kryo",
		0x800: "Kryo 2XX Gold",
		0x801: "Kryo 2XX Silver",
		0x802: "Kryo 3XX Gold",
		0x803: "Kryo 3XX Silver",
		0x804: "Kryo 4XX Gold",
		0x805: "Kryo 4XX Silver",
	},
	0x53: {
		0x001: "Exynos M1",
		0x002: "Exynos M3",
	},
	0x61: {
		0x022: "Icestorm",
		0x023: "Firestorm",
	},
}

var socVendors = map[string]string{
	"allwinner": "Allwinner",
	"amlogic":   "Amlogic",
	"brcm":      "Broadcom",
	"fsl":       "NXP",
	"mediatek":  "MediaTek",
	"nvidia":    "NVIDIA",
	"nxp":       "NXP",
	"qcom":      "Qualcomm",
	"rockchip":  "Rockchip",
	"samsung":   "Samsung",
	"ti":        "Texas Instruments",
}

var socParts = map[string]map[string]string{
	"allwinner": {
		"sun50i-a64":  "A64",
		"sun50i-h5":   "H5",
		"sun50i-h6":   "H6",
		"sun50i-h616": "H616",
	},
	"brcm": {
		"bcm2711": "BCM2711",
		"bcm2712": "BCM2712",
		"bcm2837": "BCM2837",
	},
	"fsl": {
		"imx8mq": "i.MX 8M Quad",
		"imx8mm": "i.MX 8M Mini",
	},
	"qcom": {
		"msm8916": "Snapdragon 410",
		"msm8953": "Snapdragon 625",
		"sdm660":  "Snapdragon 660",
		"sdm845":  "Snapdragon 845",
		"sc7180":  "Snapdragon 7c",
		"sm7225":  "Snapdragon 750G",
		"sm8250":  "Snapdragon 865",
	},
	"rockchip": {
		"rk3328": "RK3328",
		"rk3399": "RK3399",
		"rk3566": "RK3566",
		"rk3588": "RK3588",
	},
}
