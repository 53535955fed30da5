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

package settings

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	settingReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tweaks_setting_reads_total",
			Help: "Total number of setting reads",
		},
		[]string{"backend", "status"}, // success or error
	)

	settingWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tweaks_setting_writes_total",
			Help: "Total number of setting writes, including staged writes",
		},
		[]string{"backend", "status"},
	)

	settingsDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tweaks_settings_dropped_total",
			Help: "Settings excluded from the tree because their backend is unavailable",
		},
		[]string{"backend"},
	)

	settingsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tweaks_settings_loaded",
			Help: "Number of settings in the tree after the last load",
		},
	)

	treeLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tweaks_tree_load_duration_seconds",
			Help:    "Time taken to load one definition directory",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)

	stagedValuesEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tweaks_staged_values_emitted_total",
			Help: "Privileged values written to staged configuration files",
		},
		[]string{"section"},
	)
)

// WriteMetrics writes the default registry in the node exporter textfile
// format.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
