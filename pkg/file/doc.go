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

// Package file parses small line-oriented system files.
//
// It is used for /proc and /sys attributes, os-release and similar
// key-value text. Files are size-limited and must be valid UTF-8.
//
//	parser := file.NewParser(
//	    file.WithKVDelimiter(":"),
//	)
//	blocks, err := parser.GetBlocks("/proc/cpuinfo")
package file
