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

// Package definition parses declarative setting definitions.
//
// A definition document is a YAML list of pages:
//
//	- name: Appearance
//	  weight: 10
//	  sections:
//	    - name: Style
//	      settings:
//	        - name: Dark theme
//	          type: boolean
//	          key: org.gnome.desktop.interface.gtk-application-prefer-dark-theme
//
// Settings default to the gsettings backend and a weight of 50. Definitions
// are never mutated once parsed; backends receive a Clone.
package definition
