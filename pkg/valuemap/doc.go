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

// Package valuemap associates display labels with native backend values.
//
// A Map is authored statically in a definition document or built by a
// Catalog scanning theme, icon and sound directories. Lookups from native
// value to label return the first match in declaration order; values without
// a mapping pass through unchanged in both directions.
package valuemap
