/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package version carries the build version stamped in via -ldflags.
package version

import "runtime/debug"

// Version is the semantic version of the build. Overridden at release time
// with -ldflags "-X comicsviewer/internal/version.Version=...".
var Version = "0.1.0-dev"

// Commit is the VCS revision, stamped at build time or read from build info.
var Commit = ""

// String returns a human-readable version, including the commit when known.
func String() string {
	c := Commit
	if c == "" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" && len(s.Value) >= 8 {
					c = s.Value[:8]
					break
				}
			}
		}
	}
	if c != "" {
		return Version + "+" + c
	}
	return Version
}
