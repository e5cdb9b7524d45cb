// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import "fmt"

// BuildInfo 代表程序构建信息
type BuildInfo struct {
	Version string
	GitHash string
	Time    string
}

func (b BuildInfo) String() string {
	version := b.Version
	if version == "" {
		version = Version
	}
	return fmt.Sprintf("%s %s (git: %s, built: %s)", App, version, b.GitHash, b.Time)
}
