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

const (
	// App 应用程序名称
	App = "ptzd"

	// Version 应用程序版本
	Version = "v0.1.0"

	// ReadBlockSize 单次从数据源读取的最大字节数
	//
	// 串口速率通常只有 2400~9600 baud 每次读取很难超过几十字节
	// 但 TCP / 回放源可能一次交付较大的数据块 因此留出余量
	ReadBlockSize = 4096
)
