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

// Package pfv 实现 Forward Vision 协议
//
// 帧以 LF 开头 中间为 ASCII 十六进制字段 最后一个字节为最高位置 1 的异或校验和
package pfv

import (
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/protocol"
)

func init() {
	protocol.Register(telemetry.ProtoFV, NewDetector, Decode)
}

const (
	bufferSize = 255
	lineFeed   = 0x0A
	minFrame   = 8
)

// 字段偏移 相对于 LF
const (
	offsetAddress = 1
	offsetLength  = 3
	offsetCommand = 6
	offsetParams  = 7
)

const (
	cmdGo          = 'G'
	cmdGotoPreset  = 'L'
	cmdStorePreset = 'S'
)
