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

// Package ppanasonic 实现 Panasonic 协议
//
// 帧为 STX + 可打印 ASCII 文本 + ETX 文本由冒号分隔的字段组成
package ppanasonic

import (
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/protocol"
)

func init() {
	protocol.Register(telemetry.ProtoPanasonic, NewDetector, Decode)
}

const (
	bufferSize = 128
	minFrame   = 13

	stx = 0x02
	etx = 0x03
)

const (
	headerCameraControl = "GC"
	tokenSize           = 7
	groupSize           = 4
)

// 帧内不携带相机地址 命令作用于当前选中的相机
const target = "Selected Camera"

func allowed(c byte) bool {
	return c >= 0x20 && c <= 0x7E
}
