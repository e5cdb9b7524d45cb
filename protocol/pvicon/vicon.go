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

// Package pvicon 实现 Vicon 协议
//
// 帧固定 10 字节 首字节高 4 位为 0x8 次字节 bit6 恒为 1 协议不携带校验和
package pvicon

import (
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/protocol"
)

func init() {
	protocol.Register(telemetry.ProtoVicon, NewDetector, Decode)
}

const frameSize = 10

const (
	flagPTZ      = 0x10
	flagExtended = 0x20
)

// 水平/垂直方向 位于 byte2
const (
	dirLeft  = 0x40
	dirRight = 0x20
	dirUp    = 0x10
	dirDown  = 0x08
)

// 镜头控制 位于 byte3
const (
	lensZoomIn    = 0x40
	lensZoomOut   = 0x20
	lensFocusFar  = 0x10
	lensFocusNear = 0x08
	lensIrisOpen  = 0x04
	lensIrisClose = 0x02
)
