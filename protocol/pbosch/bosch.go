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

// Package pbosch 实现 Bosch/Philips BiPhase 协议
//
// 帧首字节最高位为 1 低 7 位为帧长度 L 帧共 L+1 字节 最后一个字节为校验和
package pbosch

import (
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/protocol"
)

func init() {
	protocol.Register(telemetry.ProtoBosch, NewDetector, Decode)
}

const bufferSize = 128

const (
	opFixedSpeed    = 0x02
	opVariableSpeed = 0x05
	opFixedFunction = 0x07
)

// 固定功能命令 取操作字节低 4 位
var fixedFunctions = map[byte]string{
	0x01: "AUX ON",
	0x02: "AUX OFF",
	0x04: "SET PRESET",
	0x05: "GOTO PRESET",
}
