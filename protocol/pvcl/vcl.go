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

// Package pvcl 实现 VCL 协议
//
// 最高位为 1 的字节为相机编号 其后跟随单字符命令 或者 操作数 + 命令字符
package pvcl

import (
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/protocol"
)

func init() {
	protocol.Register(telemetry.ProtoVCL, NewDetector, Decode)
}

const (
	bufferSize = 128
	maxOperand = 0x3F
)

type axisCommand struct {
	axis string
	dir  telemetry.Direction
}

// simpleCommands 单字符命令 位于 offset1
var simpleCommands = map[byte]axisCommand{
	'L': {axis: "pan", dir: telemetry.DirLeft},
	'R': {axis: "pan", dir: telemetry.DirRight},
	'U': {axis: "tilt", dir: telemetry.DirUp},
	'D': {axis: "tilt", dir: telemetry.DirDown},
	'T': {axis: "zoom", dir: telemetry.DirIn},
	'W': {axis: "zoom", dir: telemetry.DirOut},
	'N': {axis: "focus", dir: telemetry.DirNear},
	'F': {axis: "focus", dir: telemetry.DirFar},
	'O': {axis: "iris", dir: telemetry.DirOpen},
	'C': {axis: "iris", dir: telemetry.DirClose},
	'S': {axis: "all", dir: telemetry.DirStop},
}

// operandCommands 带操作数的命令 命令字符位于 offset2
var operandCommands = map[byte]string{
	'G': "GOTO PRESET",
	'P': "STORE PRESET",
	'X': "AUX ON",
	'Y': "AUX OFF",
}
