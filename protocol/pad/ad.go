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

// Package pad 实现 American Dynamics/Sensormatic 协议
//
// 帧由 地址 + 命令 + 可选参数 + 校验和 组成 帧长度由命令码决定
package pad

import (
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/protocol"
)

func init() {
	protocol.Register(telemetry.ProtoAD, NewDetector, Decode)
}

const (
	bufferSize = 128

	minAddress = 0x01
	maxAddress = 0x63
	broadcast  = 0x40

	minCommand = 0x81
	maxCommand = 0xFA

	defaultLength = 3
)

const (
	cmdVariableSpeed = 0xC0
	cmdGetConfig     = 0xC4
	cmdSetText       = 0xDE
	cmdExtended      = 0xFA
)

// lengthVariable 代表帧长度由载荷内的长度字段决定
//
// 目前未解析该长度字段 按默认长度处理
const lengthVariable = -1

var commandLengths = map[byte]int{
	cmdVariableSpeed: 5,
	cmdGetConfig:     6,
	cmdSetText:       lengthVariable,
}

// extendedLengths 扩展命令长度 由 byte2 决定
var extendedLengths = map[byte]int{
	0x0A: 5,
	0x8A: 11,
	0xAA: 11,
	0xAC: 13,
}

var extendedNames = map[byte]string{
	0x0A: "GET CURRENT POSITION",
	0x8A: "GOTO POSITION",
	0xAA: "RELATIVE MOVE FRAMES",
	0xAC: "RELATIVE MOVE",
}

// frameLength 计算帧长度 调用方需保证 b 至少包含 3 个字节
func frameLength(b []byte) int {
	cmd := b[1]
	if cmd == cmdExtended {
		if l, ok := extendedLengths[b[2]]; ok {
			return l
		}
		return defaultLength
	}

	l, ok := commandLengths[cmd]
	if !ok || l == lengthVariable {
		return defaultLength
	}
	return l
}

type axisKind uint8

const (
	axisPan axisKind = iota
	axisTilt
	axisZoom
	axisFocus
	axisIris
)

type axisCommand struct {
	kind axisKind
	dir  telemetry.Direction
}

var motionCommands = map[byte]axisCommand{
	0x81: {kind: axisPan, dir: telemetry.DirLeft},
	0x82: {kind: axisPan, dir: telemetry.DirRight},
	0x83: {kind: axisPan, dir: telemetry.DirStop},
	0x84: {kind: axisTilt, dir: telemetry.DirUp},
	0x85: {kind: axisTilt, dir: telemetry.DirDown},
	0x86: {kind: axisTilt, dir: telemetry.DirStop},
	0x87: {kind: axisZoom, dir: telemetry.DirIn},
	0x88: {kind: axisZoom, dir: telemetry.DirOut},
	0x89: {kind: axisZoom, dir: telemetry.DirStop},
	0x8A: {kind: axisFocus, dir: telemetry.DirNear},
	0x8B: {kind: axisFocus, dir: telemetry.DirFar},
	0x8C: {kind: axisFocus, dir: telemetry.DirStop},
	0x8D: {kind: axisIris, dir: telemetry.DirOpen},
	0x8E: {kind: axisIris, dir: telemetry.DirClose},
	0x8F: {kind: axisIris, dir: telemetry.DirStop},
}

var namedCommands = map[byte]string{
	0x98:         "SUSPEND TRANSMISSION",
	0x99:         "RESUME TRANSMISSION",
	0xA5:         "GET POSITION",
	cmdGetConfig: "GET CONFIG",
	cmdSetText:   "SET TEXT",
}
