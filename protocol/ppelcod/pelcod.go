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

package ppelcod

import (
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/protocol"
)

func init() {
	protocol.Register(telemetry.ProtoPelcoD, NewDetector, Decode)
}

const (
	syncByte  = 0xFF
	frameSize = 7
)

type operandKind uint8

const (
	operandNone operandKind = iota
	operandData2
	operandWord
)

type extendedCommand struct {
	name    string
	operand operandKind

	// strict 要求 Command1 以及 Data1 均为 0
	strict bool
}

// extendedCommands Pelco 扩展命令表 Command2 最低位为 1 时生效
//
// Pelco P 与 Pelco D 共用同一张表
var extendedCommands = map[byte]extendedCommand{
	0x03: {name: "SET PRESET", operand: operandData2, strict: true},
	0x05: {name: "CLEAR PRESET", operand: operandData2, strict: true},
	0x07: {name: "GOTO PRESET", operand: operandData2, strict: true},
	0x09: {name: "SET AUX", operand: operandData2, strict: true},
	0x0B: {name: "CLEAR AUX", operand: operandData2, strict: true},
	0x0F: {name: "REMOTE RESET"},
	0x11: {name: "SET ZONE START", operand: operandData2},
	0x13: {name: "SET ZONE END", operand: operandData2},
	0x17: {name: "CLEAR SCREEN"},
	0x19: {name: "ALARM ACK", operand: operandData2},
	0x1B: {name: "ZONE SCAN ON"},
	0x1D: {name: "ZONE SCAN OFF"},
	0x1F: {name: "START RECORDING TOUR", operand: operandData2, strict: true},
	0x21: {name: "STOP RECORDING TOUR", strict: true},
	0x23: {name: "START TOUR", operand: operandData2, strict: true},
	0x25: {name: "SET ZOOM SPEED", operand: operandData2},
	0x27: {name: "SET FOCUS SPEED", operand: operandData2},
	0x29: {name: "RESET CAMERA"},
	0x2B: {name: "AUTO FOCUS", operand: operandData2},
	0x2D: {name: "AUTO IRIS", operand: operandData2},
	0x2F: {name: "AGC", operand: operandData2},
	0x31: {name: "BACKLIGHT COMPENSATION", operand: operandData2},
	0x33: {name: "AUTO WHITE BALANCE", operand: operandData2},
	0x4B: {name: "SET PAN POSITION", operand: operandWord},
	0x4D: {name: "SET TILT POSITION", operand: operandWord},
	0x4F: {name: "SET ZOOM POSITION", operand: operandWord},
	0x51: {name: "QUERY PAN POSITION"},
	0x53: {name: "QUERY TILT POSITION"},
	0x55: {name: "QUERY ZOOM POSITION"},
}

// DecodeExtended 解码扩展命令
//
// 命令码未收录或者不满足取值约束时返回未知命令 携带原始命令码
func DecodeExtended(cmd1, cmd2, data1, data2 byte) *telemetry.Extended {
	ec, ok := extendedCommands[cmd2]
	if !ok || (ec.strict && (cmd1 != 0 || data1 != 0)) {
		ext := telemetry.UnknownCommand(int(cmd2))
		ext.Name = "Unknown extended command"
		return ext
	}

	ext := &telemetry.Extended{
		Name: ec.name,
		Code: int(cmd2),
	}
	switch ec.operand {
	case operandData2:
		ext.Operand = int(data2)
		ext.HasOperand = true
	case operandWord:
		ext.Operand = int(data1)<<8 | int(data2)
		ext.HasOperand = true
	}
	return ext
}
