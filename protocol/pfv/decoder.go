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

package pfv

import (
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/internal/asciihex"
)

func bit(b int, n uint) bool {
	return (b>>n)&0x01 == 1
}

// Decode 解码 Forward Vision 帧
//
//	+----+---------+--------+----------+---------+-----------+----------+
//	| LF | Address | Length | Sequence | Command | Params... | Checksum |
//	+----+---------+--------+----------+---------+-----------+----------+
//	| 1  | 2       | 2      | 1        | 1       | N         | 1        |
//	+----+---------+--------+----------+---------+-----------+----------+
//
// Address 以及 Length 均为 ASCII 十六进制 Length 为包含 LF 和校验和的完整帧长度
func Decode(frame *telemetry.Frame) *telemetry.Command {
	b := frame.Bytes
	cmd := &telemetry.Command{Proto: telemetry.ProtoFV}
	if len(b) < minFrame {
		cmd.Extended = invalid(frame.At(offsetCommand), "short frame")
		return cmd
	}

	addr, ok := asciihex.Pair(frame.At(offsetAddress), frame.At(offsetAddress+1))
	if !ok {
		cmd.Extended = invalid(frame.At(offsetCommand), "bad address")
		return cmd
	}
	cmd.Camera = addr

	length, ok := asciihex.Pair(frame.At(offsetLength), frame.At(offsetLength+1))
	if !ok || length != len(b) {
		cmd.Extended = invalid(frame.At(offsetCommand), "length mismatch")
		return cmd
	}

	params := b[offsetParams : len(b)-1]
	switch frame.At(offsetCommand) {
	case cmdGo:
		cmd.Motion = decodeGo(params)
		if cmd.Motion == nil {
			cmd.Extended = invalid(cmdGo, "bad params")
		}
	case cmdGotoPreset:
		cmd.Extended = decodePreset("Goto Preset", cmdGotoPreset, params)
	case cmdStorePreset:
		cmd.Extended = decodePreset("Store Preset", cmdStorePreset, params)
	default:
		cmd.Extended = telemetry.UnknownCommand(int(frame.At(offsetCommand)))
	}
	return cmd
}

func invalid(code byte, detail string) *telemetry.Extended {
	ext := telemetry.UnknownCommand(int(code))
	ext.Detail = detail
	return ext
}

// decodeGo 解析运动命令 参数为 5 组十六进制字节 p0..p4
//
// p0 bit1 水平运动 bit0 向右
// p0 bit3 垂直运动 bit2 向下
// p0 bit5 变倍 bit4 拉远
// p0 bit7 聚焦 bit6 远焦
// p3 为水平速度 p4 为垂直速度
func decodeGo(params []byte) *telemetry.Motion {
	if len(params) < 10 {
		return nil
	}

	var p [5]int
	for i := range p {
		v, ok := asciihex.Pair(params[i*2], params[i*2+1])
		if !ok {
			return nil
		}
		p[i] = v
	}

	return &telemetry.Motion{
		Pan:   telemetry.NewSpeedAxis(active(p[0], 1, 0, telemetry.DirLeft, telemetry.DirRight), p[3]),
		Tilt:  telemetry.NewSpeedAxis(active(p[0], 3, 2, telemetry.DirUp, telemetry.DirDown), p[4]),
		Zoom:  telemetry.NewAxis(active(p[0], 5, 4, telemetry.DirIn, telemetry.DirOut)),
		Focus: telemetry.NewAxis(active(p[0], 7, 6, telemetry.DirNear, telemetry.DirFar)),
	}
}

// active 由 "激活位" 以及 "方向位" 得出轴状态
func active(flags int, activeBit, dirBit uint, unset, set telemetry.Direction) telemetry.Direction {
	if !bit(flags, activeBit) {
		return telemetry.DirStop
	}
	if bit(flags, dirBit) {
		return set
	}
	return unset
}

func decodePreset(name string, code byte, params []byte) *telemetry.Extended {
	n, ok := asciihex.Parse(params)
	if !ok {
		return invalid(code, "bad preset")
	}
	return &telemetry.Extended{
		Name:       name,
		Code:       int(code),
		Operand:    n,
		HasOperand: true,
	}
}
