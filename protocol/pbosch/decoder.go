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

package pbosch

import (
	"github.com/packetd/ptzd/common/telemetry"
)

func bit(b byte, n uint) bool {
	return (b>>n)&0x01 == 1
}

// Decode 解码 Bosch 帧
//
//	+--------+-----------+-----------+--------+---------+-----+----------+
//	| Length | Address H | Address L | Opcode | Data... | ... | Checksum |
//	+--------+-----------+-----------+--------+---------+-----+----------+
//
// 地址由两个 7 位字节拼接而成
func Decode(frame *telemetry.Frame) *telemetry.Command {
	cmd := &telemetry.Command{
		Proto:  telemetry.ProtoBosch,
		Camera: int(frame.At(1))<<7 | int(frame.At(2)),
	}

	op := frame.At(3)
	switch {
	case op == opVariableSpeed && frame.Len() >= 8:
		speeds := frame.At(5)
		cmd.Motion = decodeDirection(frame.At(6), int(frame.At(4)), int(speeds>>3)&0x0F, int(speeds&0x07))

	case op == opFixedSpeed && frame.Len() >= 6:
		cmd.Motion = decodeDirection(frame.At(4), -1, -1, -1)

	case op == opFixedFunction && frame.Len() >= 7:
		fn := frame.At(4)
		name, ok := fixedFunctions[fn&0x0F]
		if !ok {
			cmd.Extended = telemetry.UnknownCommand(int(fn))
			break
		}
		cmd.Extended = &telemetry.Extended{
			Name:       name,
			Code:       int(fn),
			Operand:    int(fn&0x70)<<3 | int(frame.At(5)),
			HasOperand: true,
		}

	default:
		cmd.Extended = telemetry.UnknownCommand(int(op))
	}
	return cmd
}

// decodeDirection 解析方向字节 速度为负数时代表协议未携带速度
//
// bit0 右 bit1 左 bit2 拉近 bit3 拉远 bit4 上 bit5 下
func decodeDirection(dir byte, panSpeed, tiltSpeed, zoomSpeed int) *telemetry.Motion {
	axis := func(d telemetry.Direction, speed int) *telemetry.Axis {
		if speed < 0 {
			return telemetry.NewAxis(d)
		}
		return telemetry.NewSpeedAxis(d, speed)
	}

	return &telemetry.Motion{
		Pan:  axis(telemetry.Resolve(bit(dir, 1), bit(dir, 0), telemetry.DirLeft, telemetry.DirRight), panSpeed),
		Tilt: axis(telemetry.Resolve(bit(dir, 4), bit(dir, 5), telemetry.DirUp, telemetry.DirDown), tiltSpeed),
		Zoom: axis(telemetry.Resolve(bit(dir, 2), bit(dir, 3), telemetry.DirIn, telemetry.DirOut), zoomSpeed),
	}
}
