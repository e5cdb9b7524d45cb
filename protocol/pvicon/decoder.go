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

package pvicon

import (
	"github.com/packetd/ptzd/common/telemetry"
)

func has(b, mask byte) bool {
	return b&mask != 0
}

// Decode 解码 Vicon 帧
//
// 相机编号由 byte0 与 byte1 的低 4 位拼接而成
// 速度字段为两个 7 位字节 byte6/byte7 为水平速度 byte8/byte9 为垂直速度
func Decode(frame *telemetry.Frame) *telemetry.Command {
	b0, b1 := frame.At(0), frame.At(1)
	cmd := &telemetry.Command{
		Proto:  telemetry.ProtoVicon,
		Camera: int(b0&0x0F)<<4 | int(b1&0x0F),
	}

	switch {
	case has(b1, flagExtended):
		ext := telemetry.UnknownCommand(int(frame.At(2)))
		ext.Operand = int(frame.At(3))
		ext.HasOperand = true
		cmd.Extended = ext

	case has(b1, flagPTZ):
		dir, lens := frame.At(2), frame.At(3)
		panSpeed := int(frame.At(6))<<7 | int(frame.At(7))
		tiltSpeed := int(frame.At(8))<<7 | int(frame.At(9))
		cmd.Motion = &telemetry.Motion{
			Pan:   telemetry.NewSpeedAxis(telemetry.Resolve(has(dir, dirLeft), has(dir, dirRight), telemetry.DirLeft, telemetry.DirRight), panSpeed),
			Tilt:  telemetry.NewSpeedAxis(telemetry.Resolve(has(dir, dirUp), has(dir, dirDown), telemetry.DirUp, telemetry.DirDown), tiltSpeed),
			Zoom:  telemetry.NewAxis(telemetry.Resolve(has(lens, lensZoomIn), has(lens, lensZoomOut), telemetry.DirIn, telemetry.DirOut)),
			Iris:  telemetry.NewAxis(telemetry.Resolve(has(lens, lensIrisOpen), has(lens, lensIrisClose), telemetry.DirOpen, telemetry.DirClose)),
			Focus: telemetry.NewAxis(telemetry.Resolve(has(lens, lensFocusNear), has(lens, lensFocusFar), telemetry.DirNear, telemetry.DirFar)),
		}

	default:
		cmd.Extended = telemetry.UnknownCommand(int(b1))
	}
	return cmd
}
