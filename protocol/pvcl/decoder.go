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

package pvcl

import (
	"github.com/packetd/ptzd/common/telemetry"
)

// Decode 解码 VCL 帧
//
// 2 字节帧为 [camera|0x80][command]
// 3 字节帧为 [camera|0x80][operand][command]
func Decode(frame *telemetry.Frame) *telemetry.Command {
	cmd := &telemetry.Command{
		Proto:  telemetry.ProtoVCL,
		Camera: int(frame.At(0) & 0x7F),
	}

	switch frame.Len() {
	case 2:
		ac, ok := simpleCommands[frame.At(1)]
		if !ok {
			break
		}
		cmd.Motion = decodeAxis(ac)
		return cmd

	case 3:
		code := frame.At(2)
		name, ok := operandCommands[code]
		if !ok {
			break
		}
		cmd.Extended = &telemetry.Extended{
			Name:       name,
			Code:       int(code),
			Operand:    int(frame.At(1)),
			HasOperand: true,
		}
		return cmd
	}

	cmd.Extended = telemetry.UnknownCommand(int(frame.At(frame.Len() - 1)))
	return cmd
}

func decodeAxis(ac axisCommand) *telemetry.Motion {
	axis := telemetry.NewAxis(ac.dir)
	switch ac.axis {
	case "pan":
		return &telemetry.Motion{Pan: axis}
	case "tilt":
		return &telemetry.Motion{Tilt: axis}
	case "zoom":
		return &telemetry.Motion{Zoom: axis}
	case "focus":
		return &telemetry.Motion{Focus: axis}
	case "iris":
		return &telemetry.Motion{Iris: axis}
	}

	return &telemetry.Motion{
		Pan:   telemetry.NewAxis(telemetry.DirStop),
		Tilt:  telemetry.NewAxis(telemetry.DirStop),
		Zoom:  telemetry.NewAxis(telemetry.DirStop),
		Iris:  telemetry.NewAxis(telemetry.DirStop),
		Focus: telemetry.NewAxis(telemetry.DirStop),
	}
}
