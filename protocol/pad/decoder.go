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

package pad

import (
	"strconv"
	"strings"

	"github.com/packetd/ptzd/common/telemetry"
)

// Decode 解码 American Dynamics 帧
//
// 地址 0x40 为广播地址
func Decode(frame *telemetry.Frame) *telemetry.Command {
	addr := frame.At(0)
	cmd := &telemetry.Command{
		Proto:  telemetry.ProtoAD,
		Camera: int(addr),
	}
	if addr == broadcast {
		cmd.Target = "Broadcast"
	}

	code := frame.At(1)
	if ac, ok := motionCommands[code]; ok {
		cmd.Motion = newMotion(ac, telemetry.NewAxis(ac.dir))
		return cmd
	}
	if name, ok := namedCommands[code]; ok {
		cmd.Extended = &telemetry.Extended{Name: name, Code: int(code)}
		return cmd
	}

	switch {
	case code == cmdVariableSpeed:
		// byte2 为子命令 byte3 为速度
		ac, ok := motionCommands[frame.At(2)]
		if !ok {
			cmd.Extended = telemetry.UnknownCommand(int(frame.At(2)))
			break
		}
		cmd.Motion = newMotion(ac, telemetry.NewSpeedAxis(ac.dir, int(frame.At(3))))

	case code&0xF0 == 0xE0:
		cmd.Extended = &telemetry.Extended{
			Name:   "SET OUTPUT PINS",
			Code:   int(code),
			Detail: outputPins(code & 0x0F),
		}

	case code == cmdExtended:
		sub := frame.At(2)
		name, ok := extendedNames[sub]
		if !ok {
			cmd.Extended = telemetry.UnknownCommand(int(sub))
			break
		}
		cmd.Extended = &telemetry.Extended{Name: name, Code: int(sub)}

	default:
		cmd.Extended = telemetry.UnknownCommand(int(code))
	}
	return cmd
}

func newMotion(ac axisCommand, axis *telemetry.Axis) *telemetry.Motion {
	switch ac.kind {
	case axisPan:
		return &telemetry.Motion{Pan: axis}
	case axisTilt:
		return &telemetry.Motion{Tilt: axis}
	case axisZoom:
		return &telemetry.Motion{Zoom: axis}
	case axisFocus:
		return &telemetry.Motion{Focus: axis}
	}
	return &telemetry.Motion{Iris: axis}
}

// outputPins 渲染输出引脚状态 bit0 对应引脚 1
func outputPins(mask byte) string {
	var on, off []string
	for i := 0; i < 4; i++ {
		pin := strconv.Itoa(i + 1)
		if mask&(1<<i) != 0 {
			on = append(on, pin)
		} else {
			off = append(off, pin)
		}
	}

	var sb strings.Builder
	if len(on) > 0 {
		sb.WriteString("ON ")
		sb.WriteString(strings.Join(on, ","))
	}
	if len(off) > 0 {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString("OFF ")
		sb.WriteString(strings.Join(off, ","))
	}
	return sb.String()
}
