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

package pvisca

import (
	"fmt"
	"strings"

	"github.com/packetd/ptzd/common/telemetry"
)

// Decode 解码 VISCA 报文
func Decode(frame *telemetry.Frame) *telemetry.Command {
	b0 := frame.At(0)
	cmd := &telemetry.Command{Proto: telemetry.ProtoVISCA}

	if b0&0xF0 != 0x80 {
		cmd.Camera = int(b0>>4) & 0x07
		cmd.Extended = decodeReply(frame)
		return cmd
	}

	cmd.Camera = int(b0 & 0x07)
	if b0 == broadcast {
		cmd.Target = "Broadcast"
	}

	switch frame.At(1) {
	case typeCommand:
		decodeCommand(frame, cmd)
	case typeInquiry:
		key := int(frame.At(2))<<8 | int(frame.At(3))
		name, ok := inquiries[key]
		if !ok {
			name = "INQUIRY"
		}
		cmd.Extended = &telemetry.Extended{Name: name, Code: key}
	default:
		cmd.Extended = telemetry.UnknownCommand(int(frame.At(1)))
	}
	return cmd
}

func decodeReply(frame *telemetry.Frame) *telemetry.Extended {
	b1 := frame.At(1)
	switch b1 & 0xF0 {
	case replyAck:
		return &telemetry.Extended{Name: "ACK", Code: int(b1)}
	case replyCompletion:
		ext := &telemetry.Extended{Name: "COMPLETION", Code: int(b1)}
		if frame.Len() > 3 {
			ext.Detail = hexPayload(frame.Bytes[2 : frame.Len()-1])
		}
		return ext
	case replyError:
		code := frame.At(2)
		detail, ok := replyErrors[code]
		if !ok {
			detail = fmt.Sprintf("code %02x", code)
		}
		return &telemetry.Extended{Name: "ERROR", Code: int(b1), Detail: detail}
	}
	return telemetry.UnknownCommand(int(b1))
}

func decodeCommand(frame *telemetry.Frame, cmd *telemetry.Command) {
	category, code := frame.At(2), frame.At(3)
	p := frame.At(4)

	switch {
	case category == categoryPanTilter && code == 0x01:
		cmd.Motion = &telemetry.Motion{
			Pan:  telemetry.NewSpeedAxis(driveDirection(frame.At(6), telemetry.DirLeft, telemetry.DirRight), int(frame.At(4))),
			Tilt: telemetry.NewSpeedAxis(driveDirection(frame.At(7), telemetry.DirUp, telemetry.DirDown), int(frame.At(5))),
		}

	case category == categoryPanTilter && code == 0x02:
		cmd.Extended = &telemetry.Extended{
			Name:   "ABSOLUTE POSITION",
			Code:   int(code),
			Detail: fmt.Sprintf("pan %d tilt %d", int16(nibbles(frame, 6)), int16(nibbles(frame, 10))),
		}

	case category == categoryPanTilter && code == 0x04:
		cmd.Extended = &telemetry.Extended{Name: "HOME", Code: int(code)}

	case category == categoryPanTilter && code == 0x05:
		cmd.Extended = &telemetry.Extended{Name: "PAN TILT RESET", Code: int(code)}

	case category == categoryCamera && code == 0x07:
		cmd.Motion = &telemetry.Motion{Zoom: variableAxis(p, telemetry.DirIn, telemetry.DirOut)}

	case category == categoryCamera && code == 0x08:
		cmd.Motion = &telemetry.Motion{Focus: variableAxis(p, telemetry.DirFar, telemetry.DirNear)}

	case category == categoryCamera && code == 0x0B:
		switch p {
		case 0x00:
			cmd.Extended = &telemetry.Extended{Name: "IRIS RESET", Code: int(code)}
		case 0x02:
			cmd.Motion = &telemetry.Motion{Iris: telemetry.NewAxis(telemetry.DirOpen)}
		case 0x03:
			cmd.Motion = &telemetry.Motion{Iris: telemetry.NewAxis(telemetry.DirClose)}
		default:
			cmd.Extended = telemetry.UnknownCommand(int(code))
		}

	case category == categoryCamera && code == 0x00:
		switch p {
		case 0x02:
			cmd.Extended = &telemetry.Extended{Name: "POWER ON", Code: int(code)}
		case 0x03:
			cmd.Extended = &telemetry.Extended{Name: "POWER OFF", Code: int(code)}
		default:
			cmd.Extended = telemetry.UnknownCommand(int(code))
		}

	case category == categoryCamera && code == 0x3F:
		name, ok := memoryActions[p]
		if !ok {
			cmd.Extended = telemetry.UnknownCommand(int(code))
			break
		}
		cmd.Extended = &telemetry.Extended{
			Name:       name,
			Code:       int(code),
			Operand:    int(frame.At(5)),
			HasOperand: true,
		}

	case category == categoryCamera && (code == 0x47 || code == 0x48):
		name := "DIRECT ZOOM"
		if code == 0x48 {
			name = "DIRECT FOCUS"
		}
		cmd.Extended = &telemetry.Extended{
			Name:       name,
			Code:       int(code),
			Operand:    int(nibbles(frame, 4)),
			HasOperand: true,
		}

	case category == categoryCamera && code == 0x35:
		mode, ok := whiteBalanceModes[p]
		if !ok {
			mode = fmt.Sprintf("mode %02x", p)
		}
		cmd.Extended = &telemetry.Extended{Name: "WHITE BALANCE", Code: int(code), Detail: mode}

	case category == categoryCamera && code == 0x18 && p == 0x01:
		cmd.Extended = &telemetry.Extended{Name: "ONE PUSH AF", Code: int(code)}

	default:
		cmd.Extended = telemetry.UnknownCommand(int(code))
	}
}

// driveDirection 01 为第一个方向 02 为第二个方向 03 为停止 其余取值视为冲突
func driveDirection(v byte, first, second telemetry.Direction) telemetry.Direction {
	switch v {
	case 0x01:
		return first
	case 0x02:
		return second
	case 0x03:
		return telemetry.DirStop
	}
	return telemetry.DirConflict
}

// variableAxis 解析变倍/聚焦参数
//
// 00 停止 02/03 标准速度 2p/3p 为可变速度 p
func variableAxis(p byte, dir2, dir3 telemetry.Direction) *telemetry.Axis {
	switch {
	case p == 0x00:
		return telemetry.NewAxis(telemetry.DirStop)
	case p == 0x02:
		return telemetry.NewAxis(dir2)
	case p == 0x03:
		return telemetry.NewAxis(dir3)
	case p&0xF0 == 0x20:
		return telemetry.NewSpeedAxis(dir2, int(p&0x0F))
	case p&0xF0 == 0x30:
		return telemetry.NewSpeedAxis(dir3, int(p&0x0F))
	}
	return telemetry.NewAxis(telemetry.DirConflict)
}

// nibbles 将从 offset 开始的 4 个 0x0N 字节拼接为 16 位整数
func nibbles(frame *telemetry.Frame, offset int) uint16 {
	var v uint16
	for i := 0; i < 4; i++ {
		v = v<<4 | uint16(frame.At(offset+i)&0x0F)
	}
	return v
}

func hexPayload(b []byte) string {
	tokens := make([]string, 0, len(b))
	for _, c := range b {
		tokens = append(tokens, fmt.Sprintf("%02x", c))
	}
	return strings.Join(tokens, " ")
}
