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

package ppelcop

import (
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/protocol/ppelcod"
)

func bit(b byte, n uint) bool {
	return (b>>n)&0x01 == 1
}

// Decode 解码 Pelco P/BBV422 帧
//
//	+-----+---------+-----------+-----------+--------+--------+-----+----------+
//	| STX | Address | Command 1 | Command 2 | Data 1 | Data 2 | ETX | Checksum |
//	+-----+---------+-----------+-----------+--------+--------+-----+----------+
//
// 地址从 0 开始 即 Camera 1 的地址为 0
// Command1 的位定义与 Pelco D 不同 扩展命令表与 Pelco D 共用
func Decode(frame *telemetry.Frame) *telemetry.Command {
	cmd1, cmd2 := frame.At(2), frame.At(3)
	data1, data2 := frame.At(4), frame.At(5)

	cmd := &telemetry.Command{
		Proto:  telemetry.ProtoPelcoP,
		Camera: int(frame.At(1)) + 1,
	}
	if frame.At(0) == stxBBV422 {
		cmd.Proto = telemetry.ProtoBBV422
	}

	if bit(cmd2, 0) {
		cmd.Extended = ppelcod.DecodeExtended(cmd1, cmd2, data1, data2)
		return cmd
	}

	cmd.Motion = &telemetry.Motion{
		Pan:   telemetry.NewSpeedAxis(telemetry.Resolve(bit(cmd2, 2), bit(cmd2, 1), telemetry.DirLeft, telemetry.DirRight), int(data1)),
		Tilt:  telemetry.NewSpeedAxis(telemetry.Resolve(bit(cmd2, 3), bit(cmd2, 4), telemetry.DirUp, telemetry.DirDown), int(data2)),
		Zoom:  telemetry.NewAxis(telemetry.Resolve(bit(cmd2, 5), bit(cmd2, 6), telemetry.DirIn, telemetry.DirOut)),
		Iris:  telemetry.NewAxis(telemetry.Resolve(bit(cmd1, 2), bit(cmd1, 3), telemetry.DirOpen, telemetry.DirClose)),
		Focus: telemetry.NewAxis(telemetry.Resolve(bit(cmd1, 1), bit(cmd1, 0), telemetry.DirNear, telemetry.DirFar)),
	}
	return cmd
}
