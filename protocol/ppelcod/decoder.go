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
)

func bit(b byte, n uint) bool {
	return (b>>n)&0x01 == 1
}

// Decode 解码 Pelco D 帧
//
//	+------+---------+-----------+-----------+--------+--------+----------+
//	| Sync | Address | Command 1 | Command 2 | Data 1 | Data 2 | Checksum |
//	+------+---------+-----------+-----------+--------+--------+----------+
//
// Command2 最低位为 1 时为扩展命令 否则按位解析各轴状态 Data1/Data2 分别为水平和垂直速度
func Decode(frame *telemetry.Frame) *telemetry.Command {
	cmd1, cmd2 := frame.At(2), frame.At(3)
	data1, data2 := frame.At(4), frame.At(5)

	cmd := &telemetry.Command{
		Proto:  telemetry.ProtoPelcoD,
		Camera: int(frame.At(1)),
	}
	if bit(cmd2, 0) {
		cmd.Extended = DecodeExtended(cmd1, cmd2, data1, data2)
		return cmd
	}

	cmd.Motion = &telemetry.Motion{
		Pan:   telemetry.NewSpeedAxis(telemetry.Resolve(bit(cmd2, 2), bit(cmd2, 1), telemetry.DirLeft, telemetry.DirRight), int(data1)),
		Tilt:  telemetry.NewSpeedAxis(telemetry.Resolve(bit(cmd2, 3), bit(cmd2, 4), telemetry.DirUp, telemetry.DirDown), int(data2)),
		Zoom:  telemetry.NewAxis(telemetry.Resolve(bit(cmd2, 5), bit(cmd2, 6), telemetry.DirIn, telemetry.DirOut)),
		Iris:  telemetry.NewAxis(telemetry.Resolve(bit(cmd1, 1), bit(cmd1, 2), telemetry.DirOpen, telemetry.DirClose)),
		Focus: telemetry.NewAxis(telemetry.Resolve(bit(cmd1, 0), bit(cmd2, 7), telemetry.DirNear, telemetry.DirFar)),
	}
	return cmd
}
