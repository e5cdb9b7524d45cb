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

package pjvc

import (
	"fmt"

	"github.com/packetd/ptzd/common/telemetry"
)

// Decode 解码 JVC 帧
//
// byte1 为相机编号 byte2 为命令分组 byte4 为命令 7 字节帧的 byte5 为操作数
func Decode(frame *telemetry.Frame) *telemetry.Command {
	group, code := frame.At(2), frame.At(4)
	detail := fmt.Sprintf("%02x/%02x", group, code)
	if frame.Len() == longFrame {
		detail += fmt.Sprintf(" %d", frame.At(5))
	}

	return &telemetry.Command{
		Proto:  telemetry.ProtoJVC,
		Camera: int(frame.At(1)),
		Extended: &telemetry.Extended{
			Name:   "COMMAND",
			Code:   int(code),
			Detail: detail,
		},
	}
}
