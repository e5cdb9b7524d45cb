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

package ppanasonic

import (
	"strings"

	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/internal/asciihex"
)

// Decode 解码 Panasonic 帧
//
// 相机控制命令格式为 GC<n>:<token>:<token>...
// n 为扩展十六进制单字符 代表冒号之后载荷的长度 每个 token 固定 7 个字符 前 4 个字符为分组 后 3 个字符为取值
func Decode(frame *telemetry.Frame) *telemetry.Command {
	cmd := &telemetry.Command{
		Proto:  telemetry.ProtoPanasonic,
		Target: target,
	}

	b := frame.Bytes
	if len(b) < 2 {
		cmd.Extended = telemetry.UnknownCommand(0)
		return cmd
	}
	text := string(b[1 : len(b)-1])

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ':' || r == ';'
	})
	if len(fields) == 0 {
		cmd.Extended = telemetry.UnknownCommand(0)
		return cmd
	}

	header := fields[0]
	if len(header) != len(headerCameraControl)+1 || !strings.HasPrefix(header, headerCameraControl) {
		ext := telemetry.UnknownCommand(int(text[0]))
		ext.Detail = header
		cmd.Extended = ext
		return cmd
	}

	n, ok := asciihex.ExtendedDigit(header[len(header)-1])
	payload := strings.TrimPrefix(text[len(header):], ":")
	if !ok || n != len(payload) {
		ext := telemetry.UnknownCommand(int(text[0]))
		ext.Detail = "length mismatch"
		cmd.Extended = ext
		return cmd
	}

	tokens := make([]string, 0, len(fields)-1)
	for _, token := range fields[1:] {
		if len(token) != tokenSize {
			ext := telemetry.UnknownCommand(int(text[0]))
			ext.Detail = "bad token " + token
			cmd.Extended = ext
			return cmd
		}
		tokens = append(tokens, token[:groupSize]+"="+token[groupSize:])
	}

	cmd.Extended = &telemetry.Extended{
		Name:   "CAMERA CONTROL",
		Detail: strings.Join(tokens, " "),
	}
	return cmd
}
