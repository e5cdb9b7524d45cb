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

// Package pvisca 实现 Sony VISCA 协议
//
// 命令以 0x8X 开头 应答以 0x90 起的地址字节开头 所有报文均以 0xFF 结尾
package pvisca

import (
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/protocol"
)

func init() {
	protocol.Register(telemetry.ProtoVISCA, NewDetector, Decode)
}

const (
	bufferSize = 128
	minFrame   = 3
	terminator = 0xFF
	broadcast  = 0x88
)

const (
	typeCommand = 0x01
	typeInquiry = 0x09

	categoryCamera    = 0x04
	categoryPanTilter = 0x06
)

// 应答类型 取 byte1 高 4 位
const (
	replyAck        = 0x40
	replyCompletion = 0x50
	replyError      = 0x60
)

var replyErrors = map[byte]string{
	0x01: "message length error",
	0x02: "syntax error",
	0x03: "command buffer full",
	0x04: "command canceled",
	0x05: "no socket",
	0x41: "command not executable",
}

var whiteBalanceModes = map[byte]string{
	0x00: "auto",
	0x01: "indoor",
	0x02: "outdoor",
	0x03: "one push",
	0x04: "auto tracing",
	0x05: "manual",
	0x06: "outdoor auto",
	0x07: "sodium lamp auto",
	0x08: "sodium lamp",
}

var memoryActions = map[byte]string{
	0x00: "MEMORY RESET",
	0x01: "MEMORY SET",
	0x02: "MEMORY RECALL",
}

// inquiries 查询命令 key 为 category<<8 | command
var inquiries = map[int]string{
	0x0002: "VERSION INQUIRY",
	0x0400: "POWER INQUIRY",
	0x0447: "ZOOM POSITION INQUIRY",
	0x0448: "FOCUS POSITION INQUIRY",
	0x0612: "PAN TILT POSITION INQUIRY",
}
