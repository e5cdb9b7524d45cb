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

// Package pjvc 实现 JVC 协议
//
// 帧以 0xB1 开头 byte3 低 4 位决定帧长度 0x2 为 6 字节 0x3 为 7 字节
package pjvc

import (
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/protocol"
)

func init() {
	protocol.Register(telemetry.ProtoJVC, NewDetector, Decode)
}

const (
	bufferSize = 128
	syncByte   = 0xB1
	shortFrame = 6
	longFrame  = 7
)

// frameLength 根据 byte3 低 4 位返回期望的帧长度 未知取值返回 0
func frameLength(b3 byte) int {
	switch b3 & 0x0F {
	case 0x02:
		return shortFrame
	case 0x03:
		return longFrame
	}
	return 0
}
