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

// Package ppelcop 实现 Pelco P 以及 BBV422 协议
//
// 两者帧结构一致 仅起止字节不同 Pelco P 使用 0xA0/0xAF BBV422 使用 0xB0/0xBF
package ppelcop

import (
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/protocol"
)

func init() {
	protocol.Register(telemetry.ProtoPelcoP, NewDetector, Decode)
}

const (
	frameSize = 8
	etxOffset = 6

	stxPelcoP = 0xA0
	etxPelcoP = 0xAF
	stxBBV422 = 0xB0
	etxBBV422 = 0xBF
)

// matchETX 返回 STX 对应的 ETX
func matchETX(stx byte) (byte, bool) {
	switch stx {
	case stxPelcoP:
		return etxPelcoP, true
	case stxBBV422:
		return etxBBV422, true
	}
	return 0, false
}
