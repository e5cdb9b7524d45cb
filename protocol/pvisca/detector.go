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
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/internal/bufbytes"
	"github.com/packetd/ptzd/protocol"
)

// detector VISCA 帧探测器
//
// 载荷字节不会出现最高位为 1 的取值 因此除 0xFF 以外的最高位为 1 的字节都代表新报文开始
type detector struct {
	buf *bufbytes.Bytes
}

// NewDetector 创建 VISCA 探测器
func NewDetector() protocol.Detector {
	return &detector{buf: bufbytes.New(bufferSize)}
}

func (d *detector) Proto() telemetry.Proto {
	return telemetry.ProtoVISCA
}

func (d *detector) Feed(c byte) ([]byte, error) {
	if c&0x80 != 0 && c != terminator {
		d.buf.Reset()
	}
	_ = d.buf.WriteByte(c)
	if c != terminator {
		return nil, nil
	}

	// 终止符总是结束当前报文
	frame := d.buf.Clone()
	d.buf.Reset()
	if len(frame) < minFrame || frame[0]&0x80 == 0 || frame[0] == terminator {
		return nil, nil
	}
	return frame, nil
}

func (d *detector) Reset() {
	d.buf.Reset()
}
