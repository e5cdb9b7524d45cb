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

package pbosch

import (
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/internal/bufbytes"
	"github.com/packetd/ptzd/protocol"
	"github.com/packetd/ptzd/protocol/checksum"
)

// detector Bosch 帧探测器
//
// 任何最高位为 1 的字节都视为新帧起点 声明长度 L 必须大于 1
type detector struct {
	buf *bufbytes.Bytes
}

// NewDetector 创建 Bosch 探测器
func NewDetector() protocol.Detector {
	return &detector{buf: bufbytes.New(bufferSize)}
}

func (d *detector) Proto() telemetry.Proto {
	return telemetry.ProtoBosch
}

func (d *detector) Feed(c byte) ([]byte, error) {
	if c&0x80 != 0 {
		d.buf.Reset()
	}
	_ = d.buf.WriteByte(c)

	b0 := d.buf.At(0)
	if b0&0x80 == 0 {
		return nil, nil
	}
	l := int(b0 & 0x7F)
	if l <= 1 || d.buf.Len() != l+1 {
		return nil, nil
	}

	frame := d.buf.Clone()
	d.buf.Reset()
	if !checksum.MaskedSum(frame) {
		return frame, protocol.ErrChecksum
	}
	return frame, nil
}

func (d *detector) Reset() {
	d.buf.Reset()
}
