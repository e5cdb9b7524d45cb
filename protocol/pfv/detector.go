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

package pfv

import (
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/internal/bufbytes"
	"github.com/packetd/ptzd/protocol"
	"github.com/packetd/ptzd/protocol/checksum"
)

// detector Forward Vision 帧探测器
//
// LF 代表新帧开始 ASCII 载荷不会出现最高位为 1 的字节 因此首个最高位为 1 的字节即为校验和
type detector struct {
	buf *bufbytes.Bytes
}

// NewDetector 创建 Forward Vision 探测器
func NewDetector() protocol.Detector {
	return &detector{buf: bufbytes.New(bufferSize)}
}

func (d *detector) Proto() telemetry.Proto {
	return telemetry.ProtoFV
}

func (d *detector) Feed(c byte) ([]byte, error) {
	if c == lineFeed {
		d.buf.Reset()
	}
	_ = d.buf.WriteByte(c)

	if d.buf.At(0) != lineFeed || d.buf.Len() < minFrame || c&0x80 == 0 {
		return nil, nil
	}

	frame := d.buf.Clone()
	d.buf.Reset()
	if !checksum.XORMSBSet(frame) {
		return frame, protocol.ErrChecksum
	}
	return frame, nil
}

func (d *detector) Reset() {
	d.buf.Reset()
}
