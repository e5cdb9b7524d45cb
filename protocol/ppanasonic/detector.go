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
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/internal/bufbytes"
	"github.com/packetd/ptzd/protocol"
)

// detector Panasonic 帧探测器
//
// 仅 STX 可以开启新帧 帧内出现非法字符或者过短的帧都会丢弃当前候选帧
type detector struct {
	buf *bufbytes.Bytes
}

// NewDetector 创建 Panasonic 探测器
func NewDetector() protocol.Detector {
	return &detector{buf: bufbytes.New(bufferSize)}
}

func (d *detector) Proto() telemetry.Proto {
	return telemetry.ProtoPanasonic
}

func (d *detector) Feed(c byte) ([]byte, error) {
	if c == stx {
		d.buf.Reset()
		_ = d.buf.WriteByte(c)
		return nil, nil
	}
	if d.buf.Len() == 0 {
		return nil, nil
	}

	switch {
	case c == etx:
		_ = d.buf.WriteByte(c)
		if d.buf.Len() < minFrame {
			d.buf.Reset()
			return nil, nil
		}
		frame := d.buf.Clone()
		d.buf.Reset()
		return frame, nil

	case !allowed(c) || d.buf.Full():
		d.buf.Reset()

	default:
		_ = d.buf.WriteByte(c)
	}
	return nil, nil
}

func (d *detector) Reset() {
	d.buf.Reset()
}
