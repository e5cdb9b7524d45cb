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

package ppelcop

import (
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/internal/bufbytes"
	"github.com/packetd/ptzd/protocol"
	"github.com/packetd/ptzd/protocol/checksum"
)

// detector Pelco P/BBV422 帧探测器 8 字节滑动窗口
type detector struct {
	buf *bufbytes.Bytes
}

// NewDetector 创建 Pelco P 探测器
func NewDetector() protocol.Detector {
	return &detector{buf: bufbytes.New(frameSize)}
}

func (d *detector) Proto() telemetry.Proto {
	return telemetry.ProtoPelcoP
}

func (d *detector) Feed(c byte) ([]byte, error) {
	_ = d.buf.WriteByte(c)
	if !d.buf.Full() {
		return nil, nil
	}

	etx, ok := matchETX(d.buf.At(0))
	if !ok || d.buf.At(etxOffset) != etx {
		return nil, nil
	}
	if !checksum.XOR(d.buf.Bytes()) {
		return d.buf.Clone(), protocol.ErrChecksum
	}

	frame := d.buf.Clone()
	d.buf.Reset()
	return frame, nil
}

func (d *detector) Reset() {
	d.buf.Reset()
}
