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

package ppelcod

import (
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/internal/bufbytes"
	"github.com/packetd/ptzd/protocol"
	"github.com/packetd/ptzd/protocol/checksum"
)

// detector Pelco D 帧探测器
//
// 缓冲区固定 7 字节并持续滑动 当窗口首字节为 0xFF 时尝试校验
// 校验失败不会清空缓冲区 下一个字节继续滑动 以便从载荷中偶现的 0xFF 恢复
type detector struct {
	buf *bufbytes.Bytes
}

// NewDetector 创建 Pelco D 探测器
func NewDetector() protocol.Detector {
	return &detector{buf: bufbytes.New(frameSize)}
}

func (d *detector) Proto() telemetry.Proto {
	return telemetry.ProtoPelcoD
}

func (d *detector) Feed(c byte) ([]byte, error) {
	_ = d.buf.WriteByte(c)
	if !d.buf.Full() || d.buf.At(0) != syncByte {
		return nil, nil
	}

	if !checksum.Sum(d.buf.Bytes()) {
		return d.buf.Clone(), protocol.ErrChecksum
	}

	frame := d.buf.Clone()
	d.buf.Reset()
	return frame, nil
}

func (d *detector) Reset() {
	d.buf.Reset()
}
