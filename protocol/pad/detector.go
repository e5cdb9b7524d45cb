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

package pad

import (
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/internal/bufbytes"
	"github.com/packetd/ptzd/protocol"
	"github.com/packetd/ptzd/protocol/checksum"
)

// detector American Dynamics 帧探测器
//
// byte0 必须为合法地址 byte1 必须为合法命令码 否则丢弃当前候选帧
// byte1 不合法时该字节会被重新当作 byte0 判断 以免错过紧随其后的帧
type detector struct {
	buf *bufbytes.Bytes
}

// NewDetector 创建 American Dynamics 探测器
func NewDetector() protocol.Detector {
	return &detector{buf: bufbytes.New(bufferSize)}
}

func (d *detector) Proto() telemetry.Proto {
	return telemetry.ProtoAD
}

func validAddress(c byte) bool {
	return c >= minAddress && c <= maxAddress
}

func validCommand(c byte) bool {
	return c >= minCommand && c <= maxCommand
}

func (d *detector) Feed(c byte) ([]byte, error) {
	switch d.buf.Len() {
	case 0:
		if validAddress(c) {
			_ = d.buf.WriteByte(c)
		}
		return nil, nil

	case 1:
		if !validCommand(c) {
			d.buf.Reset()
			if validAddress(c) {
				_ = d.buf.WriteByte(c)
			}
			return nil, nil
		}
	}

	_ = d.buf.WriteByte(c)
	if d.buf.Len() < defaultLength || d.buf.Len() < frameLength(d.buf.Bytes()) {
		return nil, nil
	}

	frame := d.buf.Clone()
	d.buf.Reset()
	if !checksum.NegatedSum(frame) {
		return frame, protocol.ErrChecksum
	}
	return frame, nil
}

func (d *detector) Reset() {
	d.buf.Reset()
}
