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

package pjvc

import (
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/internal/bufbytes"
	"github.com/packetd/ptzd/protocol"
)

type detector struct {
	buf *bufbytes.Bytes
}

// NewDetector 创建 JVC 探测器
func NewDetector() protocol.Detector {
	return &detector{buf: bufbytes.New(bufferSize)}
}

func (d *detector) Proto() telemetry.Proto {
	return telemetry.ProtoJVC
}

func (d *detector) Feed(c byte) ([]byte, error) {
	if c == syncByte {
		d.buf.Reset()
	}
	_ = d.buf.WriteByte(c)

	n := d.buf.Len()
	if d.buf.At(0) != syncByte || n < shortFrame || n != frameLength(d.buf.At(3)) {
		return nil, nil
	}

	frame := d.buf.Clone()
	d.buf.Reset()
	return frame, nil
}

func (d *detector) Reset() {
	d.buf.Reset()
}
