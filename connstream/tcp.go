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

package connstream

import (
	"sync/atomic"
	"time"
)

/*
* TCP Layout
+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
|          Source Ports          |       Destination Ports        |
+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
|                        Sequence Number                        |
+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
|                    Acknowledgment Number                      |
+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
|  Data |           |U|A|P|R|S|F|                               |
| Offset| Reserved  |R|C|S|S|Y|I|            Window             |
|       |           |G|K|H|T|N|N|                               |
+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
|                             Data                              |
+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
*/

// seqSpace TCP 序号空间大小
const seqSpace = uint64(1) << 32

type tcpStream struct {
	tuple    Tuple
	lastAck  uint64      // 字节流已经交付的最后一个序号
	closed   atomic.Bool // 是否结束态
	activeAt time.Time
	stats    Stats
}

// NewTCPStream 根据 Tuple 创建 TCPStream 实例
func NewTCPStream(t Tuple) Stream {
	return &tcpStream{tuple: t, activeAt: time.Now()}
}

func (s *tcpStream) Tuple() Tuple {
	return s.tuple
}

func (s *tcpStream) ActiveAt() time.Time {
	return s.activeAt
}

func (s *tcpStream) IsClosed() bool {
	return s.closed.Load()
}

func (s *tcpStream) Stats() Stats {
	stats := s.stats
	s.stats = Stats{}
	return stats
}

func (s *tcpStream) Write(seg *Segment, f DeliverFunc) error {
	s.activeAt = time.Now()

	// 已经关闭的数据流不允许再写入
	if s.closed.Load() {
		return ErrClosed
	}
	s.stats.Packets++

	// 对端已无数据可发送 但本包内可能仍携带数据 继续处理
	if seg.FIN || seg.RST {
		s.closed.Store(true)
	}

	if len(seg.Payload) == 0 {
		return nil
	}

	seq := uint64(seg.Seq)
	n := seq + uint64(len(seg.Payload))
	s.stats.Bytes += uint64(len(seg.Payload))

	// 序号回绕 重新计数
	if n >= seqSpace {
		s.lastAck = 0
		n -= seqSpace
	}

	payload := seg.Payload

	// 更早之前的数据包 重传或者乱序 丢弃
	if s.lastAck >= n {
		s.stats.Dropped += uint64(len(payload))
		return nil
	}

	// 数据收了一半 仅交付后半部分
	// lastAck < seq 时为首个 segment 落在数据流中间 直接交付
	if s.lastAck > seq {
		delta := s.lastAck - seq
		s.stats.Dropped += delta
		payload = payload[delta:]
	}

	if f != nil {
		f(payload)
	}
	s.lastAck = n
	return nil
}
