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
	"time"
)

/*
* UDP Layout
 0                   1                   2                   3
 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1 2 3 4 5 6 7 8 9 0 1
+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
|          Source Port (2)      |       Destination Port (2)    |
+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
|           Length (2)          |           Checksum (2)        |
+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
|                             Data (var)                       |
+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+-+
*/

type udpStream struct {
	tuple    Tuple
	activeAt time.Time
	stats    Stats
}

// NewUDPStream 根据 Tuple 创建 UDPStream 实例
//
// 一个 datagram 内的帧可能跨包 因此同一 Tuple 的数据报视为连续字节流
func NewUDPStream(t Tuple) Stream {
	return &udpStream{tuple: t, activeAt: time.Now()}
}

func (s *udpStream) Tuple() Tuple {
	return s.tuple
}

func (s *udpStream) ActiveAt() time.Time {
	return s.activeAt
}

func (s *udpStream) IsClosed() bool {
	return false
}

func (s *udpStream) Stats() Stats {
	stats := s.stats
	s.stats = Stats{}
	return stats
}

func (s *udpStream) Write(seg *Segment, f DeliverFunc) error {
	s.activeAt = time.Now()
	s.stats.Packets++

	if len(seg.Payload) == 0 {
		return nil
	}

	s.stats.Bytes += uint64(len(seg.Payload))
	if f != nil {
		f(seg.Payload)
	}
	return nil
}
