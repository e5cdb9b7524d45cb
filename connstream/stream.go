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
	"net/netip"
	"sync"
	"time"

	"github.com/pkg/errors"
)

func newError(format string, args ...any) error {
	format = "connstream: " + format
	return errors.Errorf(format, args...)
}

var (
	// ErrClosed stream 已经处于 Close 状态
	ErrClosed = newError("closed")

	// ErrUnsupportedProto 非 TCP/UDP 数据包
	ErrUnsupportedProto = newError("unsupported l4 proto")
)

// L4Proto 传输层协议
type L4Proto string

const (
	L4ProtoTCP L4Proto = "tcp"
	L4ProtoUDP L4Proto = "udp"
)

// Tuple 带方向的四元组 作为 Stream 的唯一标识
type Tuple struct {
	Proto   L4Proto
	SrcIP   netip.Addr
	SrcPort uint16
	DstIP   netip.Addr
	DstPort uint16
}

// String 返回 proto:src->dst 形式 同时作为会话的 stream 标识
func (t Tuple) String() string {
	src := netip.AddrPortFrom(t.SrcIP, t.SrcPort)
	dst := netip.AddrPortFrom(t.DstIP, t.DstPort)
	return string(t.Proto) + ":" + src.String() + "->" + dst.String()
}

// Segment 抓包得到的 1 个传输层数据包
type Segment struct {
	Tuple   Tuple
	Seq     uint32 // 仅 TCP 有效
	FIN     bool
	RST     bool
	Payload []byte
}

// Stats 传输层统计数据
type Stats struct {
	Packets uint64
	Bytes   uint64
	Dropped uint64 // 重传被丢弃的字节数
}

func (s *Stats) merge(other Stats) {
	s.Packets += other.Packets
	s.Bytes += other.Bytes
	s.Dropped += other.Dropped
}

// DeliverFunc 新到达字节的交付方法
//
// payload 为数据包内存的切片 实现方不允许修改 需要持有时自行拷贝
type DeliverFunc func(payload []byte)

// Stream 代表了 1 条带方向的虚拟字节流
//
// 程序并无真实持有链接 仅通过网卡数据构造出字节流
// 单个 Stream 的读写应该是串行的
type Stream interface {
	// Tuple 返回 Stream 标识
	Tuple() Tuple

	// ActiveAt 返回最后活跃时间
	ActiveAt() time.Time

	// IsClosed 返回 Stream 是否已经处于结束态
	//
	// TCP 依赖 FIN 或者 RST 判断 UDP 不会主动结束 依赖空闲过期
	IsClosed() bool

	// Stats 返回统计数据 读取后清零
	Stats() Stats

	// Write 写入数据包 仅将尚未交付过的字节交给 f
	Write(seg *Segment, f DeliverFunc) error
}

// CreateStreamFunc 创建 Stream 的方法
type CreateStreamFunc func(t Tuple) Stream

var createFuncs = map[L4Proto]CreateStreamFunc{
	L4ProtoTCP: NewTCPStream,
	L4ProtoUDP: NewUDPStream,
}

// Table 以 Tuple 为索引管理 Stream
type Table struct {
	mut     sync.Mutex
	streams map[Tuple]Stream
	stats   Stats
}

func NewTable() *Table {
	return &Table{streams: make(map[Tuple]Stream)}
}

// Write 将数据包路由到对应 Stream
//
// 返回值 closed 为 true 时 Stream 已经结束并从 Table 移除
func (t *Table) Write(seg *Segment, f DeliverFunc) (bool, error) {
	t.mut.Lock()
	defer t.mut.Unlock()

	stream, ok := t.streams[seg.Tuple]
	if !ok {
		create, ok := createFuncs[seg.Tuple.Proto]
		if !ok {
			return false, errors.Wrapf(ErrUnsupportedProto, "tuple %s", seg.Tuple)
		}
		stream = create(seg.Tuple)
		t.streams[seg.Tuple] = stream
	}

	err := stream.Write(seg, f)
	if stream.IsClosed() {
		t.stats.merge(stream.Stats())
		delete(t.streams, seg.Tuple)
		return true, err
	}
	return false, err
}

// RemoveExpired 移除空闲超过 d 的 Stream 并返回其标识
func (t *Table) RemoveExpired(d time.Duration) []Tuple {
	t.mut.Lock()
	defer t.mut.Unlock()

	var removed []Tuple
	now := time.Now()
	for tuple, stream := range t.streams {
		if now.Sub(stream.ActiveAt()) > d {
			t.stats.merge(stream.Stats())
			delete(t.streams, tuple)
			removed = append(removed, tuple)
		}
	}
	return removed
}

// Len 返回当前 Stream 数量
func (t *Table) Len() int {
	t.mut.Lock()
	defer t.mut.Unlock()

	return len(t.streams)
}

// Stats 汇总所有 Stream 的统计数据 读取后清零
func (t *Table) Stats() Stats {
	t.mut.Lock()
	defer t.mut.Unlock()

	stats := t.stats
	t.stats = Stats{}
	for _, stream := range t.streams {
		stats.merge(stream.Stats())
	}
	return stats
}
