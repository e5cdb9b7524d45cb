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

package protocol

import (
	"time"

	"github.com/pkg/errors"

	"github.com/packetd/ptzd/common/telemetry"
)

// Observer 接收解码后的命令
type Observer func(cmd *telemetry.Command)

// InvalidFunc 校验失败回调 frame 为探测器当时的候选帧拷贝
type InvalidFunc func(proto telemetry.Proto, frame []byte)

// ProtoStats 单个协议的统计数据
type ProtoStats struct {
	Frames         uint64 `json:"frames"`
	ChecksumErrors uint64 `json:"checksum_errors"`
	Unknown        uint64 `json:"unknown"`
}

// Stats Dispatcher 统计数据
type Stats struct {
	Bytes  uint64                         `json:"bytes"`
	Protos map[telemetry.Proto]ProtoStats `json:"protos"`
}

// Merge 合并统计数据
func (s *Stats) Merge(other Stats) {
	s.Bytes += other.Bytes
	if len(other.Protos) == 0 {
		return
	}
	if s.Protos == nil {
		s.Protos = make(map[telemetry.Proto]ProtoStats)
	}
	for proto, ps := range other.Protos {
		cur := s.Protos[proto]
		cur.Frames += ps.Frames
		cur.ChecksumErrors += ps.ChecksumErrors
		cur.Unknown += ps.Unknown
		s.Protos[proto] = cur
	}
}

type entry struct {
	codec    Codec
	detector Detector
	stats    ProtoStats
}

// Dispatcher 将字节流逐个分发给所有启用的探测器
//
// 每个字节按固定顺序依次交给每个探测器 同一个字节可以同时完成多个协议的帧
// Dispatcher 非并发安全 同一个字节流应当只由一个 goroutine 驱动
type Dispatcher struct {
	stream    string
	entries   []*entry
	bytes     uint64
	onInvalid InvalidFunc
}

// NewDispatcher 创建 Dispatcher protos 为空时启用所有已注册协议
func NewDispatcher(stream string, protos ...telemetry.Proto) (*Dispatcher, error) {
	if len(protos) == 0 {
		protos = Protocols()
	}

	seen := make(map[telemetry.Proto]struct{})
	uniq := make([]telemetry.Proto, 0, len(protos))
	for _, proto := range protos {
		// BBV422 由 Pelco P 探测器识别
		if proto == telemetry.ProtoBBV422 {
			proto = telemetry.ProtoPelcoP
		}
		if _, ok := seen[proto]; ok {
			continue
		}
		seen[proto] = struct{}{}
		uniq = append(uniq, proto)
	}
	sortProtos(uniq)

	d := &Dispatcher{stream: stream}
	for _, proto := range uniq {
		codec, err := Get(proto)
		if err != nil {
			return nil, errors.Wrap(err, "create dispatcher")
		}
		d.entries = append(d.entries, &entry{
			codec:    codec,
			detector: codec.CreateDetector(),
		})
	}
	return d, nil
}

// SetOnInvalid 设置校验失败回调
func (d *Dispatcher) SetOnInvalid(f InvalidFunc) {
	d.onInvalid = f
}

// Protocols 返回启用的协议列表
func (d *Dispatcher) Protocols() []telemetry.Proto {
	protos := make([]telemetry.Proto, 0, len(d.entries))
	for _, e := range d.entries {
		protos = append(protos, e.codec.Proto)
	}
	return protos
}

// ConsumeFunc 处理一段字节 每解码出一条命令即回调 observer
//
// 命令按照帧完成的先后顺序交付 同一字节完成的多个帧按协议固定顺序交付
func (d *Dispatcher) ConsumeFunc(p []byte, t time.Time, observer Observer) {
	d.bytes += uint64(len(p))
	for _, c := range p {
		for _, e := range d.entries {
			frame, err := e.detector.Feed(c)
			if err != nil {
				if errors.Is(err, ErrChecksum) {
					e.stats.ChecksumErrors++
					if d.onInvalid != nil {
						d.onInvalid(e.codec.Proto, frame)
					}
				}
				continue
			}
			if frame == nil {
				continue
			}

			cmd := e.codec.Decode(&telemetry.Frame{
				Proto: e.codec.Proto,
				Bytes: frame,
				Time:  t,
			})
			if cmd == nil {
				continue
			}

			e.stats.Frames++
			if cmd.Unknown() {
				e.stats.Unknown++
			}
			if cmd.Proto == "" {
				cmd.Proto = e.codec.Proto
			}
			cmd.Raw = frame
			cmd.Time = t
			cmd.Stream = d.stream
			cmd.Render()
			if observer != nil {
				observer(cmd)
			}
		}
	}
}

// Consume 处理一段字节并返回解码出的所有命令
func (d *Dispatcher) Consume(p []byte, t time.Time) []*telemetry.Command {
	var cmds []*telemetry.Command
	d.ConsumeFunc(p, t, func(cmd *telemetry.Command) {
		cmds = append(cmds, cmd)
	})
	return cmds
}

// Reset 清空所有探测器的缓冲区
func (d *Dispatcher) Reset() {
	for _, e := range d.entries {
		e.detector.Reset()
	}
}

// Stats 返回统计数据
//
// 读取即重置 counter 需要重新计数
func (d *Dispatcher) Stats() Stats {
	stats := Stats{
		Bytes:  d.bytes,
		Protos: make(map[telemetry.Proto]ProtoStats, len(d.entries)),
	}
	d.bytes = 0
	for _, e := range d.entries {
		stats.Protos[e.codec.Proto] = e.stats
		e.stats = ProtoStats{}
	}
	return stats
}
