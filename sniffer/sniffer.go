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

package sniffer

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/confengine"
)

// OnChunk 数据源交付字节的回调
//
// 同一个 Stream 的回调串行触发 不同 Stream 之间可能并发
type OnChunk func(chunk telemetry.Chunk)

// Sniffer 负责从数据源读取字节并调用 OnChunk 进行处理
type Sniffer interface {
	// Name 返回 Sniffer 名称
	Name() string

	// SetOnChunk 设置 OnChunk 回调函数 需在 Start 之前调用
	SetOnChunk(f OnChunk)

	// Start 开始读取数据源
	Start() error

	// Stats 返回统计数据 读取后清零
	Stats() Stats

	// Close 关闭 Sniffer 并释放关联资源
	Close()
}

// Stats 数据源统计数据
type Stats struct {
	Chunks  uint64
	Bytes   uint64
	Dropped uint64 // 重传等原因被丢弃的字节
	Streams int
}

// Counter 数据源通用的计数器
type Counter struct {
	chunks  atomic.Uint64
	bytes   atomic.Uint64
	dropped atomic.Uint64
}

func (c *Counter) Add(n int) {
	c.chunks.Add(1)
	c.bytes.Add(uint64(n))
}

func (c *Counter) Drop(n uint64) {
	c.dropped.Add(n)
}

// Load 读取并清零
func (c *Counter) Load(streams int) Stats {
	return Stats{
		Chunks:  c.chunks.Swap(0),
		Bytes:   c.bytes.Swap(0),
		Dropped: c.dropped.Swap(0),
		Streams: streams,
	}
}

// CreateFunc 创建 Sniffer 的函数类型
type CreateFunc func(conf *Config) (Sniffer, error)

var snifferFactory = map[string]CreateFunc{}

// Register 注册 Sniffer 工厂函数
func Register(f CreateFunc, names ...string) {
	for _, name := range names {
		snifferFactory[name] = f
	}
}

// Get 获取 Sniffer 工厂函数
func Get(name string) (CreateFunc, error) {
	f, ok := snifferFactory[name]
	if !ok {
		return nil, errors.Errorf("sniffer factory (%s) not found", name)
	}
	return f, nil
}

func New(conf *confengine.Config) (Sniffer, error) {
	var cfg Config
	if err := conf.UnpackChild("sniffer", &cfg); err != nil {
		return nil, err
	}
	cfg.Validate()

	f, err := Get(cfg.Engine)
	if err != nil {
		return nil, err
	}
	return f(&cfg)
}
