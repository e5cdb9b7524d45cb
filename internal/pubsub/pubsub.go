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

package pubsub

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Filter 订阅方的过滤条件 返回 false 的消息不会进入该订阅队列
type Filter func(msg any) bool

// Queue PubSub 返回的订阅队列实例
type Queue interface {
	// ID 队列唯一标识
	ID() string

	// PopTimeout 从队列中弹出一个元素 操作会 block 直到有元素或者超时
	PopTimeout(timeout time.Duration) (any, bool)

	// Push 推送一个元素至队列中 队列已满时丢弃
	Push(data any)

	// Dropped 返回因队列已满被丢弃的消息数
	Dropped() int64

	// Close 关闭并清理队列
	Close()
}

// channel 为 Queue 的一种实现
type channel struct {
	id      string
	ch      chan any
	filter  Filter
	mut     sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

func newChannel(size int, filter Filter) *channel {
	if size <= 0 {
		size = 1
	}

	return &channel{
		id:     uuid.New().String(),
		ch:     make(chan any, size),
		filter: filter,
	}
}

func (ch *channel) ID() string {
	return ch.id
}

func (ch *channel) PopTimeout(timeout time.Duration) (any, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case data, ok := <-ch.ch:
		return data, ok

	case <-timer.C:
		return nil, false
	}
}

func (ch *channel) Push(data any) {
	ch.mut.RLock()
	defer ch.mut.RUnlock()

	if ch.closed {
		return
	}

	select {
	case ch.ch <- data:
	default:
		ch.dropped.Add(1)
	}
}

func (ch *channel) Dropped() int64 {
	return ch.dropped.Load()
}

func (ch *channel) Close() {
	ch.mut.Lock()
	defer ch.mut.Unlock()

	if !ch.closed {
		ch.closed = true
		close(ch.ch)
	}
}

type PubSub struct {
	mut    sync.RWMutex
	queues map[string]*channel
}

func New() *PubSub {
	return &PubSub{
		queues: make(map[string]*channel),
	}
}

func (p *PubSub) Num() int {
	p.mut.RLock()
	defer p.mut.RUnlock()

	return len(p.queues)
}

// Subscribe 创建订阅队列 filter 为空时接收所有消息
func (p *PubSub) Subscribe(size int, filter Filter) Queue {
	p.mut.Lock()
	defer p.mut.Unlock()

	ch := newChannel(size, filter)
	p.queues[ch.ID()] = ch
	return ch
}

func (p *PubSub) Publish(msg any) {
	p.mut.RLock()
	defer p.mut.RUnlock()

	for _, q := range p.queues {
		if q.filter != nil && !q.filter(msg) {
			continue
		}
		q.Push(msg)
	}
}

// Unsubscribe 取消订阅并关闭队列
func (p *PubSub) Unsubscribe(q Queue) {
	p.mut.Lock()
	delete(p.queues, q.ID())
	p.mut.Unlock()

	q.Close()
}
