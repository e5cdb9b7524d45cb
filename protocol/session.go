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
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/internal/fasttime"
)

// Session 代表一个字节流的解码会话
//
// 一个串口 一条 TCP 连接或者一个抓包的 TCP/UDP 流各自对应一个 Session
// 会话之间的探测器状态完全隔离
type Session struct {
	id        string
	stream    string
	createdAt time.Time
	activeAt  atomic.Int64

	mut        sync.Mutex
	dispatcher *Dispatcher
	total      Stats
}

// SessionInfo Session 概要信息
type SessionInfo struct {
	ID        string            `json:"id"`
	Stream    string            `json:"stream"`
	Protocols []telemetry.Proto `json:"protocols"`
	CreatedAt time.Time         `json:"created_at"`
	ActiveAt  time.Time         `json:"active_at"`
	Stats     Stats             `json:"stats"`
}

func newSession(stream string, d *Dispatcher) *Session {
	s := &Session{
		id:         uuid.New().String(),
		stream:     stream,
		createdAt:  time.Now(),
		dispatcher: d,
	}
	s.activeAt.Store(fasttime.UnixTimestamp())
	return s
}

// ID 返回会话唯一标识
func (s *Session) ID() string {
	return s.id
}

// Stream 返回会话对应的字节流名称
func (s *Session) Stream() string {
	return s.stream
}

// ActiveAt 返回会话最后活跃时间
func (s *Session) ActiveAt() time.Time {
	return time.Unix(s.activeAt.Load(), 0)
}

// Consume 处理一段字节 返回解码出的命令
func (s *Session) Consume(p []byte, t time.Time) []*telemetry.Command {
	s.activeAt.Store(fasttime.UnixTimestamp())

	s.mut.Lock()
	defer s.mut.Unlock()
	return s.dispatcher.Consume(p, t)
}

// Stats 返回会话统计数据
//
// 读取即重置 counter 需要重新计数 累计值会保留在 Info 中
func (s *Session) Stats() Stats {
	s.mut.Lock()
	defer s.mut.Unlock()

	stats := s.dispatcher.Stats()
	s.total.Merge(stats)
	return stats
}

// Info 返回会话概要信息
func (s *Session) Info() SessionInfo {
	s.mut.Lock()
	defer s.mut.Unlock()

	s.total.Merge(s.dispatcher.Stats())
	var total Stats
	total.Merge(s.total)
	return SessionInfo{
		ID:        s.id,
		Stream:    s.stream,
		Protocols: s.dispatcher.Protocols(),
		CreatedAt: s.createdAt,
		ActiveAt:  s.ActiveAt(),
		Stats:     total,
	}
}

// SessionPool 会话管理池 负责会话的创建和释放
//
// 新建会话使用当前启用的协议集合 Reload 之后已存在的会话会被清理并重新创建
type SessionPool struct {
	mut       sync.RWMutex
	protos    []telemetry.Proto
	sessions  map[string]*Session
	onInvalid InvalidFunc
}

// NewSessionPool 创建并返回会话池
//
// protos 为空时启用所有已注册协议
func NewSessionPool(protos []telemetry.Proto, onInvalid InvalidFunc) (*SessionPool, error) {
	// 提前校验协议列表
	if _, err := NewDispatcher("", protos...); err != nil {
		return nil, err
	}

	return &SessionPool{
		protos:    protos,
		sessions:  make(map[string]*Session),
		onInvalid: onInvalid,
	}, nil
}

// GetOrCreate 获取或者创建一个会话
func (sp *SessionPool) GetOrCreate(stream string) *Session {
	sp.mut.RLock()
	session, ok := sp.sessions[stream]
	sp.mut.RUnlock()
	if ok {
		return session
	}

	sp.mut.Lock()
	defer sp.mut.Unlock()

	if session, ok := sp.sessions[stream]; ok {
		return session
	}

	// 协议列表已在创建时校验
	d, _ := NewDispatcher(stream, sp.protos...)
	d.SetOnInvalid(sp.onInvalid)
	session = newSession(stream, d)
	sp.sessions[stream] = session
	return session
}

// Delete 删除一个会话
func (sp *SessionPool) Delete(stream string) {
	sp.mut.Lock()
	defer sp.mut.Unlock()

	delete(sp.sessions, stream)
}

// Reload 更新启用的协议集合并清空所有会话
func (sp *SessionPool) Reload(protos []telemetry.Proto) error {
	if _, err := NewDispatcher("", protos...); err != nil {
		return err
	}

	sp.mut.Lock()
	defer sp.mut.Unlock()

	sp.protos = protos
	sp.sessions = make(map[string]*Session)
	return nil
}

// OnStats 触发 Stats 统计事件
//
// 读取即重置 counter 需要重新计数
func (sp *SessionPool) OnStats(f func(stream string, stats Stats)) {
	sp.mut.RLock()
	defer sp.mut.RUnlock()

	for stream, session := range sp.sessions {
		f(stream, session.Stats())
	}
}

// ActiveSessions 返回活跃的会话数量
func (sp *SessionPool) ActiveSessions() int {
	sp.mut.RLock()
	defer sp.mut.RUnlock()

	return len(sp.sessions)
}

// Sessions 返回所有会话概要信息 按字节流名称排序
func (sp *SessionPool) Sessions() []SessionInfo {
	sp.mut.RLock()
	defer sp.mut.RUnlock()

	infos := make([]SessionInfo, 0, len(sp.sessions))
	for _, session := range sp.sessions {
		infos = append(infos, session.Info())
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Stream < infos[j].Stream
	})
	return infos
}

// RemoveExpired 清理超过 duration 时间未有任何数据的会话
func (sp *SessionPool) RemoveExpired(duration time.Duration) []string {
	sp.mut.Lock()
	defer sp.mut.Unlock()

	var removed []string
	for stream, session := range sp.sessions {
		if fasttime.Since(session.activeAt.Load()) > duration {
			delete(sp.sessions, stream)
			removed = append(removed, stream)
		}
	}
	return removed
}

// Clean 清理所有会话
func (sp *SessionPool) Clean() {
	sp.mut.Lock()
	defer sp.mut.Unlock()

	sp.sessions = make(map[string]*Session)
}
