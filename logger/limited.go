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

package logger

import (
	"sync/atomic"
	"time"

	"github.com/juju/ratelimit"
)

// Limited 基于令牌桶限制输出频率的 Logger
//
// 令牌耗尽期间的日志会被丢弃并计数 恢复输出时附带被丢弃的条数
type Limited struct {
	bucket  *ratelimit.Bucket
	dropped atomic.Int64
}

// NewLimited 创建 Limited 实例 rate 为每秒允许的条数 burst 为突发上限
func NewLimited(rate float64, burst int64) *Limited {
	if rate <= 0 {
		rate = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limited{
		bucket: ratelimit.NewBucketWithRate(rate, burst),
	}
}

// NewLimitedInterval 创建每 interval 最多输出 burst 条的 Limited 实例
func NewLimitedInterval(interval time.Duration, burst int64) *Limited {
	if burst <= 0 {
		burst = 1
	}
	return &Limited{
		bucket: ratelimit.NewBucket(interval, burst),
	}
}

// Allow 尝试获取一个令牌
func (l *Limited) Allow() bool {
	if l.bucket.TakeAvailable(1) == 1 {
		return true
	}
	l.dropped.Add(1)
	return false
}

// Dropped 返回累计丢弃的日志条数
func (l *Limited) Dropped() int64 {
	return l.dropped.Load()
}

func (l *Limited) logf(f func(string, ...any), template string, args ...any) {
	if !l.Allow() {
		return
	}
	if n := l.dropped.Swap(0); n > 0 {
		template = template + " (%d similar messages suppressed)"
		args = append(args, n)
	}
	f(template, args...)
}

func (l *Limited) Debugf(template string, args ...any) {
	if !Enabled(LevelDebug) {
		return
	}
	l.logf(Debugf, template, args...)
}

func (l *Limited) Warnf(template string, args ...any) {
	l.logf(Warnf, template, args...)
}

func (l *Limited) Errorf(template string, args ...any) {
	l.logf(Errorf, template, args...)
}
