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

package fasttime

import (
	"sync/atomic"
	"time"
)

// now 每秒刷新一次 供会话活跃时间等秒级精度场景使用
var now atomic.Int64

func init() {
	now.Store(time.Now().Unix())
	go func() {
		for tm := range time.Tick(time.Second) {
			now.Store(tm.Unix())
		}
	}()
}

// UnixTimestamp 获取当前 unix 时间戳 精度为秒
func UnixTimestamp() int64 {
	return now.Load()
}

// Since 返回距离 unix 时间戳 ts 已经过去的时长 精度为秒
func Since(ts int64) time.Duration {
	return time.Duration(now.Load()-ts) * time.Second
}
