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

package controller

import (
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/packetd/ptzd/common/telemetry"
)

type Config struct {
	// Protocols 启用的协议列表 为空时启用所有协议
	Protocols []string `config:"protocols"`

	// SessionExpired 未活跃会话过期时间
	SessionExpired time.Duration `config:"sessionExpired"`

	// RawBytes 是否输出原始字节记录
	RawBytes bool `config:"rawBytes"`

	// InvalidLogInterval 校验失败日志的最小间隔
	InvalidLogInterval time.Duration `config:"invalidLogInterval"`
}

func (c *Config) Validate() {
	if c.SessionExpired <= 0 {
		c.SessionExpired = 5 * time.Minute
	}
	if c.InvalidLogInterval <= 0 {
		c.InvalidLogInterval = 100 * time.Millisecond
	}
}

// Protos 解析协议列表
//
// bbv422 与 pelcop 共用探测器 两者都会被归并为 pelcop
func (c Config) Protos() ([]telemetry.Proto, error) {
	seen := make(map[telemetry.Proto]struct{})
	var protos []telemetry.Proto
	for _, s := range c.Protocols {
		proto := telemetry.Proto(strings.ToLower(strings.TrimSpace(s)))
		if proto == "" {
			continue
		}
		if !proto.Valid() {
			return nil, errors.Errorf("unknown protocol (%s)", s)
		}
		if proto == telemetry.ProtoBBV422 {
			proto = telemetry.ProtoPelcoP
		}
		if _, ok := seen[proto]; ok {
			continue
		}
		seen[proto] = struct{}{}
		protos = append(protos, proto)
	}
	return protos, nil
}
