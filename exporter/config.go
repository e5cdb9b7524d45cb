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

package exporter

import (
	"time"
)

const defaultTimeout = 5 * time.Second

type Config struct {
	Console ConsoleConfig `config:"console"`
	NATS    NATSConfig    `config:"nats"`
	Redis   RedisConfig   `config:"redis"`
}

// ConsoleConfig 控制台以及日志文件输出
//
// 日志文件中 Rx 开头的行为原始字节 => 开头的行为解码结果 可直接用于回放
type ConsoleConfig struct {
	Enabled    bool   `config:"enabled"`
	Format     string `config:"format"` // text | json
	Stdout     bool   `config:"stdout"`
	Verbose    bool   `config:"verbose"` // 控制台同时输出原始字节
	NoLog      bool   `config:"nolog"`
	Filename   string `config:"filename"`
	MaxSize    int    `config:"maxSize"`
	MaxBackups int    `config:"maxBackups"`
	MaxAge     int    `config:"maxAge"`
}

const (
	FormatText = "text"
	FormatJSON = "json"
)

// LogFilename 返回以启动时间命名的日志文件
func LogFilename(t time.Time) string {
	return "log_" + t.Format("2006_01_02_15_04_05") + ".txt"
}

func (c *ConsoleConfig) Validate() {
	if c.Format != FormatJSON {
		c.Format = FormatText
	}
	if c.Filename == "" {
		c.Filename = LogFilename(time.Now())
	}
	if c.MaxSize <= 0 {
		c.MaxSize = 100
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 7
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 10
	}
}

// NATSConfig 解码结果发布到 <subject>.<proto>
type NATSConfig struct {
	Enabled bool   `config:"enabled"`
	URL     string `config:"url"`
	Subject string `config:"subject"`
}

func (c *NATSConfig) Validate() {
	if c.URL == "" {
		c.URL = "nats://127.0.0.1:4222"
	}
	if c.Subject == "" {
		c.Subject = "ptzd.commands"
	}
}

// RedisConfig 解码结果写入 Redis Stream
type RedisConfig struct {
	Enabled  bool          `config:"enabled"`
	Addr     string        `config:"addr"`
	Password string        `config:"password"`
	DB       int           `config:"db"`
	Stream   string        `config:"stream"`
	MaxLen   int64         `config:"maxLen"`
	Timeout  time.Duration `config:"timeout"`
}

func (c *RedisConfig) Validate() {
	if c.Addr == "" {
		c.Addr = "127.0.0.1:6379"
	}
	if c.Stream == "" {
		c.Stream = "ptzd:commands"
	}
	if c.MaxLen <= 0 {
		c.MaxLen = 10000
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}
