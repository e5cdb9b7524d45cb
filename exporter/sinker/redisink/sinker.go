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

package redisink

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/exporter"
)

func init() {
	exporter.Register(exporter.SinkerRedis, New)
}

// Values 将命令转换为 Stream 记录字段
func Values(cmd *telemetry.Command) map[string]any {
	values := map[string]any{
		"proto":       string(cmd.Proto),
		"camera":      cmd.Camera,
		"hex":         cmd.Hex,
		"description": cmd.Description,
		"time":        cmd.Time.Format(time.RFC3339Nano),
	}
	if cmd.Stream != "" {
		values["stream"] = cmd.Stream
	}
	if cmd.Target != "" {
		values["target"] = cmd.Target
	}
	if cmd.Unknown() {
		values["unknown"] = 1
	}
	return values
}

type Sinker struct {
	client *redis.Client
	cfg    exporter.RedisConfig
}

func New(conf exporter.Config) (exporter.Sinker, error) {
	cfg := conf.Redis
	cfg.Validate()

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "connect redis %s", cfg.Addr)
	}
	return &Sinker{client: client, cfg: cfg}, nil
}

func (s *Sinker) Name() string {
	return exporter.SinkerRedis
}

// Sink 使用 XADD 追加到定长 Stream 原始字节不写入
func (s *Sinker) Sink(data any) error {
	cmd, ok := data.(*telemetry.Command)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Timeout)
	defer cancel()

	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.cfg.Stream,
		MaxLen: s.cfg.MaxLen,
		Approx: true,
		Values: Values(cmd),
	}).Err()
}

func (s *Sinker) Close() error {
	return s.client.Close()
}
