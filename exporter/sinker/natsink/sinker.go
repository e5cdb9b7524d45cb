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

package natsink

import (
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"github.com/packetd/ptzd/common"
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/exporter"
	"github.com/packetd/ptzd/internal/json"
	"github.com/packetd/ptzd/logger"
)

func init() {
	exporter.Register(exporter.SinkerNATS, New)
}

// Subject 返回命令发布的主题 按协议区分 便于订阅方使用通配符
func Subject(prefix string, proto telemetry.Proto) string {
	return prefix + "." + string(proto)
}

type Sinker struct {
	conn *nats.Conn
	cfg  exporter.NATSConfig
}

func New(conf exporter.Config) (exporter.Sinker, error) {
	cfg := conf.NATS
	cfg.Validate()

	conn, err := nats.Connect(cfg.URL,
		nats.Name(common.App),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warnf("nats disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Infof("nats reconnected to %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "connect nats %s", cfg.URL)
	}

	return &Sinker{conn: conn, cfg: cfg}, nil
}

func (s *Sinker) Name() string {
	return exporter.SinkerNATS
}

// Sink 仅发布解码后的命令 原始字节不发布
func (s *Sinker) Sink(data any) error {
	cmd, ok := data.(*telemetry.Command)
	if !ok {
		return nil
	}

	b, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	return s.conn.Publish(Subject(s.cfg.Subject, cmd.Proto), b)
}

// Close 发送完缓冲区中的消息后关闭连接
func (s *Sinker) Close() error {
	return s.conn.Drain()
}
