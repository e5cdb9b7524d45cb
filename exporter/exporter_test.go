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
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/ptzd/common"
)

type mockSinker struct {
	name     string
	received []any
	sinkErr  error
	closeErr error
	closed   bool
}

func (m *mockSinker) Name() string { return m.name }

func (m *mockSinker) Sink(data any) error {
	m.received = append(m.received, data)
	return m.sinkErr
}

func (m *mockSinker) Close() error {
	m.closed = true
	return m.closeErr
}

func TestExporter(t *testing.T) {
	console := &mockSinker{name: SinkerConsole}
	nats := &mockSinker{name: SinkerNATS, sinkErr: errors.New("publish failed"), closeErr: errors.New("drain failed")}
	Register(SinkerConsole, func(Config) (Sinker, error) { return console, nil })
	Register(SinkerNATS, func(Config) (Sinker, error) { return nats, nil })
	Register(SinkerRedis, func(Config) (Sinker, error) { return nil, errors.New("redis unreachable") })

	exp, err := NewWithConfig(Config{
		Console: ConsoleConfig{Enabled: true},
		NATS:    NATSConfig{Enabled: true},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{SinkerConsole, SinkerNATS}, exp.Sinkers())

	exp.Export(common.NewRecord(common.RecordCommands, "cmd"))
	assert.Equal(t, []any{"cmd"}, console.received)
	assert.Equal(t, []any{"cmd"}, nats.received)

	err = exp.Close()
	assert.ErrorContains(t, err, "drain failed")
	assert.True(t, console.closed)

	// 任一 Sinker 创建失败时已创建的 Sinker 需要被关闭
	console.closed = false
	_, err = NewWithConfig(Config{
		Console: ConsoleConfig{Enabled: true},
		Redis:   RedisConfig{Enabled: true},
	})
	assert.ErrorContains(t, err, "redis unreachable")
	assert.True(t, console.closed)
}

func TestConfigValidate(t *testing.T) {
	var c Config
	c.Console.Validate()
	c.NATS.Validate()
	c.Redis.Validate()

	assert.Equal(t, FormatText, c.Console.Format)
	assert.Regexp(t, `^log_\d{4}_\d{2}_\d{2}_\d{2}_\d{2}_\d{2}\.txt$`, c.Console.Filename)
	assert.Equal(t, "ptzd.commands", c.NATS.Subject)
	assert.Equal(t, "ptzd:commands", c.Redis.Stream)
	assert.Equal(t, int64(10000), c.Redis.MaxLen)
	assert.Equal(t, "log_2025_03_04_05_06_07.txt", LogFilename(time.Date(2025, 3, 4, 5, 6, 7, 0, time.Local)))
}
