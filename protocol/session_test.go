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

package protocol_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/protocol"
)

func TestSessionPool(t *testing.T) {
	var invalid int
	pool, err := protocol.NewSessionPool([]telemetry.Proto{telemetry.ProtoPelcoD}, func(telemetry.Proto, []byte) {
		invalid++
	})
	require.NoError(t, err)

	s1 := pool.GetOrCreate("serial:/dev/ttyUSB0")
	s2 := pool.GetOrCreate("serial:/dev/ttyUSB0")
	assert.Same(t, s1, s2)
	assert.NotEmpty(t, s1.ID())
	assert.Equal(t, 1, pool.ActiveSessions())

	// 会话之间状态隔离
	s3 := pool.GetOrCreate("tcp:127.0.0.1:5000")
	assert.Empty(t, s1.Consume(pelcoDPanLeft[:4], time.Now()))
	assert.Empty(t, s3.Consume(pelcoDPanLeft[4:], time.Now()))
	cmds := s1.Consume(pelcoDPanLeft[4:], time.Now())
	require.Len(t, cmds, 1)
	assert.Equal(t, "serial:/dev/ttyUSB0", cmds[0].Stream)

	s1.Consume([]byte{0xFF, 0x42, 0x42, 0x42, 0x42, 0x42, 0x42}, time.Now())
	assert.Equal(t, 1, invalid)

	infos := pool.Sessions()
	require.Len(t, infos, 2)
	assert.Equal(t, "serial:/dev/ttyUSB0", infos[0].Stream)
	assert.Equal(t, uint64(14), infos[0].Stats.Bytes)
	assert.Equal(t, uint64(1), infos[0].Stats.Protos[telemetry.ProtoPelcoD].Frames)

	var streams []string
	pool.OnStats(func(stream string, stats protocol.Stats) {
		streams = append(streams, stream)
	})
	assert.ElementsMatch(t, []string{"serial:/dev/ttyUSB0", "tcp:127.0.0.1:5000"}, streams)

	pool.Delete("tcp:127.0.0.1:5000")
	assert.Equal(t, 1, pool.ActiveSessions())

	removed := pool.RemoveExpired(-time.Second)
	assert.Equal(t, []string{"serial:/dev/ttyUSB0"}, removed)
	assert.Equal(t, 0, pool.ActiveSessions())
}

func TestSessionPoolReload(t *testing.T) {
	pool, err := protocol.NewSessionPool(nil, nil)
	require.NoError(t, err)

	pool.GetOrCreate("a")
	assert.Error(t, pool.Reload([]telemetry.Proto{"unknown"}))
	assert.Equal(t, 1, pool.ActiveSessions())

	require.NoError(t, pool.Reload([]telemetry.Proto{telemetry.ProtoBosch}))
	assert.Equal(t, 0, pool.ActiveSessions())
	assert.Equal(t, []telemetry.Proto{telemetry.ProtoBosch}, pool.GetOrCreate("a").Info().Protocols)
}

func TestNewSessionPoolInvalid(t *testing.T) {
	_, err := protocol.NewSessionPool([]telemetry.Proto{"unknown"}, nil)
	assert.Error(t, err)
}
