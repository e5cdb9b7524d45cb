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

package netconn

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/ptzd/common"
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/sniffer"
)

func newTestSniffer(t *testing.T, conf sniffer.TCPConfig) (*tcpSniffer, chan telemetry.Chunk) {
	snif, err := New(&sniffer.Config{TCP: conf, Options: common.Options{"reconnectInterval": "50ms"}})
	require.NoError(t, err)

	ch := make(chan telemetry.Chunk, 16)
	snif.SetOnChunk(func(chunk telemetry.Chunk) {
		ch <- chunk
	})
	require.NoError(t, snif.Start())
	t.Cleanup(snif.Close)
	return snif.(*tcpSniffer), ch
}

func recv(t *testing.T, ch chan telemetry.Chunk) telemetry.Chunk {
	select {
	case chunk := <-ch:
		return chunk
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for chunk")
	}
	return telemetry.Chunk{}
}

func TestListen(t *testing.T) {
	snif, ch := newTestSniffer(t, sniffer.TCPConfig{Listen: "127.0.0.1:0"})

	conn, err := net.Dial("tcp", snif.ln.Addr().String())
	require.NoError(t, err)

	frame := []byte{0xFF, 0x01, 0x00, 0x08, 0x00, 0x3F, 0x48}
	_, err = conn.Write(frame)
	require.NoError(t, err)

	var got []byte
	var stream string
	for len(got) < len(frame) {
		chunk := recv(t, ch)
		stream = chunk.Stream
		got = append(got, chunk.Payload...)
	}
	assert.Equal(t, frame, got)
	assert.Equal(t, StreamID(conn.LocalAddr().String()), stream)

	require.NoError(t, conn.Close())
	chunk := recv(t, ch)
	assert.True(t, chunk.Closed)
	assert.Equal(t, stream, chunk.Stream)

	stats := snif.Stats()
	assert.Equal(t, uint64(len(frame)), stats.Bytes)
}

func TestDial(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	_, ch := newTestSniffer(t, sniffer.TCPConfig{Dial: []string{ln.Addr().String()}})

	conn, err := ln.Accept()
	require.NoError(t, err)

	_, err = conn.Write([]byte{0xA0})
	require.NoError(t, err)

	chunk := recv(t, ch)
	assert.Equal(t, StreamID(ln.Addr().String()), chunk.Stream)
	assert.Equal(t, []byte{0xA0}, chunk.Payload)

	// 对端断开后自动重连
	require.NoError(t, conn.Close())
	assert.True(t, recv(t, ch).Closed)

	conn, err = ln.Accept()
	require.NoError(t, err)
	conn.Close()
}
