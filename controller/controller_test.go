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
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/ptzd/common"
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/confengine"
	"github.com/packetd/ptzd/exporter"
	"github.com/packetd/ptzd/internal/json"
	"github.com/packetd/ptzd/pipeline"
	"github.com/packetd/ptzd/processor"
	"github.com/packetd/ptzd/sniffer"
)

type mockSniffer struct {
	onChunk sniffer.OnChunk
	started bool
	closed  bool
}

func (m *mockSniffer) Name() string                 { return "mock" }
func (m *mockSniffer) SetOnChunk(f sniffer.OnChunk) { m.onChunk = f }
func (m *mockSniffer) Stats() sniffer.Stats         { return sniffer.Stats{} }
func (m *mockSniffer) Close()                       { m.closed = true }

func (m *mockSniffer) Start() error {
	m.started = true
	return nil
}

func (m *mockSniffer) emit(stream string, payload []byte, closed bool) {
	m.onChunk(telemetry.Chunk{
		Stream:  stream,
		Time:    time.Now(),
		Payload: payload,
		Closed:  closed,
	})
}

func newTestController(t *testing.T, cfg Config) (*Controller, *mockSniffer) {
	psmgr, err := processor.NewManagerWithConfigs(nil)
	require.NoError(t, err)
	pl, err := pipeline.NewWithManager(nil, psmgr)
	require.NoError(t, err)
	exp, err := exporter.NewWithConfig(exporter.Config{})
	require.NoError(t, err)

	snif := &mockSniffer{}
	c, err := newController(cfg, common.BuildInfo{Version: "test"}, snif, pl, exp, nil)
	require.NoError(t, err)
	return c, snif
}

func TestConfigProtos(t *testing.T) {
	tests := []struct {
		name      string
		protocols []string
		want      []telemetry.Proto
		wantErr   bool
	}{
		{
			name: "Empty",
		},
		{
			name:      "Normalize",
			protocols: []string{" PelcoD ", "visca", ""},
			want:      []telemetry.Proto{telemetry.ProtoPelcoD, telemetry.ProtoVISCA},
		},
		{
			name:      "BBV422 merged into Pelco P",
			protocols: []string{"bbv422", "pelcop"},
			want:      []telemetry.Proto{telemetry.ProtoPelcoP},
		},
		{
			name:      "Unknown",
			protocols: []string{"pelcod", "modbus"},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Protocols: tt.protocols}
			protos, err := cfg.Protos()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, protos)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	var cfg Config
	cfg.Validate()
	assert.Equal(t, 5*time.Minute, cfg.SessionExpired)
	assert.Equal(t, 100*time.Millisecond, cfg.InvalidLogInterval)
}

func TestNewControllerUnknownProtocol(t *testing.T) {
	psmgr, err := processor.NewManagerWithConfigs(nil)
	require.NoError(t, err)
	pl, err := pipeline.NewWithManager(nil, psmgr)
	require.NoError(t, err)
	exp, err := exporter.NewWithConfig(exporter.Config{})
	require.NoError(t, err)

	_, err = newController(Config{Protocols: []string{"modbus"}}, common.BuildInfo{}, &mockSniffer{}, pl, exp, nil)
	assert.Error(t, err)
}

func TestControllerDecode(t *testing.T) {
	c, snif := newTestController(t, Config{RawBytes: true})
	require.NoError(t, c.Start())
	defer c.Stop()
	assert.True(t, snif.started)

	queue := c.bus.Subscribe(10, protoFilter("pelcod"))
	defer c.bus.Unsubscribe(queue)

	// Pelco D 1 号摄像机左转 速度 0x20 帧分两段到达
	snif.emit("serial:COM1", []byte{0xff, 0x01, 0x00}, false)
	snif.emit("serial:COM1", []byte{0x04, 0x20, 0x00, 0x25}, false)
	assert.Equal(t, 1, c.pool.ActiveSessions())

	data, ok := queue.PopTimeout(time.Second)
	require.True(t, ok)
	cmd, ok := data.(*telemetry.Command)
	require.True(t, ok)
	assert.Equal(t, telemetry.ProtoPelcoD, cmd.Proto)
	assert.Equal(t, 1, cmd.Camera)
	assert.Equal(t, "serial:COM1", cmd.Stream)
	assert.Equal(t, "[ff][01][00][04][20][00][25]", cmd.Hex)

	snif.emit("serial:COM1", nil, true)
	assert.Equal(t, 0, c.pool.ActiveSessions())
}

func TestControllerInvalidChecksum(t *testing.T) {
	c, snif := newTestController(t, Config{Protocols: []string{"pelcod"}})
	require.NoError(t, c.Start())
	defer c.Stop()

	snif.emit("tcp:10.0.0.1:4001", []byte{0xff, 0x01, 0x00, 0x04, 0x20, 0x00, 0x26}, false)

	sessions := c.pool.Sessions()
	require.Len(t, sessions, 1)
	assert.Equal(t, uint64(1), sessions[0].Stats.Protos[telemetry.ProtoPelcoD].ChecksumErrors)
	assert.Equal(t, []telemetry.Proto{telemetry.ProtoPelcoD}, sessions[0].Protocols)
}

func TestControllerReload(t *testing.T) {
	c, snif := newTestController(t, Config{})
	require.NoError(t, c.Start())
	defer c.Stop()

	snif.emit("serial:COM1", []byte{0xff}, false)
	assert.Equal(t, 1, c.pool.ActiveSessions())

	conf, err := confengine.LoadContent([]byte(`
controller:
  protocols: [visca, jvc]
  sessionExpired: 10m
`))
	require.NoError(t, err)
	require.NoError(t, c.Reload(conf))
	assert.Equal(t, 0, c.pool.ActiveSessions())
	assert.Equal(t, 10*time.Minute, c.cfg.SessionExpired)

	conf, err = confengine.LoadContent([]byte(`
controller:
  protocols: [modbus]
`))
	require.NoError(t, err)
	assert.Error(t, c.Reload(conf))
	assert.Equal(t, []string{"visca", "jvc"}, c.cfg.Protocols)
}

func TestRouteProtocols(t *testing.T) {
	c, _ := newTestController(t, Config{Protocols: []string{"pelcod", "bbv422"}})

	rec := httptest.NewRecorder()
	c.routeProtocols(rec, httptest.NewRequest(http.MethodGet, "/protocols", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var infos []protocolInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	enabled := make(map[telemetry.Proto]bool)
	for _, info := range infos {
		enabled[info.Proto] = info.Enabled
	}
	assert.Len(t, infos, len(telemetry.Order()))
	assert.True(t, enabled[telemetry.ProtoPelcoD])
	assert.True(t, enabled[telemetry.ProtoPelcoP])
	assert.False(t, enabled[telemetry.ProtoVISCA])
}

func TestRouteSessions(t *testing.T) {
	c, snif := newTestController(t, Config{})
	require.NoError(t, c.Start())
	defer c.Stop()

	snif.emit("serial:COM2", []byte{0x01, 0x02}, false)
	snif.emit("serial:COM1", []byte{0x03}, false)

	rec := httptest.NewRecorder()
	c.routeSessions(rec, httptest.NewRequest(http.MethodGet, "/sessions", nil))

	var sessions []struct {
		Stream string `json:"stream"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
	require.Len(t, sessions, 2)
	assert.Equal(t, "serial:COM1", sessions[0].Stream)
	assert.Equal(t, "serial:COM2", sessions[1].Stream)
}

func TestRouteWatch(t *testing.T) {
	c, snif := newTestController(t, Config{})
	require.NoError(t, c.Start())
	defer c.Stop()

	done := make(chan string)
	go func() {
		rec := httptest.NewRecorder()
		c.routeWatch(rec, httptest.NewRequest(http.MethodGet, "/watch?proto=pelcod&max_message=1&timeout=2s", nil))
		done <- rec.Body.String()
	}()

	assert.Eventually(t, func() bool {
		return c.bus.Num() == 1
	}, time.Second, 10*time.Millisecond)
	snif.emit("serial:COM1", []byte{0xff, 0x01, 0x00, 0x04, 0x20, 0x00, 0x25}, false)

	body := <-done
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"proto":"pelcod"`)
}

func TestProtoFilter(t *testing.T) {
	assert.Nil(t, protoFilter(""))

	f := protoFilter("visca, JVC")
	assert.True(t, f(&telemetry.Command{Proto: telemetry.ProtoVISCA}))
	assert.True(t, f(&telemetry.Command{Proto: telemetry.ProtoJVC}))
	assert.False(t, f(&telemetry.Command{Proto: telemetry.ProtoPelcoD}))
	assert.False(t, f("[ff]"))
}
