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

package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/ptzd/confengine"
	"github.com/packetd/ptzd/controller"
	"github.com/packetd/ptzd/exporter"
	"github.com/packetd/ptzd/sniffer"
)

func TestWatchYaml(t *testing.T) {
	tests := []struct {
		name   string
		config watchCmdConfig
		engine string
	}{
		{
			name: "Serial",
			config: watchCmdConfig{
				Ports:    []string{"/dev/ttyUSB0", "COM'3"},
				BaudRate: 9600,
				DataBits: 8,
				Parity:   "even",
				StopBits: 1,
			},
			engine: sniffer.EngineSerial,
		},
		{
			name: "TCP",
			config: watchCmdConfig{
				Listen: "0.0.0.0:9000",
				Dial:   []string{"10.0.0.5:4001"},
			},
			engine: sniffer.EngineTCP,
		},
		{
			name: "Replay",
			config: watchCmdConfig{
				Listen: "0.0.0.0:9000",
				Replay: "log_2025_01_02_10_00_00.txt",
			},
			engine: sniffer.EngineReplay,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.config.Output = outputConfig{Format: "text", LogLevel: "info", Protocols: []string{"pelcod", "visca"}}
			content, err := tt.config.Yaml()
			require.NoError(t, err)

			conf, err := confengine.LoadContent(content)
			require.NoError(t, err)

			var snif sniffer.Config
			require.NoError(t, conf.UnpackChild("sniffer", &snif))
			assert.Equal(t, tt.engine, snif.Engine)
			assert.ElementsMatch(t, tt.config.Ports, snif.Serial.Ports)
			assert.Equal(t, tt.config.Listen, snif.TCP.Listen)
			assert.Equal(t, tt.config.Replay, snif.Replay.File)

			var ctr controller.Config
			require.NoError(t, conf.UnpackChild("controller", &ctr))
			assert.Equal(t, []string{"pelcod", "visca"}, ctr.Protocols)
			assert.True(t, ctr.RawBytes)

			var exp exporter.Config
			require.NoError(t, conf.UnpackChild("exporter", &exp))
			assert.True(t, exp.Console.Enabled)
			assert.False(t, exp.NATS.Enabled)
			assert.False(t, exp.Redis.Enabled)
		})
	}
}

func TestOutputYaml(t *testing.T) {
	c := watchCmdConfig{
		Output: outputConfig{
			Format:     "json",
			LogLevel:   "debug",
			NoLog:      true,
			Server:     "127.0.0.1:9091",
			NATS:       "nats://127.0.0.1:4222",
			Redis:      "127.0.0.1:6379",
			DedupAfter: "2s",
		},
	}
	content, err := c.Yaml()
	require.NoError(t, err)

	conf, err := confengine.LoadContent(content)
	require.NoError(t, err)

	var exp exporter.Config
	require.NoError(t, conf.UnpackChild("exporter", &exp))
	assert.Equal(t, "json", exp.Console.Format)
	assert.True(t, exp.Console.NoLog)
	assert.True(t, exp.NATS.Enabled)
	assert.Equal(t, "nats://127.0.0.1:4222", exp.NATS.URL)
	assert.True(t, exp.Redis.Enabled)

	var ctr controller.Config
	require.NoError(t, conf.UnpackChild("controller", &ctr))
	assert.False(t, ctr.RawBytes)
	assert.True(t, conf.Has("processor"))
	assert.True(t, conf.Has("pipeline"))
}

func TestLogYaml(t *testing.T) {
	c := logCmdConfig{
		Output: outputConfig{Format: "text", LogLevel: "info"},
		Ifaces: "eth0",
		Rules:  []string{"tcp;4001,4002", "UDP;5000;10.0.0.8"},
	}
	content, err := c.Yaml()
	require.NoError(t, err)

	conf, err := confengine.LoadContent(content)
	require.NoError(t, err)

	var snif sniffer.Config
	require.NoError(t, conf.UnpackChild("sniffer", &snif))
	assert.Equal(t, sniffer.EnginePcap, snif.Engine)
	assert.Equal(t, "eth0", snif.Pcap.Ifaces)
	require.Len(t, snif.Pcap.Rules, 2)
	assert.Equal(t, "tcp", snif.Pcap.Rules[0].L4)
	assert.Equal(t, []uint16{4001, 4002}, snif.Pcap.Rules[0].Ports)
	assert.Equal(t, "udp", snif.Pcap.Rules[1].L4)
	assert.Equal(t, "10.0.0.8", snif.Pcap.Rules[1].Host)
}

func TestDecodeRules(t *testing.T) {
	tests := []struct {
		rule    string
		wantErr bool
	}{
		{rule: "tcp;4001"},
		{rule: "udp;5000,5001;10.0.0.1"},
		{rule: "tcp", wantErr: true},
		{rule: "tcp;http", wantErr: true},
		{rule: "tcp;70000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			c := logCmdConfig{Rules: []string{tt.rule}}
			_, err := c.decodeRules()
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		config  decodeCmdConfig
		input   string
		want    []string
		wantErr bool
	}{
		{
			name:   "Args",
			config: decodeCmdConfig{Protocols: []string{"pelcod"}},
			input:  "ff 01 00 04 20 00 25",
			want:   []string{"[ff][01][00][04][20][00][25] Pelco D"},
		},
		{
			name:   "CaptureLog",
			config: decodeCmdConfig{Protocols: []string{"pelcod"}},
			input:  "Rx[ff][01][00]\r\n=>ignored\r\nRx[04][20][00][25]\r\n",
			want:   []string{"[ff][01][00][04][20][00][25] Pelco D"},
		},
		{
			name:   "Invalid",
			config: decodeCmdConfig{Protocols: []string{"pelcod"}, Invalid: true},
			input:  "ff 01 00 04 20 00 26",
			want:   []string{"[ff][01][00][04][20][00][26] Invalid Checksum (Pelco D)"},
		},
		{
			name:    "BadHex",
			input:   "ff zz",
			wantErr: true,
		},
		{
			name:    "UnknownProtocol",
			config:  decodeCmdConfig{Protocols: []string{"modbus"}},
			input:   "ff",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := tt.config.run([]byte(tt.input), &buf)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, len(tt.want))
			for i := range tt.want {
				assert.True(t, strings.HasPrefix(lines[i], tt.want[i]), lines[i])
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	c := decodeCmdConfig{Protocols: []string{"pelcod"}, JSON: true}
	var buf bytes.Buffer
	require.NoError(t, c.run([]byte("ff 01 00 04 20 00 25"), &buf))
	assert.Contains(t, buf.String(), `"proto":"pelcod"`)
	assert.Contains(t, buf.String(), `"camera":1`)
}
