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

package sniffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileBPFFilter(t *testing.T) {
	tests := []struct {
		name  string
		rules []PortRule
		want  string
		err   bool
	}{
		{
			name: "Single rule",
			rules: []PortRule{
				{
					L4:    "tcp",
					Host:  "10.0.0.2",
					Ports: []uint16{4001},
				},
			},
			want: "(tcp and host 10.0.0.2 and port 4001)",
		},
		{
			name: "Nil ports",
			rules: []PortRule{
				{
					L4:    "tcp",
					Host:  "10.0.0.2",
					Ports: []uint16{4001},
				},
				{
					L4:   "udp",
					Host: "10.0.0.2",
				},
			},
			want: "(tcp and host 10.0.0.2 and port 4001)",
		},
		{
			name: "Multiple rules",
			rules: []PortRule{
				{
					L4:    "tcp",
					Host:  "10.0.0.2",
					Ports: []uint16{4001, 4002},
				},
				{
					L4:    "udp",
					Ports: []uint16{52381},
				},
			},
			want: "(tcp and host 10.0.0.2 and ( port 4001 or port 4002 )) or (udp and port 52381)",
		},
		{
			name: "Unsupported l4",
			rules: []PortRule{
				{
					L4:    "sctp",
					Ports: []uint16{1},
				},
			},
			err: true,
		},
		{
			name: "Without host and port",
			rules: []PortRule{
				{
					L4: "tcp",
				},
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := PcapConfig{Rules: tt.rules}
			got, err := c.CompileBPFFilter()
			if tt.err {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	var c Config
	c.Validate()

	assert.Equal(t, EngineSerial, c.Engine)
	assert.Equal(t, SerialConfig{BaudRate: 2400, DataBits: 8, Parity: "none", StopBits: 1}, c.Serial)
	assert.Equal(t, "127.0.0.1:9000", c.TCP.Listen)
	assert.NotNil(t, c.Options)

	c = Config{TCP: TCPConfig{Dial: []string{"10.0.0.9:4001"}}}
	c.Validate()
	assert.Empty(t, c.TCP.Listen)
}
