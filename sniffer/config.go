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
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/packetd/ptzd/common"
)

const (
	EngineSerial = "serial"
	EngineTCP    = "tcp"
	EnginePcap   = "pcap"
	EngineReplay = "replay"
)

type Config struct {
	Engine string       `config:"engine"`
	Serial SerialConfig `config:"serial"`
	TCP    TCPConfig    `config:"tcp"`
	Pcap   PcapConfig   `config:"pcap"`
	Replay ReplayConfig `config:"replay"`

	// Options 引擎扩展参数 如 readTimeout / reconnectInterval / interval
	Options common.Options `config:"options"`
}

func (c *Config) Validate() {
	if c.Engine == "" {
		c.Engine = EngineSerial
	}
	if c.Options == nil {
		c.Options = common.NewOptions()
	}
	c.Serial.Validate()
	c.TCP.Validate()
}

// SerialConfig 串口数据源配置
type SerialConfig struct {
	Ports    []string `config:"ports"`
	BaudRate int      `config:"baudRate"`
	DataBits int      `config:"dataBits"`
	Parity   string   `config:"parity"`
	StopBits int      `config:"stopBits"`
}

// Validate 默认 2400 8-N-1
func (c *SerialConfig) Validate() {
	if c.BaudRate <= 0 {
		c.BaudRate = 2400
	}
	if c.DataBits <= 0 {
		c.DataBits = 8
	}
	if c.Parity == "" {
		c.Parity = "none"
	}
	if c.StopBits <= 0 {
		c.StopBits = 1
	}
}

// TCPConfig 网络数据源配置
//
// Listen 接收连接 Dial 主动连接串口服务器 两者可以同时存在
type TCPConfig struct {
	Listen string   `config:"listen"`
	Dial   []string `config:"dial"`
}

func (c *TCPConfig) Validate() {
	if c.Listen == "" && len(c.Dial) == 0 {
		c.Listen = "127.0.0.1:9000"
	}
}

// PcapConfig 抓包数据源配置
type PcapConfig struct {
	File          string     `config:"file"`
	Ifaces        string     `config:"ifaces"`
	IPv4Only      bool       `config:"ipv4Only"`
	NoPromiscuous bool       `config:"noPromiscuous"`
	Rules         []PortRule `config:"rules"`
}

// PortRule 承载云台控制数据的端口规则
type PortRule struct {
	Name  string   `config:"name"`
	L4    string   `config:"l4"`
	Host  string   `config:"host"`
	Ports []uint16 `config:"ports"`
}

func (r PortRule) compileBPFFilter() string {
	var buf strings.Builder
	buf.WriteString("(")
	buf.WriteString(r.L4)

	if r.Host != "" {
		buf.WriteString(" and host ")
		buf.WriteString(r.Host)
	}

	switch len(r.Ports) {
	case 0:
		return ""

	case 1:
		buf.WriteString(" and port ")
		buf.WriteString(strconv.Itoa(int(r.Ports[0])))

	default:
		for i := 0; i < len(r.Ports); i++ {
			if i > 0 {
				buf.WriteString(" or port ")
				buf.WriteString(strconv.Itoa(int(r.Ports[i])))
				continue
			}
			buf.WriteString(" and ( port ")
			buf.WriteString(strconv.Itoa(int(r.Ports[i])))
		}
		buf.WriteString(" )")
	}

	buf.WriteString(")")
	return buf.String()
}

// CompileBPFFilter 编译 BPF 端口规则 没有端口的规则会被忽略
func (c PcapConfig) CompileBPFFilter() (string, error) {
	var filters []string
	for _, r := range c.Rules {
		switch r.L4 {
		case "tcp", "udp":
		default:
			return "", errors.Errorf("unsupported l4 protocol (%s)", r.L4)
		}
		if f := r.compileBPFFilter(); f != "" {
			filters = append(filters, f)
		}
	}
	return strings.Join(filters, " or "), nil
}

// ReplayConfig 回放数据源配置
//
// Format 为 log 时读取 Rx[hh].. 行 为 raw 时整个文件视为原始字节
type ReplayConfig struct {
	File   string `config:"file"`
	Format string `config:"format"`
}
