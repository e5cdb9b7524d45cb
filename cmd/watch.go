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
	"github.com/spf13/cobra"

	"github.com/packetd/ptzd/confengine"
	"github.com/packetd/ptzd/sniffer"
)

type watchCmdConfig struct {
	Output outputConfig

	Ports    []string
	BaudRate int
	DataBits int
	Parity   string
	StopBits int

	Listen string
	Dial   []string

	Replay string
}

// Engine 根据参数选择数据源 优先级 replay > tcp > serial
func (c *watchCmdConfig) Engine() string {
	switch {
	case c.Replay != "":
		return sniffer.EngineReplay
	case c.Listen != "" || len(c.Dial) > 0:
		return sniffer.EngineTCP
	}
	return sniffer.EngineSerial
}

func (c *watchCmdConfig) Yaml() ([]byte, error) {
	text := outputTemplate + `
sniffer:
  engine: {{ .Engine }}
  serial:
    ports: {{ list .Ports }}
    baudRate: {{ .BaudRate }}
    dataBits: {{ .DataBits }}
    parity: '{{ .Parity }}'
    stopBits: {{ .StopBits }}
  tcp:
    listen: '{{ .Listen }}'
    dial: {{ list .Dial }}
  replay:
    file: '{{ .Replay }}'
`
	return renderConfig(text, c)
}

var watchConfig watchCmdConfig

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Decode PTZ telemetry from serial ports, TCP connections or a capture log",
	Run: func(cmd *cobra.Command, args []string) {
		content, err := watchConfig.Yaml()
		if err != nil {
			exitf("failed to render config: %v", err)
		}
		cfg, err := confengine.LoadContent(content)
		if err != nil {
			exitf("failed to load config: %v", err)
		}
		runController(cfg, "")
	},
	Example: `# ptzd watch --port /dev/ttyUSB0 --baud 9600
# ptzd watch --listen 0.0.0.0:9000 --proto pelcod,pelcop --verbose
# ptzd watch --replay log_2025_01_02_10_00_00.txt --nolog`,
}

func init() {
	watchConfig.Output.bindFlags(watchCmd)
	watchCmd.Flags().StringSliceVar(&watchConfig.Ports, "port", nil, "Serial ports to listen on, multiple ports supported")
	watchCmd.Flags().IntVar(&watchConfig.BaudRate, "baud", 2400, "Serial baud rate")
	watchCmd.Flags().IntVar(&watchConfig.DataBits, "databits", 8, "Serial data bits")
	watchCmd.Flags().StringVar(&watchConfig.Parity, "parity", "none", "Serial parity [none|odd|even|mark|space]")
	watchCmd.Flags().IntVar(&watchConfig.StopBits, "stopbits", 1, "Serial stop bits [1|2]")
	watchCmd.Flags().StringVar(&watchConfig.Listen, "listen", "", "Accept telemetry on this TCP address")
	watchCmd.Flags().StringSliceVar(&watchConfig.Dial, "dial", nil, "Connect to serial device servers on these TCP addresses")
	watchCmd.Flags().StringVar(&watchConfig.Replay, "replay", "", "Replay a capture log or raw byte dump")
	rootCmd.AddCommand(watchCmd)
}
