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
)

// outputConfig watch 与 log 共用的输出参数
type outputConfig struct {
	Protocols  []string
	Format     string
	Verbose    bool
	NoLog      bool
	LogFile    string
	LogLevel   string
	Server     string
	NATS       string
	Redis      string
	DedupAfter string
}

// RawBytes 是否需要原始字节记录
//
// 文本日志文件始终记录原始字节 控制台仅在 verbose 时输出
func (c outputConfig) RawBytes() bool {
	if c.Verbose {
		return true
	}
	return !c.NoLog && c.Format == "text"
}

func (c *outputConfig) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&c.Protocols, "proto", nil, "Protocols to decode, defaults to all protocols")
	cmd.Flags().StringVar(&c.Format, "format", "text", "Output format [text|json]")
	cmd.Flags().BoolVar(&c.Verbose, "verbose", false, "Echo raw received bytes on the console")
	cmd.Flags().BoolVar(&c.NoLog, "nolog", false, "Disable the capture log file")
	cmd.Flags().StringVar(&c.LogFile, "logfile", "", "Path to capture log file, defaults to log_YYYY_MM_DD_HH_MM_SS.txt")
	cmd.Flags().StringVar(&c.LogLevel, "level", "info", "Logger level [debug|info|warn|error]")
	cmd.Flags().StringVar(&c.Server, "server", "", "HTTP server address, empty disables the server")
	cmd.Flags().StringVar(&c.NATS, "nats", "", "Publish decoded commands to this NATS server")
	cmd.Flags().StringVar(&c.Redis, "redis", "", "Append decoded commands to a Redis stream on this address")
	cmd.Flags().StringVar(&c.DedupAfter, "dedup", "", "Suppress identical commands repeated within this window, e.g. 1s")
}

const outputTemplate = `
logger:
  stdout: true
  level: {{ .Output.LogLevel }}

server:
  enabled: {{ ne .Output.Server "" }}
  address: '{{ .Output.Server }}'

controller:
  protocols: {{ list .Output.Protocols }}
  rawBytes: {{ .Output.RawBytes }}

{{- if ne .Output.DedupAfter "" }}
processor:
  - name: dedup
    config:
      window: {{ .Output.DedupAfter }}

pipeline:
  - name: commands
    recordType: commands
    processors: [dedup]
{{- end }}

exporter:
  console:
    enabled: true
    format: {{ .Output.Format }}
    stdout: true
    verbose: {{ .Output.Verbose }}
    nolog: {{ .Output.NoLog }}
    filename: '{{ .Output.LogFile }}'
  nats:
    enabled: {{ ne .Output.NATS "" }}
    url: '{{ .Output.NATS }}'
  redis:
    enabled: {{ ne .Output.Redis "" }}
    addr: '{{ .Output.Redis }}'
`
