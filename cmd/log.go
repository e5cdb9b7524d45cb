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
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/packetd/ptzd/confengine"
	"github.com/packetd/ptzd/sniffer"
)

type logCmdConfig struct {
	Output outputConfig

	File          string
	Ifaces        string
	IPv4Only      bool
	NoPromiscuous bool
	Rules         []string
}

type portRule struct {
	Name  string
	L4    string
	Ports []int
	Host  string
}

// decodeRules 解析 'l4;ports[;host]' 格式的端口规则
func (c *logCmdConfig) decodeRules() ([]portRule, error) {
	var rules []portRule
	for idx, rule := range c.Rules {
		parts := strings.Split(rule, ";")
		if len(parts) < 2 {
			return nil, errors.Errorf("invalid rule (%s)", rule)
		}

		pr := portRule{
			Name: strconv.Itoa(idx),
			L4:   strings.ToLower(parts[0]),
		}
		for _, port := range strings.Split(parts[1], ",") {
			i, err := strconv.Atoi(strings.TrimSpace(port))
			if err != nil || i <= 0 || i > 65535 {
				return nil, errors.Errorf("invalid port (%s) in rule (%s)", port, rule)
			}
			pr.Ports = append(pr.Ports, i)
		}
		if len(parts) > 2 {
			pr.Host = parts[2]
		}
		rules = append(rules, pr)
	}
	return rules, nil
}

func (c *logCmdConfig) Yaml() ([]byte, error) {
	rules, err := c.decodeRules()
	if err != nil {
		return nil, err
	}

	text := outputTemplate + `
sniffer:
  engine: {{ .Engine }}
  pcap:
    file: '{{ .Config.File }}'
    ifaces: '{{ .Config.Ifaces }}'
    ipv4Only: {{ .Config.IPv4Only }}
    noPromiscuous: {{ .Config.NoPromiscuous }}
    rules:
{{- range .Rules }}
      - name: '{{ .Name }}'
        l4: {{ .L4 }}
        ports: {{ ints .Ports }}
        host: '{{ .Host }}'
{{- end }}
`
	return renderConfig(text, map[string]any{
		"Output": c.Output,
		"Config": c,
		"Engine": sniffer.EnginePcap,
		"Rules":  rules,
	})
}

var logConfig logCmdConfig

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Capture PTZ telemetry carried over TCP/UDP and log decoded commands",
	Run: func(cmd *cobra.Command, args []string) {
		content, err := logConfig.Yaml()
		if err != nil {
			exitf("failed to render config: %v", err)
		}
		cfg, err := confengine.LoadContent(content)
		if err != nil {
			exitf("failed to load config: %v", err)
		}
		runController(cfg, "")
	},
	Example: "# ptzd log --rule 'tcp;4001,4002' --rule 'udp;5000;10.0.0.8' --ifaces any --verbose",
}

func init() {
	logConfig.Output.bindFlags(logCmd)
	logCmd.Flags().BoolVar(&logConfig.NoPromiscuous, "no-promiscuous", false, "Don't put the interface into promiscuous mode")
	logCmd.Flags().StringVar(&logConfig.File, "pcap.file", "", "Path to pcap file to read from")
	logCmd.Flags().StringVar(&logConfig.Ifaces, "ifaces", "any", "Network interfaces to monitor (supports regex), 'any' for all interfaces")
	logCmd.Flags().StringArrayVar(&logConfig.Rules, "rule", nil, "Ports carrying telemetry in 'l4;ports[;host]' format, multiple rules supported")
	logCmd.Flags().BoolVar(&logConfig.IPv4Only, "ipv4", false, "Capture IPv4 traffic only")
	rootCmd.AddCommand(logCmd)
}
