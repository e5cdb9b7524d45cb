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
)

var configPath string

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Run ptzd as a telemetry monitoring agent",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := confengine.LoadConfigPath(configPath)
		if err != nil {
			exitf("failed to load config: %v", err)
		}
		runController(cfg, configPath)
	},
	Example: "# ptzd agent --config ptzd.yaml",
}

func init() {
	agentCmd.Flags().StringVar(&configPath, "config", "ptzd.yaml", "Configuration file path")
	rootCmd.AddCommand(agentCmd)
}
