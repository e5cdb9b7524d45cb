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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/packetd/ptzd/protocol"
)

var protocolsCmd = &cobra.Command{
	Use:   "protocols",
	Short: "List supported PTZ protocols in dispatch order",
	Run: func(cmd *cobra.Command, args []string) {
		for _, proto := range protocol.Protocols() {
			fmt.Printf("- %-14s %s\n", proto, proto.DisplayName())
		}
	},
}

func init() {
	rootCmd.AddCommand(protocolsCmd)
}
