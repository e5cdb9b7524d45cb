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
	"net"

	"github.com/spf13/cobra"

	"github.com/packetd/ptzd/sniffer/serialport"
)

var listIfaces bool

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List all available serial ports",
	Run: func(cmd *cobra.Command, args []string) {
		ports, err := serialport.ListPorts()
		if err != nil {
			exitf("failed to list serial ports: %v", err)
		}
		if len(ports) == 0 {
			fmt.Println("no serial ports found")
		}
		for _, port := range ports {
			if port.USB {
				fmt.Printf("- %s: usb %s:%s %s %s\n", port.Name, port.VID, port.PID, port.SerialNumber, port.Product)
				continue
			}
			fmt.Printf("- %s\n", port.Name)
		}

		if !listIfaces {
			return
		}
		ifaces, err := net.Interfaces()
		if err != nil {
			exitf("failed to list interfaces: %v", err)
		}
		for _, iface := range ifaces {
			addr, err := iface.Addrs()
			if err != nil {
				continue
			}
			fmt.Printf("- %s: %v\n", iface.Name, addr)
		}
	},
}

func init() {
	portsCmd.Flags().BoolVar(&listIfaces, "ifaces", false, "Also list network interfaces for the log command")
	rootCmd.AddCommand(portsCmd)
}
