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
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/controller"
	"github.com/packetd/ptzd/internal/json"
	"github.com/packetd/ptzd/internal/splitio"
	"github.com/packetd/ptzd/protocol"
)

type decodeCmdConfig struct {
	Protocols []string
	JSON      bool
	Invalid   bool
}

// parseInput 解析十六进制输入 兼容抓包日志中的 Rx 行 忽略 => 解码行
func parseInput(data []byte) ([]byte, error) {
	var out []byte
	scanner := splitio.NewScanner(data)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Line())
		if len(line) == 0 || bytes.HasPrefix(line, []byte("=>")) {
			continue
		}
		line = bytes.TrimPrefix(line, []byte("Rx"))

		b, ok := telemetry.ParseHexTokens(string(line))
		if !ok {
			return nil, errors.Errorf("invalid hex input at offset %d: %q", scanner.Offset(), line)
		}
		out = append(out, b...)
	}
	return out, nil
}

func (c *decodeCmdConfig) run(input []byte, w io.Writer) error {
	protos, err := controller.Config{Protocols: c.Protocols}.Protos()
	if err != nil {
		return err
	}

	data, err := parseInput(input)
	if err != nil {
		return err
	}

	d, err := protocol.NewDispatcher("decode", protos...)
	if err != nil {
		return err
	}
	if c.Invalid {
		d.SetOnInvalid(func(proto telemetry.Proto, frame []byte) {
			fmt.Fprintf(w, "%s Invalid Checksum (%s)\n", telemetry.HexTokens(frame), proto.DisplayName())
		})
	}

	enc := json.NewEncoder(w)
	d.ConsumeFunc(data, time.Now(), func(cmd *telemetry.Command) {
		if c.JSON {
			_ = enc.Encode(cmd)
			return
		}
		fmt.Fprintln(w, cmd.String())
	})
	return nil
}

var decodeConfig decodeCmdConfig

var decodeCmd = &cobra.Command{
	Use:   "decode [hex bytes...]",
	Short: "Decode telemetry bytes given as arguments or on stdin",
	Run: func(cmd *cobra.Command, args []string) {
		var input []byte
		if len(args) > 0 {
			input = []byte(strings.Join(args, " "))
		} else {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitf("failed to read stdin: %v", err)
			}
			input = b
		}

		if err := decodeConfig.run(input, os.Stdout); err != nil {
			exitf("failed to decode: %v", err)
		}
	},
	Example: `# ptzd decode ff 01 00 04 20 00 25
# ptzd decode --proto visca < log_2025_01_02_10_00_00.txt`,
}

func init() {
	decodeCmd.Flags().StringSliceVar(&decodeConfig.Protocols, "proto", nil, "Protocols to decode, defaults to all protocols")
	decodeCmd.Flags().BoolVar(&decodeConfig.JSON, "json", false, "Print decoded commands as JSON lines")
	decodeCmd.Flags().BoolVar(&decodeConfig.Invalid, "invalid", false, "Print frames failing checksum validation")
	rootCmd.AddCommand(decodeCmd)
}
