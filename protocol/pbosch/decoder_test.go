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

package pbosch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/packetd/ptzd/common/telemetry"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "Aux off",
			input: []byte{0x86, 0x00, 0x23, 0x07, 0x02, 0x01, 0x33},
			want:  "Bosch Camera 35 [AUX OFF 1]",
		},
		{
			name:  "Aux on wiper",
			input: []byte{0x86, 0x00, 0x31, 0x07, 0x01, 0x05, 0x44},
			want:  "Bosch Camera 49 [AUX ON 5]",
		},
		{
			name:  "Set preset",
			input: []byte{0x86, 0x00, 0x23, 0x07, 0x04, 0x03, 0x37},
			want:  "Bosch Camera 35 [SET PRESET 3]",
		},
		{
			name:  "Goto preset high bank",
			input: []byte{0x86, 0x01, 0x02, 0x07, 0x15, 0x01, 0x26},
			want:  "Bosch Camera 130 [GOTO PRESET 129]",
		},
		{
			name:  "Variable speed pan right",
			input: []byte{0x87, 0x00, 0x23, 0x05, 0x7F, 0x08, 0x01, 0x37},
			want:  "Bosch Camera 35 [PAN RIGHT(127)][tilt stop    ][zoom stop]",
		},
		{
			name:  "Variable speed pan left tilt down",
			input: []byte{0x87, 0x00, 0x23, 0x05, 0x7F, 0x40, 0x22, 0x10},
			want:  "Bosch Camera 35 [PAN LEFT (127)][TILT DOWN(8)][zoom stop]",
		},
		{
			name:  "Variable speed pan right tilt up",
			input: []byte{0x87, 0x00, 0x23, 0x05, 0x7F, 0x78, 0x11, 0x37},
			want:  "Bosch Camera 35 [PAN RIGHT(127)][TILT UP  (15)][zoom stop]",
		},
		{
			name:  "Fixed speed zoom in",
			input: []byte{0x85, 0x00, 0x23, 0x02, 0x04, 0x2E},
			want:  "Bosch Camera 35 [pan stop     ][tilt stop    ][ZOOM IN  ]",
		},
		{
			name:  "Unknown opcode",
			input: []byte{0x86, 0x00, 0x23, 0x09, 0x00, 0x00, 0x32},
			want:  "Bosch Camera 35 [Unknown command 09]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := Decode(&telemetry.Frame{Bytes: tt.input})
			cmd.Raw = tt.input
			cmd.Render()
			assert.Equal(t, tt.want, cmd.Description)
		})
	}
}

func TestDetector(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		frames  int
		invalid int
	}{
		{
			name:   "Garbage then frames",
			input:  []byte{0x00, 0x00, 0x00, 0x86, 0x00, 0x23, 0x07, 0x02, 0x01, 0x33, 0x86, 0x00, 0x23, 0x07, 0x02, 0x02, 0x34},
			frames: 2,
		},
		{
			name:    "Bad checksum",
			input:   []byte{0x86, 0x00, 0x23, 0x07, 0x02, 0x01, 0x34},
			invalid: 1,
		},
		{
			name:   "Restart on bit7 byte",
			input:  []byte{0x87, 0x00, 0x23, 0x86, 0x00, 0x23, 0x07, 0x02, 0x01, 0x33},
			frames: 1,
		},
		{
			// 声明长度为 1 的帧不被识别
			name:  "Length one excluded",
			input: []byte{0x81, 0x01},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector()
			var frames, invalid int
			for _, c := range tt.input {
				frame, err := d.Feed(c)
				switch {
				case err != nil:
					invalid++
				case frame != nil:
					frames++
				}
			}
			assert.Equal(t, tt.frames, frames)
			assert.Equal(t, tt.invalid, invalid)
		})
	}
}
