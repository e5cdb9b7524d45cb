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

package pfv

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/packetd/ptzd/common/telemetry"
)

func makeFrame(s string, cs byte) []byte {
	b := append([]byte{lineFeed}, s...)
	return append(b, cs)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "Tilt up dome 41",
			input: makeFrame("29126G083200008E", 0x87),
			want:  "Forward Vision Camera 41 [pan stop     ][TILT UP  (142)][zoom stop][focus stop]",
		},
		{
			name:  "Pan left speed 50",
			input: makeFrame("02126G0230003200", 0xFA),
			want:  "Forward Vision Camera 2 [PAN LEFT (50)][tilt stop    ][zoom stop][focus stop]",
		},
		{
			name:  "Pan right speed 255",
			input: makeFrame("02126G033000FF00", 0xFA),
			want:  "Forward Vision Camera 2 [PAN RIGHT(255)][tilt stop    ][zoom stop][focus stop]",
		},
		{
			name:  "Stop",
			input: makeFrame("02126G0030000000", 0xF9),
			want:  "Forward Vision Camera 2 [pan stop     ][tilt stop    ][zoom stop][focus stop]",
		},
		{
			name:  "Zoom in",
			input: makeFrame("02126G2030000000", 0xFB),
			want:  "Forward Vision Camera 2 [pan stop     ][tilt stop    ][ZOOM IN  ][focus stop]",
		},
		{
			name:  "Goto preset",
			input: makeFrame("020A6L07", 0x84),
			want:  "Forward Vision Camera 2 [Goto Preset 7]",
		},
		{
			name:  "Store preset",
			input: makeFrame("020A6S0A", 0xED),
			want:  "Forward Vision Camera 2 [Store Preset 10]",
		},
		{
			name:  "Dome address 6",
			input: makeFrame("06122G033000FF00", 0xFA),
			want:  "Forward Vision Camera 6 [PAN RIGHT(255)][tilt stop    ][zoom stop][focus stop]",
		},
		{
			name:  "Unknown command",
			input: makeFrame("020A6Q07", 0x99),
			want:  "Forward Vision Camera 2 [Unknown command 51]",
		},
		{
			name:  "Length mismatch",
			input: makeFrame("020B6L07", 0x87),
			want:  "Forward Vision Camera 2 [Unknown command 4c length mismatch]",
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
	var input []byte
	input = append(input, 0x01, 0x02, 0x03)
	input = append(input, makeFrame("29126G083200008E", 0x87)...)
	input = append(input, makeFrame("020A6L07", 0x84)...)
	input = append(input, makeFrame("020A6L07", 0x85)...)

	d := NewDetector()
	var frames [][]byte
	var invalid int
	for _, c := range input {
		frame, err := d.Feed(c)
		switch {
		case err != nil:
			invalid++
		case frame != nil:
			frames = append(frames, frame)
		}
	}

	assert.Len(t, frames, 2)
	assert.Equal(t, 1, invalid)
	assert.Equal(t, makeFrame("020A6L07", 0x84), frames[1])
}

func TestDecodeShortFrame(t *testing.T) {
	cmd := Decode(&telemetry.Frame{Bytes: []byte{lineFeed, '0'}})
	assert.True(t, cmd.Unknown())
}
