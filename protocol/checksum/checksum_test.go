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

package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fvFrame(s string, sum byte) []byte {
	b := []byte{0x0A}
	b = append(b, s...)
	return append(b, sum)
}

func TestChecksum(t *testing.T) {
	tests := []struct {
		name  string
		f     Func
		input []byte
		want  bool
	}{
		{
			name:  "Sum pelco d pan left",
			f:     Sum,
			input: []byte{0xFF, 0x01, 0x00, 0x04, 0x20, 0x00, 0x25},
			want:  true,
		},
		{
			name:  "Sum wraps modulo 256",
			f:     Sum,
			input: []byte{0xFF, 0x01, 0xFF, 0xFE, 0x00, 0x01, 0xFF},
			want:  true,
		},
		{
			name:  "Sum skips sync byte",
			f:     Sum,
			input: []byte{0xFF, 0x42, 0x42, 0x42, 0x42, 0x42, 0x42},
			want:  false,
		},
		{
			name:  "XOR pelco p pan left",
			f:     XOR,
			input: []byte{0xA0, 0x00, 0x00, 0x04, 0x20, 0x00, 0xAF, 0x2B},
			want:  true,
		},
		{
			name:  "XOR pelco p corrupted",
			f:     XOR,
			input: []byte{0xA0, 0x00, 0x00, 0x00, 0xFF, 0x00, 0xAF, 0x0F},
			want:  false,
		},
		{
			name:  "MaskedSum bosch aux",
			f:     MaskedSum,
			input: []byte{0x86, 0x00, 0x23, 0x07, 0x02, 0x01, 0x33},
			want:  true,
		},
		{
			name:  "MaskedSum bosch variable speed",
			f:     MaskedSum,
			input: []byte{0x87, 0x00, 0x23, 0x05, 0x7F, 0x40, 0x22, 0x10},
			want:  true,
		},
		{
			name:  "XORMSBSet forward vision tilt up",
			f:     XORMSBSet,
			input: fvFrame("29126G083200008E", 0x87),
			want:  true,
		},
		{
			name:  "XORMSBSet forward vision preset",
			f:     XORMSBSet,
			input: fvFrame("020A6L07", 0x84),
			want:  true,
		},
		{
			name:  "XORMSBSet requires msb",
			f:     XORMSBSet,
			input: fvFrame("020A6L07", 0x04),
			want:  false,
		},
		{
			name:  "NegatedSum ad pan right",
			f:     NegatedSum,
			input: []byte{0x07, 0xC0, 0x82, 0x0A, 0xAD},
			want:  true,
		},
		{
			name:  "NegatedSum ad stop",
			f:     NegatedSum,
			input: []byte{0x07, 0x83, 0x76},
			want:  true,
		},
		{
			name:  "NegatedSum ad relative move",
			f:     NegatedSum,
			input: []byte{0x01, 0xFA, 0xAC, 0xC1, 0x0D, 0xBB, 0xA0, 0xFE, 0x79, 0x60, 0x00, 0x02, 0x57},
			want:  true,
		},
		{
			name:  "NegatedSum ad corrupted",
			f:     NegatedSum,
			input: []byte{0x07, 0x83, 0x77},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f(tt.input))
		})
	}
}

func TestChecksumMinimalLength(t *testing.T) {
	assert.True(t, Sum([]byte{0xFF, 0x00}))
	assert.True(t, XOR([]byte{0x12, 0x12}))
	assert.True(t, MaskedSum([]byte{0x85, 0x05}))
	assert.True(t, XORMSBSet([]byte{0x01, 0x81}))
	assert.True(t, NegatedSum([]byte{0x01, 0xFF}))
}
