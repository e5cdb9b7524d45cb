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

package connstream

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTuple(proto L4Proto) Tuple {
	return Tuple{
		Proto:   proto,
		SrcIP:   netip.MustParseAddr("10.0.0.1"),
		SrcPort: 4001,
		DstIP:   netip.MustParseAddr("10.0.0.2"),
		DstPort: 9000,
	}
}

func TestTupleString(t *testing.T) {
	assert.Equal(t, "tcp:10.0.0.1:4001->10.0.0.2:9000", testTuple(L4ProtoTCP).String())
	assert.Equal(t, "udp:10.0.0.1:4001->10.0.0.2:9000", testTuple(L4ProtoUDP).String())
}

func TestTCPStreamWrite(t *testing.T) {
	type segment struct {
		seq     uint32
		payload string
	}

	tests := []struct {
		name     string
		segments []segment
		want     string
		dropped  uint64
	}{
		{
			name: "In order",
			segments: []segment{
				{seq: 100, payload: "abc"},
				{seq: 103, payload: "def"},
			},
			want: "abcdef",
		},
		{
			name: "Retransmission",
			segments: []segment{
				{seq: 100, payload: "abc"},
				{seq: 100, payload: "abc"},
				{seq: 103, payload: "def"},
			},
			want:    "abcdef",
			dropped: 3,
		},
		{
			name: "Partial overlap",
			segments: []segment{
				{seq: 100, payload: "abc"},
				{seq: 101, payload: "bcdef"},
			},
			want:    "abcdef",
			dropped: 2,
		},
		{
			name: "Gap",
			segments: []segment{
				{seq: 100, payload: "abc"},
				{seq: 110, payload: "xyz"},
			},
			want: "abcxyz",
		},
		{
			name: "Sequence wrap",
			segments: []segment{
				{seq: 4294967293, payload: "abcde"},
				{seq: 2, payload: "fg"},
			},
			want: "abcdefg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stream := NewTCPStream(testTuple(L4ProtoTCP))
			var got []byte
			for _, seg := range tt.segments {
				err := stream.Write(&Segment{Seq: seg.seq, Payload: []byte(seg.payload)}, func(b []byte) {
					got = append(got, b...)
				})
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, string(got))

			stats := stream.Stats()
			assert.Equal(t, uint64(len(tt.segments)), stats.Packets)
			assert.Equal(t, tt.dropped, stats.Dropped)
			assert.Equal(t, Stats{}, stream.Stats())
		})
	}
}

func TestTCPStreamClose(t *testing.T) {
	stream := NewTCPStream(testTuple(L4ProtoTCP))

	var got []byte
	f := func(b []byte) { got = append(got, b...) }

	assert.NoError(t, stream.Write(&Segment{Seq: 1, Payload: []byte("ab"), FIN: true}, f))
	assert.True(t, stream.IsClosed())
	assert.Equal(t, "ab", string(got))
	assert.ErrorIs(t, stream.Write(&Segment{Seq: 3, Payload: []byte("cd")}, f), ErrClosed)
}

func TestUDPStreamWrite(t *testing.T) {
	stream := NewUDPStream(testTuple(L4ProtoUDP))

	var got []byte
	f := func(b []byte) { got = append(got, b...) }
	assert.NoError(t, stream.Write(&Segment{Payload: []byte{0xFF, 0x01}}, f))
	assert.NoError(t, stream.Write(&Segment{}, f))
	assert.NoError(t, stream.Write(&Segment{Payload: []byte{0xFF, 0x01}}, f))

	assert.False(t, stream.IsClosed())
	assert.Equal(t, []byte{0xFF, 0x01, 0xFF, 0x01}, got)
	assert.Equal(t, Stats{Packets: 3, Bytes: 4}, stream.Stats())
}

func TestTable(t *testing.T) {
	table := NewTable()
	tcp := testTuple(L4ProtoTCP)
	udp := testTuple(L4ProtoUDP)

	var got []byte
	f := func(b []byte) { got = append(got, b...) }

	closed, err := table.Write(&Segment{Tuple: tcp, Seq: 10, Payload: []byte("ab")}, f)
	assert.NoError(t, err)
	assert.False(t, closed)

	closed, err = table.Write(&Segment{Tuple: udp, Payload: []byte("cd")}, f)
	assert.NoError(t, err)
	assert.False(t, closed)
	assert.Equal(t, 2, table.Len())

	closed, err = table.Write(&Segment{Tuple: tcp, Seq: 12, FIN: true}, f)
	assert.NoError(t, err)
	assert.True(t, closed)
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, "abcd", string(got))

	stats := table.Stats()
	assert.Equal(t, uint64(3), stats.Packets)
	assert.Equal(t, uint64(4), stats.Bytes)

	time.Sleep(10 * time.Millisecond)
	removed := table.RemoveExpired(time.Millisecond)
	assert.Equal(t, []Tuple{udp}, removed)
	assert.Equal(t, 0, table.Len())

	_, err = table.Write(&Segment{Tuple: Tuple{Proto: "sctp"}}, f)
	assert.ErrorIs(t, err, ErrUnsupportedProto)
}
