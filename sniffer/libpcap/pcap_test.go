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

package libpcap

import (
	"net"
	"testing"
	"time"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/connstream"
)

func tcpPacket(t *testing.T, seq uint32, fin bool, payload []byte) []byte {
	eth := &layers.Ethernet{
		SrcMAC:       net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55},
		DstMAC:       net.HardwareAddr{0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb},
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolTCP,
		SrcIP:    net.IPv4(192, 168, 1, 10),
		DstIP:    net.IPv4(192, 168, 1, 20),
	}
	tcp := &layers.TCP{SrcPort: 4001, DstPort: 9000, Seq: seq, ACK: true, PSH: true, FIN: fin}
	require.NoError(t, tcp.SetNetworkLayerForChecksum(ip))

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	require.NoError(t, gopacket.SerializeLayers(buf, opts, eth, ip, tcp, gopacket.Payload(payload)))
	return buf.Bytes()
}

func TestHandlePacket(t *testing.T) {
	ps := &pcapSniffer{table: connstream.NewTable()}

	var chunks []telemetry.Chunk
	ps.SetOnChunk(func(chunk telemetry.Chunk) {
		chunks = append(chunks, chunk)
	})

	first := []byte{0xFF, 0x01, 0x00}
	second := []byte{0x08, 0x00, 0x3F, 0x48}

	now := time.Now()
	ps.handlePacket(tcpPacket(t, 100, false, first), now)
	ps.handlePacket(tcpPacket(t, 100, false, first), now) // 重传
	ps.handlePacket(tcpPacket(t, 103, true, second), now)

	require.Len(t, chunks, 3)
	stream := "tcp:192.168.1.10:4001->192.168.1.20:9000"
	assert.Equal(t, telemetry.Chunk{Stream: stream, Time: now, Payload: first}, chunks[0])
	assert.Equal(t, telemetry.Chunk{Stream: stream, Time: now, Payload: second}, chunks[1])
	assert.Equal(t, telemetry.Chunk{Stream: stream, Time: now, Closed: true}, chunks[2])

	stats := ps.Stats()
	assert.Equal(t, uint64(2), stats.Chunks)
	assert.Equal(t, uint64(7), stats.Bytes)
	assert.Equal(t, uint64(3), stats.Dropped)
	assert.Equal(t, 0, stats.Streams)
}

func TestFilterInterfaces(t *testing.T) {
	ifaces, err := filterInterfaces("^this-iface-does-not-exist$", false)
	assert.NoError(t, err)
	assert.Empty(t, ifaces)

	_, err = filterInterfaces("(", false)
	assert.Error(t, err)
}
