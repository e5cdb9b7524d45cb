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

package sniffer

import (
	"net"
	"net/netip"
	"runtime"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/layers"

	"github.com/packetd/ptzd/connstream"
)

func toAddr(ip net.IP) netip.Addr {
	addr, _ := netip.AddrFromSlice(ip)
	return addr.Unmap()
}

// ParseSegment 将 IP 层以及传输层组合为 connstream.Segment
//
// 非 TCP/UDP 数据包返回 nil
func ParseSegment(lyrs ...gopacket.Layer) *connstream.Segment {
	var seg connstream.Segment

	for _, layerType := range lyrs {
		switch lyr := layerType.(type) {
		case *layers.IPv4:
			seg.Tuple.SrcIP = toAddr(lyr.SrcIP)
			seg.Tuple.DstIP = toAddr(lyr.DstIP)

		case *layers.IPv6:
			seg.Tuple.SrcIP = toAddr(lyr.SrcIP)
			seg.Tuple.DstIP = toAddr(lyr.DstIP)

		case *layers.TCP:
			seg.Tuple.Proto = connstream.L4ProtoTCP
			seg.Tuple.SrcPort = uint16(lyr.SrcPort)
			seg.Tuple.DstPort = uint16(lyr.DstPort)
			seg.Payload = lyr.Payload
			seg.Seq = lyr.Seq
			seg.FIN = lyr.FIN
			seg.RST = lyr.RST

		case *layers.UDP:
			seg.Tuple.Proto = connstream.L4ProtoUDP
			seg.Tuple.SrcPort = uint16(lyr.SrcPort)
			seg.Tuple.DstPort = uint16(lyr.DstPort)
			seg.Payload = lyr.Payload
		}
	}

	if seg.Tuple.Proto == "" {
		return nil
	}
	return &seg
}

// DecodePacket 解析链路层数据 返回传输层 Segment
func DecodePacket(b []byte, ipv4Only bool) *connstream.Segment {
	payload, lyr, err := DecodeIPLayer(b, ipv4Only)
	if err != nil || lyr == nil {
		return nil
	}

	var tcp layers.TCP
	if err := tcp.DecodeFromBytes(payload, gopacket.NilDecodeFeedback); err == nil {
		return ParseSegment(lyr, &tcp)
	}

	var udp layers.UDP
	if err := udp.DecodeFromBytes(payload, gopacket.NilDecodeFeedback); err == nil {
		return ParseSegment(lyr, &udp)
	}
	return nil
}

// DecodeIPLayer 解析 IP 层
//
// 返回数据包 Payload 以及所处 Layer
func DecodeIPLayer(b []byte, ipv4Only bool) ([]byte, gopacket.Layer, error) {
	content, err := decodeLinkLayer(b)
	if err != nil {
		return nil, nil, err
	}

	var lyr gopacket.Layer
	var payload []byte
	var ipv4 layers.IPv4
	var ipv6 layers.IPv6

	if err := ipv4.DecodeFromBytes(content, gopacket.NilDecodeFeedback); err == nil {
		payload = ipv4.Payload
		lyr = &ipv4
	}

	if len(payload) == 0 && !ipv4Only {
		if err := ipv6.DecodeFromBytes(content, gopacket.NilDecodeFeedback); err == nil {
			payload = ipv6.Payload
			lyr = &ipv6
		}
	}

	if lyr == nil || len(payload) == 0 {
		return nil, nil, nil
	}
	return payload, lyr, nil
}

// decodeLinkLayer 剥离链路层
//
// OpenBSD style 系统需要额外判断处理 loopback 网卡
func decodeLinkLayer(b []byte) ([]byte, error) {
	var err error
	var ether layers.Ethernet
	if err = ether.DecodeFromBytes(b, gopacket.NilDecodeFeedback); err == nil {
		switch ether.EthernetType {
		case layers.EthernetTypeIPv4, layers.EthernetTypeIPv6:
			return ether.Payload, nil
		}
	}

	if runtime.GOOS != "linux" && runtime.GOOS != "windows" {
		var lb layers.Loopback
		if err = lb.DecodeFromBytes(b, gopacket.NilDecodeFeedback); err == nil {
			return lb.Payload, nil
		}
	}
	return nil, err
}
