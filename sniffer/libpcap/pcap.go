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
	"bytes"
	"context"
	"fmt"
	"net"
	"regexp"
	"runtime"
	"sync"
	"time"

	"github.com/gopacket/gopacket"
	"github.com/gopacket/gopacket/pcap"
	"github.com/pkg/errors"

	"github.com/packetd/ptzd/common"
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/connstream"
	"github.com/packetd/ptzd/logger"
	"github.com/packetd/ptzd/sniffer"
)

const (
	Name = "pcap"
)

const (
	// deviceAny 表示监听所有网卡
	//
	// 只在 Linux 平台生效
	deviceAny = "any"

	// defaultCaptureLength 默认的捕获长度
	//
	// 上限即 IP 包的最大长度
	defaultCaptureLength = 65535

	// defaultIdleTimeout 字节流空闲超过该时长视为结束
	defaultIdleTimeout = 5 * time.Minute
)

func init() {
	sniffer.Register(New, Name)
}

type handler struct {
	name   string
	handle *pcap.Handle
	file   bool
}

type pcapSniffer struct {
	ctx      context.Context
	cancel   context.CancelFunc
	conf     sniffer.PcapConfig
	opts     common.Options
	handlers []*handler
	wg       sync.WaitGroup
	table    *connstream.Table
	counter  sniffer.Counter
	onChunk  sniffer.OnChunk
}

func New(conf *sniffer.Config) (sniffer.Sniffer, error) {
	snif := &pcapSniffer{
		conf:  conf.Pcap,
		opts:  conf.Options,
		table: connstream.NewTable(),
	}

	snif.ctx, snif.cancel = context.WithCancel(context.Background())
	if err := snif.makeHandlers(); err != nil {
		return nil, err
	}
	return snif, nil
}

func (ps *pcapSniffer) Name() string {
	return Name
}

func (ps *pcapSniffer) SetOnChunk(f sniffer.OnChunk) {
	ps.onChunk = f
}

func (ps *pcapSniffer) Start() error {
	for _, h := range ps.handlers {
		ps.wg.Add(1)
		go ps.listen(h)
	}

	ps.wg.Add(1)
	go ps.expireLoop()
	return nil
}

func (ps *pcapSniffer) Stats() sniffer.Stats {
	ts := ps.table.Stats()
	stats := ps.counter.Load(ps.table.Len())
	stats.Dropped += ts.Dropped
	return stats
}

func (ps *pcapSniffer) makeHandlers() error {
	bpfFilter, err := ps.conf.CompileBPFFilter()
	if err != nil {
		return err
	}

	if len(ps.conf.File) > 0 {
		h, err := makeFileHandle(ps.conf.File, bpfFilter)
		if err != nil {
			return err
		}
		ps.handlers = append(ps.handlers, &handler{
			name:   fmt.Sprintf("pcap.file: %s", ps.conf.File),
			handle: h,
			file:   true,
		})
		logger.Infof("sniffer add pcap file (%s)", ps.conf.File)
		return nil
	}

	ifaces, err := filterInterfaces(ps.conf.Ifaces, ps.conf.IPv4Only)
	if err != nil {
		return err
	}

	for _, iface := range ifaces {
		h, err := ps.getHandle(iface.Name, bpfFilter)
		if err != nil {
			logger.Errorf("make iface (%s) handle failed: %v", iface.Name, err)
			continue
		}

		ps.handlers = append(ps.handlers, &handler{
			name:   fmt.Sprintf("pcap.device: %s", iface.Name),
			handle: h,
		})
		logger.Infof("sniffer add device (%s), address=%v", iface.Name, ifaceAddress(iface))
	}

	if len(ps.handlers) == 0 {
		return errors.New("no available devices found")
	}
	return nil
}

func (ps *pcapSniffer) getHandle(device, bpfFilter string) (*pcap.Handle, error) {
	handle, err := pcap.OpenLive(device, int32(ps.opts.IntOr("snapLen", defaultCaptureLength)), !ps.conf.NoPromiscuous, pcap.BlockForever)
	if err != nil {
		return nil, err
	}

	if bpfFilter != "" {
		if err := handle.SetBPFFilter(bpfFilter); err != nil {
			handle.Close()
			return nil, errors.Wrapf(err, "set bpf-filter (%s) failed", bpfFilter)
		}
	}
	return handle, nil
}

func makeFileHandle(path, bpfFilter string) (*pcap.Handle, error) {
	handle, err := pcap.OpenOffline(path)
	if err != nil {
		return nil, err
	}
	if bpfFilter != "" {
		if err := handle.SetBPFFilter(bpfFilter); err != nil {
			handle.Close()
			return nil, errors.Wrapf(err, "set bpf-filter (%s) failed", bpfFilter)
		}
	}
	return handle, nil
}

func (ps *pcapSniffer) emit(chunk telemetry.Chunk) {
	if ps.onChunk != nil {
		ps.onChunk(chunk)
	}
}

// handlePacket 剥离协议头 仅将尚未交付过的负载字节交给回调
func (ps *pcapSniffer) handlePacket(data []byte, ts time.Time) {
	seg := sniffer.DecodePacket(data, ps.conf.IPv4Only)
	if seg == nil {
		return
	}

	stream := seg.Tuple.String()
	closed, err := ps.table.Write(seg, func(b []byte) {
		ps.counter.Add(len(b))
		ps.emit(telemetry.Chunk{
			Stream:  stream,
			Time:    ts,
			Payload: bytes.Clone(b),
		})
	})
	if err != nil {
		logger.Debugf("pcap write segment (%s) failed: %v", stream, err)
	}
	if closed {
		ps.emit(telemetry.Chunk{Stream: stream, Time: ts, Closed: true})
	}
}

func (ps *pcapSniffer) listen(ph *handler) {
	defer ps.wg.Done()

	packetSource := gopacket.NewPacketSource(ph.handle, ph.handle.LinkType())
	packetSource.Lazy = true
	packetSource.NoCopy = true

	for {
		select {
		case <-ps.ctx.Done():
			return

		case packet, ok := <-packetSource.Packets():
			if !ok {
				logger.Infof("pcap handle (%s) closed", ph.name)
				return
			}

			ts := time.Now()
			if ph.file {
				ts = packet.Metadata().Timestamp
			}
			ps.handlePacket(packet.Data(), ts)
		}
	}
}

// expireLoop 定期清理空闲字节流 并通知下游释放会话
func (ps *pcapSniffer) expireLoop() {
	defer ps.wg.Done()

	idle, err := ps.opts.GetDuration("idleTimeout")
	if err != nil || idle <= 0 {
		idle = defaultIdleTimeout
	}

	ticker := time.NewTicker(idle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ps.ctx.Done():
			return

		case <-ticker.C:
			for _, tuple := range ps.table.RemoveExpired(idle) {
				ps.emit(telemetry.Chunk{Stream: tuple.String(), Time: time.Now(), Closed: true})
			}
		}
	}
}

func (ps *pcapSniffer) Close() {
	ps.cancel()
	for _, h := range ps.handlers {
		h.handle.Close()
	}
	ps.wg.Wait()
}

func hasIPv4Addr(iface net.Interface) bool {
	addrs, err := iface.Addrs()
	if err != nil || len(addrs) == 0 {
		return false
	}

	for _, addr := range addrs {
		var ip net.IP
		switch v := addr.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}

		if ip != nil && ip.To4() != nil {
			return true
		}
	}
	return false
}

func ifaceAddress(iface net.Interface) []string {
	addrs, err := iface.Addrs()
	if err != nil {
		return nil
	}

	var s []string
	for _, addr := range addrs {
		s = append(s, addr.String())
	}
	return s
}

// filterInterfaces 过滤指定网卡
//
// 同一块网卡可能同时包含多个 IP 地址 v4/v6 所以这里只做初步筛选 允许筛除只含 ipv6 地址的网卡
// 非 linux 系统不支持 any 网卡 退化为匹配所有网卡
func filterInterfaces(pattern string, hasIPv4 bool) ([]net.Interface, error) {
	if pattern == deviceAny && runtime.GOOS == "linux" {
		return []net.Interface{{Name: deviceAny}}, nil
	}
	if pattern == "" || pattern == deviceAny {
		pattern = ".*"
	}

	r, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var matched []net.Interface
	for _, iface := range ifaces {
		if !r.MatchString(iface.Name) {
			continue
		}
		if hasIPv4 && !hasIPv4Addr(iface) {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil || len(addrs) == 0 {
			continue
		}
		matched = append(matched, iface)
	}
	return matched, nil
}
