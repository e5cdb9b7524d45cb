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

package serialport

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"

	"github.com/packetd/ptzd/common"
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/internal/rescue"
	"github.com/packetd/ptzd/logger"
	"github.com/packetd/ptzd/sniffer"
)

const (
	Name = "serial"
)

const (
	defaultReadTimeout    = 200 * time.Millisecond
	defaultReopenInterval = 3 * time.Second
)

func init() {
	sniffer.Register(New, Name)
}

// ParseParity 解析校验位配置
func ParseParity(s string) (serial.Parity, error) {
	switch strings.ToLower(s) {
	case "", "none", "n":
		return serial.NoParity, nil
	case "odd", "o":
		return serial.OddParity, nil
	case "even", "e":
		return serial.EvenParity, nil
	case "mark", "m":
		return serial.MarkParity, nil
	case "space", "s":
		return serial.SpaceParity, nil
	}
	return 0, errors.Errorf("unsupported parity (%s)", s)
}

// ParseStopBits 解析停止位配置
func ParseStopBits(n int) (serial.StopBits, error) {
	switch n {
	case 0, 1:
		return serial.OneStopBit, nil
	case 2:
		return serial.TwoStopBits, nil
	}
	return 0, errors.Errorf("unsupported stop bits (%d)", n)
}

// NewMode 根据配置生成串口参数
func NewMode(conf sniffer.SerialConfig) (*serial.Mode, error) {
	conf.Validate()

	parity, err := ParseParity(conf.Parity)
	if err != nil {
		return nil, err
	}
	stopBits, err := ParseStopBits(conf.StopBits)
	if err != nil {
		return nil, err
	}
	if conf.DataBits < 5 || conf.DataBits > 8 {
		return nil, errors.Errorf("unsupported data bits (%d)", conf.DataBits)
	}

	return &serial.Mode{
		BaudRate: conf.BaudRate,
		DataBits: conf.DataBits,
		Parity:   parity,
		StopBits: stopBits,
	}, nil
}

// PortInfo 串口设备信息
type PortInfo struct {
	Name         string `json:"name"`
	USB          bool   `json:"usb"`
	VID          string `json:"vid,omitempty"`
	PID          string `json:"pid,omitempty"`
	SerialNumber string `json:"serialNumber,omitempty"`
	Product      string `json:"product,omitempty"`
}

// ListPorts 列出本机可用串口
func ListPorts() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, errors.Wrap(err, "enumerate serial ports")
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		ports = append(ports, PortInfo{
			Name:         d.Name,
			USB:          d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}
	sort.Slice(ports, func(i, j int) bool {
		return ports[i].Name < ports[j].Name
	})
	return ports, nil
}

// StreamID 返回串口对应的数据流标识
func StreamID(port string) string {
	return "serial:" + port
}

type serialSniffer struct {
	ctx            context.Context
	cancel         context.CancelFunc
	names          []string
	mode           *serial.Mode
	readTimeout    time.Duration
	reopenInterval time.Duration
	blockSize      int

	wg      sync.WaitGroup
	mut     sync.Mutex
	ports   map[string]serial.Port
	counter sniffer.Counter
	onChunk sniffer.OnChunk
}

func New(conf *sniffer.Config) (sniffer.Sniffer, error) {
	if len(conf.Serial.Ports) == 0 {
		return nil, errors.New("no serial ports configured")
	}

	mode, err := NewMode(conf.Serial)
	if err != nil {
		return nil, err
	}

	readTimeout, err := conf.Options.GetDuration("readTimeout")
	if err != nil || readTimeout <= 0 {
		readTimeout = defaultReadTimeout
	}
	reopenInterval, err := conf.Options.GetDuration("reconnectInterval")
	if err != nil || reopenInterval <= 0 {
		reopenInterval = defaultReopenInterval
	}

	ss := &serialSniffer{
		names:          conf.Serial.Ports,
		mode:           mode,
		readTimeout:    readTimeout,
		reopenInterval: reopenInterval,
		blockSize:      conf.Options.IntOr("readBlockSize", common.ReadBlockSize),
		ports:          make(map[string]serial.Port),
	}
	ss.ctx, ss.cancel = context.WithCancel(context.Background())
	return ss, nil
}

func (ss *serialSniffer) Name() string {
	return Name
}

func (ss *serialSniffer) SetOnChunk(f sniffer.OnChunk) {
	ss.onChunk = f
}

// Start 打开所有串口 部分串口打开失败时记录日志并继续 全部失败才返回错误
func (ss *serialSniffer) Start() error {
	var errs error
	var opened int
	for _, name := range ss.names {
		name := name
		port, err := ss.open(name)
		if err != nil {
			errs = multierror.Append(errs, err)
			logger.Errorf("open serial port (%s) failed: %v", name, err)
			continue
		}

		opened++
		ss.wg.Add(1)
		rescue.Go(StreamID(name), func() {
			defer ss.wg.Done()
			ss.readLoop(name, port)
		})
	}

	if opened == 0 {
		return errs
	}
	return nil
}

func (ss *serialSniffer) open(name string) (serial.Port, error) {
	port, err := serial.Open(name, ss.mode)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", name)
	}
	if err := port.SetReadTimeout(ss.readTimeout); err != nil {
		port.Close()
		return nil, errors.Wrapf(err, "set read timeout %s", name)
	}

	ss.mut.Lock()
	ss.ports[name] = port
	ss.mut.Unlock()

	logger.Infof("serial port (%s) opened, baudRate=%d dataBits=%d", name, ss.mode.BaudRate, ss.mode.DataBits)
	return port, nil
}

// reopen 读取失败后周期性尝试重新打开串口 如 USB 转串口被拔出
func (ss *serialSniffer) reopen(name string) (serial.Port, bool) {
	ticker := time.NewTicker(ss.reopenInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ss.ctx.Done():
			return nil, false

		case <-ticker.C:
			port, err := ss.open(name)
			if err != nil {
				logger.Debugf("reopen serial port (%s) failed: %v", name, err)
				continue
			}
			return port, true
		}
	}
}

func (ss *serialSniffer) readLoop(name string, port serial.Port) {
	stream := StreamID(name)
	buf := make([]byte, ss.blockSize)

	for {
		n, err := port.Read(buf)
		if ss.ctx.Err() != nil {
			return
		}

		if err != nil {
			logger.Errorf("read serial port (%s) failed: %v", name, err)
			port.Close()
			ss.emit(telemetry.Chunk{Stream: stream, Time: time.Now(), Closed: true})

			var ok bool
			if port, ok = ss.reopen(name); !ok {
				return
			}
			continue
		}

		// 读取超时
		if n == 0 {
			continue
		}

		ss.counter.Add(n)
		ss.emit(telemetry.Chunk{
			Stream:  stream,
			Time:    time.Now(),
			Payload: bytes.Clone(buf[:n]),
		})
	}
}

func (ss *serialSniffer) emit(chunk telemetry.Chunk) {
	if ss.onChunk != nil {
		ss.onChunk(chunk)
	}
}

func (ss *serialSniffer) Stats() sniffer.Stats {
	ss.mut.Lock()
	n := len(ss.ports)
	ss.mut.Unlock()
	return ss.counter.Load(n)
}

func (ss *serialSniffer) Close() {
	ss.cancel()

	ss.mut.Lock()
	for name, port := range ss.ports {
		if err := port.Close(); err != nil {
			logger.Warnf("close serial port (%s) failed: %v", name, err)
		}
	}
	ss.mut.Unlock()
	ss.wg.Wait()
}
