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

package netconn

import (
	"bytes"
	"context"
	"io"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/packetd/ptzd/common"
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/internal/rescue"
	"github.com/packetd/ptzd/logger"
	"github.com/packetd/ptzd/sniffer"
)

const (
	Name = "tcp"
)

const (
	defaultReconnectInterval = 5 * time.Second
	defaultDialTimeout       = 5 * time.Second
)

func init() {
	sniffer.Register(New, Name)
}

// StreamID 返回网络连接对应的数据流标识
func StreamID(addr string) string {
	return "tcp:" + addr
}

// tcpSniffer 从 TCP 连接读取云台控制字节
//
// 每条连接都是独立的数据流 连接之间互不影响
type tcpSniffer struct {
	ctx       context.Context
	cancel    context.CancelFunc
	conf      sniffer.TCPConfig
	reconnect time.Duration
	blockSize int

	ln      net.Listener
	wg      sync.WaitGroup
	mut     sync.Mutex
	conns   map[net.Conn]struct{}
	counter sniffer.Counter
	onChunk sniffer.OnChunk
}

func New(conf *sniffer.Config) (sniffer.Sniffer, error) {
	tcpConf := conf.TCP
	tcpConf.Validate()

	reconnect, err := conf.Options.GetDuration("reconnectInterval")
	if err != nil || reconnect <= 0 {
		reconnect = defaultReconnectInterval
	}

	ts := &tcpSniffer{
		conf:      tcpConf,
		reconnect: reconnect,
		blockSize: conf.Options.IntOr("readBlockSize", common.ReadBlockSize),
		conns:     make(map[net.Conn]struct{}),
	}
	ts.ctx, ts.cancel = context.WithCancel(context.Background())
	return ts, nil
}

func (ts *tcpSniffer) Name() string {
	return Name
}

func (ts *tcpSniffer) SetOnChunk(f sniffer.OnChunk) {
	ts.onChunk = f
}

func (ts *tcpSniffer) Start() error {
	if ts.conf.Listen != "" {
		ln, err := net.Listen("tcp", ts.conf.Listen)
		if err != nil {
			return errors.Wrapf(err, "listen %s", ts.conf.Listen)
		}
		ts.ln = ln
		logger.Infof("tcp sniffer listening on %s", ln.Addr())

		ts.wg.Add(1)
		rescue.Go("tcp.accept", func() {
			defer ts.wg.Done()
			ts.acceptLoop()
		})
	}

	for _, target := range ts.conf.Dial {
		target := target
		ts.wg.Add(1)
		rescue.Go(StreamID(target), func() {
			defer ts.wg.Done()
			ts.dialLoop(target)
		})
	}
	return nil
}

func (ts *tcpSniffer) acceptLoop() {
	for {
		conn, err := ts.ln.Accept()
		if err != nil {
			if ts.ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return
			}
			logger.Warnf("tcp sniffer accept failed: %v", err)
			continue
		}

		ts.wg.Add(1)
		stream := StreamID(conn.RemoteAddr().String())
		rescue.Go(stream, func() {
			defer ts.wg.Done()
			ts.serve(conn, stream)
		})
	}
}

// dialLoop 主动连接串口服务器 断开后按间隔重连
func (ts *tcpSniffer) dialLoop(target string) {
	dialer := net.Dialer{Timeout: defaultDialTimeout}
	for {
		conn, err := dialer.DialContext(ts.ctx, "tcp", target)
		if err == nil {
			ts.serve(conn, StreamID(target))
		} else if ts.ctx.Err() == nil {
			logger.Warnf("tcp sniffer dial (%s) failed: %v", target, err)
		}

		select {
		case <-ts.ctx.Done():
			return
		case <-time.After(ts.reconnect):
		}
	}
}

func (ts *tcpSniffer) track(conn net.Conn, add bool) {
	ts.mut.Lock()
	defer ts.mut.Unlock()

	if add {
		ts.conns[conn] = struct{}{}
		return
	}
	delete(ts.conns, conn)
}

func (ts *tcpSniffer) serve(conn net.Conn, stream string) {
	ts.track(conn, true)
	remote := conn.RemoteAddr().String()
	logger.Infof("Network Connection from %s received", remote)

	defer func() {
		conn.Close()
		ts.track(conn, false)
		ts.emit(telemetry.Chunk{Stream: stream, Time: time.Now(), Closed: true})
		logger.Infof("Network Connection from %s closed", remote)
	}()

	buf := make([]byte, ts.blockSize)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			ts.counter.Add(n)
			ts.emit(telemetry.Chunk{
				Stream:  stream,
				Time:    time.Now(),
				Payload: bytes.Clone(buf[:n]),
			})
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && ts.ctx.Err() == nil {
				logger.Warnf("read connection (%s) failed: %v", remote, err)
			}
			return
		}
	}
}

func (ts *tcpSniffer) emit(chunk telemetry.Chunk) {
	if ts.onChunk != nil {
		ts.onChunk(chunk)
	}
}

func (ts *tcpSniffer) Stats() sniffer.Stats {
	ts.mut.Lock()
	n := len(ts.conns)
	ts.mut.Unlock()
	return ts.counter.Load(n)
}

func (ts *tcpSniffer) Close() {
	ts.cancel()
	if ts.ln != nil {
		ts.ln.Close()
	}

	ts.mut.Lock()
	for conn := range ts.conns {
		conn.Close()
	}
	ts.mut.Unlock()
	ts.wg.Wait()
}
