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

package replay

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/packetd/ptzd/common"
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/internal/rescue"
	"github.com/packetd/ptzd/internal/splitio"
	"github.com/packetd/ptzd/logger"
	"github.com/packetd/ptzd/sniffer"
)

const (
	Name = "replay"
)

const (
	FormatLog = "log"
	FormatRaw = "raw"
)

var (
	rxPrefix      = []byte("Rx")
	decodedPrefix = []byte("=>")
)

func init() {
	sniffer.Register(New, Name)
}

// DetectFormat 根据内容推断文件格式
//
// 首个非空行以 Rx 或者 => 开头视为抓取日志 否则视为原始字节
func DetectFormat(data []byte) string {
	scanner := splitio.NewScanner(data)
	for scanner.Scan() {
		line := scanner.Line()
		if len(line) == 0 {
			continue
		}
		if bytes.HasPrefix(line, rxPrefix) || bytes.HasPrefix(line, decodedPrefix) {
			return FormatLog
		}
		return FormatRaw
	}
	return FormatRaw
}

// ParseLog 解析抓取日志中的 Rx 行 按出现顺序返回每一行的字节
//
// => 开头的解码行会被忽略
func ParseLog(data []byte) ([][]byte, error) {
	var chunks [][]byte
	scanner := splitio.NewScanner(data)

	var n int
	for scanner.Scan() {
		n++
		line := scanner.Line()
		if !bytes.HasPrefix(line, rxPrefix) {
			continue
		}

		b, ok := telemetry.ParseHexTokens(string(line[len(rxPrefix):]))
		if !ok {
			return nil, errors.Errorf("invalid rx line %d: %q", n, line)
		}
		if len(b) > 0 {
			chunks = append(chunks, b)
		}
	}
	return chunks, nil
}

// SplitRaw 将原始字节按 size 切割
func SplitRaw(data []byte, size int) [][]byte {
	var chunks [][]byte
	for len(data) > 0 {
		n := min(size, len(data))
		chunks = append(chunks, data[:n])
		data = data[n:]
	}
	return chunks
}

// StreamID 返回回放文件对应的数据流标识
func StreamID(path string) string {
	return "replay:" + filepath.Base(path)
}

type replaySniffer struct {
	ctx      context.Context
	cancel   context.CancelFunc
	conf     sniffer.ReplayConfig
	interval time.Duration

	wg      sync.WaitGroup
	done    chan struct{}
	counter sniffer.Counter
	onChunk sniffer.OnChunk
}

func New(conf *sniffer.Config) (sniffer.Sniffer, error) {
	if conf.Replay.File == "" {
		return nil, errors.New("replay file required")
	}
	switch conf.Replay.Format {
	case "", FormatLog, FormatRaw:
	default:
		return nil, errors.Errorf("unsupported replay format (%s)", conf.Replay.Format)
	}

	interval, err := conf.Options.GetDuration("interval")
	if err != nil || interval < 0 {
		interval = 0
	}

	rs := &replaySniffer{
		conf:     conf.Replay,
		interval: interval,
		done:     make(chan struct{}),
	}
	rs.ctx, rs.cancel = context.WithCancel(context.Background())
	return rs, nil
}

func (rs *replaySniffer) Name() string {
	return Name
}

func (rs *replaySniffer) SetOnChunk(f sniffer.OnChunk) {
	rs.onChunk = f
}

func (rs *replaySniffer) Start() error {
	data, err := os.ReadFile(rs.conf.File)
	if err != nil {
		return errors.Wrapf(err, "read replay file %s", rs.conf.File)
	}

	format := rs.conf.Format
	if format == "" {
		format = DetectFormat(data)
	}

	var chunks [][]byte
	switch format {
	case FormatLog:
		if chunks, err = ParseLog(data); err != nil {
			return err
		}
	default:
		chunks = SplitRaw(data, common.ReadBlockSize)
	}
	logger.Infof("replay file (%s) format=%s, chunks=%d", rs.conf.File, format, len(chunks))

	rs.wg.Add(1)
	rescue.Go(Name, func() {
		defer rs.wg.Done()
		defer close(rs.done)
		rs.run(chunks)
	})
	return nil
}

func (rs *replaySniffer) run(chunks [][]byte) {
	stream := StreamID(rs.conf.File)
	for _, chunk := range chunks {
		if rs.interval > 0 {
			select {
			case <-rs.ctx.Done():
				return
			case <-time.After(rs.interval):
			}
		} else if rs.ctx.Err() != nil {
			return
		}

		rs.counter.Add(len(chunk))
		rs.emit(telemetry.Chunk{Stream: stream, Time: time.Now(), Payload: chunk})
	}

	rs.emit(telemetry.Chunk{Stream: stream, Time: time.Now(), Closed: true})
	logger.Infof("replay file (%s) finished", rs.conf.File)
}

func (rs *replaySniffer) emit(chunk telemetry.Chunk) {
	if rs.onChunk != nil {
		rs.onChunk(chunk)
	}
}

// Done 回放结束后关闭
func (rs *replaySniffer) Done() <-chan struct{} {
	return rs.done
}

func (rs *replaySniffer) Stats() sniffer.Stats {
	return rs.counter.Load(1)
}

func (rs *replaySniffer) Close() {
	rs.cancel()
	rs.wg.Wait()
}
