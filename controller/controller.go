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

package controller

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/packetd/ptzd/common"
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/confengine"
	"github.com/packetd/ptzd/exporter"
	"github.com/packetd/ptzd/internal/pubsub"
	"github.com/packetd/ptzd/internal/rescue"
	"github.com/packetd/ptzd/internal/wait"
	"github.com/packetd/ptzd/logger"
	"github.com/packetd/ptzd/pipeline"
	"github.com/packetd/ptzd/protocol"
	"github.com/packetd/ptzd/server"
	"github.com/packetd/ptzd/sniffer"
)

// streamForgetter 持有按字节流划分状态的 Processor 需实现此接口
type streamForgetter interface {
	Forget(stream string)
}

// doneNotifier 有限数据源 如回放文件 读取结束后关闭 Done
type doneNotifier interface {
	Done() <-chan struct{}
}

type Controller struct {
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mut       sync.RWMutex
	cfg       Config
	buildInfo common.BuildInfo

	pl   *pipeline.Pipeline
	exp  *exporter.Exporter
	svr  *server.Server
	snif sniffer.Sniffer

	pool    *protocol.SessionPool
	records chan *common.Record
	bus     *pubsub.PubSub
	limited *logger.Limited
}

func setupLogger(conf *confengine.Config) error {
	var opts logger.Options
	if err := conf.UnpackChild("logger", &opts); err != nil {
		return err
	}

	if opts.Filename == "" {
		opts.Filename = "ptzd.log"
	}
	if opts.MaxBackups <= 0 {
		opts.MaxBackups = 10
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = 7
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = 100
	}

	logger.SetOptions(opts)
	return nil
}

func New(conf *confengine.Config, buildInfo common.BuildInfo) (*Controller, error) {
	if err := setupLogger(conf); err != nil {
		return nil, err
	}

	var cfg Config
	if err := conf.UnpackChild("controller", &cfg); err != nil {
		return nil, err
	}

	pl, err := pipeline.New(conf)
	if err != nil {
		return nil, err
	}

	svr, err := server.New(conf)
	if err != nil {
		return nil, err
	}

	snif, err := sniffer.New(conf)
	if err != nil {
		return nil, err
	}

	exp, err := exporter.New(conf)
	if err != nil {
		snif.Close()
		return nil, err
	}

	c, err := newController(cfg, buildInfo, snif, pl, exp, svr)
	if err != nil {
		snif.Close()
		_ = exp.Close()
		return nil, err
	}
	return c, nil
}

func newController(cfg Config, buildInfo common.BuildInfo, snif sniffer.Sniffer, pl *pipeline.Pipeline, exp *exporter.Exporter, svr *server.Server) (*Controller, error) {
	cfg.Validate()
	protos, err := cfg.Protos()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		ctx:       ctx,
		cancel:    cancel,
		cfg:       cfg,
		buildInfo: buildInfo,
		pl:        pl,
		exp:       exp,
		svr:       svr,
		snif:      snif,
		records:   make(chan *common.Record, common.ChannelSize()),
		bus:       pubsub.New(),
		limited:   logger.NewLimitedInterval(cfg.InvalidLogInterval, 10),
	}

	pool, err := protocol.NewSessionPool(protos, c.onInvalid)
	if err != nil {
		cancel()
		return nil, err
	}
	c.pool = pool
	return c, nil
}

func (c *Controller) Start() error {
	c.setupServer()

	// 单一消费者保证同一字节流的输出顺序
	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		wait.Until(c.ctx, "controller.records", c.consumeRecords)
	}()
	go func() {
		defer c.wg.Done()
		c.removeExpiredSessions()
	}()

	if c.svr != nil {
		rescue.Go("server", func() {
			err := c.svr.ListenAndServe()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("failed to start server: %v", err)
			}
		})
	}

	c.snif.SetOnChunk(c.onChunk)
	if err := c.snif.Start(); err != nil {
		return errors.Wrapf(err, "start sniffer (%s)", c.snif.Name())
	}
	logger.Infof("controller started, sniffer=%s, exporter=%v", c.snif.Name(), c.exp.Sinkers())
	return nil
}

// Done 数据源为有限输入时 读取结束后返回的 channel 会被关闭
//
// 持续型数据源返回 nil
func (c *Controller) Done() <-chan struct{} {
	if dn, ok := c.snif.(doneNotifier); ok {
		return dn.Done()
	}
	return nil
}

func (c *Controller) onInvalid(proto telemetry.Proto, frame []byte) {
	checksumFailures.WithLabelValues(string(proto)).Inc()
	if logger.Enabled(logger.LevelDebug) {
		c.limited.Debugf("%s Invalid Checksum (%s)", telemetry.HexTokens(frame), proto.DisplayName())
	}
}

func (c *Controller) onChunk(chunk telemetry.Chunk) {
	if len(chunk.Payload) > 0 {
		c.consumeChunk(chunk)
	}
	if chunk.Closed {
		c.forgetStream(chunk.Stream)
	}
}

func (c *Controller) consumeChunk(chunk telemetry.Chunk) {
	receivedBytes.WithLabelValues(chunk.Stream).Add(float64(len(chunk.Payload)))

	c.mut.RLock()
	rawBytes := c.cfg.RawBytes
	c.mut.RUnlock()

	if rawBytes {
		c.push(common.NewRecord(common.RecordRawBytes, chunk))
	}

	session := c.pool.GetOrCreate(chunk.Stream)
	for _, cmd := range session.Consume(chunk.Payload, chunk.Time) {
		decodedFrames.WithLabelValues(string(cmd.Proto)).Inc()
		if cmd.Unknown() {
			unknownCommands.WithLabelValues(string(cmd.Proto)).Inc()
		}
		c.push(common.NewRecord(common.RecordCommands, cmd))
	}
}

func (c *Controller) push(record *common.Record) {
	select {
	case c.records <- record:
	case <-c.ctx.Done():
	}
}

func (c *Controller) forgetStream(stream string) {
	c.pool.Delete(stream)
	for _, p := range c.pl.Processors() {
		if f, ok := p.(streamForgetter); ok {
			f.Forget(stream)
		}
	}
}

func (c *Controller) consumeRecords() {
	for {
		select {
		case record := <-c.records:
			c.handleRecord(record)

		case <-c.ctx.Done():
			// 退出前处理完剩余记录
			for {
				select {
				case record := <-c.records:
					c.handleRecord(record)
				default:
					return
				}
			}
		}
	}
}

func (c *Controller) handleRecord(record *common.Record) {
	handledRecords.WithLabelValues(string(record.RecordType)).Inc()
	c.pl.Range(record, func(dst *common.Record) {
		c.exp.Export(dst)
		if dst.RecordType == common.RecordCommands {
			c.bus.Publish(dst.Data)
		}
	})
}

func (c *Controller) removeExpiredSessions() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mut.RLock()
			expired := c.cfg.SessionExpired
			c.mut.RUnlock()

			for _, stream := range c.pool.RemoveExpired(expired) {
				c.forgetStream(stream)
				logger.Debugf("session (%s) expired", stream)
			}

		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Controller) recordMetrics() {
	uptime.Set(float64(time.Now().Unix() - common.Started()))
	buildInfo.WithLabelValues(c.buildInfo.Version, c.buildInfo.GitHash, c.buildInfo.Time).Set(1)

	name := c.snif.Name()
	stats := c.snif.Stats()
	snifferReceivedChunks.WithLabelValues(name).Add(float64(stats.Chunks))
	snifferDroppedBytes.WithLabelValues(name).Add(float64(stats.Dropped))
	snifferActiveStreams.WithLabelValues(name).Set(float64(stats.Streams))
	activeSessions.Set(float64(c.pool.ActiveSessions()))
}

// Reload 重载配置
//
// 仅支持重载 controller 段 协议列表变化时所有会话会被重建
func (c *Controller) Reload(conf *confengine.Config) error {
	var cfg Config
	if err := conf.UnpackChild("controller", &cfg); err != nil {
		return err
	}
	cfg.Validate()

	protos, err := cfg.Protos()
	if err != nil {
		return err
	}
	if err := c.pool.Reload(protos); err != nil {
		return err
	}

	c.mut.Lock()
	c.cfg = cfg
	c.mut.Unlock()

	logger.Infof("controller reloaded, protocols=[%s]", strings.Join(cfg.Protocols, ","))
	return nil
}

func (c *Controller) Stop() {
	c.snif.Close()
	c.cancel()
	c.wg.Wait()

	if c.svr != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := c.svr.Shutdown(ctx); err != nil {
			logger.Warnf("failed to shutdown server: %v", err)
		}
	}
	if err := c.exp.Close(); err != nil {
		logger.Errorf("failed to close exporter: %v", err)
	}
	c.pl.Clean()
	c.pool.Clean()
}
