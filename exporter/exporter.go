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

package exporter

import (
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/packetd/ptzd/common"
	"github.com/packetd/ptzd/confengine"
	"github.com/packetd/ptzd/logger"
)

var sinkerErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: common.App,
		Name:      "sinker_errors_total",
		Help:      "Sinker write errors total",
	},
	[]string{"sinker"},
)

type Exporter struct {
	sinkers []Sinker
	limited *logger.Limited
}

func New(conf *confengine.Config) (*Exporter, error) {
	var cfg Config
	if err := conf.UnpackChild("exporter", &cfg); err != nil {
		return nil, err
	}
	return NewWithConfig(cfg)
}

// NewWithConfig 根据配置创建已开启的 Sinker 任一失败时关闭已创建的 Sinker
func NewWithConfig(cfg Config) (*Exporter, error) {
	var names []string
	if cfg.Console.Enabled {
		names = append(names, SinkerConsole)
	}
	if cfg.NATS.Enabled {
		names = append(names, SinkerNATS)
	}
	if cfg.Redis.Enabled {
		names = append(names, SinkerRedis)
	}

	exp := &Exporter{
		limited: logger.NewLimitedInterval(time.Second, 5),
	}
	for _, name := range names {
		f, err := Get(name)
		if err == nil {
			var sinker Sinker
			if sinker, err = f(cfg); err == nil {
				exp.sinkers = append(exp.sinkers, sinker)
				logger.Infof("exporter add sinker (%s)", name)
				continue
			}
		}

		if cerr := exp.Close(); cerr != nil {
			err = multierror.Append(err, cerr)
		}
		return nil, err
	}
	return exp, nil
}

// Sinkers 返回已开启的 Sinker 名称
func (e *Exporter) Sinkers() []string {
	names := make([]string, 0, len(e.sinkers))
	for _, s := range e.sinkers {
		names = append(names, s.Name())
	}
	return names
}

// Export 将 record 写入所有 Sinker
func (e *Exporter) Export(record *common.Record) {
	for _, s := range e.sinkers {
		if err := s.Sink(record.Data); err != nil {
			sinkerErrorsTotal.WithLabelValues(s.Name()).Inc()
			e.limited.Errorf("sinker (%s) sink %s failed: %v", s.Name(), record.RecordType, err)
		}
	}
}

// Close 关闭所有 Sinker 并汇总错误
func (e *Exporter) Close() error {
	var errs error
	for _, s := range e.sinkers {
		if err := s.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	e.sinkers = nil
	return errs
}
