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

package dedup

import (
	"sync"
	"time"

	"github.com/packetd/ptzd/common"
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/internal/mapstructure"
	"github.com/packetd/ptzd/processor"
)

const Name = "dedup"

func init() {
	processor.Register(Name, New)
}

type Config struct {
	Window time.Duration `mapstructure:"window"`
}

type lastSeen struct {
	hex string
	at  time.Time
}

// Dedup 抑制同一数据流中连续重复的命令
//
// 键盘在按住摇杆时会持续重复发送相同的帧 窗口从最近一次相同帧开始计算
type Dedup struct {
	window time.Duration
	mut    sync.Mutex
	last   map[string]lastSeen
}

func New(conf map[string]any) (processor.Processor, error) {
	var cfg Config
	if err := mapstructure.Decode(conf, &cfg); err != nil {
		return nil, err
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Second
	}

	return &Dedup{
		window: cfg.Window,
		last:   make(map[string]lastSeen),
	}, nil
}

func (d *Dedup) Name() string {
	return Name
}

func (d *Dedup) Process(record *common.Record) (*common.Record, error) {
	cmd, ok := record.Data.(*telemetry.Command)
	if !ok {
		return record, nil
	}

	d.mut.Lock()
	defer d.mut.Unlock()

	prev, ok := d.last[cmd.Stream]
	d.last[cmd.Stream] = lastSeen{hex: cmd.Hex, at: cmd.Time}
	if ok && prev.hex == cmd.Hex && cmd.Time.Sub(prev.at) < d.window {
		return nil, nil
	}
	return record, nil
}

// Forget 数据流结束后释放状态
func (d *Dedup) Forget(stream string) {
	d.mut.Lock()
	defer d.mut.Unlock()

	delete(d.last, stream)
}

func (d *Dedup) Clean() {
	d.mut.Lock()
	defer d.mut.Unlock()

	d.last = make(map[string]lastSeen)
}
