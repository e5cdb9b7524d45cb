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

package filter

import (
	"github.com/packetd/ptzd/common"
	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/internal/mapstructure"
	"github.com/packetd/ptzd/processor"
)

const Name = "filter"

func init() {
	processor.Register(Name, New)
}

// Config 命令过滤规则 列表为空代表不限制
type Config struct {
	Protocols    []string `mapstructure:"protocols"`
	Cameras      []int    `mapstructure:"cameras"`
	DropMotion   bool     `mapstructure:"dropMotion"`
	DropExtended bool     `mapstructure:"dropExtended"`
	DropUnknown  bool     `mapstructure:"dropUnknown"`
}

type Filter struct {
	cfg       Config
	protocols map[telemetry.Proto]struct{}
	cameras   map[int]struct{}
}

func New(conf map[string]any) (processor.Processor, error) {
	var cfg Config
	if err := mapstructure.Decode(conf, &cfg); err != nil {
		return nil, err
	}

	f := &Filter{cfg: cfg}
	if len(cfg.Protocols) > 0 {
		f.protocols = make(map[telemetry.Proto]struct{})
		for _, p := range cfg.Protocols {
			f.protocols[telemetry.Proto(p)] = struct{}{}
		}
	}
	if len(cfg.Cameras) > 0 {
		f.cameras = make(map[int]struct{})
		for _, c := range cfg.Cameras {
			f.cameras[c] = struct{}{}
		}
	}
	return f, nil
}

func (f *Filter) Name() string {
	return Name
}

// Process 仅处理解码命令 原始字节原样返回
func (f *Filter) Process(record *common.Record) (*common.Record, error) {
	cmd, ok := record.Data.(*telemetry.Command)
	if !ok {
		return record, nil
	}
	if f.keep(cmd) {
		return record, nil
	}
	return nil, nil
}

func (f *Filter) keep(cmd *telemetry.Command) bool {
	if f.protocols != nil {
		if _, ok := f.protocols[cmd.Proto]; !ok {
			return false
		}
	}
	if f.cameras != nil {
		if _, ok := f.cameras[cmd.Camera]; !ok {
			return false
		}
	}

	switch {
	case f.cfg.DropUnknown && cmd.Unknown():
		return false
	case f.cfg.DropMotion && cmd.Motion != nil:
		return false
	case f.cfg.DropExtended && cmd.Extended != nil:
		return false
	}
	return true
}

func (f *Filter) Clean() {}
