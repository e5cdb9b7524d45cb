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

package pipeline

import (
	"github.com/pkg/errors"

	"github.com/packetd/ptzd/common"
	"github.com/packetd/ptzd/confengine"
	"github.com/packetd/ptzd/processor"
)

// Config 单条处理链路
//
// RecordType 为空时处理所有类型 Processors 按顺序串联执行
type Config struct {
	Name       string            `config:"name"`
	RecordType common.RecordType `config:"recordType"`
	Processors []string          `config:"processors"`
}

type Configs []Config

type Pipeline struct {
	configs Configs
	psmgr   *processor.Manager
}

func New(conf *confengine.Config) (*Pipeline, error) {
	var configs Configs
	if conf.Has("pipeline") {
		if err := conf.UnpackChild("pipeline", &configs); err != nil {
			return nil, err
		}
	}

	psmgr, err := processor.NewManager(conf)
	if err != nil {
		return nil, err
	}
	return NewWithManager(configs, psmgr)
}

// NewWithManager 校验链路中引用的 Processor 均已加载
func NewWithManager(configs Configs, psmgr *processor.Manager) (*Pipeline, error) {
	for _, c := range configs {
		for _, name := range c.Processors {
			if _, ok := psmgr.Get(name); !ok {
				return nil, errors.Errorf("pipeline (%s) references unknown processor (%s)", c.Name, name)
			}
		}
	}
	return &Pipeline{
		configs: configs,
		psmgr:   psmgr,
	}, nil
}

func (c Config) match(rtype common.RecordType) bool {
	return c.RecordType == "" || c.RecordType == rtype
}

// Range 将 src 依次经过匹配的链路处理 并对每条链路的输出调用 f
//
// 没有任何链路匹配时 src 原样交给 f
func (p *Pipeline) Range(src *common.Record, f func(dst *common.Record)) {
	var matched bool
	for i := 0; i < len(p.configs); i++ {
		if !p.configs[i].match(src.RecordType) {
			continue
		}
		matched = true

		if r := p.run(p.configs[i], src); r != nil {
			f(r)
		}
	}

	if !matched {
		f(src)
	}
}

func (p *Pipeline) run(c Config, src *common.Record) *common.Record {
	r := src
	for _, name := range c.Processors {
		ps, ok := p.psmgr.Get(name)
		if !ok {
			continue
		}

		var err error
		if r, err = ps.Process(r); err != nil || r == nil {
			return nil
		}
	}
	return r
}

// Processor 返回已加载的 Processor
func (p *Pipeline) Processor(name string) (processor.Processor, bool) {
	return p.psmgr.Get(name)
}

func (p *Pipeline) Processors() []processor.Processor {
	return p.psmgr.Processors()
}

// Clean 清理所有 Processor 状态
func (p *Pipeline) Clean() {
	p.psmgr.Clean()
}
