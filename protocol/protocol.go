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

package protocol

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/packetd/ptzd/common/telemetry"
)

// ErrChecksum 帧结构匹配但校验失败
//
// 探测器返回该错误后由 Dispatcher 吸收 不会向观察者传播
var ErrChecksum = errors.New("checksum mismatch")

// Detector 帧探测器
//
// 每个协议一个实现 各自持有独立的缓冲区以及游标 实例之间不共享任何状态
// 实例非并发安全 调用方需保证串行调用
type Detector interface {
	// Proto 返回探测器对应的协议
	Proto() telemetry.Proto

	// Feed 写入单个字节
	//
	// 当缓冲区构成完整且校验通过的帧时返回该帧的拷贝
	// 结构匹配但校验失败时返回当前候选帧以及 ErrChecksum
	// 其余情况返回 nil, nil
	Feed(c byte) ([]byte, error)

	// Reset 清空缓冲区
	Reset()
}

// CreateDetectorFunc 创建 Detector 的函数类型
type CreateDetectorFunc func() Detector

// DecodeFunc 将帧解码为命令 要求对任意输入都不会 panic
type DecodeFunc func(frame *telemetry.Frame) *telemetry.Command

// Codec 协议的探测器以及解码器组合
type Codec struct {
	Proto          telemetry.Proto
	CreateDetector CreateDetectorFunc
	Decode         DecodeFunc
}

var codecFactory = map[telemetry.Proto]Codec{}

// Register 注册协议实现
func Register(proto telemetry.Proto, createDetector CreateDetectorFunc, decode DecodeFunc) {
	codecFactory[proto] = Codec{
		Proto:          proto,
		CreateDetector: createDetector,
		Decode:         decode,
	}
}

// Get 获取协议实现
func Get(proto telemetry.Proto) (Codec, error) {
	codec, ok := codecFactory[proto]
	if !ok {
		return Codec{}, errors.Errorf("protocol codec (%s) not found", proto)
	}
	return codec, nil
}

// Protocols 返回所有已注册的协议 按固定顺序排列
func Protocols() []telemetry.Proto {
	protos := make([]telemetry.Proto, 0, len(codecFactory))
	for proto := range codecFactory {
		protos = append(protos, proto)
	}
	sortProtos(protos)
	return protos
}

func sortProtos(protos []telemetry.Proto) {
	sort.SliceStable(protos, func(i, j int) bool {
		ii, jj := telemetry.Index(protos[i]), telemetry.Index(protos[j])
		if ii < 0 || jj < 0 {
			if ii == jj {
				return protos[i] < protos[j]
			}
			return jj < 0
		}
		return ii < jj
	})
}
