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

package telemetry

// Proto 云台控制协议标识
type Proto string

const (
	ProtoPelcoD    Proto = "pelcod"
	ProtoPelcoP    Proto = "pelcop"
	ProtoBosch     Proto = "bosch"
	ProtoFV        Proto = "forwardvision"
	ProtoVicon     Proto = "vicon"
	ProtoVCL       Proto = "vcl"
	ProtoAD        Proto = "ad"
	ProtoPanasonic Proto = "panasonic"
	ProtoVISCA     Proto = "visca"
	ProtoJVC       Proto = "jvc"
	ProtoBBV422    Proto = "bbv422"
)

// protoOrder 探测器固定的调用顺序
//
// 各探测器之间不共享状态 顺序仅影响同一字节同时完成多个帧时的输出顺序
// BBV422 与 Pelco P 共用同一个探测器 因此不在列表中
var protoOrder = []Proto{
	ProtoPelcoD,
	ProtoPelcoP,
	ProtoBosch,
	ProtoFV,
	ProtoVicon,
	ProtoVCL,
	ProtoAD,
	ProtoPanasonic,
	ProtoVISCA,
	ProtoJVC,
}

var protoNames = map[Proto]string{
	ProtoPelcoD:    "Pelco D",
	ProtoPelcoP:    "Pelco P",
	ProtoBBV422:    "BBV422",
	ProtoBosch:     "Bosch",
	ProtoFV:        "Forward Vision",
	ProtoVicon:     "Vicon",
	ProtoVCL:       "VCL",
	ProtoAD:        "American Dynamics",
	ProtoPanasonic: "Panasonic",
	ProtoVISCA:     "VISCA",
	ProtoJVC:       "JVC",
}

// Order 返回所有协议的固定顺序 调用方可修改返回值
func Order() []Proto {
	dst := make([]Proto, len(protoOrder))
	copy(dst, protoOrder)
	return dst
}

// Index 返回协议在固定顺序中的位置 不存在返回 -1
func Index(p Proto) int {
	if p == ProtoBBV422 {
		p = ProtoPelcoP
	}
	for i, proto := range protoOrder {
		if proto == p {
			return i
		}
	}
	return -1
}

// DisplayName 返回协议的展示名称
func (p Proto) DisplayName() string {
	if s, ok := protoNames[p]; ok {
		return s
	}
	return string(p)
}

// Valid 判断是否为已知协议
func (p Proto) Valid() bool {
	_, ok := protoNames[p]
	return ok
}
