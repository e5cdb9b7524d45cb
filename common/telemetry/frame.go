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

import (
	"strings"
	"time"
)

// Frame 探测器识别出的一个完整协议帧
//
// Bytes 在探测器交付时已经拷贝 后续不会被修改
type Frame struct {
	Proto Proto
	Bytes []byte
	Time  time.Time
}

// Len 返回帧长度
func (f *Frame) Len() int {
	return len(f.Bytes)
}

// At 安全地读取第 i 个字节 越界时返回 0
func (f *Frame) At(i int) byte {
	if i < 0 || i >= len(f.Bytes) {
		return 0
	}
	return f.Bytes[i]
}

// Chunk 数据源交付的一段连续字节
//
// Stream 标识字节流来源 同一个 Stream 的 Chunk 按到达顺序交付
// Closed 为 true 代表该数据流已经结束 Payload 可能为空
type Chunk struct {
	Stream  string
	Time    time.Time
	Payload []byte
	Closed  bool
}

const hexDigits = "0123456789abcdef"

// HexTokens 将字节渲染为 [hh][hh] 格式
func HexTokens(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 4)
	for _, c := range b {
		sb.WriteByte('[')
		sb.WriteByte(hexDigits[c>>4])
		sb.WriteByte(hexDigits[c&0x0F])
		sb.WriteByte(']')
	}
	return sb.String()
}

// ParseHexTokens 解析 HexTokens 渲染的文本 同时兼容空白分隔的十六进制字节
//
// 例如 "[ff][01]" / "ff 01" / "0xff,0x01"
func ParseHexTokens(s string) ([]byte, bool) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case '[', ']', ' ', ',', '\t', '\r', '\n':
			return true
		}
		return false
	})

	dst := make([]byte, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimPrefix(strings.TrimPrefix(field, "0x"), "0X")
		if len(field) == 0 || len(field) > 2 {
			return nil, false
		}
		var v byte
		for i := 0; i < len(field); i++ {
			d, ok := hexValue(field[i])
			if !ok {
				return nil, false
			}
			v = v<<4 | d
		}
		dst = append(dst, v)
	}
	return dst, true
}

func hexValue(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
