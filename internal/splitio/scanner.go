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

package splitio

import (
	"bytes"
)

var (
	CharCRLF = []byte("\r\n")
	CharLF   = []byte("\n")
)

// Scanner 按行切割内存中的日志内容 不拷贝底层数据
type Scanner struct {
	l, r int
	buf  []byte
}

// NewScanner 创建并返回 *Scanner 实例
//
// Bytes 保留切割后的换行符 `\r\n` 或者 `\n` Line 则去除
func NewScanner(b []byte) *Scanner {
	return &Scanner{
		buf: b,
	}
}

// Scan 扫描下一个 LF 字符并标记索引
func (s *Scanner) Scan() bool {
	s.l = s.r
	if len(s.buf) == s.l {
		return false
	}

	idx := bytes.IndexByte(s.buf[s.l:], CharLF[0])
	if idx == -1 {
		s.r = len(s.buf)
	} else {
		s.r = s.l + idx + 1
	}
	return true
}

// Bytes 读取下一行 如有修改需求 请拷贝一份
func (s *Scanner) Bytes() []byte {
	return s.buf[s.l:s.r]
}

// Line 读取下一行并去除行尾的 CR/LF
func (s *Scanner) Line() []byte {
	return TrimEOL(s.Bytes())
}

// TrimEOL 去除行尾的 CR/LF
func TrimEOL(b []byte) []byte {
	for len(b) > 0 {
		switch b[len(b)-1] {
		case '\r', '\n':
			b = b[:len(b)-1]
		default:
			return b
		}
	}
	return b
}

// Offset 返回已扫描的字节数
func (s *Scanner) Offset() int {
	return s.r
}
