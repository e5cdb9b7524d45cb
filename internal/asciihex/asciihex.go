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

package asciihex

// Digit 将 ASCII 十六进制字符转换为数值 大小写均可
func Digit(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10, true
	}
	return 0, false
}

// Pair 解析两个 ASCII 十六进制字符组成的字节
func Pair(hi, lo byte) (int, bool) {
	h, ok := Digit(hi)
	if !ok {
		return 0, false
	}
	l, ok := Digit(lo)
	if !ok {
		return 0, false
	}
	return h<<4 | l, true
}

// Parse 解析任意长度的 ASCII 十六进制字段 空字段视为非法
func Parse(b []byte) (int, bool) {
	if len(b) == 0 || len(b) > 7 {
		return 0, false
	}

	var v int
	for _, c := range b {
		d, ok := Digit(c)
		if !ok {
			return 0, false
		}
		v = v<<4 | d
	}
	return v, true
}

// ExtendedDigit 解析扩展的单字符长度编码
//
// '0'-'9' 对应 0-9 'A' 起依次对应 10 11 ... 直到 '~'
func ExtendedDigit(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'A' && c <= '~':
		return int(c-'A') + 10, true
	}
	return 0, false
}
