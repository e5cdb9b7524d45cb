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

// Package checksum 实现各云台协议使用的校验算法
//
// 所有函数的输入 b 为完整帧 最后一个字节为期望的校验值
// 调用方需保证 len(b) >= 2
package checksum

// Func 校验函数定义
type Func func(b []byte) bool

// Sum 校验 b[1:n-1] 之和 mod 256 跳过首个同步字节
func Sum(b []byte) bool {
	n := len(b)
	var total byte
	for i := 1; i < n-1; i++ {
		total += b[i]
	}
	return total == b[n-1]
}

// XOR 校验 b[0:n-1] 的异或值
func XOR(b []byte) bool {
	n := len(b)
	var total byte
	for i := 0; i < n-1; i++ {
		total ^= b[i]
	}
	return total == b[n-1]
}

// MaskedSum 校验 b[0:n-1] 之和的低 7 位
func MaskedSum(b []byte) bool {
	n := len(b)
	var total byte
	for i := 0; i < n-1; i++ {
		total += b[i]
	}
	return total&0x7F == b[n-1]
}

// XORMSBSet 校验 b[0:n-1] 的异或值且最高位强制置 1
func XORMSBSet(b []byte) bool {
	n := len(b)
	var total byte
	for i := 0; i < n-1; i++ {
		total ^= b[i]
	}
	return total|0x80 == b[n-1]
}

// NegatedSum 校验 b[0:n-1] 之和的补码 即 (0 - sum) mod 256
func NegatedSum(b []byte) bool {
	n := len(b)
	var total byte
	for i := 0; i < n-1; i++ {
		total += b[i]
	}
	return -total == b[n-1]
}
