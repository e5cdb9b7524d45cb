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

package bufbytes

// Bytes 定长字节缓冲区 写满后采用滑动丢弃策略
//
// 容量在创建后不再变化 游标 n 始终满足 0 <= n <= cap
// 缓冲区内字节按到达顺序排列 最新的字节位于末尾
type Bytes struct {
	n   int
	buf []byte
}

func New(size int) *Bytes {
	if size <= 0 {
		size = 1
	}
	return &Bytes{
		buf: make([]byte, size),
	}
}

// WriteByte 追加单个字节
//
// 缓冲区未满时追加到末尾 已满时整体左移一位丢弃最旧的字节后再追加
func (b *Bytes) WriteByte(c byte) error {
	if b.n < len(b.buf) {
		b.buf[b.n] = c
		b.n++
		return nil
	}

	copy(b.buf, b.buf[1:])
	b.buf[len(b.buf)-1] = c
	return nil
}

// Write 逐字节追加 p 语义同 WriteByte
func (b *Bytes) Write(p []byte) {
	for _, c := range p {
		_ = b.WriteByte(c)
	}
}

func (b *Bytes) Len() int {
	return b.n
}

func (b *Bytes) Cap() int {
	return len(b.buf)
}

func (b *Bytes) Full() bool {
	return b.n == len(b.buf)
}

// At 返回第 i 个字节 越界返回 0
func (b *Bytes) At(i int) byte {
	if i < 0 || i >= b.n {
		return 0
	}
	return b.buf[i]
}

// Last 返回最新写入的字节
func (b *Bytes) Last() byte {
	if b.n == 0 {
		return 0
	}
	return b.buf[b.n-1]
}

// Bytes 返回当前内容 如有修改需求 请使用 Clone
func (b *Bytes) Bytes() []byte {
	return b.buf[:b.n]
}

func (b *Bytes) Clone() []byte {
	if b.n == 0 {
		return nil
	}
	return append([]byte{}, b.buf[:b.n]...)
}

func (b *Bytes) Reset() {
	b.n = 0
}
