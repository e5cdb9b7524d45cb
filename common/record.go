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

package common

// RecordType 数据记录类型
type RecordType string

const (
	// RecordCommands 解码完成的命令
	RecordCommands RecordType = "commands"

	// RecordRawBytes 数据源读取到的原始字节
	RecordRawBytes RecordType = "rawbytes"
)

// Record 在 controller / pipeline / exporter 之间流转的数据信封
type Record struct {
	RecordType RecordType
	Data       any
}

func NewRecord(rtype RecordType, data any) *Record {
	return &Record{
		RecordType: rtype,
		Data:       data,
	}
}
