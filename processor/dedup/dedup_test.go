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

package dedup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/ptzd/common"
	"github.com/packetd/ptzd/common/telemetry"
)

func TestDedup(t *testing.T) {
	p, err := New(map[string]any{"window": "500ms"})
	require.NoError(t, err)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	record := func(stream, hex string, offset time.Duration) *common.Record {
		return common.NewRecord(common.RecordCommands, &telemetry.Command{
			Stream: stream,
			Hex:    hex,
			Time:   base.Add(offset),
		})
	}

	tests := []struct {
		name   string
		record *common.Record
		keep   bool
	}{
		{name: "First", record: record("a", "[ff]", 0), keep: true},
		{name: "Repeat in window", record: record("a", "[ff]", 100*time.Millisecond), keep: false},
		{name: "Other stream", record: record("b", "[ff]", 150*time.Millisecond), keep: true},
		{name: "Repeat slides window", record: record("a", "[ff]", 500*time.Millisecond), keep: false},
		{name: "Repeat after window", record: record("a", "[ff]", 1100*time.Millisecond), keep: true},
		{name: "Changed", record: record("a", "[fe]", 1200*time.Millisecond), keep: true},
		{name: "Raw bytes", record: common.NewRecord(common.RecordRawBytes, telemetry.Chunk{}), keep: true},
	}

	for _, tt := range tests {
		r, err := p.Process(tt.record)
		assert.NoError(t, err)
		assert.Equal(t, tt.keep, r != nil, tt.name)
	}

	p.(*Dedup).Forget("a")
	r, _ := p.Process(record("a", "[fe]", 1300*time.Millisecond))
	assert.NotNil(t, r)

	p.Clean()
	r, _ = p.Process(record("b", "[ff]", 200*time.Millisecond))
	assert.NotNil(t, r)
}

func TestDefaultWindow(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)
	assert.Equal(t, time.Second, p.(*Dedup).window)
}
