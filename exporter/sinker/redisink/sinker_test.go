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

package redisink

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/exporter"
)

func TestValues(t *testing.T) {
	cmd := &telemetry.Command{
		Proto:    telemetry.ProtoAD,
		Target:   "Broadcast",
		Stream:   "tcp:127.0.0.1:50000",
		Time:     time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
		Raw:      []byte{0x40, 0x98, 0x28},
		Extended: telemetry.UnknownCommand(0x98),
	}
	cmd.Render()

	values := Values(cmd)
	assert.Equal(t, "ad", values["proto"])
	assert.Equal(t, "Broadcast", values["target"])
	assert.Equal(t, "tcp:127.0.0.1:50000", values["stream"])
	assert.Equal(t, "2025-01-01T08:00:00Z", values["time"])
	assert.Equal(t, "[40][98][28]", values["hex"])
	assert.Equal(t, 1, values["unknown"])
}

func TestNewUnreachable(t *testing.T) {
	_, err := New(exporter.Config{Redis: exporter.RedisConfig{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond}})
	assert.Error(t, err)
}
