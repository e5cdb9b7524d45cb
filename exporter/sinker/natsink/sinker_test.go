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

package natsink

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/exporter"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "ptzd.commands.pelcod", Subject("ptzd.commands", telemetry.ProtoPelcoD))
	assert.Equal(t, "cctv.bbv422", Subject("cctv", telemetry.ProtoBBV422))
}

func TestNewUnreachable(t *testing.T) {
	_, err := New(exporter.Config{NATS: exporter.NATSConfig{URL: "nats://127.0.0.1:1"}})
	assert.Error(t, err)
}
