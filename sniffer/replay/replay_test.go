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

package replay

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/sniffer"
)

const captureLog = "Rx[ff][01][00][08]\r\n" +
	"Rx[00][3f][48]\r\n" +
	"=>[ff][01][00][08][00][3f][48] Pelco D Camera 1 [pan stop     ][TILT UP  (63)]\r\n" +
	"\r\n" +
	"Rx[a0][00][00][20][00][00][af][2f]\r\n"

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatLog, DetectFormat([]byte(captureLog)))
	assert.Equal(t, FormatLog, DetectFormat([]byte("\r\n=>x\r\n")))
	assert.Equal(t, FormatRaw, DetectFormat([]byte{0xFF, 0x01, 0x00}))
	assert.Equal(t, FormatRaw, DetectFormat(nil))
}

func TestParseLog(t *testing.T) {
	chunks, err := ParseLog([]byte(captureLog))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{
		{0xFF, 0x01, 0x00, 0x08},
		{0x00, 0x3F, 0x48},
		{0xA0, 0x00, 0x00, 0x20, 0x00, 0x00, 0xAF, 0x2F},
	}, chunks)

	_, err = ParseLog([]byte("Rx[ff][zz]\r\n"))
	assert.Error(t, err)
}

func TestSplitRaw(t *testing.T) {
	assert.Equal(t, [][]byte{{1, 2}, {3, 4}, {5}}, SplitRaw([]byte{1, 2, 3, 4, 5}, 2))
	assert.Nil(t, SplitRaw(nil, 2))
}

func TestReplay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log_2025_01_01_00_00_00.txt")
	require.NoError(t, os.WriteFile(path, []byte(captureLog), 0o644))

	snif, err := New(&sniffer.Config{Replay: sniffer.ReplayConfig{File: path}})
	require.NoError(t, err)
	defer snif.Close()

	var chunks []telemetry.Chunk
	snif.SetOnChunk(func(chunk telemetry.Chunk) {
		chunks = append(chunks, chunk)
	})
	require.NoError(t, snif.Start())

	select {
	case <-snif.(*replaySniffer).Done():
	case <-time.After(3 * time.Second):
		t.Fatal("replay not finished")
	}

	require.Len(t, chunks, 4)
	for _, chunk := range chunks {
		assert.Equal(t, "replay:log_2025_01_01_00_00_00.txt", chunk.Stream)
	}
	assert.Equal(t, []byte{0xFF, 0x01, 0x00, 0x08}, chunks[0].Payload)
	assert.True(t, chunks[3].Closed)

	stats := snif.Stats()
	assert.Equal(t, uint64(3), stats.Chunks)
	assert.Equal(t, uint64(15), stats.Bytes)
}

func TestNewInvalid(t *testing.T) {
	_, err := New(&sniffer.Config{})
	assert.Error(t, err)

	_, err = New(&sniffer.Config{Replay: sniffer.ReplayConfig{File: "x", Format: "pcapng"}})
	assert.Error(t, err)
}
