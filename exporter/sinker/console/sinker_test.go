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

package console

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/exporter"
	"github.com/packetd/ptzd/sniffer/replay"
)

type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

func testCommand() *telemetry.Command {
	cmd := &telemetry.Command{
		Proto:  telemetry.ProtoPelcoD,
		Camera: 1,
		Raw:    []byte{0xFF, 0x01, 0x00, 0x08, 0x00, 0x3F, 0x48},
		Time:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Motion: &telemetry.Motion{
			Pan:  telemetry.NewAxis(telemetry.DirStop),
			Tilt: telemetry.NewSpeedAxis(telemetry.DirUp, 63),
		},
	}
	cmd.Render()
	return cmd
}

func TestSinkText(t *testing.T) {
	var stdout bytes.Buffer
	file := &bufferCloser{}
	s := newSinker(exporter.ConsoleConfig{Format: exporter.FormatText, Verbose: true}, &stdout, file)

	chunk := telemetry.Chunk{Stream: "serial:COM1", Payload: []byte{0xFF, 0x01}}
	require.NoError(t, s.Sink(chunk))
	require.NoError(t, s.Sink(telemetry.Chunk{Stream: "serial:COM1", Closed: true}))
	require.NoError(t, s.Sink(testCommand()))
	require.NoError(t, s.Sink("ignored"))

	line := testCommand().String()
	assert.Equal(t, "Rx[ff][01]\n"+line+"\n", stdout.String())
	assert.Equal(t, "Rx[ff][01]\r\n=>"+line+"\r\n", file.String())

	require.NoError(t, s.Close())
	assert.True(t, file.closed)
}

func TestSinkTextQuiet(t *testing.T) {
	var stdout bytes.Buffer
	s := newSinker(exporter.ConsoleConfig{Format: exporter.FormatText}, &stdout, nil)

	require.NoError(t, s.Sink(telemetry.Chunk{Payload: []byte{0xFF}}))
	require.NoError(t, s.Sink(testCommand()))
	assert.Equal(t, testCommand().String()+"\n", stdout.String())
	assert.NoError(t, s.Close())
}

func TestSinkJSON(t *testing.T) {
	var stdout bytes.Buffer
	s := newSinker(exporter.ConsoleConfig{Format: exporter.FormatJSON}, &stdout, nil)

	require.NoError(t, s.Sink(telemetry.Chunk{Payload: []byte{0xFF}}))
	require.NoError(t, s.Sink(testCommand()))

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"proto":"pelcod"`)
	assert.Contains(t, lines[0], `"camera":1`)
	assert.Contains(t, lines[0], `"hex":"[ff][01][00][08][00][3f][48]"`)
}

func TestLogFileReplayable(t *testing.T) {
	file := &bufferCloser{}
	s := newSinker(exporter.ConsoleConfig{Format: exporter.FormatText}, nil, file)

	require.NoError(t, s.Sink(telemetry.Chunk{Payload: []byte{0xFF, 0x01, 0x00}}))
	require.NoError(t, s.Sink(testCommand()))
	require.NoError(t, s.Sink(telemetry.Chunk{Payload: []byte{0x08, 0x00, 0x3F, 0x48}}))

	chunks, err := replay.ParseLog(file.Bytes())
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{0xFF, 0x01, 0x00}, {0x08, 0x00, 0x3F, 0x48}}, chunks)
}

func TestNew(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "logs", exporter.LogFilename(time.Now()))
	s, err := New(exporter.Config{Console: exporter.ConsoleConfig{Filename: filename}})
	require.NoError(t, err)
	assert.Equal(t, exporter.SinkerConsole, s.Name())
	assert.NoError(t, s.Sink(testCommand()))
	assert.NoError(t, s.Close())
	assert.FileExists(t, filename)
}
