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
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/exporter"
	"github.com/packetd/ptzd/internal/json"
	"github.com/packetd/ptzd/logger"
)

func init() {
	exporter.Register(exporter.SinkerConsole, New)
}

const (
	rxPrefix      = "Rx"
	decodedPrefix = "=>"
	fileEOL       = "\r\n"
)

type rawRecord struct {
	Stream string    `json:"stream"`
	Time   time.Time `json:"time"`
	Hex    string    `json:"hex"`
}

type Sinker struct {
	mut     sync.Mutex
	cfg     exporter.ConsoleConfig
	stdout  io.Writer
	file    io.WriteCloser
	encoder json.Encoder
}

func New(conf exporter.Config) (exporter.Sinker, error) {
	cfg := conf.Console
	cfg.Validate()

	var stdout io.Writer
	if cfg.Stdout {
		stdout = os.Stdout
	}

	var file io.WriteCloser
	if cfg.NoLog {
		logger.Infof("Log file disabled")
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.Filename), os.ModePerm); err != nil {
			return nil, err
		}
		file = &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			LocalTime:  true,
		}
		logger.Infof("Log File Open (%s)", cfg.Filename)
	}
	return newSinker(cfg, stdout, file), nil
}

func newSinker(cfg exporter.ConsoleConfig, stdout io.Writer, file io.WriteCloser) *Sinker {
	s := &Sinker{
		cfg:    cfg,
		stdout: stdout,
		file:   file,
	}

	if cfg.Format == exporter.FormatJSON {
		var writers []io.Writer
		if stdout != nil {
			writers = append(writers, stdout)
		}
		if file != nil {
			writers = append(writers, file)
		}
		s.encoder = json.NewEncoder(io.MultiWriter(writers...))
	}
	return s
}

func (s *Sinker) Name() string {
	return exporter.SinkerConsole
}

func (s *Sinker) Sink(data any) error {
	s.mut.Lock()
	defer s.mut.Unlock()

	switch v := data.(type) {
	case *telemetry.Command:
		return s.sinkCommand(v)
	case telemetry.Chunk:
		return s.sinkChunk(v)
	}
	return nil
}

func (s *Sinker) sinkCommand(cmd *telemetry.Command) error {
	if s.encoder != nil {
		return s.encoder.Encode(cmd)
	}

	line := cmd.String()
	var errs error
	if s.stdout != nil {
		if _, err := io.WriteString(s.stdout, line+"\n"); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if s.file != nil {
		if _, err := io.WriteString(s.file, decodedPrefix+line+fileEOL); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs
}

func (s *Sinker) sinkChunk(chunk telemetry.Chunk) error {
	if len(chunk.Payload) == 0 {
		return nil
	}

	hex := telemetry.HexTokens(chunk.Payload)
	if s.encoder != nil {
		if !s.cfg.Verbose && s.file == nil {
			return nil
		}
		return s.encoder.Encode(rawRecord{Stream: chunk.Stream, Time: chunk.Time, Hex: hex})
	}

	var errs error
	if s.stdout != nil && s.cfg.Verbose {
		if _, err := io.WriteString(s.stdout, rxPrefix+hex+"\n"); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if s.file != nil {
		if _, err := io.WriteString(s.file, rxPrefix+hex+fileEOL); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs
}

func (s *Sinker) Close() error {
	s.mut.Lock()
	defer s.mut.Unlock()

	if s.file != nil {
		return s.file.Close()
	}
	return nil
}
