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

package controller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/packetd/ptzd/common"
)

var (
	uptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "uptime",
			Help:      "Uptime in seconds",
		},
	)

	buildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "build_info",
			Help:      "Build information",
		},
		[]string{"version", "git_hash", "build_time"},
	)

	snifferReceivedChunks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "sniffer_received_chunks_total",
			Help:      "Sniffer received chunks total",
		},
		[]string{"engine"},
	)

	snifferDroppedBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "sniffer_dropped_bytes_total",
			Help:      "Sniffer dropped bytes total",
		},
		[]string{"engine"},
	)

	snifferActiveStreams = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "sniffer_active_streams",
			Help:      "Sniffer active streams",
		},
		[]string{"engine"},
	)

	receivedBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "received_bytes_total",
			Help:      "Received bytes total",
		},
		[]string{"stream"},
	)

	decodedFrames = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "decoded_frames_total",
			Help:      "Decoded frames total",
		},
		[]string{"proto"},
	)

	unknownCommands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "unknown_commands_total",
			Help:      "Unknown commands total",
		},
		[]string{"proto"},
	)

	checksumFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "checksum_failures_total",
			Help:      "Checksum failures total",
		},
		[]string{"proto"},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: common.App,
			Name:      "active_sessions",
			Help:      "Active decoding sessions",
		},
	)

	handledRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: common.App,
			Name:      "handled_records_total",
			Help:      "Handled records total",
		},
		[]string{"type"},
	)
)
