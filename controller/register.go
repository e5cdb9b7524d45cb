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
	_ "github.com/packetd/ptzd/exporter/sinker/console"
	_ "github.com/packetd/ptzd/exporter/sinker/natsink"
	_ "github.com/packetd/ptzd/exporter/sinker/redisink"
	_ "github.com/packetd/ptzd/processor/dedup"
	_ "github.com/packetd/ptzd/processor/filter"
	_ "github.com/packetd/ptzd/protocol/pad"
	_ "github.com/packetd/ptzd/protocol/pbosch"
	_ "github.com/packetd/ptzd/protocol/pfv"
	_ "github.com/packetd/ptzd/protocol/pjvc"
	_ "github.com/packetd/ptzd/protocol/ppanasonic"
	_ "github.com/packetd/ptzd/protocol/ppelcod"
	_ "github.com/packetd/ptzd/protocol/ppelcop"
	_ "github.com/packetd/ptzd/protocol/pvcl"
	_ "github.com/packetd/ptzd/protocol/pvicon"
	_ "github.com/packetd/ptzd/protocol/pvisca"
	_ "github.com/packetd/ptzd/sniffer/libpcap"
	_ "github.com/packetd/ptzd/sniffer/netconn"
	_ "github.com/packetd/ptzd/sniffer/replay"
	_ "github.com/packetd/ptzd/sniffer/serialport"
)
