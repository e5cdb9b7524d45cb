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
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/packetd/ptzd/common/telemetry"
	"github.com/packetd/ptzd/internal/json"
	"github.com/packetd/ptzd/internal/sigs"
	"github.com/packetd/ptzd/logger"
	"github.com/packetd/ptzd/protocol"
)

func (c *Controller) setupServer() {
	if c.svr == nil {
		return
	}

	// Admin Routes
	c.svr.RegisterPostRoute("/-/logger", c.routeLogger)
	c.svr.RegisterPostRoute("/-/reload", c.routeReload)

	// Watch Routes
	c.svr.RegisterGetRoute("/watch", c.routeWatch)
	c.svr.RegisterGetRoute("/sessions", c.routeSessions)
	c.svr.RegisterGetRoute("/protocols", c.routeProtocols)

	// Metrics Routes
	c.svr.RegisterGetRoute("/metrics", c.routeMetrics)
}

func (c *Controller) routeMetrics(w http.ResponseWriter, r *http.Request) {
	c.recordMetrics()
	promhttp.Handler().ServeHTTP(w, r)
}

func (c *Controller) routeLogger(w http.ResponseWriter, r *http.Request) {
	level := r.FormValue("level")
	logger.SetLoggerLevel(level)
	w.Write([]byte(`{"status": "success"}`))
}

func (c *Controller) routeReload(w http.ResponseWriter, r *http.Request) {
	if err := sigs.SelfReload(); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(err.Error()))
		return
	}
	w.Write([]byte(`{"status": "success"}`))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warnf("failed to encode response: %v", err)
	}
}

func (c *Controller) routeSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, c.pool.Sessions())
}

type protocolInfo struct {
	Proto   telemetry.Proto `json:"proto"`
	Name    string          `json:"name"`
	Enabled bool            `json:"enabled"`
}

func (c *Controller) routeProtocols(w http.ResponseWriter, r *http.Request) {
	c.mut.RLock()
	protos, _ := c.cfg.Protos()
	c.mut.RUnlock()

	enabled := make(map[telemetry.Proto]bool)
	for _, p := range protos {
		enabled[p] = true
	}

	registered := protocol.Protocols()
	infos := make([]protocolInfo, 0, len(registered))
	for _, p := range registered {
		infos = append(infos, protocolInfo{
			Proto:   p,
			Name:    p.DisplayName(),
			Enabled: len(protos) == 0 || enabled[p],
		})
	}
	writeJSON(w, infos)
}

// protoFilter 根据 proto 参数生成订阅过滤条件 参数为空时不过滤
func protoFilter(s string) func(msg any) bool {
	if s == "" {
		return nil
	}

	wanted := make(map[telemetry.Proto]struct{})
	for _, p := range strings.Split(s, ",") {
		wanted[telemetry.Proto(strings.ToLower(strings.TrimSpace(p)))] = struct{}{}
	}
	return func(msg any) bool {
		cmd, ok := msg.(*telemetry.Command)
		if !ok {
			return false
		}
		_, ok = wanted[cmd.Proto]
		return ok
	}
}

func (c *Controller) routeWatch(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return
	}

	var maxMessage int
	maxMessage, _ = strconv.Atoi(r.URL.Query().Get("max_message"))
	if maxMessage <= 0 {
		maxMessage = 100
	}

	var timeout time.Duration
	timeout, _ = time.ParseDuration(r.URL.Query().Get("timeout"))
	if timeout <= 0 {
		timeout = time.Second * 5
	}

	queue := c.bus.Subscribe(100, protoFilter(r.URL.Query().Get("proto")))
	defer c.bus.Unsubscribe(queue)

	w.Header().Set("Content-Type", "application/x-ndjson")
	for i := 0; i < maxMessage; i++ {
		data, ok := queue.PopTimeout(timeout)
		if !ok {
			return
		}

		b, err := json.Marshal(data)
		if err != nil {
			continue
		}
		w.Write(b)
		w.Write([]byte{'\n'})
		flusher.Flush()
	}
}
