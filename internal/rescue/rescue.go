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

package rescue

import (
	"runtime"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/packetd/ptzd/common"
	"github.com/packetd/ptzd/logger"
)

var panicTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: common.App,
		Name:      "panic_total",
		Help:      "Recovered panics total",
	},
	[]string{"routine"},
)

// PanicHandler 在 panic 被恢复后执行 routine 为发生 panic 的协程名称
type PanicHandler func(routine string, r any)

var PanicHandlers = []PanicHandler{
	incPanicCounter,
	logPanic,
}

func incPanicCounter(routine string, _ any) {
	panicTotal.WithLabelValues(routine).Inc()
}

func logPanic(routine string, r any) {
	const size = 64 << 10
	stacktrace := make([]byte, size)
	stacktrace = stacktrace[:runtime.Stack(stacktrace, false)]
	logger.Errorf("routine (%s) observed a panic: %v\n%s", routine, r, stacktrace)
}

// HandleCrash 恢复 panic 并执行 PanicHandlers 需要以 defer 方式调用
func HandleCrash(routine string) {
	if r := recover(); r != nil {
		for _, fn := range PanicHandlers {
			fn(routine, r)
		}
	}
}

// Go 启动一个受保护的 goroutine
//
// 单个数据源读取循环的异常不会导致进程退出
func Go(routine string, f func()) {
	go func() {
		defer HandleCrash(routine)
		f()
	}()
}
