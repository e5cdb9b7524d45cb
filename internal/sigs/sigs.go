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

package sigs

import (
	"os"
	"os/signal"
	"syscall"
)

// Terminate 等待终止信号
func Terminate() chan os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	return ch
}

// Reload 等待 Reload 信号 使用 SIGHUP
func Reload() chan os.Signal {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGHUP)
	return ch
}

// SelfReload 主动触发 Reload 信号
//
// 由 /-/reload 路由调用 agent 收到信号后重新加载配置文件
func SelfReload() error {
	return syscall.Kill(syscall.Getpid(), syscall.SIGHUP)
}

// Stop 取消 ch 上的信号订阅
func Stop(ch chan os.Signal) {
	signal.Stop(ch)
}
