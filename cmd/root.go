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

package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/packetd/ptzd/common"
	"github.com/packetd/ptzd/confengine"
	"github.com/packetd/ptzd/controller"
	"github.com/packetd/ptzd/internal/sigs"
	"github.com/packetd/ptzd/logger"
)

// 构建时通过 -ldflags 注入
var (
	version   = common.Version
	gitHash   = "unknown"
	buildTime = "unknown"
)

func buildInfo() common.BuildInfo {
	return common.BuildInfo{
		Version: version,
		GitHash: gitHash,
		Time:    buildTime,
	}
}

var rootCmd = &cobra.Command{
	Use:     common.App,
	Short:   "Passive CCTV PTZ telemetry sniffer and decoder",
	Version: buildInfo().String(),
}

func init() {
	rootCmd.SetVersionTemplate("{{ .Version }}\n")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var templateFuncs = template.FuncMap{
	// list 将字符串切片渲染为 YAML flow sequence
	"list": func(items []string) string {
		quoted := make([]string, 0, len(items))
		for _, item := range items {
			quoted = append(quoted, "'"+strings.ReplaceAll(item, "'", "''")+"'")
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	},
	"ints": func(items []int) string {
		ss := make([]string, 0, len(items))
		for _, item := range items {
			ss = append(ss, strconv.Itoa(item))
		}
		return "[" + strings.Join(ss, ", ") + "]"
	},
}

func renderConfig(text string, data any) ([]byte, error) {
	tpl, err := template.New("Config").Funcs(templateFuncs).Parse(text)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// runController 启动 controller 并阻塞至收到退出信号或者有限数据源读取完毕
//
// configPath 非空时 SIGHUP 会重新加载该文件
func runController(conf *confengine.Config, configPath string) {
	ctr, err := controller.New(conf, buildInfo())
	if err != nil {
		exitf("failed to create controller: %v", err)
	}
	if err := ctr.Start(); err != nil {
		ctr.Stop()
		exitf("failed to start controller: %v\n"+
			"Note: This operation may requires root privileges (try running with 'sudo')", err)
	}

	terminate := sigs.Terminate()
	reload := sigs.Reload()
	defer sigs.Stop(terminate)
	defer sigs.Stop(reload)

	for {
		select {
		case <-terminate:
			ctr.Stop()
			return

		case <-ctr.Done():
			logger.Infof("source drained, exiting")
			ctr.Stop()
			return

		case <-reload:
			if configPath == "" {
				continue
			}
			newConf, err := confengine.LoadConfigPath(configPath)
			if err != nil {
				logger.Errorf("failed to load config: %v", err)
				continue
			}
			if err := ctr.Reload(newConf); err != nil {
				logger.Errorf("failed to reload controller: %v", err)
				continue
			}
		}
	}
}
