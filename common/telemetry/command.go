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

package telemetry

import (
	"strconv"
	"strings"
	"time"
)

// Direction 单个运动轴的状态
type Direction string

const (
	DirStop     Direction = "stop"
	DirConflict Direction = "conflict"
	DirLeft     Direction = "left"
	DirRight    Direction = "right"
	DirUp       Direction = "up"
	DirDown     Direction = "down"
	DirIn       Direction = "in"
	DirOut      Direction = "out"
	DirOpen     Direction = "open"
	DirClose    Direction = "close"
	DirNear     Direction = "near"
	DirFar      Direction = "far"
)

// Resolve 根据一对互斥标志位得出轴状态
//
// 两个标志同时置位时不做取舍 返回 DirConflict
func Resolve(a, b bool, dirA, dirB Direction) Direction {
	switch {
	case a && b:
		return DirConflict
	case a:
		return dirA
	case b:
		return dirB
	}
	return DirStop
}

// Axis 运动轴状态 速度可选
type Axis struct {
	Dir      Direction `json:"dir"`
	Speed    int       `json:"speed,omitempty"`
	HasSpeed bool      `json:"-"`
}

// NewAxis 创建不带速度的 Axis
func NewAxis(dir Direction) *Axis {
	return &Axis{Dir: dir}
}

// NewSpeedAxis 创建带速度的 Axis
func NewSpeedAxis(dir Direction, speed int) *Axis {
	return &Axis{Dir: dir, Speed: speed, HasSpeed: true}
}

// Motion 云台及镜头动作集合 nil 代表协议未携带该轴信息
type Motion struct {
	Pan   *Axis `json:"pan,omitempty"`
	Tilt  *Axis `json:"tilt,omitempty"`
	Zoom  *Axis `json:"zoom,omitempty"`
	Iris  *Axis `json:"iris,omitempty"`
	Focus *Axis `json:"focus,omitempty"`
}

// Extended 非运动类命令 如预置位 辅助开关 巡航等
//
// Unknown 为 true 代表帧结构合法但命令码未收录 Code 保存原始命令码
type Extended struct {
	Name       string `json:"name"`
	Code       int    `json:"code"`
	Operand    int    `json:"operand,omitempty"`
	HasOperand bool   `json:"-"`
	Detail     string `json:"detail,omitempty"`
	Unknown    bool   `json:"unknown,omitempty"`
}

// UnknownCommand 生成未知命令描述
func UnknownCommand(code int) *Extended {
	return &Extended{
		Name:    "Unknown command",
		Code:    code,
		Unknown: true,
	}
}

// Command 单帧解码结果
type Command struct {
	Proto       Proto     `json:"proto"`
	Camera      int       `json:"camera"`
	Target      string    `json:"target,omitempty"`
	Stream      string    `json:"stream,omitempty"`
	Time        time.Time `json:"time"`
	Motion      *Motion   `json:"motion,omitempty"`
	Extended    *Extended `json:"extended,omitempty"`
	Raw         []byte    `json:"-"`
	Hex         string    `json:"hex"`
	Description string    `json:"description"`
}

// Unknown 是否为未识别命令
func (c *Command) Unknown() bool {
	return c.Extended != nil && c.Extended.Unknown
}

// String 返回诊断文本 即十六进制字节 + 解码描述
func (c *Command) String() string {
	return c.Hex + " " + c.Description
}

// Render 根据结构化字段生成 Hex 以及 Description
func (c *Command) Render() {
	c.Hex = HexTokens(c.Raw)

	var sb strings.Builder
	sb.WriteString(c.Proto.DisplayName())
	sb.WriteByte(' ')
	if c.Target != "" {
		sb.WriteString(c.Target)
	} else {
		sb.WriteString("Camera ")
		sb.WriteString(strconv.Itoa(c.Camera))
	}
	sb.WriteByte(' ')

	if c.Motion != nil {
		writeAxis(&sb, c.Motion.Pan, panLabels)
		writeAxis(&sb, c.Motion.Tilt, tiltLabels)
		writeAxis(&sb, c.Motion.Zoom, zoomLabels)
		writeAxis(&sb, c.Motion.Iris, irisLabels)
		writeAxis(&sb, c.Motion.Focus, focusLabels)
	}
	if c.Extended != nil {
		writeExtended(&sb, c.Extended)
	}
	c.Description = strings.TrimRight(sb.String(), " ")
}

type axisLabels map[Direction]string

// 标签宽度对齐 方便在控制台按列查看
var (
	panLabels = axisLabels{
		DirStop:     "pan stop     ",
		DirLeft:     "PAN LEFT ",
		DirRight:    "PAN RIGHT",
		DirConflict: "PAN ???? ",
	}
	tiltLabels = axisLabels{
		DirStop:     "tilt stop    ",
		DirUp:       "TILT UP  ",
		DirDown:     "TILT DOWN",
		DirConflict: "TILT ????",
	}
	zoomLabels = axisLabels{
		DirStop:     "zoom stop",
		DirIn:       "ZOOM IN  ",
		DirOut:      "ZOOM OUT ",
		DirConflict: "ZOOM ????",
	}
	irisLabels = axisLabels{
		DirStop:     "iris stop ",
		DirOpen:     "IRIS OPEN ",
		DirClose:    "IRIS CLOSE",
		DirConflict: "IRIS ???? ",
	}
	focusLabels = axisLabels{
		DirStop:     "focus stop",
		DirNear:     "FOCUS NEAR",
		DirFar:      "FOCUS FAR ",
		DirConflict: "FOCUS ????",
	}
)

func writeAxis(sb *strings.Builder, axis *Axis, labels axisLabels) {
	if axis == nil {
		return
	}
	label, ok := labels[axis.Dir]
	if !ok {
		label = string(axis.Dir)
	}

	sb.WriteByte('[')
	sb.WriteString(label)
	if axis.HasSpeed && axis.Dir != DirStop {
		sb.WriteByte('(')
		sb.WriteString(strconv.Itoa(axis.Speed))
		sb.WriteByte(')')
	}
	sb.WriteByte(']')
}

func writeExtended(sb *strings.Builder, ext *Extended) {
	sb.WriteByte('[')
	sb.WriteString(ext.Name)
	if ext.Unknown {
		sb.WriteByte(' ')
		sb.WriteString(hexByte(ext.Code))
	}
	if ext.HasOperand {
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(ext.Operand))
	}
	if ext.Detail != "" {
		sb.WriteByte(' ')
		sb.WriteString(ext.Detail)
	}
	sb.WriteByte(']')
}

func hexByte(v int) string {
	s := strconv.FormatInt(int64(v), 16)
	if len(s) < 2 {
		s = "0" + s
	}
	return s
}
