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

package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var zapLevels = map[Level]zapcore.Level{
	LevelDebug: zapcore.DebugLevel,
	LevelInfo:  zapcore.InfoLevel,
	LevelWarn:  zapcore.WarnLevel,
	LevelError: zapcore.ErrorLevel,
}

// toZapLevel 未知级别按 info 处理
func toZapLevel(s string) zapcore.Level {
	if level, ok := zapLevels[Level(strings.ToLower(strings.TrimSpace(s)))]; ok {
		return level
	}
	return zapcore.InfoLevel
}

// Options 日志配置 Stdout 为 true 或者未指定文件时输出到标准输出
type Options struct {
	Stdout     bool   `config:"stdout"`
	Level      string `config:"level"`
	Filename   string `config:"filename"`
	MaxSize    int    `config:"maxSize"` // unit: MB
	MaxAge     int    `config:"maxAge"`  // unit: days
	MaxBackups int    `config:"maxBackups"`
}

// Logger 级别可在运行时调整 无需重建
type Logger struct {
	level   zap.AtomicLevel
	sugared *zap.SugaredLogger
}

func (l *Logger) Enabled(level Level) bool {
	return l.level.Enabled(toZapLevel(string(level)))
}

// SetLevel 运行时调整日志级别
func (l *Logger) SetLevel(s string) {
	l.level.SetLevel(toZapLevel(s))
}

func (l *Logger) Debugf(template string, args ...any) {
	l.sugared.Debugf(template, args...)
}

func (l *Logger) Infof(template string, args ...any) {
	l.sugared.Infof(template, args...)
}

func (l *Logger) Warnf(template string, args ...any) {
	l.sugared.Warnf(template, args...)
}

func (l *Logger) Errorf(template string, args ...any) {
	l.sugared.Errorf(template, args...)
}

// Sync 刷新缓冲区
func (l *Logger) Sync() error {
	return l.sugared.Sync()
}

func newWriteSyncer(opt Options) zapcore.WriteSyncer {
	if opt.Stdout || opt.Filename == "" {
		return zapcore.Lock(os.Stdout)
	}

	// 目录无法创建时退回标准输出
	if err := os.MkdirAll(filepath.Dir(opt.Filename), os.ModePerm); err != nil {
		return zapcore.Lock(os.Stdout)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   opt.Filename,
		MaxSize:    opt.MaxSize,
		MaxBackups: opt.MaxBackups,
		MaxAge:     opt.MaxAge,
		LocalTime:  true,
	})
}

// New 创建并返回 Logger 实例
func New(opt Options) *Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Local().Format("2006-01-02 15:04:05.000"))
	}
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	level := zap.NewAtomicLevelAt(toZapLevel(opt.Level))
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), newWriteSyncer(opt), level)
	return &Logger{
		level:   level,
		sugared: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)).Sugar(),
	}
}

var (
	mut sync.RWMutex
	std = New(Options{Stdout: true})
)

func global() *Logger {
	mut.RLock()
	defer mut.RUnlock()
	return std
}

// SetOptions 替换全局 Logger
func SetOptions(opt Options) {
	l := New(opt)

	mut.Lock()
	prev := std
	std = l
	mut.Unlock()

	_ = prev.Sync()
}

// SetLoggerLevel 调整全局 Logger 日志级别
func SetLoggerLevel(s string) {
	global().SetLevel(s)
}

// Enabled 判断全局 Logger 是否会输出 level 级别日志
//
// 用于在拼接开销较大的日志前提前判断
func Enabled(level Level) bool {
	return global().Enabled(level)
}

// Sync 刷新全局 Logger 缓冲区 进程退出前调用
func Sync() error {
	return global().Sync()
}

func Debugf(template string, args ...any) {
	global().Debugf(template, args...)
}

func Infof(template string, args ...any) {
	global().Infof(template, args...)
}

func Warnf(template string, args ...any) {
	global().Warnf(template, args...)
}

func Errorf(template string, args ...any) {
	global().Errorf(template, args...)
}
