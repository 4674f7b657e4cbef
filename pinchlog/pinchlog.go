/*
 * Copyright 2024 The Pinch Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package pinchlog provides the pluggable logging interface the rpc
// package uses to report connection lifecycle events, modeled on
// cloudwego/kitex's pkg/klog: a package-level default logger that callers
// may swap out with SetLogger, so embedding applications can redirect
// output without the rpc package depending on any particular logging
// library.
package pinchlog

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Level gates which severities reach the underlying writer.
type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelTrace:
		return "[Trace] "
	case LevelDebug:
		return "[Debug] "
	case LevelInfo:
		return "[Info] "
	case LevelWarn:
		return "[Warn] "
	case LevelError:
		return "[Error] "
	default:
		return "[Unknown] "
	}
}

// Logger is the interface the rpc package logs connection lifecycle events
// through. Codec and protocol errors are always returned to the caller,
// never logged here (spec §7's propagation policy) — this interface exists
// purely for the ambient "a connection opened/closed/dispatched a request"
// narration a server operator wants in its own logs.
type Logger interface {
	SetOutput(w io.Writer)
	SetLevel(lv Level)
	Tracef(format string, v ...interface{})
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

var defaultLogger Logger = &stdLogger{
	logger: log.New(os.Stderr, "", log.LstdFlags),
	level:  LevelInfo,
}

// SetLogger replaces the package-level default logger. Not concurrency-safe;
// call before any rpc.Server or rpc.Client starts handling traffic.
func SetLogger(l Logger) {
	defaultLogger = l
}

// DefaultLogger returns the current package-level default logger.
func DefaultLogger() Logger {
	return defaultLogger
}

// SetOutput redirects the default logger's output. By default it is stderr.
func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

// SetLevel sets the minimum severity the default logger emits.
func SetLevel(lv Level) {
	defaultLogger.SetLevel(lv)
}

// Tracef logs at LevelTrace through the default logger.
func Tracef(format string, v ...interface{}) { defaultLogger.Tracef(format, v...) }

// Debugf logs at LevelDebug through the default logger.
func Debugf(format string, v ...interface{}) { defaultLogger.Debugf(format, v...) }

// Infof logs at LevelInfo through the default logger.
func Infof(format string, v ...interface{}) { defaultLogger.Infof(format, v...) }

// Warnf logs at LevelWarn through the default logger.
func Warnf(format string, v ...interface{}) { defaultLogger.Warnf(format, v...) }

// Errorf logs at LevelError through the default logger.
func Errorf(format string, v ...interface{}) { defaultLogger.Errorf(format, v...) }

type stdLogger struct {
	logger *log.Logger
	level  Level
}

func (l *stdLogger) SetOutput(w io.Writer) { l.logger.SetOutput(w) }
func (l *stdLogger) SetLevel(lv Level)      { l.level = lv }

func (l *stdLogger) logf(lv Level, format string, v ...interface{}) {
	if lv < l.level {
		return
	}
	l.logger.Output(3, lv.String()+fmt.Sprintf(format, v...))
}

func (l *stdLogger) Tracef(format string, v ...interface{}) { l.logf(LevelTrace, format, v...) }
func (l *stdLogger) Debugf(format string, v ...interface{}) { l.logf(LevelDebug, format, v...) }
func (l *stdLogger) Infof(format string, v ...interface{})  { l.logf(LevelInfo, format, v...) }
func (l *stdLogger) Warnf(format string, v ...interface{})  { l.logf(LevelWarn, format, v...) }
func (l *stdLogger) Errorf(format string, v ...interface{}) { l.logf(LevelError, format, v...) }
