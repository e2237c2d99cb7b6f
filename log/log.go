// Copyright 2018 The go-klaytn Authors
// This file is part of the go-klaytn library.
//
// The go-klaytn library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-klaytn library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-klaytn library. If not, see <http://www.gnu.org/licenses/>.

// Package log is a small leveled, module-tagged logger used throughout
// this node in place of the standard library's bare log package. It
// mirrors the shape of the teacher's own log.NewModuleLogger: every
// component fetches a Logger scoped to its module name, and key-value
// pairs travel with the message rather than being interpolated into it.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-stack/stack"
	"github.com/mattn/go-colorable"
)

type Lvl int

const (
	LvlCrit Lvl = iota
	LvlError
	LvlWarn
	LvlInfo
	LvlDebug
	LvlTrace
)

func (l Lvl) String() string {
	switch l {
	case LvlCrit:
		return "CRIT"
	case LvlError:
		return "ERROR"
	case LvlWarn:
		return "WARN"
	case LvlInfo:
		return "INFO"
	case LvlDebug:
		return "DEBUG"
	case LvlTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// Module names, mirroring the teacher's log.Common/log.NodeCore-style
// constants used to group records by subsystem.
type Module string

const (
	Common    Module = "common"
	Forest    Module = "forest"
	Gossip    Module = "gossip"
	Mining    Module = "mining"
	Transport Module = "transport"
	Crypto    Module = "crypto"
	Cmd       Module = "cmd"
)

var (
	root = &logger{
		out:   colorable.NewColorableStderr(),
		level: LvlInfo,
	}
)

// SetLevel adjusts the process-wide minimum level that gets written out.
func SetLevel(l Lvl) {
	root.mu.Lock()
	defer root.mu.Unlock()
	root.level = l
}

// SetOutput redirects the destination, primarily for tests.
func SetOutput(w io.Writer) {
	root.mu.Lock()
	defer root.mu.Unlock()
	root.out = w
}

type logger struct {
	mu    sync.Mutex
	out   io.Writer
	level Lvl
}

func (r *logger) write(lvl Lvl, module Module, msg string, ctx []interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if lvl > r.level {
		return
	}
	var b strings.Builder
	b.WriteString(time.Now().UTC().Format("2006-01-02T15:04:05.000Z"))
	b.WriteByte(' ')
	b.WriteString(lvl.String())
	b.WriteByte(' ')
	b.WriteByte('[')
	b.WriteString(string(module))
	b.WriteString("] ")
	b.WriteString(msg)
	for i := 0; i+1 < len(ctx); i += 2 {
		fmt.Fprintf(&b, " %v=%v", ctx[i], ctx[i+1])
	}
	if lvl <= LvlError {
		if call := stack.Caller(3); call.Frame().Function != "" {
			fmt.Fprintf(&b, " caller=%+v", call)
		}
	}
	b.WriteByte('\n')
	io.WriteString(r.out, b.String())
}

// Logger is a module-scoped handle. It carries no state beyond its
// module tag; all Loggers for the same module share one destination.
type Logger struct {
	module Module
}

func NewModuleLogger(module Module) Logger {
	return Logger{module: module}
}

func (l Logger) Trace(msg string, ctx ...interface{}) { root.write(LvlTrace, l.module, msg, ctx) }
func (l Logger) Debug(msg string, ctx ...interface{}) { root.write(LvlDebug, l.module, msg, ctx) }
func (l Logger) Info(msg string, ctx ...interface{})  { root.write(LvlInfo, l.module, msg, ctx) }
func (l Logger) Warn(msg string, ctx ...interface{})  { root.write(LvlWarn, l.module, msg, ctx) }
func (l Logger) Error(msg string, ctx ...interface{}) { root.write(LvlError, l.module, msg, ctx) }

// Crit logs at the highest severity and terminates the process. Used for
// channel-closed conditions per SPEC_FULL.md §7: those are fatal to the
// owning goroutine and the process exits rather than limping on with a
// disconnected agent.
func (l Logger) Crit(msg string, ctx ...interface{}) {
	root.write(LvlCrit, l.module, msg, ctx)
	os.Exit(1)
}
