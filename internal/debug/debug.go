// Copyright 2025 Buf Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build debug

// Package debug includes debugging helpers.
package debug

import (
	"flag"
	"fmt"
	"regexp"

	"github.com/timandy/routine"
	"go.uber.org/zap"
)

// Enabled is true if the module is being built with the debug tag, which
// enables tracing of the analysis.
const Enabled = true

var (
	traceFilter *regexp.Regexp
	tracer      = zap.Must(zap.NewDevelopment(zap.AddCallerSkip(1))).Named("trace")
)

func init() {
	flag.Func("protopgo.trace", "regexp to filter trace logs by", func(s string) (err error) {
		traceFilter, err = regexp.Compile(s)
		return err
	})
}

// Log traces a step of some operation to stderr.
//
// scope is optional args for [fmt.Sprintf] that identify what the step is
// part of, such as the name being resolved. Traces are matched against
// -protopgo.trace as "operation scope: message".
func Log(scope []any, operation string, format string, args ...any) {
	var within string
	if len(scope) >= 1 {
		within = fmt.Sprintf(scope[0].(string), scope[1:]...)
	}
	msg := fmt.Sprintf(format, args...)

	if traceFilter != nil &&
		!traceFilter.MatchString(operation+" "+within+": "+msg) {
		return
	}

	fields := []zap.Field{
		zap.String("op", operation),
		zap.Any("goroutine", routine.Goid()),
	}
	if within != "" {
		fields = append(fields, zap.String("scope", within))
	}
	tracer.Debug(msg, fields...)
}

// Assert panics if cond is false, but only in debug mode.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Errorf("protopgo: internal assertion failed: "+format, args...))
	}
}
