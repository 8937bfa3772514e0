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

package protopgo

import (
	"runtime"

	"go.uber.org/zap"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"

	"buf.build/go/protopgo/internal/pgo"
	"buf.build/go/protopgo/internal/resolve"
	"buf.build/go/protopgo/internal/schema"
	"buf.build/go/protopgo/internal/source"
)

// Registry looks up message types by fully-qualified name.
//
// Profiles refer to messages by their C++ names, which are mapped back onto
// the schema by trying candidate names against a Registry.
type Registry interface {
	FindMessage(name protoreflect.FullName) (protoreflect.MessageDescriptor, bool)
	IsMessageType(name protoreflect.FullName) bool
}

// Layout answers questions about how a code generator lays out fields.
type Layout interface {
	// CanInlineString returns whether a string field may be stored inline in
	// its parent message.
	CanInlineString(fd protoreflect.FieldDescriptor) bool
}

// Option is a configuration setting for [Report].
type Option struct{ apply func(*options) }

// WithFiles sets the schema to resolve profiled messages against.
//
// Either this or [WithRegistry] is required.
func WithFiles(files *protoregistry.Files) Option {
	return Option{func(o *options) {
		if files == nil {
			o.registry = nil
			return
		}
		o.registry = schema.NewRegistry(files)
	}}
}

// WithRegistry is like [WithFiles], but accepts any [Registry].
func WithRegistry(registry Registry) Option {
	return Option{func(o *options) { o.registry = registry }}
}

// WithMessageFilter restricts the report to messages whose C++ name contains
// a match for the given RE2 pattern. The empty string matches every message.
func WithMessageFilter(pattern string) Option {
	return Option{func(o *options) { o.filter = pattern }}
}

// WithPrintAllFields sets whether every field of a profiled message is
// printed, not just those that would be optimized.
func WithPrintAllFields(all bool) Option {
	return Option{func(o *options) { o.printAll = all }}
}

// WithPrintAnalysis sets whether the presence and usage classification of a
// field is printed alongside the optimization. This implies
// [WithPrintAllFields].
func WithPrintAnalysis(analysis bool) Option {
	return Option{func(o *options) { o.printAnalysis = analysis }}
}

// WithPrintUnusedThreshold sets whether the report starts with the profile's
// unlikely-used threshold.
func WithPrintUnusedThreshold(enable bool) Option {
	return Option{func(o *options) { o.printThreshold = enable }}
}

// WithThresholds sets the read or write ratios at or above which a field is
// likely present, and below which it is rarely present.
//
// The defaults are 0.9 and 0.005.
func WithThresholds(hot, cold float64) Option {
	return Option{func(o *options) { o.hot, o.cold = hot, cold }}
}

// WithLayout sets the layout rules that decide whether a string field can be
// inlined. The default follows the C++ generator.
func WithLayout(layout Layout) Option {
	return Option{func(o *options) { o.layout = layout }}
}

// WithNameSeparators sets the separators used to mangle names in the profile:
// namespace replaces "." between package components, and nesting joins a
// nested type to its parent. The defaults are "::" and '_'.
func WithNameSeparators(namespace string, nesting byte) Option {
	return Option{func(o *options) { o.namespace, o.nesting = namespace, nesting }}
}

// WithLogger sets the logger for diagnostics, such as profiled messages that
// are not in the schema. By default, nothing is logged.
func WithLogger(logger *zap.Logger) Option {
	return Option{func(o *options) { o.logger = logger }}
}

// WithParallelism sets how many messages are analyzed at once. Values less
// than one mean [runtime.GOMAXPROCS].
func WithParallelism(n int) Option {
	return Option{func(o *options) { o.parallelism = n }}
}

// WithProfileFormat sets the encoding of the profile passed to [Report].
// By default, it is picked based on the profile's file extension.
func WithProfileFormat(format ProfileFormat) Option {
	return Option{func(o *options) { o.format = format }}
}

// WithSourceConfig configures how profiles on remote hosts are fetched.
func WithSourceConfig(cfg source.Config) Option {
	return Option{func(o *options) { o.source = cfg }}
}

type options struct {
	registry Registry
	layout   Layout
	logger   *zap.Logger

	filter                                  string
	printAll, printAnalysis, printThreshold bool

	hot, cold   float64
	namespace   string
	nesting     byte
	parallelism int
	format      ProfileFormat
	source      source.Config
}

func newOptions(opts []Option) *options {
	th := pgo.DefaultThresholds()
	o := &options{
		layout:    schema.Layout{},
		hot:       th.Hot,
		cold:      th.Cold,
		namespace: resolve.DefaultNamespace,
		nesting:   resolve.DefaultNesting,
	}
	for _, opt := range opts {
		if opt.apply != nil {
			opt.apply(o)
		}
	}

	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.parallelism < 1 {
		o.parallelism = runtime.GOMAXPROCS(0)
	}
	if o.source.Logger == nil {
		o.source.Logger = o.logger
	}
	return o
}

// thresholds returns the thresholds for a profile with the given
// unlikely-used threshold.
func (o *options) thresholds(unlikelyUsed uint64) pgo.Thresholds {
	return pgo.Thresholds{Hot: o.hot, Cold: o.cold, UnlikelyUsed: unlikelyUsed}
}
