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

// Package resolve maps C++ class names, as they appear in access profiles,
// back to Protobuf message types.
//
// Generated C++ code names a message type by its package, with "::" between
// components, followed by the names of the type and its enclosing types
// joined with "_". Because "_" may also occur inside a type name, the mapping
// is ambiguous, and resolution must consult the schema to find out which
// underscores are nesting boundaries.
package resolve

import (
	"strings"

	"go.uber.org/zap"
	"google.golang.org/protobuf/reflect/protoreflect"

	"buf.build/go/protopgo/internal/debug"
)

const (
	// DefaultNamespace separates package components in a C++ name.
	DefaultNamespace = "::"
	// DefaultNesting separates a nested type's name from its parent's.
	DefaultNesting = '_'
)

// Registry looks up message types by their fully-qualified name.
type Registry interface {
	FindMessage(name protoreflect.FullName) (protoreflect.MessageDescriptor, bool)
	IsMessageType(name protoreflect.FullName) bool
}

// Resolver resolves mangled names against a [Registry].
//
// The zero value is not usable; Registry must be set. All other fields are
// optional. A Resolver is safe for concurrent use if its Registry is.
type Resolver struct {
	Registry Registry

	// Separators in the mangled form; default to [DefaultNamespace] and
	// [DefaultNesting].
	Namespace string
	Nesting   byte

	// Receives a warning for every name that fails to resolve.
	Logger *zap.Logger
}

// Resolve returns the message type a mangled name refers to.
//
// Returns false if no combination of nesting boundaries produces a known
// message. This also logs a warning, but is not otherwise an error.
func (r *Resolver) Resolve(name string) (protoreflect.MessageDescriptor, bool) {
	ns, nesting := r.Namespace, r.Nesting
	if ns == "" {
		ns = DefaultNamespace
	}
	if nesting == 0 {
		nesting = DefaultNesting
	}

	s := []byte(strings.ReplaceAll(name, ns, "."))
	if md, ok := r.Registry.FindMessage(protoreflect.FullName(s)); ok {
		return md, true
	}

	// Each time we find a prefix that is a message, the separator after it
	// must be a nesting boundary, so we commit to it and only consider
	// boundaries to the right of it from then on.
	for lo := 1; ; {
		pos, ok := r.longestPrefix(s, lo, nesting)
		if !ok {
			break
		}
		s[pos] = '.'
		debug.Log([]any{"%q", name}, "split", "%s", s)

		if md, ok := r.Registry.FindMessage(protoreflect.FullName(s)); ok {
			return md, true
		}
		lo = pos + 1
	}

	if r.Logger != nil {
		r.Logger.Warn("unknown c++ message name", zap.String("name", name))
	}
	return nil, false
}

// longestPrefix finds the rightmost nesting separator at or after lo such that
// everything before it names a message.
func (r *Resolver) longestPrefix(s []byte, lo int, nesting byte) (int, bool) {
	debug.Assert(lo >= 1, "prefix search must skip index 0, got %d", lo)
	for pos := len(s) - 1; pos >= lo; pos-- {
		if s[pos] != nesting {
			continue
		}
		if r.Registry.IsMessageType(protoreflect.FullName(s[:pos])) {
			return pos, true
		}
	}
	return 0, false
}
