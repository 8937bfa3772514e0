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

package pgo

import "google.golang.org/protobuf/reflect/protoreflect"

// Kind is the storage class of a field, which is coarser than
// [protoreflect.Kind]: all encodings of the same in-memory type share a Kind.
type Kind int8

const (
	Unknown Kind = iota
	Int32
	Int64
	Uint32
	Uint64
	Double
	Float
	Bool
	Enum
	String
	Message
)

var kindNames = [...]string{
	Unknown: "UNKNOWN",
	Int32:   "int32",
	Int64:   "int64",
	Uint32:  "uint32",
	Uint64:  "uint64",
	Double:  "double",
	Float:   "float",
	Bool:    "bool",
	Enum:    "enum",
	String:  "string",
	Message: "message",
}

// String implements [fmt.Stringer].
func (k Kind) String() string {
	if int(k) < len(kindNames) && k >= 0 {
		return kindNames[k]
	}
	return kindNames[Unknown]
}

// KindOf returns the storage class for a wire kind.
func KindOf(k protoreflect.Kind) Kind {
	switch k {
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return Int32
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return Int64
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return Uint32
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return Uint64
	case protoreflect.DoubleKind:
		return Double
	case protoreflect.FloatKind:
		return Float
	case protoreflect.BoolKind:
		return Bool
	case protoreflect.EnumKind:
		return Enum
	case protoreflect.StringKind, protoreflect.BytesKind:
		return String
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return Message
	default:
		return Unknown
	}
}

// Field is the static information about a field that [Decide] needs.
type Field struct {
	Kind     Kind
	Repeated bool

	// The underlying descriptor, passed through to [Layout]. May be nil in
	// tests.
	Desc protoreflect.FieldDescriptor
}

// FieldOf extracts a [Field] from a descriptor.
//
// Map fields are repeated message fields, same as they are in generated code.
func FieldOf(fd protoreflect.FieldDescriptor) Field {
	return Field{
		Kind:     KindOf(fd.Kind()),
		Repeated: fd.Cardinality() == protoreflect.Repeated,
		Desc:     fd,
	}
}

// Layout answers questions about how a code generator lays out fields.
type Layout interface {
	// CanInlineString returns whether the given string field can be stored
	// inline in its parent message.
	CanInlineString(fd protoreflect.FieldDescriptor) bool
}

// Decide selects an optimization for a field given its classification.
//
// The first matching rule wins:
//
//   - Likely-present strings that layout can inline become [Inline].
//   - Singular messages that are rarely used become [Lazy], unless they are
//     rarely or never present. Never means no data rather than no presence,
//     so it does not count as evidence.
//
// Everything else is [None]. layout is only consulted for likely-present
// strings.
func Decide(f Field, a Analysis, layout Layout) Optimization {
	if f.Kind == String && a.Presence >= Likely {
		if layout != nil && layout.CanInlineString(f.Desc) {
			return Inline
		}
	}

	if f.Kind == Message && a.Presence > Rarely && a.Usage == Rarely && !f.Repeated {
		return Lazy
	}

	return None
}
