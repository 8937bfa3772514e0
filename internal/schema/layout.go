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

package schema

import (
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"

	"buf.build/go/protopgo/internal/pgo"
)

// Layout implements [pgo.Layout] with the rules used by the C++ generator.
type Layout struct{}

var _ pgo.Layout = Layout{}

// CanInlineString implements [pgo.Layout].
//
// A string can only be inlined if it is a plain, singular field of an
// ordinary message with a hasbit, stored as std::string.
func (Layout) CanInlineString(fd protoreflect.FieldDescriptor) bool {
	if fd == nil {
		return false
	}

	switch fd.Kind() {
	case protoreflect.StringKind, protoreflect.BytesKind:
	default:
		return false
	}

	if fd.Cardinality() == protoreflect.Repeated || fd.IsExtension() {
		return false
	}
	// Synthetic oneofs are proto3 optional fields, which have ordinary
	// hasbits.
	if od := fd.ContainingOneof(); od != nil && !od.IsSynthetic() {
		return false
	}
	// Inlined strings track presence with a hasbit, which implicit-presence
	// fields do not have.
	if !fd.HasPresence() {
		return false
	}

	md := fd.ContainingMessage()
	if md.IsMapEntry() || md.FullName() == "google.protobuf.Any" {
		return false
	}

	if opts, ok := fd.Options().(*descriptorpb.FieldOptions); ok && opts != nil {
		switch opts.GetCtype() {
		case descriptorpb.FieldOptions_CORD, descriptorpb.FieldOptions_STRING_PIECE:
			return false
		}
	}

	return true
}

// TypeName returns the name of a field's type, as shown in reports.
//
// Message fields are named by their type's short name; everything else by its
// [pgo.Kind]. Repeated fields have a "[]" suffix.
func TypeName(fd protoreflect.FieldDescriptor) string {
	if fd == nil {
		return pgo.Unknown.String()
	}

	var name string
	switch k := pgo.KindOf(fd.Kind()); k {
	case pgo.Message:
		name = string(fd.Message().Name())
	default:
		name = k.String()
	}

	if fd.Cardinality() == protoreflect.Repeated {
		name += "[]"
	}
	return name
}
