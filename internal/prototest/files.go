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

// Package prototest contains helpers for tests that work with descriptors and
// dynamic messages.
package prototest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// ParseFileSet parses a google.protobuf.FileDescriptorSet in text format.
func ParseFileSet(t testing.TB, text string) *descriptorpb.FileDescriptorSet {
	t.Helper()

	fds := new(descriptorpb.FileDescriptorSet)
	require.NoError(t, prototext.Unmarshal([]byte(text), fds), "parsing descriptor set")
	return fds
}

// NewFiles builds a file registry out of a google.protobuf.FileDescriptorSet
// in text format.
func NewFiles(t testing.TB, text string) *protoregistry.Files {
	t.Helper()

	files, err := protodesc.NewFiles(ParseFileSet(t, text))
	require.NoError(t, err, "building file registry")
	return files
}

// MarshalFileSet returns the wire encoding of a text format
// google.protobuf.FileDescriptorSet.
func MarshalFileSet(t testing.TB, text string) []byte {
	t.Helper()

	b, err := proto.Marshal(ParseFileSet(t, text))
	require.NoError(t, err)
	return b
}

// Message looks up a message by name, failing the test if it is missing.
func Message(t testing.TB, files *protoregistry.Files, name string) protoreflect.MessageDescriptor {
	t.Helper()

	d, err := files.FindDescriptorByName(protoreflect.FullName(name))
	require.NoError(t, err, "looking up %q", name)
	md, ok := d.(protoreflect.MessageDescriptor)
	require.True(t, ok, "%q is a %T, not a message", name, d)
	return md
}

// Field looks up a field by its message and name.
func Field(t testing.TB, files *protoregistry.Files, message, field string) protoreflect.FieldDescriptor {
	t.Helper()

	fd := Message(t, files, message).Fields().ByName(protoreflect.Name(field))
	require.NotNil(t, fd, "no field %q in %q", field, message)
	return fd
}
