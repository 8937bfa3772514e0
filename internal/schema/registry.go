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

// Package schema provides the message types that profiles are analyzed
// against, and static facts about how they are laid out.
package schema

import (
	"os"

	"github.com/rotisserie/eris"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"

	"buf.build/go/protopgo/internal/accessinfo"
)

// Registry is a set of message types, indexed by fully-qualified name.
type Registry struct {
	files *protoregistry.Files
}

// NewRegistry wraps a file registry.
func NewRegistry(files *protoregistry.Files) *Registry {
	return &Registry{files: files}
}

// FindMessage looks up a message type by its fully-qualified name.
//
// Returns false if there is no such descriptor, or if it is not a message.
func (r *Registry) FindMessage(name protoreflect.FullName) (protoreflect.MessageDescriptor, bool) {
	d, err := r.files.FindDescriptorByName(name)
	if err != nil {
		return nil, false
	}
	md, ok := d.(protoreflect.MessageDescriptor)
	return md, ok
}

// IsMessageType returns whether name is the name of a message type.
func (r *Registry) IsMessageType(name protoreflect.FullName) bool {
	_, ok := r.FindMessage(name)
	return ok
}

// Load builds a registry out of google.protobuf.FileDescriptorSet files, such
// as those produced by `buf build -o` or `protoc --descriptor_set_out`.
//
// The encoding of each file is picked from its extension, the same way as for
// profiles. Files are merged in order; a file that appears in more than one
// set is only added once.
func Load(paths ...string) (*Registry, error) {
	merged := new(descriptorpb.FileDescriptorSet)
	seen := make(map[string]bool)
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eris.Wrapf(err, "schema: reading %s", path)
		}

		fds, err := Unmarshal(data, accessinfo.FormatFor(path))
		if err != nil {
			return nil, eris.Wrapf(err, "schema: decoding %s", path)
		}

		for _, f := range fds.GetFile() {
			if seen[f.GetName()] {
				continue
			}
			seen[f.GetName()] = true
			merged.File = append(merged.File, f)
		}
	}

	files, err := protodesc.NewFiles(merged)
	if err != nil {
		return nil, eris.Wrap(err, "schema: building registry")
	}
	return NewRegistry(files), nil
}

// Unmarshal decodes a google.protobuf.FileDescriptorSet. YAML is not
// supported.
func Unmarshal(data []byte, format accessinfo.Format) (*descriptorpb.FileDescriptorSet, error) {
	fds := new(descriptorpb.FileDescriptorSet)

	var err error
	switch format {
	case accessinfo.Text:
		err = prototext.Unmarshal(data, fds)
	case accessinfo.JSON:
		err = protojson.Unmarshal(data, fds)
	case accessinfo.Binary, accessinfo.Auto:
		err = proto.Unmarshal(data, fds)
	default:
		err = eris.Errorf("unsupported descriptor set format %v", format)
	}
	if err != nil {
		return nil, err
	}
	return fds, nil
}
