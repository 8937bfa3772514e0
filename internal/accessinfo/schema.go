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

package accessinfo

import (
	"fmt"

	"buf.build/gen/go/bufbuild/protovalidate/protocolbuffers/go/buf/validate"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// Package is the Protobuf package the profile schema lives in.
const Package protoreflect.FullName = "protopgo.accessinfo.v1"

// Descriptors for the profile schema. The schema is:
//
//	message FieldAccessInfo {
//	  string name = 1;
//	  uint64 getters_count = 2;
//	  uint64 configs_count = 3;
//	  uint64 mutations_count = 4;
//	}
//
//	message MessageAccessInfo {
//	  string name = 1;
//	  uint64 count = 2;
//	  repeated FieldAccessInfo field = 3;
//	}
//
//	message AccessInfo {
//	  repeated MessageAccessInfo message = 1;
//	  uint64 unlikely_used_threshold = 2;
//	}
//
// Names must be non-empty; this is enforced with protovalidate.
var (
	File protoreflect.FileDescriptor

	AccessInfo        protoreflect.MessageDescriptor
	MessageAccessInfo protoreflect.MessageDescriptor
	FieldAccessInfo   protoreflect.MessageDescriptor
)

// Field descriptors, for use with dynamic messages.
var (
	fieldName      protoreflect.FieldDescriptor
	fieldGetters   protoreflect.FieldDescriptor
	fieldConfigs   protoreflect.FieldDescriptor
	fieldMutations protoreflect.FieldDescriptor

	messageName   protoreflect.FieldDescriptor
	messageCount  protoreflect.FieldDescriptor
	messageFields protoreflect.FieldDescriptor

	infoMessages  protoreflect.FieldDescriptor
	infoThreshold protoreflect.FieldDescriptor
)

func init() {
	fd, err := protodesc.NewFile(schema(), protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("protopgo: invalid profile schema: %v", err))
	}
	File = fd

	msgs := fd.Messages()
	FieldAccessInfo = msgs.ByName("FieldAccessInfo")
	MessageAccessInfo = msgs.ByName("MessageAccessInfo")
	AccessInfo = msgs.ByName("AccessInfo")

	fields := FieldAccessInfo.Fields()
	fieldName = fields.ByNumber(1)
	fieldGetters = fields.ByNumber(2)
	fieldConfigs = fields.ByNumber(3)
	fieldMutations = fields.ByNumber(4)

	fields = MessageAccessInfo.Fields()
	messageName = fields.ByNumber(1)
	messageCount = fields.ByNumber(2)
	messageFields = fields.ByNumber(3)

	fields = AccessInfo.Fields()
	infoMessages = fields.ByNumber(1)
	infoThreshold = fields.ByNumber(2)
}

// schema builds the FileDescriptorProto for the profile schema.
func schema() *descriptorpb.FileDescriptorProto {
	field := func(name string, number int32, ty descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
		return &descriptorpb.FieldDescriptorProto{
			Name:     proto.String(name),
			JsonName: proto.String(jsonName(name)),
			Number:   proto.Int32(number),
			Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
			Type:     ty.Enum(),
		}
	}
	repeated := func(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
		f := field(name, number, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
		f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
		f.TypeName = proto.String("." + string(Package) + "." + typeName)
		return f
	}
	nonEmpty := func(f *descriptorpb.FieldDescriptorProto) *descriptorpb.FieldDescriptorProto {
		f.Options = new(descriptorpb.FieldOptions)
		proto.SetExtension(f.Options, validate.E_Field, &validate.FieldRules{
			Type: &validate.FieldRules_String_{
				String_: &validate.StringRules{MinLen: proto.Uint64(1)},
			},
		})
		return f
	}

	const (
		str = descriptorpb.FieldDescriptorProto_TYPE_STRING
		u64 = descriptorpb.FieldDescriptorProto_TYPE_UINT64
	)

	return &descriptorpb.FileDescriptorProto{
		Name:       proto.String("protopgo/accessinfo/v1/access_info.proto"),
		Package:    proto.String(string(Package)),
		Syntax:     proto.String("proto3"),
		Dependency: []string{"buf/validate/validate.proto"},
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("FieldAccessInfo"),
				Field: []*descriptorpb.FieldDescriptorProto{
					nonEmpty(field("name", 1, str)),
					field("getters_count", 2, u64),
					field("configs_count", 3, u64),
					field("mutations_count", 4, u64),
				},
			},
			{
				Name: proto.String("MessageAccessInfo"),
				Field: []*descriptorpb.FieldDescriptorProto{
					nonEmpty(field("name", 1, str)),
					field("count", 2, u64),
					repeated("field", 3, "FieldAccessInfo"),
				},
			},
			{
				Name: proto.String("AccessInfo"),
				Field: []*descriptorpb.FieldDescriptorProto{
					repeated("message", 1, "MessageAccessInfo"),
					field("unlikely_used_threshold", 2, u64),
				},
			},
		},
	}
}

// jsonName converts a snake_case field name to lowerCamelCase, the same way
// protoc does.
func jsonName(name string) string {
	out := make([]byte, 0, len(name))
	upper := false
	for i := range len(name) {
		c := name[i]
		switch {
		case c == '_':
			upper = true
		case upper && 'a' <= c && c <= 'z':
			out = append(out, c-'a'+'A')
			upper = false
		default:
			out = append(out, c)
			upper = false
		}
	}
	return string(out)
}
