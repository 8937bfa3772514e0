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
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"buf.build/go/protovalidate"
	"github.com/rotisserie/eris"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/dynamicpb"
	"gopkg.in/yaml.v3"
)

// ErrCorrupt is returned, wrapped, when a profile cannot be decoded.
var ErrCorrupt = errors.New("corrupt profile")

// Error is a profile decoding error.
type Error struct {
	Format Format
	Err    error
}

// Error implements [error].
func (e *Error) Error() string {
	return fmt.Sprintf("accessinfo: invalid %v profile: %v", e.Format, e.Err)
}

// Unwrap implements error unwrapping viz [errors.Unwrap].
func (e *Error) Unwrap() error { return e.Err }

// Is makes every *Error match [ErrCorrupt].
func (e *Error) Is(target error) bool { return target == ErrCorrupt }

// Unmarshal decodes and validates an [AccessInfo] message in the
// given format. format must not be [Auto].
func Unmarshal(data []byte, format Format) (*dynamicpb.Message, error) {
	msg := dynamicpb.NewMessage(AccessInfo)

	var err error
	switch format {
	case Binary:
		err = proto.Unmarshal(data, msg)
	case Text:
		err = prototext.Unmarshal(data, msg)
	case JSON:
		err = protojson.Unmarshal(data, msg)
	case YAML:
		err = unmarshalYAML(data, msg)
	default:
		return nil, fmt.Errorf("accessinfo: cannot decode profile with format %v", format)
	}
	if err != nil {
		return nil, &Error{Format: format, Err: err}
	}

	if err := protovalidate.Validate(msg); err != nil {
		return nil, &Error{Format: format, Err: err}
	}

	return msg, nil
}

// Marshal encodes an AccessInfo message in the given format.
func Marshal(msg proto.Message, format Format) ([]byte, error) {
	switch format {
	case Binary:
		return proto.MarshalOptions{Deterministic: true}.Marshal(msg)
	case Text:
		return prototext.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(msg)
	case JSON:
		return protojson.MarshalOptions{Multiline: true, Indent: "  ", UseProtoNames: true}.Marshal(msg)
	case YAML:
		b, err := protojson.MarshalOptions{UseProtoNames: true}.Marshal(msg)
		if err != nil {
			return nil, err
		}
		var v any
		if err := json.Unmarshal(b, &v); err != nil {
			return nil, err
		}
		return yaml.Marshal(v)
	default:
		return nil, fmt.Errorf("accessinfo: cannot encode profile with format %v", format)
	}
}

// Decode decodes a profile into a [Dataset].
func Decode(data []byte, format Format) (*Dataset, error) {
	msg, err := Unmarshal(data, format)
	if err != nil {
		return nil, err
	}
	return FromProto(msg), nil
}

// Read reads and decodes a profile. name is used to guess the format if it
// is [Auto].
func Read(r io.Reader, name string, format Format) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrapf(err, "accessinfo: reading %s", name)
	}
	return Decode(data, format.resolve(name))
}

// unmarshalYAML decodes YAML by transcoding it to JSON. This means YAML
// profiles follow the ProtoJSON conventions: uint64 counts may be numbers or
// strings, and both field name spellings are accepted.
func unmarshalYAML(data []byte, msg proto.Message) error {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == nil {
		// An empty document is an empty profile.
		v = map[string]any{}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return protojson.Unmarshal(b, msg)
}
