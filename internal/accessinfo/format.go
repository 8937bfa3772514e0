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
	"path"
	"strings"
)

// Format is an encoding of a profile.
type Format int8

const (
	Auto   Format = iota // Pick based on the file extension.
	Binary               // Protobuf wire format.
	Text                 // Protobuf text format.
	JSON                 // ProtoJSON.
	YAML                 // ProtoJSON, spelled as YAML.
)

var formatNames = [...]string{
	Auto:   "auto",
	Binary: "binary",
	Text:   "text",
	JSON:   "json",
	YAML:   "yaml",
}

// String implements [fmt.Stringer].
func (f Format) String() string {
	if int(f) < len(formatNames) && f >= 0 {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat parses the name of a format, as returned by [Format.String].
func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if strings.EqualFold(name, s) {
			return Format(f), nil
		}
	}
	return Auto, fmt.Errorf("accessinfo: unknown profile format %q", s)
}

// Set implements [pflag.Value].
func (f *Format) Set(s string) error {
	v, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Type implements [pflag.Value].
func (f *Format) Type() string { return "format" }

// FormatFor picks a format based on a path's extension. Anything that is not
// recognized is assumed to be [Binary].
func FormatFor(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".txtpb", ".textproto", ".pbtxt", ".txt":
		return Text
	case ".json":
		return JSON
	case ".yaml", ".yml":
		return YAML
	default:
		return Binary
	}
}

// resolve replaces [Auto] with the format for name.
func (f Format) resolve(name string) Format {
	if f == Auto {
		return FormatFor(name)
	}
	return f
}
