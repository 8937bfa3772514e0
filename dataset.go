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
	"context"

	"github.com/rotisserie/eris"

	"buf.build/go/protopgo/internal/accessinfo"
)

// ProfileFormat is an encoding of a profile.
type ProfileFormat = accessinfo.Format

const (
	FormatAuto   = accessinfo.Auto   // Pick based on the file extension.
	FormatBinary = accessinfo.Binary // Protobuf wire format.
	FormatText   = accessinfo.Text   // Protobuf text format.
	FormatJSON   = accessinfo.JSON   // ProtoJSON.
	FormatYAML   = accessinfo.YAML   // ProtoJSON, spelled as YAML.
)

// Dataset is a decoded access profile.
//
// A Dataset is immutable, and may be reported on any number of times,
// concurrently.
type Dataset struct {
	impl *accessinfo.Dataset
}

// ParseDataset decodes a profile from bytes. format must not be [FormatAuto].
func ParseDataset(data []byte, format ProfileFormat) (*Dataset, error) {
	if format == FormatAuto {
		return nil, &errReport{code: errCodeConfig, cause: errNeedFormat}
	}
	ds, err := accessinfo.Decode(data, format)
	if err != nil {
		return nil, loadError(err)
	}
	return &Dataset{ds}, nil
}

// LoadDataset reads a profile from the given source, which may be a path, "-"
// for stdin, or an ssh:// or s3:// URL.
//
// Only [WithProfileFormat], [WithSourceConfig], and [WithLogger] are
// consulted.
func LoadDataset(ctx context.Context, source string, opts ...Option) (*Dataset, error) {
	o := newOptions(opts)
	ds, err := accessinfo.Load(ctx, source, o.format, o.source)
	if err != nil {
		return nil, loadError(err)
	}
	return &Dataset{ds}, nil
}

// UnlikelyUsedThreshold returns the number of accesses at or below which a
// field is considered rarely used.
func (d *Dataset) UnlikelyUsedThreshold() uint64 {
	return d.impl.UnlikelyUsedThreshold
}

// Len returns the number of distinct messages in the profile.
func (d *Dataset) Len() int {
	return len(d.impl.Messages)
}

// Dump returns a listing of the raw statistics in this profile, sorted by
// message name.
func (d *Dataset) Dump() string {
	return d.impl.Dump()
}

// Encode re-encodes this profile. Duplicate entries that were merged while
// decoding stay merged, and messages come out sorted by name. format must not
// be [FormatAuto].
func (d *Dataset) Encode(format ProfileFormat) ([]byte, error) {
	if format == FormatAuto {
		return nil, &errReport{code: errCodeConfig, cause: errNeedFormat}
	}
	data, err := accessinfo.Marshal(d.impl.ToProto(), format)
	if err != nil {
		return nil, eris.Wrapf(err, "protopgo: encoding %v profile", format)
	}
	return data, nil
}
