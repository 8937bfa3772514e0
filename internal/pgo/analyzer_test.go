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

package pgo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/protobuf/reflect/protoreflect"

	"buf.build/go/protopgo/internal/pgo"
	"buf.build/go/protopgo/internal/prototest"
)

// profile is a [pgo.Profile] backed by a map from field name to stats.
type profile map[protoreflect.FullName]pgo.Stats

func (p profile) HasProfile(md protoreflect.MessageDescriptor) bool {
	for name := range p {
		if name.Parent() == md.FullName() {
			return true
		}
	}
	return false
}

func (p profile) ForField(fd protoreflect.FieldDescriptor) (pgo.Stats, bool) {
	s, ok := p[fd.FullName()]
	return s, ok
}

const analyzerFiles = `
file {
  name: "test.proto"
  package: "test"
  syntax: "proto3"
  message_type {
    name: "Outer"
    field { name: "name" number: 1 label: LABEL_OPTIONAL type: TYPE_STRING }
    field { name: "inner" number: 2 label: LABEL_OPTIONAL type: TYPE_MESSAGE type_name: ".test.Inner" }
    field { name: "count" number: 3 label: LABEL_OPTIONAL type: TYPE_INT32 }
    field { name: "tags" number: 4 label: LABEL_REPEATED type: TYPE_STRING }
  }
  message_type {
    name: "Inner"
    field { name: "x" number: 1 label: LABEL_OPTIONAL type: TYPE_INT32 }
  }
}
`

func TestAnalyzer(t *testing.T) {
	t.Parallel()

	files := prototest.NewFiles(t, analyzerFiles)
	p := profile{
		"test.Outer.name":  {Reads: 95, Other: 20, Samples: 100},
		"test.Outer.inner": {Reads: 50, Writes: 95, Other: 20, Samples: 100},
		"test.Outer.count": {Samples: 100},
	}
	th := pgo.DefaultThresholds()
	th.UnlikelyUsed = 1

	a := pgo.NewAnalyzer(p, th, &layout{inline: true})
	assert.True(t, a.HasProfile(prototest.Message(t, files, "test.Outer")))
	assert.False(t, a.HasProfile(prototest.Message(t, files, "test.Inner")))

	tests := []struct {
		field    string
		analysis pgo.Analysis
		opt      pgo.Optimization
	}{
		{"name", pgo.Analysis{Presence: pgo.Likely, Usage: pgo.Default}, pgo.Inline},
		{"inner", pgo.Analysis{Presence: pgo.Likely, Usage: pgo.Default}, pgo.None},
		{"count", pgo.Analysis{Presence: pgo.Rarely, Usage: pgo.Rarely}, pgo.None},
		// Not in the profile at all.
		{"tags", pgo.Analysis{Presence: pgo.Default, Usage: pgo.Default}, pgo.None},
	}
	for _, tt := range tests {
		fd := prototest.Field(t, files, "test.Outer", tt.field)
		assert.Equal(t, tt.analysis, a.AnalyzeField(fd), tt.field)
		assert.Equal(t, tt.opt, a.OptimizeField(fd), tt.field)
	}
}

func TestAnalyzerLazy(t *testing.T) {
	t.Parallel()

	files := prototest.NewFiles(t, analyzerFiles)
	fd := prototest.Field(t, files, "test.Outer", "inner")

	th := pgo.DefaultThresholds()
	th.UnlikelyUsed = 10

	// Present in every sample, but barely touched.
	a := pgo.NewAnalyzer(profile{"test.Outer.inner": {Writes: 4, Samples: 4}}, th, nil)
	assert.Equal(t, pgo.Analysis{Presence: pgo.Likely, Usage: pgo.Rarely}, a.AnalyzeField(fd))
	assert.Equal(t, pgo.Lazy, a.OptimizeField(fd))

	// Only read-write-other accesses count towards usage, however many plain
	// reads and writes there are.
	busy := profile{"test.Outer.inner": {Reads: 500, Writes: 500, Samples: 1000}}
	a = pgo.NewAnalyzer(busy, th, nil)
	assert.Equal(t, pgo.Analysis{Presence: pgo.Default, Usage: pgo.Rarely}, a.AnalyzeField(fd))
	assert.Equal(t, pgo.Lazy, a.OptimizeField(fd))

	busy["test.Outer.inner"] = pgo.Stats{Reads: 500, Writes: 500, Other: 11, Samples: 1000}
	assert.Equal(t, pgo.None, a.OptimizeField(fd))
}
