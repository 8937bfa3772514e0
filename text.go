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
	"bytes"
	"strconv"
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"

	"buf.build/go/protopgo/internal/pgo"
	"buf.build/go/protopgo/internal/schema"
)

// writePreamble writes the header that precedes a report when the
// unlikely-used threshold is requested.
func writePreamble(out *bytes.Buffer, threshold uint64) {
	out.WriteString("Unlikely Used Threshold = ")
	out.WriteString(strconv.FormatUint(threshold, 10))
	out.WriteString("\nFields accessed at most this many times are reported as RARELY_USED\n")
	out.WriteString(strings.Repeat("-", 41))
	out.WriteByte('\n')
}

// renderMessage appends the report for a single message to buf.
//
// Nothing is appended if none of the message's fields are printed; the
// header is only written once the first field line is.
func (o *options) renderMessage(buf []byte, md protoreflect.MessageDescriptor, a *pgo.Analyzer) []byte {
	header := false
	fields := md.Fields()
	for i := range fields.Len() {
		fd := fields.Get(i)
		analysis := a.AnalyzeField(fd)
		opt := a.OptimizeField(fd)

		if !o.printAll && !o.printAnalysis && opt == pgo.None {
			continue
		}

		if !header {
			header = true
			buf = append(buf, "Message "...)
			buf = append(buf, md.FullName()...)
			buf = append(buf, '\n')
		}

		buf = append(buf, "  "...)
		buf = append(buf, schema.TypeName(fd)...)
		buf = append(buf, ' ')
		buf = append(buf, fd.Name()...)
		buf = append(buf, ':')

		if o.printAnalysis {
			if analysis.Presence != pgo.Default {
				buf = append(buf, ' ')
				buf = append(buf, analysis.Presence.String()...)
				buf = append(buf, "_PRESENT"...)
			}
			if analysis.Usage != pgo.Default {
				buf = append(buf, ' ')
				buf = append(buf, analysis.Usage.String()...)
				buf = append(buf, "_USED"...)
			}
		}
		if opt != pgo.None {
			buf = append(buf, ' ')
			buf = append(buf, opt.String()...)
		}
		buf = append(buf, '\n')
	}
	return buf
}
