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

// Package dbg formats values for traces and test failures.
package dbg

import (
	"fmt"
	"strings"
)

// Dict is a list of alternating keys and values that formats as a
// dictionary, like {k1: v1, k2: v2}. Entries with a nil value are omitted.
type Dict []any

// Format implements [fmt.Formatter].
func (d Dict) Format(s fmt.State, verb rune) {
	if verb != 'v' && verb != 's' {
		fmt.Fprintf(s, "%%!%c(dbg.Dict)", verb)
		return
	}
	_, _ = s.Write([]byte(d.String()))
}

// String implements [fmt.Stringer].
func (d Dict) String() string {
	if len(d)%2 != 0 {
		return fmt.Sprintf("%%!(dbg.Dict odd length %d)", len(d))
	}

	parts := make([]string, 0, len(d)/2)
	for i := 0; i < len(d); i += 2 {
		if d[i+1] == nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%v: %v", d[i], d[i+1]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Path formats a path into a message, such as .messages[2].name.
type Path []any

// String implements [fmt.Stringer].
func (p Path) String() string {
	if len(p) == 0 {
		return "."
	}

	var buf strings.Builder
	for _, elem := range p {
		switch elem := elem.(type) {
		case int:
			fmt.Fprintf(&buf, "[%d]", elem)
		case string:
			fmt.Fprintf(&buf, "[%q]", elem)
		default:
			fmt.Fprintf(&buf, ".%v", elem)
		}
	}
	return buf.String()
}
