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

package pgo

import "fmt"

// Optimization is a storage optimization that a code generator may apply to
// a field.
type Optimization int8

const (
	None   Optimization = iota
	Lazy                // Defer materializing a message field until first access.
	Inline              // Store a string field inline in its parent.
	Split               // Move a field to out-of-line cold storage. Not currently selected.
)

var optimizationNames = [...]string{
	None:   "NONE",
	Lazy:   "LAZY",
	Inline: "INLINE",
	Split:  "SPLIT",
}

// String implements [fmt.Stringer].
func (o Optimization) String() string {
	if int(o) < len(optimizationNames) && o >= 0 {
		return optimizationNames[o]
	}
	return fmt.Sprintf("Optimization(%d)", int(o))
}

// ParseOptimization is the inverse of [Optimization.String].
func ParseOptimization(s string) (Optimization, error) {
	for o, name := range optimizationNames {
		if name == s {
			return Optimization(o), nil
		}
	}
	return None, fmt.Errorf("pgo: unknown optimization %q", s)
}

// MarshalText implements [encoding.TextMarshaler].
func (o Optimization) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (o *Optimization) UnmarshalText(text []byte) error {
	v, err := ParseOptimization(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
