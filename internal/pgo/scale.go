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

// Package pgo classifies protobuf fields by how they are accessed at runtime,
// and picks layout optimizations for them.
//
// Classification happens in two steps. [Classify] buckets each field's
// recorded statistics into a presence [Scale] and a usage [Scale], and
// [Decide] maps those scales and the field's static type to an
// [Optimization].
package pgo

import (
	"fmt"

	"buf.build/go/protopgo/internal/dbg"
)

// Scale is a coarse likelihood bucket, used both for how often a field is
// present and for how often it is used.
//
// Scales are ordered: Never < Rarely < Default < Likely. Code that compares
// scales should use ordered comparisons, so that new buckets can be added
// above or below the existing ones.
type Scale int8

const (
	Never Scale = iota
	Rarely
	Default
	Likely
)

var scaleNames = [...]string{
	Never:   "NEVER",
	Rarely:  "RARELY",
	Default: "DEFAULT",
	Likely:  "LIKELY",
}

// String implements [fmt.Stringer].
func (s Scale) String() string {
	if int(s) < len(scaleNames) && s >= 0 {
		return scaleNames[s]
	}
	return fmt.Sprintf("Scale(%d)", int(s))
}

// ParseScale is the inverse of [Scale.String].
func ParseScale(s string) (Scale, error) {
	for v, name := range scaleNames {
		if name == s {
			return Scale(v), nil
		}
	}
	return Default, fmt.Errorf("pgo: unknown scale %q", s)
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *Scale) UnmarshalText(text []byte) error {
	v, err := ParseScale(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Analysis is the result of classifying a single field.
type Analysis struct {
	Presence Scale
	Usage    Scale
}

// Format implements [fmt.Formatter].
func (a Analysis) Format(s fmt.State, verb rune) {
	dbg.Dict{"presence", a.Presence, "usage", a.Usage}.Format(s, verb)
}
