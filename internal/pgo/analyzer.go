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

import (
	"google.golang.org/protobuf/reflect/protoreflect"

	"buf.build/go/protopgo/internal/debug"
)

// Profile provides recorded access information to an [Analyzer].
type Profile interface {
	// HasProfile returns whether any data was recorded for md.
	HasProfile(md protoreflect.MessageDescriptor) bool

	// ForField returns the statistics for fd, and whether fd was recorded
	// at all.
	ForField(fd protoreflect.FieldDescriptor) (Stats, bool)
}

// Analyzer classifies fields and selects optimizations for them against a
// fixed profile.
//
// An Analyzer is immutable, and may be used concurrently.
type Analyzer struct {
	profile    Profile
	thresholds Thresholds
	layout     Layout
}

// NewAnalyzer returns a new analyzer.
func NewAnalyzer(profile Profile, thresholds Thresholds, layout Layout) *Analyzer {
	return &Analyzer{
		profile:    profile,
		thresholds: thresholds,
		layout:     layout,
	}
}

// HasProfile forwards to [Profile.HasProfile].
func (a *Analyzer) HasProfile(md protoreflect.MessageDescriptor) bool {
	return a.profile.HasProfile(md)
}

// AnalyzeField classifies a single field.
func (a *Analyzer) AnalyzeField(fd protoreflect.FieldDescriptor) Analysis {
	stats, ok := a.profile.ForField(fd)
	analysis := Classify(stats, ok, a.thresholds)
	debug.Log(nil, "analyze", "%v: %v -> %v", fd.FullName(), stats, analysis)
	return analysis
}

// OptimizeField selects an optimization for a single field.
func (a *Analyzer) OptimizeField(fd protoreflect.FieldDescriptor) Optimization {
	return Decide(FieldOf(fd), a.AnalyzeField(fd), a.layout)
}
