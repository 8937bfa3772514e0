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

// Access is a kind of field access recorded in a profile.
type Access int8

const (
	Read           Access = iota // Getter calls.
	Write                        // Setter calls.
	ReadWriteOther               // Accesses that may read or write, such as mutable getters.
)

// Stats is recorded access information for a single field.
//
// The zero value describes a field that was never accessed.
type Stats struct {
	Reads, Writes, Other uint64

	// The number of times the containing message was observed. Ratios are
	// computed against this value.
	Samples uint64
}

// Count returns the raw number of accesses of the given kind.
func (s Stats) Count(kind Access) uint64 {
	switch kind {
	case Read:
		return s.Reads
	case Write:
		return s.Writes
	case ReadWriteOther:
		return s.Other
	default:
		return 0
	}
}

// Ratio returns the number of accesses of the given kind per observation of
// the containing message.
//
// Returns zero if the containing message was never observed.
func (s Stats) Ratio(kind Access) float64 {
	if s.Samples == 0 {
		return 0
	}
	return float64(s.Count(kind)) / float64(s.Samples)
}

// IsHot returns whether the ratio for kind meets or exceeds threshold.
func (s Stats) IsHot(kind Access, threshold float64) bool {
	return s.Ratio(kind) >= threshold
}

// IsCold returns whether the ratio for kind falls strictly below threshold.
func (s Stats) IsCold(kind Access, threshold float64) bool {
	return s.Ratio(kind) < threshold
}

// Thresholds configures [Classify].
type Thresholds struct {
	// Fields read or written at least this often are likely present.
	Hot float64
	// Fields read and written less often than this are rarely present.
	Cold float64
	// Fields with at most this many read-write-other accesses are rarely
	// used.
	UnlikelyUsed uint64
}

// DefaultThresholds returns the default thresholds. UnlikelyUsed is zero; it
// normally comes from the profile being analyzed.
//
// Hot and Cold were picked from a handful of macrobenchmarks. Most cold
// fields have a presence count of exactly zero, so results are not sensitive
// to Cold.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Hot:  0.90,
		Cold: 0.005,
	}
}

// Classify computes the presence and usage scales for a field.
//
// If recorded is false, the field does not appear in the profile at all and
// stats is ignored; both scales are [Default].
func Classify(stats Stats, recorded bool, th Thresholds) Analysis {
	a := Analysis{Presence: Default, Usage: Default}
	if !recorded {
		return a
	}

	switch {
	case stats.IsHot(Read, th.Hot) || stats.IsHot(Write, th.Hot):
		a.Presence = Likely
	case stats.IsCold(Read, th.Cold) && stats.IsCold(Write, th.Cold):
		a.Presence = Rarely
	}

	if stats.Count(ReadWriteOther) <= th.UnlikelyUsed {
		a.Usage = Rarely
	}

	return a
}
