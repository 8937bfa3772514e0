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

// Package accessinfo loads field access profiles.
//
// A profile records, for each message type observed by an instrumented
// binary, how many times the message was seen and how many times each of its
// fields was read, written, or otherwise touched. Message types are keyed by
// their C++ class names; see package resolve.
package accessinfo

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"buf.build/go/protopgo/internal/pgo"
)

// Dataset is a decoded profile. It is immutable once constructed.
type Dataset struct {
	// Messages, sorted by name. Names are unique.
	Messages []*Message

	// Fields with at most this many accesses are unlikely to be used.
	UnlikelyUsedThreshold uint64

	byName map[string]*Message
}

// Message is the profile for a single message type.
type Message struct {
	Name  string // The C++ class name.
	Count uint64 // Number of times this message was observed.

	// Fields, in the order they first appear in the profile.
	Fields []*Field

	byName map[string]*Field
}

// Field is the profile for a single field.
type Field struct {
	Name string

	Getters   uint64
	Configs   uint64
	Mutations uint64
}

var _ pgo.Profile = (*Message)(nil)

// FromProto builds a dataset out of an AccessInfo message.
//
// Duplicate entries for a message or field, such as those produced by
// concatenating two binary profiles, are merged by summing their counts.
func FromProto(msg protoreflect.Message) *Dataset {
	ds := &Dataset{
		UnlikelyUsedThreshold: msg.Get(infoThreshold).Uint(),
		byName:                make(map[string]*Message),
	}

	list := msg.Get(infoMessages).List()
	for i := range list.Len() {
		m := list.Get(i).Message()
		name := m.Get(messageName).String()

		entry := ds.byName[name]
		if entry == nil {
			entry = &Message{Name: name, byName: make(map[string]*Field)}
			ds.byName[name] = entry
			ds.Messages = append(ds.Messages, entry)
		}
		entry.Count += m.Get(messageCount).Uint()

		fields := m.Get(messageFields).List()
		for j := range fields.Len() {
			f := fields.Get(j).Message()
			name := f.Get(fieldName).String()

			field := entry.byName[name]
			if field == nil {
				field = &Field{Name: name}
				entry.byName[name] = field
				entry.Fields = append(entry.Fields, field)
			}
			field.Getters += f.Get(fieldGetters).Uint()
			field.Configs += f.Get(fieldConfigs).Uint()
			field.Mutations += f.Get(fieldMutations).Uint()
		}
	}

	slices.SortFunc(ds.Messages, func(a, b *Message) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return ds
}

// Lookup returns the profile for the message with the given C++ name.
func (ds *Dataset) Lookup(name string) *Message {
	return ds.byName[name]
}

// Field returns the profile for the field with the given name.
func (m *Message) Field(name string) *Field {
	if m == nil {
		return nil
	}
	return m.byName[name]
}

// Stats converts this field's counts into [pgo.Stats].
func (m *Message) Stats(f *Field) pgo.Stats {
	return pgo.Stats{
		Reads:   f.Getters,
		Writes:  f.Configs,
		Other:   f.Mutations,
		Samples: m.Count,
	}
}

// HasProfile implements [pgo.Profile] for the message type this entry was
// resolved to. A message is profiled if it has an entry at all, even one that
// recorded no fields; its fields are then analyzed as if never accessed.
func (m *Message) HasProfile(protoreflect.MessageDescriptor) bool {
	return m != nil
}

// ForField implements [pgo.Profile]. fd must belong to the message type this
// entry was resolved to.
func (m *Message) ForField(fd protoreflect.FieldDescriptor) (pgo.Stats, bool) {
	if fd.IsExtension() {
		return pgo.Stats{}, false
	}
	f := m.Field(string(fd.Name()))
	if f == nil {
		return pgo.Stats{}, false
	}
	return m.Stats(f), true
}

// ToProto converts this dataset back into an AccessInfo message. Entries that
// were merged while decoding stay merged.
func (ds *Dataset) ToProto() *dynamicpb.Message {
	msg := dynamicpb.NewMessage(AccessInfo)
	if ds.UnlikelyUsedThreshold != 0 {
		msg.Set(infoThreshold, protoreflect.ValueOfUint64(ds.UnlikelyUsedThreshold))
	}

	list := msg.Mutable(infoMessages).List()
	for _, m := range ds.Messages {
		entry := list.NewElement().Message()
		entry.Set(messageName, protoreflect.ValueOfString(m.Name))
		if m.Count != 0 {
			entry.Set(messageCount, protoreflect.ValueOfUint64(m.Count))
		}

		fields := entry.Mutable(messageFields).List()
		for _, f := range m.Fields {
			field := fields.NewElement().Message()
			field.Set(fieldName, protoreflect.ValueOfString(f.Name))
			for fd, n := range map[protoreflect.FieldDescriptor]uint64{
				fieldGetters:   f.Getters,
				fieldConfigs:   f.Configs,
				fieldMutations: f.Mutations,
			} {
				if n != 0 {
					field.Set(fd, protoreflect.ValueOfUint64(n))
				}
			}
			fields.Append(protoreflect.ValueOfMessage(field))
		}
		list.Append(protoreflect.ValueOfMessage(entry))
	}
	return msg
}

// Dump returns a human-readable listing of every field in the profile.
func (ds *Dataset) Dump() string {
	out := new(strings.Builder)
	fmt.Fprintf(out, "unlikely_used_threshold: %d\n", ds.UnlikelyUsedThreshold)
	for _, m := range ds.Messages {
		fmt.Fprintf(out, "%s: count: %d\n", m.Name, m.Count)
		for _, f := range m.Fields {
			s := m.Stats(f)
			fmt.Fprintf(out,
				"  %s: read: %d (%.3f), write: %d (%.3f), other: %d\n",
				f.Name,
				s.Reads, s.Ratio(pgo.Read),
				s.Writes, s.Ratio(pgo.Write),
				s.Other,
			)
		}
	}
	return out.String()
}
