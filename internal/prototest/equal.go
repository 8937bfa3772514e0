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

package prototest

import (
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"

	"buf.build/go/protopgo/internal/dbg"
)

// Equal checks that two messages are equal, reporting each differing field
// by its path from the root.
//
// Messages of different types never compare equal, even if they have the
// same full name.
func Equal(t testing.TB, want, got proto.Message) {
	t.Helper()
	if proto.Equal(want, got) {
		return
	}

	d := &differ{TB: t}
	d.message(want.ProtoReflect(), got.ProtoReflect())
	if d.reported == 0 {
		// proto.Equal disagrees with the field walk, e.g. on unknown fields.
		t.Errorf("messages differ:\nwant: %v\ngot:  %v", want, got)
	}
}

type differ struct {
	testing.TB
	path     dbg.Path
	reported int
}

func (d *differ) message(a, b protoreflect.Message) {
	d.Helper()
	if a.Descriptor() != b.Descriptor() {
		d.fail("want a %v, got a %v", a.Descriptor().FullName(), b.Descriptor().FullName())
		return
	}

	fields := a.Descriptor().Fields()
	for i := range fields.Len() {
		fd := fields.Get(i)
		d.at(fd.Name(), func() {
			d.Helper()
			if a.Has(fd) != b.Has(fd) {
				d.fail("want set = %v, got %v", a.Has(fd), b.Has(fd))
				return
			}
			d.value(fd, a.Get(fd), b.Get(fd))
		})
	}
}

func (d *differ) value(fd protoreflect.FieldDescriptor, a, b protoreflect.Value) {
	d.Helper()
	switch {
	case fd.IsList():
		d.list(fd, a.List(), b.List())
	case fd.IsMap():
		if !a.Equal(b) {
			d.fail("maps differ")
		}
	case fd.Message() != nil:
		d.message(a.Message(), b.Message())
	case !a.Equal(b):
		d.fail("want %v, got %v", a, b)
	}
}

func (d *differ) list(fd protoreflect.FieldDescriptor, a, b protoreflect.List) {
	d.Helper()
	for i := range min(a.Len(), b.Len()) {
		d.at(i, func() {
			d.Helper()
			if fd.Message() != nil {
				d.message(a.Get(i).Message(), b.Get(i).Message())
				return
			}
			if !a.Get(i).Equal(b.Get(i)) {
				d.fail("want %v, got %v", a.Get(i), b.Get(i))
			}
		})
	}
	if a.Len() != b.Len() {
		d.fail("want %d elements, got %d", a.Len(), b.Len())
	}
}

func (d *differ) at(elem any, f func()) {
	d.Helper()
	d.path = append(d.path, elem)
	f()
	d.path = d.path[:len(d.path)-1]
}

func (d *differ) fail(format string, args ...any) {
	d.Helper()
	d.reported++
	d.Errorf("at %v: "+format, append([]any{d.path}, args...)...)
}
