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

// Package protopgo turns field access profiles into optimization advice for
// Protobuf code generators.
//
// An instrumented binary records, for every message type it touches, how
// often each field is read, written, or mutated. Given such a profile and the
// schema it was collected against, [Report] classifies each field by how
// often it is present and how often it is used, and picks a storage
// optimization for it:
//
//   - INLINE: a string that is almost always set is stored in its parent,
//     rather than behind a pointer.
//   - LAZY: a singular submessage that is rarely touched is parsed on first
//     access.
//
// The result is a text report listing, per message, the fields that would be
// optimized:
//
//	Message example.v1.Request
//	  string name: INLINE
//	  Payload payload: LAZY
//
// # Names
//
// Profiles are keyed by C++ class names, such as "example::v1::Request_Item".
// These are mapped back onto the schema by trying each way of splitting the
// name at underscores, preferring the longest enclosing message. Names that
// do not match anything in the schema are logged and skipped.
package protopgo
