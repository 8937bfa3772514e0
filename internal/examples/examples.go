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

// Package examples holds a small schema and a profile collected against it,
// for use in examples and tests.
package examples

import (
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// weatherSchema is example/weather/v1/weather.proto. station and region are
// declared optional, so they have hasbits and may be inlined.
const weatherSchema = `
file {
  name: "example/weather/v1/weather.proto"
  package: "example.weather.v1"
  syntax: "proto3"
  message_type {
    name: "StationReport"
    field { name: "station" number: 1 label: LABEL_OPTIONAL type: TYPE_STRING json_name: "station" oneof_index: 0 proto3_optional: true }
    field { name: "frequency" number: 2 label: LABEL_OPTIONAL type: TYPE_FLOAT json_name: "frequency" }
    field { name: "temperature" number: 3 label: LABEL_OPTIONAL type: TYPE_FLOAT json_name: "temperature" }
    field { name: "pressure" number: 4 label: LABEL_OPTIONAL type: TYPE_FLOAT json_name: "pressure" }
    field { name: "wind_speed" number: 5 label: LABEL_OPTIONAL type: TYPE_FLOAT json_name: "windSpeed" }
    field { name: "conditions" number: 6 label: LABEL_OPTIONAL type: TYPE_ENUM type_name: ".example.weather.v1.Condition" json_name: "conditions" }
    oneof_decl { name: "_station" }
  }
  message_type {
    name: "WeatherReport"
    field { name: "region" number: 1 label: LABEL_OPTIONAL type: TYPE_STRING json_name: "region" oneof_index: 0 proto3_optional: true }
    field { name: "weather_stations" number: 2 label: LABEL_REPEATED type: TYPE_MESSAGE type_name: ".example.weather.v1.StationReport" json_name: "weatherStations" }
    oneof_decl { name: "_region" }
  }
  enum_type {
    name: "Condition"
    value { name: "CONDITION_UNSPECIFIED" number: 0 }
    value { name: "CONDITION_SUNNY" number: 1 }
    value { name: "CONDITION_RAINY" number: 2 }
    value { name: "CONDITION_OVERCAST" number: 3 }
  }
}
`

// WeatherSchema returns the wire encoding of a google.protobuf.FileDescriptorSet
// containing example/weather/v1/weather.proto.
func WeatherSchema() []byte {
	fds := new(descriptorpb.FileDescriptorSet)
	if err := prototext.Unmarshal([]byte(weatherSchema), fds); err != nil {
		panic(err)
	}
	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(fds)
	if err != nil {
		panic(err)
	}
	return b
}

// WeatherFiles returns [WeatherSchema] as a file registry.
func WeatherFiles() *protoregistry.Files {
	fds := new(descriptorpb.FileDescriptorSet)
	if err := proto.Unmarshal(WeatherSchema(), fds); err != nil {
		panic(err)
	}
	files, err := protodesc.NewFiles(fds)
	if err != nil {
		panic(err)
	}
	return files
}

// WeatherProfile returns an access profile for the types in [WeatherSchema],
// in text format.
func WeatherProfile() []byte {
	return []byte(`unlikely_used_threshold: 2
message {
  name: "example::weather::v1::WeatherReport"
  count: 1000
  field { name: "region" getters_count: 990 configs_count: 1000 mutations_count: 12 }
  field { name: "weather_stations" getters_count: 2400 mutations_count: 2400 }
}
message {
  name: "example::weather::v1::StationReport"
  count: 2400
  field { name: "station" getters_count: 2400 mutations_count: 40 }
  field { name: "frequency" getters_count: 2 }
  field { name: "temperature" getters_count: 2300 mutations_count: 300 }
  field { name: "conditions" getters_count: 5 }
}
`)
}
