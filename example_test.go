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

package protopgo_test

import (
	"context"
	"errors"
	"fmt"
	"os"

	"buf.build/go/protopgo"
	"buf.build/go/protopgo/internal/examples"
)

func Example() {
	// Profiles are usually loaded with LoadDataset or Report, which accept
	// paths and URLs.
	ds, err := protopgo.ParseDataset(examples.WeatherProfile(), protopgo.FormatText)
	if err != nil {
		panic(err)
	}

	err = protopgo.ReportDataset(context.Background(), os.Stdout, ds,
		protopgo.WithFiles(examples.WeatherFiles()),
	)
	if err != nil {
		panic(err)
	}

	// Output:
	// Message example.weather.v1.StationReport
	//   string station: INLINE
	// Message example.weather.v1.WeatherReport
	//   string region: INLINE
}

func Example_analysis() {
	ds, err := protopgo.ParseDataset(examples.WeatherProfile(), protopgo.FormatText)
	if err != nil {
		panic(err)
	}

	// Print every field along with how it was classified.
	err = protopgo.ReportDataset(context.Background(), os.Stdout, ds,
		protopgo.WithFiles(examples.WeatherFiles()),
		protopgo.WithMessageFilter("StationReport"),
		protopgo.WithPrintAnalysis(true),
		protopgo.WithPrintUnusedThreshold(true),
	)
	if err != nil {
		panic(err)
	}

	// Output:
	// Unlikely Used Threshold = 2
	// Fields accessed at most this many times are reported as RARELY_USED
	// -----------------------------------------
	// Message example.weather.v1.StationReport
	//   string station: LIKELY_PRESENT INLINE
	//   float frequency: RARELY_PRESENT RARELY_USED
	//   float temperature: LIKELY_PRESENT
	//   float pressure:
	//   float wind_speed:
	//   enum conditions: RARELY_PRESENT RARELY_USED
}

func Example_errors() {
	_, err := protopgo.ParseDataset([]byte(`message { name: "" }`), protopgo.FormatText)
	fmt.Println(errors.Is(err, protopgo.ErrCorrupt))

	// Output:
	// true
}
