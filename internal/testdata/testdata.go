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

// Package testdata contains the end-to-end report corpus.
//
// Each .yaml file in this directory is a [TestCase]: a schema, a profile, a
// set of report options, and the report (or error) that they should produce.
package testdata

import (
	"bytes"
	"context"
	"embed"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/protocolbuffers/protoscope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"

	"buf.build/go/protopgo"
	"buf.build/go/protopgo/internal/debug"
	"buf.build/go/protopgo/internal/prototest"
)

//go:embed *.yaml
var testdata embed.FS

// TestCase is a test case from the report corpus.
type TestCase struct {
	Name string `yaml:"-"`

	// A google.protobuf.FileDescriptorSet, in text format.
	Schema string `yaml:"schema"`

	// Two ways to encode the profile: textproto and protoscope. Exactly one
	// must be set.
	TextProto  *string `yaml:"textproto"`
	Protoscope *string `yaml:"protoscope"`

	Options struct {
		Filter    string   `yaml:"filter"`
		All       bool     `yaml:"all"`
		Analysis  bool     `yaml:"analysis"`
		Threshold bool     `yaml:"threshold"`
		Hot       *float64 `yaml:"hot"`
		Cold      *float64 `yaml:"cold"`

		Namespace string `yaml:"namespace"`
		Nesting   string `yaml:"nesting"`
	} `yaml:"options"`

	// The expected report.
	Want string `yaml:"want"`
	// If set, the report must fail with this error, named by the sentinel
	// it matches: config, not_found, corrupt, or pattern.
	Error string `yaml:"error"`
	// The expected number of warnings logged.
	Warnings int `yaml:"warnings"`
}

// RunAll runs all of the test cases in the corpus.
func RunAll(t *testing.T, f func(*testing.T, *TestCase)) {
	t.Helper()

	err := fs.WalkDir(testdata, ".", func(path string, d fs.DirEntry, err error) error {
		require.NoError(t, err, "loading test %q", path)

		if d.IsDir() || filepath.Ext(path) != ".yaml" {
			return nil
		}

		t.Run(strings.TrimSuffix(path, ".yaml"), func(t *testing.T) {
			t.Parallel()

			data, err := fs.ReadFile(testdata, path)
			require.NoError(t, err, "loading test %q", path)

			f(t, parseTestCase(t, path, data))
		})
		return nil
	})
	require.NoError(t, err)
}

// Run executes a single test case.
func (test *TestCase) Run(t *testing.T, verbose bool) {
	t.Helper()

	files := prototest.NewFiles(t, test.Schema)

	var (
		data   []byte
		format protopgo.ProfileFormat
	)
	switch {
	case test.TextProto != nil:
		data, format = []byte(*test.TextProto), protopgo.FormatText
	case test.Protoscope != nil:
		b, err := protoscope.NewScanner(*test.Protoscope).Exec()
		require.NoError(t, err, "assembling profile")
		data, format = b, protopgo.FormatBinary
	}

	core, logs := observer.New(zapcore.WarnLevel)
	opts := []protopgo.Option{
		protopgo.WithFiles(files),
		protopgo.WithMessageFilter(test.Options.Filter),
		protopgo.WithPrintAllFields(test.Options.All),
		protopgo.WithPrintAnalysis(test.Options.Analysis),
		protopgo.WithPrintUnusedThreshold(test.Options.Threshold),
		protopgo.WithLogger(zap.New(core)),
	}
	if test.Options.Hot != nil || test.Options.Cold != nil {
		hot, cold := 0.9, 0.005
		if test.Options.Hot != nil {
			hot = *test.Options.Hot
		}
		if test.Options.Cold != nil {
			cold = *test.Options.Cold
		}
		opts = append(opts, protopgo.WithThresholds(hot, cold))
	}
	if test.Options.Namespace != "" || test.Options.Nesting != "" {
		var nesting byte
		if test.Options.Nesting != "" {
			nesting = test.Options.Nesting[0]
		}
		opts = append(opts, protopgo.WithNameSeparators(test.Options.Namespace, nesting))
	}

	out := new(bytes.Buffer)
	err := func() error {
		ds, err := protopgo.ParseDataset(data, format)
		if err != nil {
			return err
		}
		return protopgo.ReportDataset(context.Background(), out, ds, opts...)
	}()

	if verbose {
		t.Logf("report:\n%s", out)
		for _, entry := range logs.All() {
			t.Logf("log: %s %v", entry.Message, entry.ContextMap())
		}
	}

	if test.Error != "" {
		require.Error(t, err)
		assert.ErrorIs(t, err, sentinels[test.Error], "got %v", err)
		assert.Empty(t, out.String(), "output written despite error")
		return
	}
	require.NoError(t, err)
	assert.Equal(t, test.Want, out.String())
	assert.Equal(t, test.Warnings, logs.FilterLevelExact(zapcore.WarnLevel).Len(), "warnings")
}

var sentinels = map[string]error{
	"config":    protopgo.ErrConfig,
	"not_found": protopgo.ErrNotFound,
	"corrupt":   protopgo.ErrCorrupt,
	"pattern":   protopgo.ErrPattern,
}

// parseTestCase parses a single test case from the given data.
//
// This will call t.FailNow() if parsing fails.
func parseTestCase(t testing.TB, path string, file []byte) *TestCase {
	t.Helper()

	require.True(t, bytes.HasSuffix(file, []byte("\n")), "missing trailing newline in %q", path)

	test := new(TestCase)
	dec := yaml.NewDecoder(bytes.NewReader(file))
	dec.KnownFields(true)
	require.NoError(t, dec.Decode(test), "loading test %q", path)

	test.Name = strings.TrimSuffix(path, ".yaml")
	require.True(t, (test.TextProto == nil) != (test.Protoscope == nil),
		"test %q must set exactly one of textproto and protoscope", path)
	if test.Error != "" {
		require.Contains(t, sentinels, test.Error, "unknown error kind in %q", path)
	}

	debug.Log(nil, "corpus", "loaded %s", test.Name)
	return test
}
