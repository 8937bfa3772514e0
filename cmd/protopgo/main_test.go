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

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

// TestGolden runs each testdata/*.txtar archive as a command line.
//
// The "args" file holds the arguments, with $DIR replaced by a directory
// containing every other file in the archive. "stdin" is fed to the command.
// "stdout" must match exactly, "exit" is the expected exit code (default 0),
// and every line of "stderr" must appear in the command's stderr.
func TestGolden(t *testing.T) {
	t.Parallel()

	paths, err := filepath.Glob("testdata/*.txtar")
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txtar"), func(t *testing.T) {
			t.Parallel()

			ar, err := txtar.ParseFile(path)
			require.NoError(t, err)

			dir := t.TempDir()
			var (
				args, stdin, wantOut, wantErr string
				wantCode                      int
			)
			for _, f := range ar.Files {
				data := string(f.Data)
				switch f.Name {
				case "args":
					args = data
				case "stdin":
					stdin = data
				case "stdout":
					wantOut = data
				case "stderr":
					wantErr = data
				case "exit":
					wantCode, err = strconv.Atoi(strings.TrimSpace(data))
					require.NoError(t, err)
				default:
					require.NoError(t, os.WriteFile(filepath.Join(dir, f.Name), f.Data, 0o600))
				}
			}

			argv := strings.Fields(strings.ReplaceAll(args, "$DIR", dir))
			stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
			code := run(context.Background(), argv, strings.NewReader(stdin), stdout, stderr)

			assert.Equal(t, wantCode, code, "stderr: %s", stderr)
			assert.Equal(t, wantOut, stdout.String())
			for _, line := range strings.Split(strings.TrimSpace(wantErr), "\n") {
				assert.Contains(t, stderr.String(), line)
			}
		})
	}
}

func TestCommands(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd()
	names := make(map[string]bool)
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["report"])
	assert.True(t, names["dump"])

	report, _, err := cmd.Find([]string{"report"})
	require.NoError(t, err)
	for _, name := range []string{"descriptor-set", "filter", "all", "analysis", "threshold", "hot-ratio", "cold-ratio"} {
		assert.NotNil(t, report.Flags().Lookup(name), "report should have --%s", name)
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("format"))
}

func TestDumpReencode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := filepath.Join(dir, "profile.txtpb")
	require.NoError(t, os.WriteFile(in, []byte(`
unlikely_used_threshold: 2
message { name: "M" count: 1 field { name: "s" getters_count: 1 } }
message { name: "A" count: 4 }
message { name: "M" count: 3 field { name: "s" mutations_count: 5 } }
`), 0o600))

	const want = `unlikely_used_threshold: 2
A: count: 4
M: count: 4
  s: read: 1 (0.250), write: 0 (0.000), other: 5
`

	for format, ext := range map[string]string{
		"binary": ".binpb",
		"text":   ".txtpb",
		"json":   ".json",
		"yaml":   ".yaml",
	} {
		t.Run(format, func(t *testing.T) {
			t.Parallel()

			stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
			code := run(context.Background(), []string{"dump", "--output-format", format, in}, strings.NewReader(""), stdout, stderr)
			require.Zero(t, code, "stderr: %s", stderr)

			out := filepath.Join(t.TempDir(), "profile"+ext)
			require.NoError(t, os.WriteFile(out, stdout.Bytes(), 0o600))

			stdout.Reset()
			code = run(context.Background(), []string{"dump", out}, strings.NewReader(""), stdout, stderr)
			require.Zero(t, code, "stderr: %s", stderr)
			assert.Equal(t, want, stdout.String())
		})
	}
}
