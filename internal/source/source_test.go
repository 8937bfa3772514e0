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

package source_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buf.build/go/protopgo/internal/source"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want source.Location
		err  bool
	}{
		{name: "-", want: source.Location{Scheme: "-"}},
		{name: "profile.pb", want: source.Location{Path: "profile.pb"}},
		{name: "/tmp/a/profile.pb", want: source.Location{Path: "/tmp/a/profile.pb"}},
		{name: "file:///tmp/profile.pb", want: source.Location{Path: "/tmp/profile.pb"}},
		{
			name: "ssh://alice@build-01:2222/var/pgo/profile.pb",
			want: source.Location{Scheme: "ssh", User: "alice", Host: "build-01:2222", Path: "/var/pgo/profile.pb"},
		},
		{
			name: "ssh://build-01/profile.pb",
			want: source.Location{Scheme: "ssh", Host: "build-01", Path: "/profile.pb"},
		},
		{
			name: "s3://profiles/2025/06/access_info.binpb",
			want: source.Location{Scheme: "s3", Host: "profiles", Path: "2025/06/access_info.binpb"},
		},

		{name: "", err: true},
		{name: "ssh://build-01", err: true},
		{name: "s3://profiles", err: true},
		{name: "s3://profiles/", err: true},
		{name: "http://example.com/profile.pb", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := source.Parse(tt.name)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocationString(t *testing.T) {
	t.Parallel()

	for _, name := range []string{
		"-",
		"profile.pb",
		"ssh://alice@build-01:2222/var/pgo/profile.pb",
		"s3://profiles/2025/access_info.binpb",
	} {
		loc, err := source.Parse(name)
		require.NoError(t, err)
		assert.Equal(t, name, loc.String())
	}
}

func TestOpenFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profile.txtpb")
	require.NoError(t, os.WriteFile(path, []byte("unlikely_used_threshold: 4\n"), 0o600))

	for _, name := range []string{path, "file://" + path} {
		r, err := source.Open(context.Background(), name, source.Config{})
		require.NoError(t, err)

		data, err := io.ReadAll(r)
		require.NoError(t, err)
		require.NoError(t, r.Close())
		assert.Equal(t, "unlikely_used_threshold: 4\n", string(data))
	}
}

func TestOpenMissing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.pb")
	_, err := source.Open(context.Background(), path, source.Config{})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenStdin(t *testing.T) {
	t.Parallel()

	r, err := source.Open(context.Background(), "-", source.Config{
		Stdin: strings.NewReader("hello"),
	})
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}
