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

package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buf.build/go/protopgo/internal/config"
)

// These tests change the working directory and environment, so they cannot
// run in parallel.

func chdir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)

	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.Filter)
	assert.InDelta(t, 0.9, cfg.HotRatio, 1e-9)
	assert.InDelta(t, 0.005, cfg.ColdRatio, 1e-9)
	assert.Zero(t, cfg.Parallelism)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.True(t, cfg.SSH.Interactive)
	assert.Equal(t, 20, cfg.SSH.TimeoutSecs)
	assert.Equal(t, "s3.amazonaws.com", cfg.S3.Endpoint)
	assert.True(t, cfg.S3.UseSSL)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdir(t)

	yaml := `
filter: "^example::"
hot_ratio: 0.75
log:
  level: debug
  format: json
ssh:
  user: pgo
  known_hosts: /etc/ssh/known_hosts
s3:
  endpoint: localhost:9000
  use_ssl: false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "protopgo.yaml"), []byte(yaml), 0o600))

	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "^example::", cfg.Filter)
	assert.InDelta(t, 0.75, cfg.HotRatio, 1e-9)
	assert.InDelta(t, 0.005, cfg.ColdRatio, 1e-9)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "pgo", cfg.SSH.User)
	assert.Equal(t, "/etc/ssh/known_hosts", cfg.SSH.KnownHosts)
	assert.Equal(t, "localhost:9000", cfg.S3.Endpoint)
	assert.False(t, cfg.S3.UseSSL)
}

func TestLoadExplicitFile(t *testing.T) {
	dir := chdir(t)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("parallelism: 3\n"), 0o600))

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Parallelism)

	_, err = config.Load(filepath.Join(dir, "missing.yaml"), nil)
	require.Error(t, err)
}

func TestLoadPrecedence(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "protopgo.yaml"),
		[]byte("filter: from-file\ncold_ratio: 0.01\n"), 0o600))
	t.Setenv("PROTOPGO_FILTER", "from-env")
	t.Setenv("PROTOPGO_LOG_LEVEL", "error")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("filter", "", "")
	flags.Float64("cold-ratio", 0, "")
	require.NoError(t, flags.Parse([]string{"--filter=from-flag"}))

	cfg, err := config.Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Filter)
	assert.InDelta(t, 0.01, cfg.ColdRatio, 1e-9, "unset flags do not override the file")
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestSource(t *testing.T) {
	chdir(t)
	t.Setenv("PROTOPGO_SSH_TIMEOUT_SECS", "5")
	t.Setenv("PROTOPGO_S3_ACCESS_KEY", "minio")

	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	src := cfg.Source(nil, nil)
	assert.Equal(t, "5s", src.SSH.Timeout.String())
	assert.Equal(t, "minio", src.S3.AccessKey)
}

func TestInitLogger(t *testing.T) {
	out := new(bytes.Buffer)
	logger, err := config.InitLogger(config.LogConfig{Level: "info", Format: "json"}, out)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("shown")
	require.NoError(t, logger.Sync())
	assert.NotContains(t, out.String(), "hidden")
	assert.Contains(t, out.String(), `"msg":"shown"`)

	_, err = config.InitLogger(config.LogConfig{Level: "loud", Format: "json"}, out)
	require.Error(t, err)
	_, err = config.InitLogger(config.LogConfig{Level: "info", Format: "xml"}, out)
	require.Error(t, err)
}
