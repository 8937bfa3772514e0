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

// Package config loads settings for the protopgo command from flags, the
// environment, and an optional protopgo.yaml.
package config

import (
	"io"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"buf.build/go/protopgo/internal/source"
)

// EnvPrefix is prepended to environment variables that override settings.
// Nested keys are joined with "_", so log.level is PROTOPGO_LOG_LEVEL.
const EnvPrefix = "PROTOPGO"

// Config is the complete configuration for a run.
type Config struct {
	Filter      string  `yaml:"filter" mapstructure:"filter"`
	HotRatio    float64 `yaml:"hot_ratio" mapstructure:"hot_ratio"`
	ColdRatio   float64 `yaml:"cold_ratio" mapstructure:"cold_ratio"`
	Parallelism int     `yaml:"parallelism" mapstructure:"parallelism"`
	Format      string  `yaml:"format" mapstructure:"format"`

	Log LogConfig `yaml:"log" mapstructure:"log"`
	SSH SSHConfig `yaml:"ssh" mapstructure:"ssh"`
	S3  S3Config  `yaml:"s3" mapstructure:"s3"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// SSHConfig configures fetching profiles over SSH.
type SSHConfig struct {
	User        string `yaml:"user" mapstructure:"user"`
	Password    string `yaml:"password" mapstructure:"password"`
	KeyFile     string `yaml:"key_file" mapstructure:"key_file"`
	KnownHosts  string `yaml:"known_hosts" mapstructure:"known_hosts"`
	Insecure    bool   `yaml:"insecure" mapstructure:"insecure"`
	Interactive bool   `yaml:"interactive" mapstructure:"interactive"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// S3Config configures fetching profiles from S3.
type S3Config struct {
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	Region    string `yaml:"region" mapstructure:"region"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
}

// flagKeys maps configuration keys to the flags that override them.
var flagKeys = map[string]string{
	"filter":      "filter",
	"hot_ratio":   "hot-ratio",
	"cold_ratio":  "cold-ratio",
	"parallelism": "parallelism",
	"format":      "format",
	"log.level":   "log-level",
	"log.format":  "log-format",
}

// Load reads configuration from the given file, or protopgo.yaml in the
// working directory if path is empty, and then the environment, and then
// flags. flags may be nil; flags that do not exist in it are skipped.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("protopgo")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	// Environment
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("filter", "")
	v.SetDefault("hot_ratio", 0.9)
	v.SetDefault("cold_ratio", 0.005)
	v.SetDefault("parallelism", 0)
	v.SetDefault("format", "auto")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("ssh.user", "")
	v.SetDefault("ssh.password", "")
	v.SetDefault("ssh.key_file", "")
	v.SetDefault("ssh.known_hosts", "")
	v.SetDefault("ssh.insecure", false)
	v.SetDefault("ssh.interactive", true)
	v.SetDefault("ssh.timeout_secs", 20)
	v.SetDefault("s3.endpoint", "s3.amazonaws.com")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.use_ssl", true)

	if flags != nil {
		for key, name := range flagKeys {
			if name == "" {
				continue
			}
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, eris.Wrapf(err, "config: bind flag --%s", name)
				}
			}
		}
	}

	// Read config file (optional, unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Source returns the settings for opening profiles.
func (c *Config) Source(stdin io.Reader, logger *zap.Logger) source.Config {
	return source.Config{
		Stdin: stdin,
		SSH: source.SSHConfig{
			User:        c.SSH.User,
			Password:    c.SSH.Password,
			KeyFile:     c.SSH.KeyFile,
			KnownHosts:  c.SSH.KnownHosts,
			Insecure:    c.SSH.Insecure,
			Interactive: c.SSH.Interactive,
			Timeout:     time.Duration(c.SSH.TimeoutSecs) * time.Second,
		},
		S3: source.S3Config{
			Endpoint:  c.S3.Endpoint,
			Region:    c.S3.Region,
			AccessKey: c.S3.AccessKey,
			SecretKey: c.S3.SecretKey,
			UseSSL:    c.S3.UseSSL,
		},
		Logger: logger,
	}
}

// InitLogger builds a logger that writes to w, and installs it as the global
// zap logger.
func InitLogger(cfg LogConfig, w io.Writer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, eris.Wrap(err, "config: parse log level")
	}

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "console":
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	case "json":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	default:
		return nil, eris.Errorf("config: unknown log format %q", cfg.Format)
	}

	logger := zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level))
	zap.ReplaceGlobals(logger)

	return logger, nil
}
