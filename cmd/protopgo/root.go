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
	"os"

	"al.essio.dev/pkg/shellescape"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"buf.build/go/protopgo"
	"buf.build/go/protopgo/internal/config"
)

// app is the state shared by all subcommands.
type app struct {
	configPath string

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := new(app)

	cmd := &cobra.Command{
		Use:   "protopgo",
		Short: "Profile-guided optimization advice for Protobuf",
		Long: "Reads field access profiles collected from instrumented binaries, and reports which " +
			"fields should be inlined or lazily parsed by the code generator.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ./protopgo.yaml)")
	flags.String("log-level", "", "log level: debug, info, warn, or error")
	flags.String("log-format", "", "log format: console or json")
	flags.String("format", "", "profile encoding: auto, binary, text, json, or yaml")

	cmd.AddCommand(newReportCmd(a), newDumpCmd(a))
	return cmd
}

// init loads configuration and sets up logging.
func (a *app) init(cmd *cobra.Command) error {
	flags := cmd.Flags()
	cfg, err := config.Load(a.configPath, flags)
	if err != nil {
		return &usageError{err}
	}
	a.cfg = cfg

	logger, err := config.InitLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return &usageError{err}
	}
	a.logger = logger.With(zap.String("run_id", uuid.NewString()))
	a.logger.Debug("starting",
		zap.String("command", cmd.Name()),
		zap.String("invocation", shellescape.QuoteCommand(os.Args)),
	)
	return nil
}

// options returns the library options shared by every subcommand.
func (a *app) options(cmd *cobra.Command) ([]protopgo.Option, error) {
	var format protopgo.ProfileFormat
	if err := format.Set(a.cfg.Format); err != nil {
		return nil, &usageError{err}
	}

	return []protopgo.Option{
		protopgo.WithLogger(a.logger),
		protopgo.WithProfileFormat(format),
		protopgo.WithSourceConfig(a.cfg.Source(cmd.InOrStdin(), a.logger)),
	}, nil
}
