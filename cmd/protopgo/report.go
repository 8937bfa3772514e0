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
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"buf.build/go/protopgo"
	"buf.build/go/protopgo/internal/schema"
)

var errNoDescriptorSet = errors.New("at least one --descriptor-set is required")

func newReportCmd(a *app) *cobra.Command {
	var (
		descriptorSets []string
		all            bool
		analysis       bool
		threshold      bool
	)

	cmd := &cobra.Command{
		Use:   "report PROFILE",
		Short: "Report the optimizations a profile suggests",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(descriptorSets) == 0 {
				return &usageError{errNoDescriptorSet}
			}
			registry, err := schema.Load(descriptorSets...)
			if err != nil {
				return &usageError{err}
			}

			opts, err := a.options(cmd)
			if err != nil {
				return err
			}
			opts = append(opts,
				protopgo.WithRegistry(registry),
				protopgo.WithMessageFilter(a.cfg.Filter),
				protopgo.WithThresholds(a.cfg.HotRatio, a.cfg.ColdRatio),
				protopgo.WithParallelism(a.cfg.Parallelism),
				protopgo.WithPrintAllFields(all),
				protopgo.WithPrintAnalysis(analysis),
				protopgo.WithPrintUnusedThreshold(threshold),
			)

			a.logger.Info("generating report",
				zap.String("profile", args[0]),
				zap.Strings("descriptor_sets", descriptorSets),
			)
			return protopgo.Report(cmd.Context(), cmd.OutOrStdout(), args[0], opts...)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&descriptorSets, "descriptor-set", nil,
		"google.protobuf.FileDescriptorSet to resolve messages against; may be repeated")
	flags.String("filter", "", "only report messages whose C++ name matches this RE2 pattern")
	flags.BoolVar(&all, "all", false, "print every field of a profiled message")
	flags.BoolVar(&analysis, "analysis", false, "print the presence and usage classification of every field")
	flags.BoolVar(&threshold, "threshold", false, "print the profile's unlikely-used threshold first")
	flags.Float64("hot-ratio", 0, "access ratio at or above which a field is likely present (default 0.9)")
	flags.Float64("cold-ratio", 0, "access ratio below which a field is rarely present (default 0.005)")
	flags.Int("parallelism", 0, "messages to analyze at once (default GOMAXPROCS)")

	return cmd
}
