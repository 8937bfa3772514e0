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
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"buf.build/go/protopgo"
)

func newDumpCmd(a *app) *cobra.Command {
	var output protopgo.ProfileFormat
	cmd := &cobra.Command{
		Use:   "dump PROFILE",
		Short: "Print the raw statistics in a profile",
		Long: "Prints the raw statistics in a profile. With --output-format, the profile is " +
			"instead re-encoded, with duplicate entries merged.",
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options(cmd)
			if err != nil {
				return err
			}

			ds, err := protopgo.LoadDataset(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}
			if output == protopgo.FormatAuto {
				_, err = io.WriteString(cmd.OutOrStdout(), ds.Dump())
				return err
			}

			data, err := ds.Encode(output)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().Var(&output, "output-format", "re-encode the profile: binary, text, json, or yaml")
	return cmd
}

// exactArgs is [cobra.ExactArgs], but marks its errors as usage errors.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return &usageError{fmt.Errorf("%s takes %d argument(s), got %d", cmd.Name(), n, len(args))}
		}
		return nil
	}
}
