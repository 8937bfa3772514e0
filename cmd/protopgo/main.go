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

// Command protopgo reports which fields of Protobuf messages would benefit
// from profile-guided optimizations.
//
//	protopgo report --descriptor-set image.binpb [--filter RE] [--all] [--analysis] [--threshold] PROFILE
//	protopgo dump PROFILE
//
// PROFILE may be a path, "-" for stdin, or an ssh:// or s3:// URL.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"buf.build/go/protopgo"
	"buf.build/go/protopgo/internal/xerrors"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitNotFound = 3
	exitCorrupt  = 4
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	fmt.Fprintf(stderr, "error: %v\n", err)
	return exitCode(err)
}

// usageError marks errors in how the command was invoked.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func exitCode(err error) int {
	if _, ok := xerrors.As[*usageError](err); ok {
		return exitUsage
	}

	switch {
	case errors.Is(err, protopgo.ErrConfig), errors.Is(err, protopgo.ErrPattern):
		return exitUsage
	case errors.Is(err, protopgo.ErrNotFound):
		return exitNotFound
	case errors.Is(err, protopgo.ErrCorrupt):
		return exitCorrupt
	default:
		return exitFailure
	}
}
