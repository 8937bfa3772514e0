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

package protopgo

import (
	"errors"
	"fmt"

	"buf.build/go/protopgo/internal/accessinfo"
)

var (
	// ErrConfig is returned when a report is requested with invalid options,
	// such as a missing schema.
	ErrConfig = errors.New("invalid configuration")
	// ErrNotFound is returned when a profile cannot be read.
	ErrNotFound = errors.New("profile not found")
	// ErrCorrupt is returned when a profile is malformed.
	ErrCorrupt = errors.New("corrupt profile")
	// ErrPattern is returned when a message filter is not a valid regular
	// expression.
	ErrPattern = errors.New("invalid message filter")
)

const (
	errCodeOk errCode = iota
	errCodeConfig
	errCodeNotFound
	errCodeCorrupt
	errCodePattern
)

type errCode int

var errs = [...]error{
	errCodeOk:       nil,
	errCodeConfig:   ErrConfig,
	errCodeNotFound: ErrNotFound,
	errCodeCorrupt:  ErrCorrupt,
	errCodePattern:  ErrPattern,
}

// errReport is an error returned by [Report] and friends. It matches one of
// the Err* sentinels, as well as its cause.
type errReport struct {
	code  errCode
	cause error
}

// Unwrap implements error unwrapping viz [errors.Unwrap].
func (e *errReport) Unwrap() []error {
	if e.cause == nil {
		return []error{errs[e.code]}
	}
	return []error{errs[e.code], e.cause}
}

// Error implements [error].
func (e *errReport) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("protopgo: %v", errs[e.code])
	}
	return fmt.Sprintf("protopgo: %v: %v", errs[e.code], e.cause)
}

// loadError classifies an error from loading a profile.
func loadError(err error) error {
	if errors.Is(err, accessinfo.ErrCorrupt) {
		return &errReport{code: errCodeCorrupt, cause: err}
	}
	// Anything else that prevents us from getting at the bytes, such as a
	// permission or network failure, is reported as not found.
	return &errReport{code: errCodeNotFound, cause: err}
}
