// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// Exit codes.
const (
	ExitClean      = 0
	ExitConfig     = 1
	ExitCorruption = 2
	ExitAllocation = 3
	ExitInternal   = 4
)

// ExitError carries an exit code out of run(). When Silent is set the
// caller has already printed everything the operator needs and main()
// exits without an extra "error:" line.
type ExitError struct {
	Code   int
	Err    error
	Silent bool
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode returns the exit code.
func (e *ExitError) ExitCode() int { return e.Code }

// WithCode wraps err with an exit code.
func WithCode(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// Silent returns an ExitError that prints nothing.
func Silent(code int) *ExitError {
	return &ExitError{Code: code, Silent: true}
}

// Code returns the exit code for err: ExitClean for nil, the carried
// code for an *ExitError, and ExitInternal for anything else.
func Code(err error) int {
	if err == nil {
		return ExitClean
	}
	var exitError *ExitError
	if errors.As(err, &exitError) {
		return exitError.Code
	}
	return ExitInternal
}

// Report writes "error: err" to w unless err is nil or silent.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	var exitError *ExitError
	if errors.As(err, &exitError) && exitError.Silent {
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

// Exit reports err on stderr and exits with Code(err).
func Exit(err error) {
	Report(os.Stderr, err)
	os.Exit(Code(err))
}
