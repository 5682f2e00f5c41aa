// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

package config

// Kind classifies a configuration failure.
type Kind string

const (
	// KindUsage is a malformed command line: unknown flag, missing or
	// unparseable value.
	KindUsage Kind = "usage"

	// KindFile is an unreadable config file.
	KindFile Kind = "file"

	// KindParse is a config file that is not valid YAML or contains
	// unknown keys.
	KindParse Kind = "parse"

	// KindRange is a value outside the hard bounds.
	KindRange Kind = "range"

	// KindSanity is a valid but suspicious value rejected without
	// Force.
	KindSanity Kind = "sanity"
)

// Error is a configuration failure. No memory has been allocated when
// one is returned.
type Error struct {
	Kind Kind

	// Field names the offending setting, when there is one.
	Field string

	Err error

	// Hint is an optional remediation shown after the message.
	Hint string
}

// Error returns the message followed by the hint, separated by a blank
// line.
func (e *Error) Error() string {
	if e.Hint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + "\n\n" + e.Hint
}

func (e *Error) Unwrap() error { return e.Err }

// Usage builds a KindUsage error.
func Usage(err error) *Error {
	return &Error{Kind: KindUsage, Err: err}
}
