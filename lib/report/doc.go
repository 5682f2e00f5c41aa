// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

// Package report renders the probe's human-readable output.
//
// Two streams are involved. Out receives the durable record: the
// startup banner and the final corruption or interruption report.
// Diag receives the transient progress line, rewritten in place with a
// carriage return after every clean sweep. Keeping them apart lets an
// operator redirect the record to a file while still watching progress
// on the terminal.
//
// Styling (a bold red corruption banner) is applied only when Out is a
// terminal; otherwise the output is plain ASCII suitable for logs.
package report
