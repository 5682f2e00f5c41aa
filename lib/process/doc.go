// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

// Package process defines the probe's exit codes and the small helpers
// main() uses to turn an error from run() into a process exit.
//
// Exit codes:
//
//	0  terminated by SIGINT/SIGTERM, no corruption observed
//	1  configuration failure (bad flags, bad config file, sanity check)
//	2  corruption detected
//	3  buffer could not be allocated (or locked, with --require-lock)
//	4  internal failure that is none of the above
//
// run() returns an [*ExitError] for outcomes that carry their own exit
// code. [Code] maps any other non-nil error to [ExitInternal].
package process
