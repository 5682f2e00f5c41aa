// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports which build of the probe is running, for
// --version output and for attaching to bug reports about detected
// corruption.
package version
