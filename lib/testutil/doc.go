// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil holds helpers shared by the probe's tests.
//
// Tests that run a scan loop in a goroutine against a fake clock read
// its outcome with [RequireReceive], so a wedged loop fails the test
// instead of hanging it. That timeout is the only wall-clock wait in
// the suite.
package testutil
