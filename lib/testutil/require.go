// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"testing"
	"time"
)

// RequireReceive returns the next value from ch. If nothing arrives
// within timeout, or ch is closed, the test fails with the formatted
// description:
//
//	result := testutil.RequireReceive(t, outcome, 5*time.Second, "waiting for sweep %d", n)
func RequireReceive[T any](t testing.TB, ch <-chan T, timeout time.Duration, format string, args ...any) T {
	t.Helper()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case value, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed while %s", fmt.Sprintf(format, args...))
		}
		return value
	case <-timer.C:
		t.Fatalf("no value after %v while %s", timeout, fmt.Sprintf(format, args...))
	}
	panic("unreachable")
}
