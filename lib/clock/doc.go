// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock is the probe's time source.
//
// The scan loop reads the time for its timestamps and waits between
// sweeps. Both go through [Clock], so tests can step a loop that would
// otherwise sleep thirty seconds per sweep:
//
//	fake := clock.Fake(start)
//	go loop.Run(ctx, data)
//	fake.WaitForTimers(1)          // loop is parked in its wait
//	fake.Advance(30 * time.Second) // release one sweep
//
// [Wait] is the cancellable wait the loop uses.
package clock
