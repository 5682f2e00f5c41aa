// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

// Package scan repeatedly sweeps a zero-filled region for bytes that
// have become non-zero.
//
// [Sweep] reads every byte exactly once and returns the sum. The
// accumulator is a uint64: even a full petabyte of 0xFF bytes sums to
// less than 2^58, so a genuine non-zero sum can never wrap back to zero
// within the sizes the probe accepts. Sweep never stops early; the sum
// it returns is the exact total, not just a detection bit.
//
// [Loop] drives the state machine
//
//	Idle -> Waiting -> Sweeping -> (Waiting | Corrupted)
//
// Each wait is a timed suspension on the injected [clock.Clock].
// A clean sweep increments the sweep count, reports progress, and
// waits again. The first sweep with a non-zero sum moves the loop to
// Corrupted, which is terminal. Sweeps are strictly sequential and are
// never interrupted once started; context cancellation is honored only
// while waiting.
package scan
