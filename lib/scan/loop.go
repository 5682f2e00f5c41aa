// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

package scan

import (
	"context"
	"errors"
	"time"

	"github.com/bitflipped/bitflipped/lib/clock"
)

// Phase is a state of the scan loop.
type Phase int

const (
	// Idle is the state before Run starts.
	Idle Phase = iota

	// Waiting is the timed suspension between sweeps.
	Waiting

	// Sweeping is a pass over the whole region.
	Sweeping

	// Corrupted is terminal: a sweep found a non-zero sum.
	Corrupted
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Waiting:
		return "waiting"
	case Sweeping:
		return "sweeping"
	case Corrupted:
		return "corrupted"
	default:
		return "unknown"
	}
}

// State is the scan loop's counters.
type State struct {
	// Sweeps counts completed clean sweeps.
	Sweeps uint64

	// CorruptionTotal is the byte sum of the sweep that detected
	// corruption. Zero unless Phase is Corrupted.
	CorruptionTotal uint64

	Phase Phase
}

// Result is what Run hands to the reporting layer.
type Result struct {
	State

	// StartedAt is when Run entered its first wait.
	StartedAt time.Time

	// DetectedAt is when the corrupt sweep finished. Zero unless
	// Phase is Corrupted.
	DetectedAt time.Time
}

// Corrupted reports whether the loop ended on a non-zero sweep.
func (r Result) Corrupted() bool { return r.Phase == Corrupted }

// Loop sweeps a region every Delay until a sweep is non-zero.
type Loop struct {
	// Clock provides the inter-sweep wait and timestamps.
	Clock clock.Clock

	// Delay is the wait before each sweep. Must be positive.
	Delay time.Duration

	// Progress, when non-nil, is called after every completed sweep,
	// including the one that detects corruption, with the 1-based
	// number of that sweep. It runs before Run returns.
	Progress func(sweeps uint64, delay time.Duration)
}

// Run waits, sweeps, and repeats until a sweep finds a non-zero sum or
// ctx is canceled. It never writes to data.
//
// On corruption Run returns a Result with Phase Corrupted and a nil
// error. On cancellation it returns the state reached so far (Phase
// Waiting) and ctx.Err().
func (l *Loop) Run(ctx context.Context, data []byte) (Result, error) {
	if l.Clock == nil {
		return Result{}, errors.New("scan: loop requires a clock")
	}
	if l.Delay <= 0 {
		return Result{}, errors.New("scan: delay must be positive")
	}

	result := Result{StartedAt: l.Clock.Now()}

	for {
		result.Phase = Waiting
		if err := clock.Wait(ctx, l.Clock, l.Delay); err != nil {
			return result, err
		}

		result.Phase = Sweeping
		total := Sweep(data)
		if l.Progress != nil {
			l.Progress(result.Sweeps+1, l.Delay)
		}

		if total != 0 {
			result.Phase = Corrupted
			result.CorruptionTotal = total
			result.DetectedAt = l.Clock.Now()
			return result, nil
		}
		result.Sweeps++
	}
}
