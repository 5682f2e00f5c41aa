// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bitflipped/bitflipped/lib/clock"
	"github.com/bitflipped/bitflipped/lib/hwinfo"
	"github.com/bitflipped/bitflipped/lib/process"
	"github.com/bitflipped/bitflipped/lib/report"
	"github.com/bitflipped/bitflipped/lib/resident"
	"github.com/bitflipped/bitflipped/lib/scan"
)

// session is one probe run over an already-validated configuration.
type session struct {
	Size        uint64
	Delay       time.Duration
	RequireLock bool

	Clock  clock.Clock
	Probe  func() hwinfo.Memory
	Report *report.Writer
	Logger *slog.Logger

	// Lock, when set, replaces mlock(2) for the buffer.
	Lock func(data []byte) error

	// Allocated, when set, is called with the zeroed region before the
	// first wait.
	Allocated func(data []byte)
}

// run allocates the buffer, scans it until corruption or ctx is done,
// and prints the outcome. The returned error carries the exit code.
func (s *session) run(ctx context.Context) error {
	memory := s.Probe()
	s.warnCapacity(memory)
	s.Report.Banner(s.Size, memory, s.Clock.Now())

	var options []resident.Option
	if s.RequireLock {
		options = append(options, resident.RequireLock())
	}
	if s.Lock != nil {
		options = append(options, resident.LockWith(s.Lock))
	}
	buffer, err := resident.New(s.Size, options...)
	var warning *resident.ResidencyWarning
	switch {
	case buffer == nil:
		return process.WithCode(process.ExitAllocation, err)
	case errors.As(err, &warning):
		s.Logger.Warn("buffer is not locked into RAM; it may be swapped out",
			"size", s.Size,
			"error", warning.Err,
		)
	default:
		s.Logger.Debug("buffer locked", "size", s.Size)
	}
	defer buffer.Close()

	data := buffer.Bytes()
	if s.Allocated != nil {
		s.Allocated(data)
	}

	loop := &scan.Loop{
		Clock:    s.Clock,
		Delay:    s.Delay,
		Progress: s.Report.Progress,
	}
	result, err := loop.Run(ctx, data)

	if result.Corrupted() {
		s.Report.Corruption(result)
		s.logErrorCounts(memory)
		return process.Silent(process.ExitCorruption)
	}
	if errors.Is(err, context.Canceled) {
		s.Report.Interrupted(result, s.Clock.Now())
		return nil
	}
	if err != nil {
		return process.WithCode(process.ExitInternal, fmt.Errorf("scan loop: %w", err))
	}
	return nil
}

func (s *session) warnCapacity(memory hwinfo.Memory) {
	if memory.AvailableBytes > 0 && s.Size > memory.AvailableBytes {
		s.Logger.Warn("allocation exceeds available memory",
			"size", s.Size,
			"available", memory.AvailableBytes,
		)
	}
	if !memory.CanLock(s.Size) {
		s.Logger.Warn("allocation exceeds RLIMIT_MEMLOCK; raise the limit or run with CAP_IPC_LOCK",
			"size", s.Size,
			"memlock_limit", memory.MemlockLimit,
		)
	}
	if memory.ECC() {
		corrected, uncorrected := memory.ErrorCounts()
		s.Logger.Info("ECC counters at start",
			"controllers", len(memory.Controllers),
			"corrected", corrected,
			"uncorrected", uncorrected,
		)
	}
}

// logErrorCounts re-reads the EDAC counters and logs how they moved
// during the run. A corrected-error increase alongside a detection
// points at the DIMM rather than at the probe.
func (s *session) logErrorCounts(before hwinfo.Memory) {
	after := s.Probe()
	if !after.ECC() {
		return
	}
	correctedBefore, uncorrectedBefore := before.ErrorCounts()
	correctedAfter, uncorrectedAfter := after.ErrorCounts()
	s.Logger.Error("ECC counters at detection",
		"corrected", correctedAfter,
		"uncorrected", uncorrectedAfter,
		"corrected_delta", int64(correctedAfter-correctedBefore),
		"uncorrected_delta", int64(uncorrectedAfter-uncorrectedBefore),
	)
}
