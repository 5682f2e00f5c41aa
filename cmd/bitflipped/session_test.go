// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/bitflipped/bitflipped/lib/clock"
	"github.com/bitflipped/bitflipped/lib/hwinfo"
	"github.com/bitflipped/bitflipped/lib/process"
	"github.com/bitflipped/bitflipped/lib/report"
	"github.com/bitflipped/bitflipped/lib/resident"
	"github.com/bitflipped/bitflipped/lib/testutil"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type testSession struct {
	*session
	fake   *clock.FakeClock
	stdout bytes.Buffer
	stderr bytes.Buffer
	logs   bytes.Buffer
}

func newTestSession(size uint64, delay time.Duration) *testSession {
	test := &testSession{fake: clock.Fake(epoch)}
	test.session = &session{
		Size:   size,
		Delay:  delay,
		Clock:  test.fake,
		Probe:  func() hwinfo.Memory { return hwinfo.Memory{MemlockUnlimited: true} },
		Report: report.New(&test.stdout, &test.stderr),
		Logger: slog.New(slog.NewJSONHandler(&test.logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
	return test
}

// start runs the session in a goroutine and returns its result channel.
func (test *testSession) start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() { done <- test.run(ctx) }()
	return done
}

func TestSession_DetectsInjectedFlip(t *testing.T) {
	test := newTestSession(1, time.Second)
	test.Allocated = func(data []byte) {
		if len(data) != 1 || data[0] != 0 {
			t.Errorf("allocated region = %v, want one zero byte", data)
		}
		data[0] = 7
	}

	done := test.start(context.Background())
	test.fake.WaitForTimers(1)
	test.fake.Advance(time.Second)

	err := testutil.RequireReceive(t, done, 5*time.Second, "waiting for session to detect corruption")
	if got := process.Code(err); got != process.ExitCorruption {
		t.Fatalf("exit code = %d, want %d (err: %v)", got, process.ExitCorruption, err)
	}

	output := test.stdout.String()
	for _, want := range []string{
		"=== Bitflipped ===",
		"Allocating 1 B...",
		"Run started: " + epoch.Format(report.TimestampLayout),
		"--- !!! ---",
		"Error detected: " + epoch.Add(time.Second).Format(report.TimestampLayout),
		"Result should be 0 but is 7",
		"Total tests run: 1",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
	if !strings.Contains(test.stderr.String(), "\rTest run #1 (every 1s)\n") {
		t.Errorf("detecting sweep has no progress line: %q", test.stderr.String())
	}
}

func TestSession_InterruptedWithoutCorruption(t *testing.T) {
	test := newTestSession(4096, 30*time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := test.start(ctx)
	for sweep := 0; sweep < 2; sweep++ {
		test.fake.WaitForTimers(1)
		test.fake.Advance(30 * time.Second)
	}
	// The third wait is registered only after the second sweep finished.
	test.fake.WaitForTimers(1)
	cancel()

	err := testutil.RequireReceive(t, done, 5*time.Second, "waiting for session to stop")
	if err != nil {
		t.Fatalf("run() error = %v, want nil", err)
	}
	if got := process.Code(err); got != process.ExitClean {
		t.Errorf("exit code = %d, want %d", got, process.ExitClean)
	}
	if !strings.Contains(test.stdout.String(), "No corruption detected in 2 test(s)") {
		t.Errorf("missing interruption summary:\n%s", test.stdout.String())
	}
	if !strings.Contains(test.stderr.String(), "\rTest run #2 (every 30s)") {
		t.Errorf("missing progress line:\n%q", test.stderr.String())
	}
}

func TestSession_AllocationFailure(t *testing.T) {
	test := newTestSession(math.MaxUint64, time.Second)

	err := test.run(context.Background())
	if got := process.Code(err); got != process.ExitAllocation {
		t.Fatalf("exit code = %d, want %d (err: %v)", got, process.ExitAllocation, err)
	}
	var allocationError *resident.AllocationError
	if !errors.As(err, &allocationError) {
		t.Errorf("expected *resident.AllocationError in chain, got %T: %v", err, err)
	}
	if strings.Contains(test.stdout.String(), "--- !!! ---") {
		t.Error("allocation failure reported as corruption")
	}
}

func TestSession_CapacityWarnings(t *testing.T) {
	test := newTestSession(1, time.Second)
	test.warnCapacity(hwinfo.Memory{AvailableBytes: 512, MemlockLimit: 0})
	test.Size = 1024
	test.warnCapacity(hwinfo.Memory{AvailableBytes: 512, MemlockLimit: 0})

	logs := test.logs.String()
	if strings.Count(logs, "allocation exceeds RLIMIT_MEMLOCK") != 2 {
		t.Errorf("expected a memlock warning per call:\n%s", logs)
	}
	if strings.Count(logs, "allocation exceeds available memory") != 1 {
		t.Errorf("expected exactly one available-memory warning:\n%s", logs)
	}
}

func denyLock([]byte) error { return unix.EPERM }

func TestSession_LockDeniedContinues(t *testing.T) {
	test := newTestSession(4096, 30*time.Second)
	test.Lock = denyLock
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := test.start(ctx)
	// A registered wait means the session got past allocation and is
	// scanning the unlocked buffer.
	test.fake.WaitForTimers(1)
	test.fake.Advance(30 * time.Second)
	test.fake.WaitForTimers(1)
	cancel()

	err := testutil.RequireReceive(t, done, 5*time.Second, "waiting for session to stop")
	if err != nil {
		t.Fatalf("run() error = %v, want nil", err)
	}
	logs := test.logs.String()
	if !strings.Contains(logs, "buffer is not locked into RAM") {
		t.Errorf("missing residency warning in logs:\n%s", logs)
	}
	if !strings.Contains(logs, `"level":"WARN"`) {
		t.Errorf("residency warning not logged at WARN:\n%s", logs)
	}
	if !strings.Contains(test.stdout.String(), "No corruption detected in 1 test(s)") {
		t.Errorf("unlocked run did not sweep:\n%s", test.stdout.String())
	}
}

func TestSession_LockDeniedWithRequireLock(t *testing.T) {
	test := newTestSession(4096, 30*time.Second)
	test.Lock = denyLock
	test.RequireLock = true

	err := test.run(context.Background())
	if got := process.Code(err); got != process.ExitAllocation {
		t.Fatalf("exit code = %d, want %d (err: %v)", got, process.ExitAllocation, err)
	}
	var warning *resident.ResidencyWarning
	if !errors.As(err, &warning) {
		t.Errorf("expected *resident.ResidencyWarning in chain, got %T: %v", err, err)
	}
	if test.fake.PendingCount() != 0 || test.stderr.Len() != 0 {
		t.Errorf("scan started after a required lock failed: stderr %q", test.stderr.String())
	}
}

func TestSession_InternalFailure(t *testing.T) {
	test := newTestSession(4096, 0)

	err := test.run(context.Background())
	if got := process.Code(err); got != process.ExitInternal {
		t.Fatalf("exit code = %d, want %d (err: %v)", got, process.ExitInternal, err)
	}
	if !strings.Contains(err.Error(), "scan loop") {
		t.Errorf("error %q does not name the scan loop", err.Error())
	}
}

func TestSession_LogsECCDeltaAtDetection(t *testing.T) {
	test := newTestSession(1, time.Second)
	var probes int
	test.Probe = func() hwinfo.Memory {
		probes++
		corrected := uint64(1)
		if probes > 1 {
			corrected = 4
		}
		return hwinfo.Memory{
			MemlockUnlimited: true,
			Controllers: []hwinfo.EDACController{
				{Name: "mc0", CorrectedErrors: corrected},
			},
		}
	}
	test.Allocated = func(data []byte) { data[0] = 1 }

	done := test.start(context.Background())
	test.fake.WaitForTimers(1)
	test.fake.Advance(time.Second)

	err := testutil.RequireReceive(t, done, 5*time.Second, "waiting for session to detect corruption")
	if got := process.Code(err); got != process.ExitCorruption {
		t.Fatalf("exit code = %d, want %d (err: %v)", got, process.ExitCorruption, err)
	}
	if probes != 2 {
		t.Errorf("memory probed %d times, want 2 (start and detection)", probes)
	}
	logs := test.logs.String()
	for _, want := range []string{
		"ECC counters at start",
		"ECC counters at detection",
		`"corrected":4`,
		`"corrected_delta":3`,
		`"uncorrected_delta":0`,
	} {
		if !strings.Contains(logs, want) {
			t.Errorf("logs missing %s:\n%s", want, logs)
		}
	}
}
