// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

// Package resident provides a zero-filled byte region pinned in
// physical RAM, used as the detection surface for memory bit flips.
//
// [New] maps anonymous memory outside the Go heap (mmap with
// MAP_POPULATE on Linux so every page is faulted in at once), locks it
// with mlock so it cannot be swapped, excludes it from core dumps, and
// then writes zero to every byte. Because the region lives outside the
// Go heap, the garbage collector never scans, copies, or relocates it,
// and the explicit zero-fill guarantees each page has its own private
// physical frame rather than the kernel's shared zero page.
//
// Pinning is best-effort. When mlock is denied (RLIMIT_MEMLOCK,
// missing CAP_IPC_LOCK) New still returns a usable buffer together
// with a [*ResidencyWarning]; callers separate the two outcomes with
// errors.As. The [RequireLock] option turns that warning into a
// failure. An allocation that cannot be satisfied at all is reported
// as [*AllocationError].
//
// Depends on golang.org/x/sys/unix. No other internal dependencies.
package resident
