// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

// Package hwinfo reads the host memory facts that matter to a bit-flip
// probe: how much RAM and swap exist, how much memory the process may
// lock, and whether the memory controllers report ECC errors through
// the kernel's EDAC subsystem.
//
// [ProbeMemory] never returns an error. Missing or unreadable files
// produce zero-valued fields: a VM without EDAC or a container with a
// masked /sys is still a valid host to probe.
//
// The probe uses the result three ways: the startup banner shows it,
// the binary warns before allocating when the request exceeds available
// memory or the memlock limit, and the EDAC corrected/uncorrected
// counters are logged at start and at detection so an operator can tell
// whether the hardware noticed the same event.
package hwinfo
