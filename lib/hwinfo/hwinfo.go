// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

package hwinfo

import (
	"os"
	"strconv"
	"strings"
)

// Memory is a snapshot of host memory facts.
type Memory struct {
	// TotalBytes is MemTotal from /proc/meminfo.
	TotalBytes uint64

	// AvailableBytes is MemAvailable from /proc/meminfo.
	AvailableBytes uint64

	// SwapTotalBytes is SwapTotal from /proc/meminfo. Zero means the
	// host has no swap, so an unlocked buffer cannot be swapped out.
	SwapTotalBytes uint64

	// MemlockLimit is the soft RLIMIT_MEMLOCK in bytes. Meaningless
	// when MemlockUnlimited is set.
	MemlockLimit     uint64
	MemlockUnlimited bool

	// Privileged is set when running as root, which on Linux carries
	// CAP_IPC_LOCK and bypasses RLIMIT_MEMLOCK.
	Privileged bool

	// Controllers lists EDAC memory controllers. Empty when the kernel
	// exposes no EDAC driver for this machine.
	Controllers []EDACController
}

// EDACController is one memory controller under
// /sys/devices/system/edac/mc.
type EDACController struct {
	// Name is the directory name, e.g. "mc0".
	Name string

	// Driver is the contents of mc_name, e.g. "Skylake Socket#0 IMC#0".
	Driver string

	// CorrectedErrors is ce_count: single-bit errors ECC repaired.
	CorrectedErrors uint64

	// UncorrectedErrors is ue_count: errors ECC detected but could
	// not repair.
	UncorrectedErrors uint64
}

// CanLock reports whether the memlock limit admits locking size bytes.
func (m Memory) CanLock(size uint64) bool {
	return m.Privileged || m.MemlockUnlimited || size <= m.MemlockLimit
}

// ECC reports whether at least one EDAC memory controller is present.
func (m Memory) ECC() bool {
	return len(m.Controllers) > 0
}

// ErrorCounts sums corrected and uncorrected errors over all
// controllers.
func (m Memory) ErrorCounts() (corrected, uncorrected uint64) {
	for _, controller := range m.Controllers {
		corrected += controller.CorrectedErrors
		uncorrected += controller.UncorrectedErrors
	}
	return corrected, uncorrected
}

// ReadSysfsString reads a sysfs or procfs file and returns its trimmed
// contents. Returns "" on any error.
func ReadSysfsString(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// ReadSysfsUint64 reads an unsigned integer from a sysfs file. Returns
// 0 on error.
func ReadSysfsUint64(path string) uint64 {
	value := ReadSysfsString(path)
	if value == "" {
		return 0
	}
	result, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}
