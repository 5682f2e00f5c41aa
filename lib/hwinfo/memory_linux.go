// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

package hwinfo

import (
	"bufio"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// ProbeMemory collects host memory facts from /proc, /sys, and
// getrlimit(2).
func ProbeMemory() Memory {
	memory := probeMemoryFrom("/proc", "/sys")
	memory.MemlockLimit, memory.MemlockUnlimited = readMemlockLimit()
	memory.Privileged = os.Geteuid() == 0
	return memory
}

// probeMemoryFrom is the testable part of ProbeMemory. It accepts root
// paths for /proc and /sys so tests can point at synthetic trees.
func probeMemoryFrom(procRoot, sysRoot string) Memory {
	var memory Memory

	fields := readMeminfo(filepath.Join(procRoot, "meminfo"))
	memory.TotalBytes = fields["MemTotal"]
	memory.AvailableBytes = fields["MemAvailable"]
	memory.SwapTotalBytes = fields["SwapTotal"]

	memory.Controllers = readEDACControllers(filepath.Join(sysRoot, "devices/system/edac/mc"))
	return memory
}

// readMeminfo parses /proc/meminfo into bytes keyed by field name.
// Lines look like "MemTotal:       65536000 kB"; values without a unit
// (HugePages_Total) are kept as-is.
func readMeminfo(path string) map[string]uint64 {
	fields := make(map[string]uint64)

	file, err := os.Open(path)
	if err != nil {
		return fields
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		name, rest, found := strings.Cut(scanner.Text(), ":")
		if !found {
			continue
		}
		parts := strings.Fields(rest)
		if len(parts) == 0 {
			continue
		}
		value, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			continue
		}
		if len(parts) > 1 && parts[1] == "kB" {
			value *= 1024
		}
		fields[name] = value
	}
	return fields
}

// readEDACControllers lists mcN directories under base, sorted by name.
func readEDACControllers(base string) []EDACController {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil
	}

	var controllers []EDACController
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || !strings.HasPrefix(name, "mc") {
			continue
		}
		suffix := name[2:]
		if len(suffix) == 0 || suffix[0] < '0' || suffix[0] > '9' {
			continue
		}

		directory := filepath.Join(base, name)
		controllers = append(controllers, EDACController{
			Name:              name,
			Driver:            ReadSysfsString(filepath.Join(directory, "mc_name")),
			CorrectedErrors:   ReadSysfsUint64(filepath.Join(directory, "ce_count")),
			UncorrectedErrors: ReadSysfsUint64(filepath.Join(directory, "ue_count")),
		})
	}

	sort.Slice(controllers, func(i, j int) bool {
		return controllers[i].Name < controllers[j].Name
	})
	return controllers
}

// readMemlockLimit returns the soft RLIMIT_MEMLOCK.
func readMemlockLimit() (limit uint64, unlimited bool) {
	var rlimit unix.Rlimit
	if err := unix.Getrlimit(unix.RLIMIT_MEMLOCK, &rlimit); err != nil {
		return 0, false
	}
	if rlimit.Cur == math.MaxUint64 {
		return 0, true
	}
	return rlimit.Cur, false
}
