// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package hwinfo

import "os"

// ProbeMemory reports only privilege outside Linux: there is no
// /proc/meminfo or EDAC tree to read. The memlock limit is reported as
// unlimited so callers skip the pre-allocation warning and rely on the
// mlock result instead.
func ProbeMemory() Memory {
	return Memory{
		MemlockUnlimited: true,
		Privileged:       os.Geteuid() == 0,
	}
}
