// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

package resident

import "golang.org/x/sys/unix"

// MAP_POPULATE pre-faults every page so the region is backed by
// physical frames before mlock and the zero-fill run.
const mmapFlags = unix.MAP_PRIVATE | unix.MAP_ANONYMOUS | unix.MAP_POPULATE

func adviseNoDump(data []byte) {
	_ = unix.Madvise(data, unix.MADV_DONTDUMP)
}
