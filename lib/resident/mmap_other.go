// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix && !linux

package resident

import "golang.org/x/sys/unix"

const mmapFlags = unix.MAP_PRIVATE | unix.MAP_ANON

func adviseNoDump([]byte) {}
