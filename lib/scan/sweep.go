// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

package scan

import "encoding/binary"

// Sweep returns the sum of every byte in data.
//
// Bytes are consumed eight at a time. An all-zero word adds nothing, so
// only non-zero words are split into lanes; the result is identical to
// a byte-at-a-time sum.
func Sweep(data []byte) uint64 {
	var total uint64

	words := len(data) &^ 7
	for offset := 0; offset < words; offset += 8 {
		word := binary.LittleEndian.Uint64(data[offset : offset+8])
		if word != 0 {
			total += laneSum(word)
		}
	}
	for _, value := range data[words:] {
		total += uint64(value)
	}

	return total
}

// laneSum adds the eight bytes packed in word.
func laneSum(word uint64) uint64 {
	var total uint64
	for lane := 0; lane < 8; lane++ {
		total += word & 0xFF
		word >>= 8
	}
	return total
}
