// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package resident

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync"

	"golang.org/x/sys/unix"
)

// Buffer is a zero-filled memory region mapped outside the Go heap and,
// when the operating system allows it, locked into physical RAM.
//
// After New returns, the program never writes to the region again.
// A Buffer must not be copied. Close releases the mapping; after Close,
// Bytes panics.
type Buffer struct {
	mu     sync.Mutex
	data   []byte
	length int
	locked bool
	closed bool
}

// Option configures New.
type Option func(*options)

type options struct {
	requireLock bool
	lock        func([]byte) error
}

// RequireLock makes a failed mlock fatal: New unmaps the region and
// returns the *ResidencyWarning with a nil Buffer.
func RequireLock() Option {
	return func(o *options) { o.requireLock = true }
}

// LockWith replaces mlock(2) as the call that pins the region. A
// non-nil error from lock is treated exactly like a failed mlock.
func LockWith(lock func(data []byte) error) Option {
	return func(o *options) { o.lock = lock }
}

// New maps, pins, and zero-fills a region of exactly size bytes.
//
// The returned error is one of:
//   - nil: the buffer is mapped, locked, and zeroed.
//   - *ResidencyWarning with a non-nil Buffer: mapped and zeroed but
//     not locked. The buffer is usable.
//   - *ResidencyWarning with a nil Buffer: locking failed and
//     RequireLock was given.
//   - *AllocationError with a nil Buffer: the region could not be
//     mapped.
func New(size uint64, opts ...Option) (*Buffer, error) {
	config := options{lock: unix.Mlock}
	for _, opt := range opts {
		opt(&config)
	}

	if size == 0 {
		return nil, &AllocationError{Size: size, Err: errors.New("size must be positive")}
	}
	if size > math.MaxInt {
		return nil, &AllocationError{Size: size, Err: fmt.Errorf("size exceeds the address space limit of %d bytes", math.MaxInt)}
	}
	length := int(size)

	data, err := unix.Mmap(-1, 0, length, unix.PROT_READ|unix.PROT_WRITE, mmapFlags)
	if err != nil {
		return nil, &AllocationError{Size: size, Err: fmt.Errorf("mmap: %w", err)}
	}

	buffer := &Buffer{data: data, length: length}

	var warning error
	if err := config.lock(data); err != nil {
		warning = &ResidencyWarning{Size: size, Err: err}
		if config.requireLock {
			unix.Munmap(data)
			return nil, warning
		}
	} else {
		buffer.locked = true
	}

	// Not fatal: keeping a multi-gigabyte zero region out of core dumps
	// is a courtesy, and not every kernel supports the hint.
	adviseNoDump(data)

	// The mapping is already zero, but those zeros may be the kernel's
	// shared zero page. Writing every byte gives each page its own
	// frame, so a flip in one physical cell cannot hide behind a
	// template page.
	clear(data)
	runtime.KeepAlive(data)

	return buffer, warning
}

// Bytes returns the region. The slice points directly into the mapping
// and must not be used after Close. Panics if the buffer is closed.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		panic("resident: read from closed buffer")
	}

	return b.data[:b.length]
}

// Len returns the size of the region in bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.length
}

// Locked reports whether mlock succeeded for the whole region.
func (b *Buffer) Locked() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.locked
}

// Close unlocks and unmaps the region. The probe normally never calls
// it (the kernel reclaims the mapping at exit); tests and orderly
// shutdown do. Close is idempotent.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	var firstError error
	if b.locked {
		if err := unix.Munlock(b.data); err != nil {
			firstError = fmt.Errorf("resident: munlock failed: %w", err)
		}
	}
	if err := unix.Munmap(b.data); err != nil && firstError == nil {
		firstError = fmt.Errorf("resident: munmap failed: %w", err)
	}

	b.data = nil
	b.locked = false
	return firstError
}
