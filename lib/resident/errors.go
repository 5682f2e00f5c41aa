// Copyright 2026 The bitflipped Authors
// SPDX-License-Identifier: Apache-2.0

package resident

import "fmt"

// AllocationError reports that the requested region could not be
// mapped. The probe cannot run without its buffer, so this is fatal.
type AllocationError struct {
	Size uint64
	Err  error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("resident: allocating %d bytes: %v", e.Size, e.Err)
}

func (e *AllocationError) Unwrap() error { return e.Err }

// ResidencyWarning reports that the region is mapped and zeroed but
// could not be locked into RAM. Pages may be swapped out, which weakens
// but does not disable detection.
type ResidencyWarning struct {
	Size uint64
	Err  error
}

func (e *ResidencyWarning) Error() string {
	return fmt.Sprintf("resident: mlock of %d bytes failed, buffer may be swapped: %v", e.Size, e.Err)
}

func (e *ResidencyWarning) Unwrap() error { return e.Err }
