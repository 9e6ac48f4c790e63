package process

import (
	"fmt"
)

// ProcessMemoryAddress represents a memory address within a process
type ProcessMemoryAddress uint64

func (pma ProcessMemoryAddress) ToString() string {
	return fmt.Sprintf("0x%X", uint64(pma))
}

// IsNull reports whether the address is zero.
func (pma ProcessMemoryAddress) IsNull() bool {
	return pma == 0
}

// ProcessMemorySize represents a size of memory region
type ProcessMemorySize uint

func (pms ProcessMemorySize) ToString() string {
	return fmt.Sprintf("%d bytes", uint(pms))
}

// PageSize is the allocation granularity assumed by callers that round sizes.
const PageSize ProcessMemorySize = 0x1000

// AlignUp rounds size up to a multiple of PageSize.
func (pms ProcessMemorySize) AlignUp() ProcessMemorySize {
	return (pms + PageSize - 1) &^ (PageSize - 1)
}
