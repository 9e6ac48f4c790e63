package memory_map

import (
	"fmt"
	"sort"
)

// Region states as reported by the OS.
const (
	StateCommit  uint32 = 0x1000
	StateReserve uint32 = 0x2000
	StateFree    uint32 = 0x10000
)

// Region types.
const (
	TypePrivate uint32 = 0x20000
	TypeMapped  uint32 = 0x40000
	TypeImage   uint32 = 0x1000000
)

// MemoryMapItem represents a memory region in a process's address space
type MemoryMapItem struct {
	Address uint64 // The starting address of the memory region
	Size    uint   // The size of the memory region in bytes
	Perms   string // Permissions (e.g., "r-xp" for read, execute, private)
	Protect uint32 // Raw page protection
	State   uint32 // StateCommit, StateReserve or StateFree
	Type    uint32 // TypePrivate, TypeMapped or TypeImage
}

// String returns a string representation of the memory map item
func (mmItem MemoryMapItem) String() string {
	return fmt.Sprintf("Address: %x, Size: %d, Perms: %s", mmItem.Address, mmItem.Size, mmItem.Perms)
}

func (mmItem MemoryMapItem) End() uint64 {
	return mmItem.Address + uint64(mmItem.Size)
}

func (mmItem MemoryMapItem) Contains(addr uint64) bool {
	return addr >= mmItem.Address && addr < mmItem.End()
}

func (mmItem MemoryMapItem) IsCommitted() bool {
	return mmItem.State == StateCommit
}

func (mmItem MemoryMapItem) IsReadable() bool {
	return len(mmItem.Perms) > 0 && mmItem.Perms[0] == 'r'
}

func (mmItem MemoryMapItem) IsWritable() bool {
	return len(mmItem.Perms) > 1 && mmItem.Perms[1] == 'w'
}

func (mmItem MemoryMapItem) IsExecutable() bool {
	return len(mmItem.Perms) > 2 && mmItem.Perms[2] == 'x'
}

// PermsFromProtect renders a page protection and region type in the
// four-character "rwxp" form. Guarded and no-access pages render as "---".
func PermsFromProtect(protect, typ uint32) string {
	perms := []byte("---p")
	if typ == TypeMapped || typ == TypeImage {
		perms[3] = 's'
	}
	if protect&0x100 != 0 { // PAGE_GUARD
		return string(perms)
	}
	switch protect & 0xFF {
	case 0x02: // PAGE_READONLY
		perms[0] = 'r'
	case 0x04, 0x08: // PAGE_READWRITE, PAGE_WRITECOPY
		perms[0], perms[1] = 'r', 'w'
	case 0x10: // PAGE_EXECUTE
		perms[2] = 'x'
	case 0x20: // PAGE_EXECUTE_READ
		perms[0], perms[2] = 'r', 'x'
	case 0x40, 0x80: // PAGE_EXECUTE_READWRITE, PAGE_EXECUTE_WRITECOPY
		perms[0], perms[1], perms[2] = 'r', 'w', 'x'
	}
	return string(perms)
}

// Helper functions for working with memory maps

// IsValidAddress checks if an address is within a committed, readable memory region
func IsValidAddress(addr uint64, memoryMap []MemoryMapItem) bool {
	for _, item := range memoryMap {
		if item.Contains(addr) {
			return item.IsCommitted() && item.IsReadable()
		}
	}
	return false
}

// FindRegion locates the region containing addr with a binary search; the map
// must be sorted by address.
func FindRegion(addr uint64, memoryMap []MemoryMapItem) *MemoryMapItem {
	i := sort.Search(len(memoryMap), func(i int) bool {
		return memoryMap[i].End() > addr
	})
	if i < len(memoryMap) && memoryMap[i].Address <= addr {
		return &memoryMap[i]
	}

	return nil
}

// SortByAddress orders the map for FindRegion
func SortByAddress(memoryMap []MemoryMapItem) {
	sort.Slice(memoryMap, func(i, j int) bool {
		return memoryMap[i].Address < memoryMap[j].Address
	})
}
