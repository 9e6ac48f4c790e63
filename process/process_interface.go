package process

import (
	"procvm/process/memory_map"
)

// Resource is the contract shared by every entity that owns an OS handle.
type Resource interface {
	// Close releases the handle. Closing an invalid handle fails with
	// ErrNullHandle.
	Close() error

	// IsValid reports whether the handle is set and not yet closed
	IsValid() bool

	// Raw returns the underlying handle value or ErrNullHandle
	Raw() (uintptr, error)
}

// MemoryReader reads a byte range of a foreign process into buf and returns
// the number of bytes actually read.
type MemoryReader interface {
	ReadMemory(buf []byte, addr ProcessMemoryAddress) (int, error)
}

// MemoryWriter writes data into a foreign process and returns the number of
// bytes actually written.
type MemoryWriter interface {
	WriteMemory(data []byte, addr ProcessMemoryAddress) (int, error)
}

// Process is the interface that defines operations for interacting with a system process
type Process interface {
	Resource
	MemoryReader
	MemoryWriter

	// PID resolves the process id from the handle
	PID() (ProcessID, error)

	// Access returns the rights the handle was opened with
	Access() AccessRights

	// VirtualProtect changes the protection of [addr, addr+size) and returns
	// the protection that was in effect before
	VirtualProtect(addr ProcessMemoryAddress, size ProcessMemorySize, protect Protection) (Protection, error)

	// MemoryMap walks the address space of the process
	MemoryMap() ([]memory_map.MemoryMapItem, error)

	// IsValidAddress checks if the given memory address is committed and readable
	IsValidAddress(addr ProcessMemoryAddress) bool
}
