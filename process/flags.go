package process

import (
	"fmt"
	"strings"
)

// AccessRights is the set of rights requested when opening a process handle.
type AccessRights uint32

const (
	ProcessTerminate               AccessRights = 0x0001
	ProcessCreateThread            AccessRights = 0x0002
	ProcessVMOperation             AccessRights = 0x0008
	ProcessVMRead                  AccessRights = 0x0010
	ProcessVMWrite                 AccessRights = 0x0020
	ProcessDupHandle               AccessRights = 0x0040
	ProcessCreateProcess           AccessRights = 0x0080
	ProcessSetQuota                AccessRights = 0x0100
	ProcessSetInformation          AccessRights = 0x0200
	ProcessQueryInformation        AccessRights = 0x0400
	ProcessSuspendResume           AccessRights = 0x0800
	ProcessQueryLimitedInformation AccessRights = 0x1000
	ProcessSynchronize             AccessRights = 0x100000
	ProcessAllAccess               AccessRights = 0x1FFFFF

	// ProcessMemoryAccess covers query, read, write and protect/allocate.
	ProcessMemoryAccess = ProcessQueryInformation | ProcessVMRead | ProcessVMWrite | ProcessVMOperation
)

func (a AccessRights) Has(flags AccessRights) bool {
	return a&flags == flags
}

// ThreadAccessRights is the set of rights requested when opening a thread.
type ThreadAccessRights uint32

const (
	ThreadTerminate               ThreadAccessRights = 0x0001
	ThreadSuspendResume           ThreadAccessRights = 0x0002
	ThreadGetContext              ThreadAccessRights = 0x0008
	ThreadSetContext              ThreadAccessRights = 0x0010
	ThreadSetInformation          ThreadAccessRights = 0x0020
	ThreadQueryInformation        ThreadAccessRights = 0x0040
	ThreadSetThreadToken          ThreadAccessRights = 0x0080
	ThreadImpersonate             ThreadAccessRights = 0x0100
	ThreadDirectImpersonation     ThreadAccessRights = 0x0200
	ThreadSetLimitedInformation   ThreadAccessRights = 0x0400
	ThreadQueryLimitedInformation ThreadAccessRights = 0x0800
	ThreadSynchronize             ThreadAccessRights = 0x100000
	ThreadAllAccess               ThreadAccessRights = 0x1FFFFF
)

func (a ThreadAccessRights) Has(flags ThreadAccessRights) bool {
	return a&flags == flags
}

// Protection is a page protection value. The low byte holds exactly one base
// protection, the upper bits hold modifiers.
type Protection uint32

const (
	PageNoAccess         Protection = 0x01
	PageReadOnly         Protection = 0x02
	PageReadWrite        Protection = 0x04
	PageWriteCopy        Protection = 0x08
	PageExecute          Protection = 0x10
	PageExecuteRead      Protection = 0x20
	PageExecuteReadWrite Protection = 0x40
	PageExecuteWriteCopy Protection = 0x80
	PageGuard            Protection = 0x100
	PageNoCache          Protection = 0x200
	PageWriteCombine     Protection = 0x400
)

var protectionNames = []struct {
	p    Protection
	name string
}{
	{PageNoAccess, "PAGE_NOACCESS"},
	{PageReadOnly, "PAGE_READONLY"},
	{PageReadWrite, "PAGE_READWRITE"},
	{PageWriteCopy, "PAGE_WRITECOPY"},
	{PageExecute, "PAGE_EXECUTE"},
	{PageExecuteRead, "PAGE_EXECUTE_READ"},
	{PageExecuteReadWrite, "PAGE_EXECUTE_READWRITE"},
	{PageExecuteWriteCopy, "PAGE_EXECUTE_WRITECOPY"},
	{PageGuard, "PAGE_GUARD"},
	{PageNoCache, "PAGE_NOCACHE"},
	{PageWriteCombine, "PAGE_WRITECOMBINE"},
}

// Base strips the modifier bits.
func (p Protection) Base() Protection {
	return p & 0xFF
}

func (p Protection) Has(flags Protection) bool {
	return p&flags == flags
}

func (p Protection) Readable() bool {
	switch p.Base() {
	case PageReadOnly, PageReadWrite, PageWriteCopy,
		PageExecuteRead, PageExecuteReadWrite, PageExecuteWriteCopy:
		return true
	}
	return false
}

func (p Protection) Writable() bool {
	switch p.Base() {
	case PageReadWrite, PageWriteCopy, PageExecuteReadWrite, PageExecuteWriteCopy:
		return true
	}
	return false
}

func (p Protection) Executable() bool {
	switch p.Base() {
	case PageExecute, PageExecuteRead, PageExecuteReadWrite, PageExecuteWriteCopy:
		return true
	}
	return false
}

func (p Protection) String() string {
	if p == 0 {
		return "0"
	}
	var parts []string
	rest := p
	for _, n := range protectionNames {
		if p&n.p != 0 {
			parts = append(parts, n.name)
			rest &^= n.p
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%X", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// AllocationType selects how VirtualMemory regions are reserved/committed.
type AllocationType uint32

const (
	MemCommit     AllocationType = 0x00001000
	MemReserve    AllocationType = 0x00002000
	MemReset      AllocationType = 0x00080000
	MemTopDown    AllocationType = 0x00100000
	MemLargePages AllocationType = 0x20000000

	MemCommitReserve = MemCommit | MemReserve
)

func (a AllocationType) Has(flags AllocationType) bool {
	return a&flags == flags
}

// FreeType selects decommit or full release of a region.
type FreeType uint32

const (
	MemDecommit FreeType = 0x4000
	MemRelease  FreeType = 0x8000
)

func (f FreeType) Has(flags FreeType) bool {
	return f&flags == flags
}

func (f FreeType) String() string {
	switch f {
	case MemDecommit:
		return "MEM_DECOMMIT"
	case MemRelease:
		return "MEM_RELEASE"
	}
	return fmt.Sprintf("FreeType(0x%X)", uint32(f))
}

// SnapshotFlags filters the object kinds captured by a snapshot.
type SnapshotFlags uint32

const (
	SnapHeapList SnapshotFlags = 0x00000001
	SnapProcess  SnapshotFlags = 0x00000002
	SnapThread   SnapshotFlags = 0x00000004
	SnapModule   SnapshotFlags = 0x00000008
	SnapModule32 SnapshotFlags = 0x00000010
	SnapInherit  SnapshotFlags = 0x80000000
	SnapAll                    = SnapHeapList | SnapProcess | SnapThread | SnapModule
)

func (s SnapshotFlags) Has(flags SnapshotFlags) bool {
	return s&flags == flags
}
