//go:build windows

package memory_map

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Query describes the region containing addr.
func Query(h windows.Handle, addr uintptr) (MemoryMapItem, error) {
	var mbi windows.MemoryBasicInformation
	if err := windows.VirtualQueryEx(h, addr, &mbi, unsafe.Sizeof(mbi)); err != nil {
		return MemoryMapItem{}, err
	}
	return fromBasicInformation(&mbi), nil
}

// ReadMemoryMap walks the whole address space of the process behind h and
// returns every committed or reserved region, sorted by address.
func ReadMemoryMap(h windows.Handle) ([]MemoryMapItem, error) {
	return walk(func(addr uintptr, mbi *windows.MemoryBasicInformation) error {
		return windows.VirtualQueryEx(h, addr, mbi, unsafe.Sizeof(*mbi))
	})
}

type queryFunc func(addr uintptr, mbi *windows.MemoryBasicInformation) error

// walk queries region after region until the query reports
// ERROR_INVALID_PARAMETER, the end of the user address space. Any other
// error aborts the walk.
func walk(query queryFunc) ([]MemoryMapItem, error) {
	var (
		items []MemoryMapItem
		addr  uintptr
		mbi   windows.MemoryBasicInformation
	)

	for {
		if err := query(addr, &mbi); err != nil {
			if errors.Is(err, windows.ERROR_INVALID_PARAMETER) {
				break
			}
			return nil, fmt.Errorf("query 0x%x: %w", addr, err)
		}

		base := uintptr(mbi.BaseAddress)
		regionSize := uintptr(mbi.RegionSize)
		if regionSize == 0 {
			break
		}

		if mbi.State != StateFree {
			items = append(items, fromBasicInformation(&mbi))
		}

		addr = base + regionSize
		if addr < base {
			break
		}
	}

	SortByAddress(items)
	return items, nil
}

func fromBasicInformation(mbi *windows.MemoryBasicInformation) MemoryMapItem {
	return MemoryMapItem{
		Address: uint64(mbi.BaseAddress),
		Size:    uint(mbi.RegionSize),
		Perms:   PermsFromProtect(mbi.Protect, mbi.Type),
		Protect: mbi.Protect,
		State:   mbi.State,
		Type:    mbi.Type,
	}
}
