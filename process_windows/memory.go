//go:build windows

package process_windows

import (
	"fmt"

	"procvm/process"
	"procvm/process/memory_map"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sys/windows"
)

// WriteMemory writes data at addr in the target. A null address or empty data
// is rejected before any OS call. The returned count may be smaller than
// len(data); callers compare it themselves.
func (p *WindowsProcess) WriteMemory(data []byte, addr process.ProcessMemoryAddress) (int, error) {
	if addr.IsNull() {
		return 0, process.InvalidArgument("write to null address")
	}
	if len(data) == 0 {
		return 0, process.InvalidArgument("empty write at %s", addr.ToString())
	}

	h, err := p.Handle()
	if err != nil {
		return 0, err
	}

	var written uintptr
	if err := windows.WriteProcessMemory(h, uintptr(addr), &data[0], uintptr(len(data)), &written); err != nil {
		return int(written), process.NewOSCallError("WriteProcessMemory", err)
	}

	p.log.Debugln(fmt.Sprintf("wrote %d bytes at %s", written, addr.ToString()))
	return int(written), nil
}

// ReadMemory reads up to len(buf) bytes from addr into buf.
func (p *WindowsProcess) ReadMemory(buf []byte, addr process.ProcessMemoryAddress) (int, error) {
	if addr.IsNull() {
		return 0, process.InvalidArgument("read from null address")
	}
	if len(buf) == 0 {
		return 0, process.InvalidArgument("empty read buffer at %s", addr.ToString())
	}

	h, err := p.Handle()
	if err != nil {
		return 0, err
	}

	var read uintptr
	if err := windows.ReadProcessMemory(h, uintptr(addr), &buf[0], uintptr(len(buf)), &read); err != nil {
		return int(read), process.NewOSCallError("ReadProcessMemory", err)
	}
	return int(read), nil
}

// VirtualProtect changes the protection of [addr, addr+size) and returns the
// protection in effect before the call, so it can be handed back later.
func (p *WindowsProcess) VirtualProtect(addr process.ProcessMemoryAddress, size process.ProcessMemorySize, protect process.Protection) (process.Protection, error) {
	if size == 0 {
		return 0, process.InvalidArgument("protect zero bytes at %s", addr.ToString())
	}

	h, err := p.Handle()
	if err != nil {
		return 0, err
	}

	var old uint32
	if err := windows.VirtualProtectEx(h, uintptr(addr), uintptr(size), uint32(protect), &old); err != nil {
		return 0, process.NewOSCallError("VirtualProtectEx", err)
	}

	p.log.Debugln(fmt.Sprintf("protect %s+%d %s -> %s", addr.ToString(), size, process.Protection(old), protect))
	return process.Protection(old), nil
}

// WithProtection switches [addr, addr+size) to protect, runs fn and restores
// the previous protection. The restore runs even when fn fails; both errors
// are returned together.
func (p *WindowsProcess) WithProtection(addr process.ProcessMemoryAddress, size process.ProcessMemorySize, protect process.Protection, fn func() error) error {
	old, err := p.VirtualProtect(addr, size, protect)
	if err != nil {
		return err
	}

	var result *multierror.Error
	if err := fn(); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := p.VirtualProtect(addr, size, old); err != nil {
		result = multierror.Append(result, fmt.Errorf("restore %s: %w", old, err))
	}
	return result.ErrorOrNil()
}

// MemoryMap walks every reserved or committed region of the target.
func (p *WindowsProcess) MemoryMap() ([]memory_map.MemoryMapItem, error) {
	h, err := p.Handle()
	if err != nil {
		return nil, err
	}

	mm, err := memory_map.ReadMemoryMap(h)
	if err != nil {
		return nil, process.NewOSCallError("VirtualQueryEx", err)
	}
	return mm, nil
}

// Query describes the region containing addr.
func (p *WindowsProcess) Query(addr process.ProcessMemoryAddress) (memory_map.MemoryMapItem, error) {
	h, err := p.Handle()
	if err != nil {
		return memory_map.MemoryMapItem{}, err
	}

	item, err := memory_map.Query(h, uintptr(addr))
	if err != nil {
		return memory_map.MemoryMapItem{}, process.NewOSCallError("VirtualQueryEx", err)
	}
	return item, nil
}

func (p *WindowsProcess) IsValidAddress(addr process.ProcessMemoryAddress) bool {
	if addr <= 0x10000 {
		return false
	}

	item, err := p.Query(addr)
	if err != nil {
		return false
	}
	return item.IsCommitted() && item.IsReadable()
}
