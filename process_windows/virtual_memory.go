//go:build windows

package process_windows

import (
	"fmt"

	"procvm/process"

	"golang.org/x/sys/windows"
)

// VirtualMemory is a region allocated inside a WindowsProcess. It borrows the
// process: the process cannot be closed until the region is freed or released.
type VirtualMemory struct {
	process    *WindowsProcess
	address    process.ProcessMemoryAddress
	size       process.ProcessMemorySize
	freeOnDrop bool
	detached   bool
}

// Allocate reserves and/or commits size bytes in p. A zero hint lets the OS
// pick the base address.
func Allocate(p *WindowsProcess, hint process.ProcessMemoryAddress, size process.ProcessMemorySize, allocType process.AllocationType, protect process.Protection) (*VirtualMemory, error) {
	if size == 0 {
		return nil, process.InvalidArgument("allocate zero bytes")
	}

	h, err := p.borrow()
	if err != nil {
		return nil, err
	}

	addr, err := virtualAllocEx(h, uintptr(hint), uintptr(size), uint32(allocType), uint32(protect))
	if err != nil {
		p.unborrow()
		return nil, process.NewOSCallError("VirtualAllocEx", err)
	}

	m := &VirtualMemory{
		process:    p,
		address:    process.ProcessMemoryAddress(addr),
		size:       size,
		freeOnDrop: true,
	}
	p.log.Debugln(fmt.Sprintf("allocated %s at %s (%s)", size.ToString(), m.address.ToString(), protect))
	return m, nil
}

func (m *VirtualMemory) Address() process.ProcessMemoryAddress {
	return m.address
}

func (m *VirtualMemory) Size() process.ProcessMemorySize {
	return m.size
}

// Process returns the borrowed process, nil once the region is released.
func (m *VirtualMemory) Process() *WindowsProcess {
	if m.detached {
		return nil
	}
	return m.process
}

func (m *VirtualMemory) FreeOnDrop() bool {
	return m.freeOnDrop
}

// SetFreeOnDrop controls whether Release frees the region. Clear it when the
// region is handed over to the target, e.g. code it will run.
func (m *VirtualMemory) SetFreeOnDrop(v bool) {
	m.freeOnDrop = v
}

// Free releases (MemRelease) or decommits (MemDecommit) the region. A release
// frees the value and drops its borrow; freeing it again fails with
// ErrInvalidArgument. A decommit only drops the committed pages: the
// reservation stays, and so does the value, until it is released.
func (m *VirtualMemory) Free(freeType process.FreeType) error {
	if m.address.IsNull() {
		return process.InvalidArgument("region already freed")
	}

	h, err := m.owner()
	if err != nil {
		return err
	}

	release := freeType.Has(process.MemRelease)

	// MEM_RELEASE requires a zero size and frees the whole allocation
	size := uintptr(m.size)
	if release {
		size = 0
	}

	if err := virtualFreeEx(h, uintptr(m.address), size, uint32(freeType)); err != nil {
		return process.NewOSCallError("VirtualFreeEx", err)
	}

	m.process.log.Debugln(fmt.Sprintf("freed %s (%s)", m.address.ToString(), freeType))
	if !release {
		return nil
	}
	m.address = 0
	m.detach()
	return nil
}

// Release is the scope-end path. A still allocated region is freed with
// MemRelease when FreeOnDrop is set; otherwise only the borrow is dropped and
// the region stays in the target. A failed free panics.
func (m *VirtualMemory) Release() {
	if m.detached {
		return
	}
	if m.freeOnDrop && !m.address.IsNull() {
		releaseOrDie("virtual memory", func() error {
			return m.Free(process.MemRelease)
		})
		return
	}
	m.detach()
}

// Write copies data into the region at offset.
func (m *VirtualMemory) Write(data []byte, offset process.ProcessMemorySize) (int, error) {
	if err := m.checkBounds(offset, len(data)); err != nil {
		return 0, err
	}
	if _, err := m.owner(); err != nil {
		return 0, err
	}
	return m.process.WriteMemory(data, m.address+process.ProcessMemoryAddress(offset))
}

// Read fills buf from the region at offset.
func (m *VirtualMemory) Read(buf []byte, offset process.ProcessMemorySize) (int, error) {
	if err := m.checkBounds(offset, len(buf)); err != nil {
		return 0, err
	}
	if _, err := m.owner(); err != nil {
		return 0, err
	}
	return m.process.ReadMemory(buf, m.address+process.ProcessMemoryAddress(offset))
}

// Protect changes the protection of the whole region and returns the previous one.
func (m *VirtualMemory) Protect(protect process.Protection) (process.Protection, error) {
	if m.address.IsNull() {
		return 0, process.InvalidArgument("region already freed")
	}
	if _, err := m.owner(); err != nil {
		return 0, err
	}
	return m.process.VirtualProtect(m.address, m.size, protect)
}

func (m *VirtualMemory) checkBounds(offset process.ProcessMemorySize, n int) error {
	if m.address.IsNull() {
		return process.InvalidArgument("region already freed")
	}
	if offset > m.size || uint64(n) > uint64(m.size-offset) {
		return process.InvalidArgument("range %d+%d outside region of %s", offset, n, m.size.ToString())
	}
	return nil
}

// owner returns the borrowed process handle; a released region or a closed
// process yields ErrNullHandle.
func (m *VirtualMemory) owner() (windows.Handle, error) {
	if m.detached || m.process == nil {
		return 0, fmt.Errorf("virtual memory released: %w", process.ErrNullHandle)
	}
	return m.process.Handle()
}

func (m *VirtualMemory) detach() {
	if m.detached {
		return
	}
	m.detached = true
	m.process.unborrow()
}
