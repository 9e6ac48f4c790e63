//go:build windows

package process_windows

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

// Calls x/sys/windows does not wrap.
var (
	modkernel32        = windows.NewLazySystemDLL("kernel32.dll")
	procVirtualAllocEx = modkernel32.NewProc("VirtualAllocEx")
	procVirtualFreeEx  = modkernel32.NewProc("VirtualFreeEx")
	procSuspendThread  = modkernel32.NewProc("SuspendThread")
	procResumeThread   = modkernel32.NewProc("ResumeThread")
)

func virtualAllocEx(h windows.Handle, address, size uintptr, allocType, protect uint32) (uintptr, error) {
	addr, _, err := procVirtualAllocEx.Call(uintptr(h), address, size, uintptr(allocType), uintptr(protect))
	if addr == 0 {
		return 0, err
	}
	return addr, nil
}

func virtualFreeEx(h windows.Handle, address, size uintptr, freeType uint32) error {
	ret, _, err := procVirtualFreeEx.Call(uintptr(h), address, size, uintptr(freeType))
	if ret == 0 {
		return err
	}
	return nil
}

func suspendThread(h windows.Handle) (uint32, error) {
	ret, _, err := procSuspendThread.Call(uintptr(h))
	if uint32(ret) == 0xFFFFFFFF {
		return 0, err
	}
	return uint32(ret), nil
}

func resumeThread(h windows.Handle) (uint32, error) {
	ret, _, err := procResumeThread.Call(uintptr(h))
	if uint32(ret) == 0xFFFFFFFF {
		return 0, err
	}
	return uint32(ret), nil
}

func sizeOf[T any]() uint32 {
	var t T
	return uint32(unsafe.Sizeof(t))
}
