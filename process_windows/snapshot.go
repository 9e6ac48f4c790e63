//go:build windows

package process_windows

import (
	"errors"
	"fmt"
	"iter"

	"procvm/process"

	"golang.org/x/sys/windows"
)

// Snapshot is a point-in-time toolhelp enumeration. Later changes in the
// system are not reflected in it.
type Snapshot struct {
	handle handle
	flags  process.SnapshotFlags
	pid    process.ProcessID
}

// NewSnapshot captures the objects selected by flags. pid scopes module and
// heap snapshots; thread and process snapshots always cover the whole system.
func NewSnapshot(pid process.ProcessID, flags process.SnapshotFlags) (*Snapshot, error) {
	h, err := windows.CreateToolhelp32Snapshot(uint32(flags), uint32(pid))
	if err != nil {
		return nil, process.NewOSCallError("CreateToolhelp32Snapshot", fmt.Errorf("pid %d: %w", pid, err))
	}
	return &Snapshot{
		handle: newHandle("snapshot", h),
		flags:  flags,
		pid:    pid,
	}, nil
}

func (s *Snapshot) Flags() process.SnapshotFlags {
	return s.flags
}

func (s *Snapshot) PID() process.ProcessID {
	return s.pid
}

func (s *Snapshot) Close() error {
	return s.handle.close()
}

// Release closes the snapshot if still open; a failed close panics.
func (s *Snapshot) Release() {
	if !s.handle.valid() {
		return
	}
	releaseOrDie("snapshot", s.Close)
}

func (s *Snapshot) IsValid() bool {
	return s.handle.valid()
}

func (s *Snapshot) Handle() (windows.Handle, error) {
	return s.handle.raw()
}

func (s *Snapshot) Raw() (uintptr, error) {
	h, err := s.handle.raw()
	return uintptr(h), err
}

// ThreadEntries yields every thread recorded in the snapshot. Each call starts
// over from the first entry. An enumeration failure is yielded once as the
// last element.
func (s *Snapshot) ThreadEntries() iter.Seq2[process.ThreadEntry, error] {
	return func(yield func(process.ThreadEntry, error) bool) {
		h, err := s.handle.raw()
		if err != nil {
			yield(process.ThreadEntry{}, err)
			return
		}

		var entry windows.ThreadEntry32
		entry.Size = sizeOf[windows.ThreadEntry32]()

		op := "Thread32First"
		err = windows.Thread32First(h, &entry)
		for err == nil {
			if !yield(threadEntry(&entry), nil) {
				return
			}
			op = "Thread32Next"
			err = windows.Thread32Next(h, &entry)
		}
		if !errors.Is(err, windows.ERROR_NO_MORE_FILES) {
			yield(process.ThreadEntry{}, process.NewOSCallError(op, err))
		}
	}
}

// ProcessEntries yields every process recorded in the snapshot.
func (s *Snapshot) ProcessEntries() iter.Seq2[process.ProcessEntry, error] {
	return func(yield func(process.ProcessEntry, error) bool) {
		h, err := s.handle.raw()
		if err != nil {
			yield(process.ProcessEntry{}, err)
			return
		}

		var entry windows.ProcessEntry32
		entry.Size = sizeOf[windows.ProcessEntry32]()

		op := "Process32First"
		err = windows.Process32First(h, &entry)
		for err == nil {
			if !yield(processEntry(&entry), nil) {
				return
			}
			op = "Process32Next"
			err = windows.Process32Next(h, &entry)
		}
		if !errors.Is(err, windows.ERROR_NO_MORE_FILES) {
			yield(process.ProcessEntry{}, process.NewOSCallError(op, err))
		}
	}
}

func threadEntry(e *windows.ThreadEntry32) process.ThreadEntry {
	return process.ThreadEntry{
		ThreadID:       process.ThreadID(e.ThreadID),
		OwnerProcessID: process.ProcessID(e.OwnerProcessID),
		BasePriority:   e.BasePri,
		DeltaPriority:  e.DeltaPri,
		Usage:          e.Usage,
		Flags:          e.Flags,
	}
}

func processEntry(e *windows.ProcessEntry32) process.ProcessEntry {
	return process.ProcessEntry{
		PID:       process.ProcessID(e.ProcessID),
		ParentPID: process.ProcessID(e.ParentProcessID),
		Threads:   e.Threads,
		Exe:       windows.UTF16ToString(e.ExeFile[:]),
	}
}
