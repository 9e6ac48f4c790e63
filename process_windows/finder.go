//go:build windows

package process_windows

import (
	"fmt"
	"strings"

	"procvm/process"
)

// WindowsProcessFinder implements process.ProcessFinder and
// process.ProcessOpener over process snapshots.
type WindowsProcessFinder struct{}

func NewProcessFinder() *WindowsProcessFinder {
	return &WindowsProcessFinder{}
}

var (
	_ process.ProcessFinder = (*WindowsProcessFinder)(nil)
	_ process.ProcessOpener = (*WindowsProcessFinder)(nil)
)

// FindAllProcesses returns every process in a fresh snapshot
func (f *WindowsProcessFinder) FindAllProcesses() ([]process.ProcessEntry, error) {
	return f.find(func(process.ProcessEntry) bool { return true })
}

// FindProcessByPID finds a process by its PID
func (f *WindowsProcessFinder) FindProcessByPID(pid process.ProcessID) (*process.ProcessEntry, error) {
	entries, err := f.find(func(e process.ProcessEntry) bool { return e.PID == pid })
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no process with PID %d", pid)
	}
	return &entries[0], nil
}

// FindProcessByName matches the executable name case-insensitively
func (f *WindowsProcessFinder) FindProcessByName(name string) ([]process.ProcessEntry, error) {
	return f.find(func(e process.ProcessEntry) bool { return strings.EqualFold(e.Exe, name) })
}

// FindChildProcesses returns the processes whose parent is parentPID. Parent
// ids are recycled by the OS, so an entry may name a parent that has exited.
func (f *WindowsProcessFinder) FindChildProcesses(parentPID process.ProcessID) ([]process.ProcessEntry, error) {
	return f.find(func(e process.ProcessEntry) bool { return e.ParentPID == parentPID && e.PID != parentPID })
}

// OpenProcessByName opens the first process whose executable matches name
func (f *WindowsProcessFinder) OpenProcessByName(name string, access process.AccessRights, inherit bool) (process.Process, error) {
	p, err := f.OpenByName(name, access, inherit)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// OpenByName is OpenProcessByName returning the concrete process, for callers
// that need Release, Snapshot or Allocate.
func (f *WindowsProcessFinder) OpenByName(name string, access process.AccessRights, inherit bool) (*WindowsProcess, error) {
	entries, err := f.FindProcessByName(name)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no process found with name '%s'", name)
	}

	return Open(entries[0].PID, access, inherit)
}

func (f *WindowsProcessFinder) find(match func(process.ProcessEntry) bool) ([]process.ProcessEntry, error) {
	snap, err := NewSnapshot(0, process.SnapProcess)
	if err != nil {
		return nil, err
	}
	defer snap.Release()

	var result []process.ProcessEntry
	for entry, err := range snap.ProcessEntries() {
		if err != nil {
			return nil, err
		}
		if match(entry) {
			result = append(result, entry)
		}
	}
	return result, nil
}
