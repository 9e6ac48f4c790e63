//go:build windows

package process_windows

import (
	"fmt"
	"sync"

	"procvm/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"golang.org/x/sys/windows"
)

var pkgLog = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "process-windows"))

// WindowsProcess implements the process.Process interface for Windows systems.
//
// Regions allocated with Allocate borrow the process; Close refuses to run
// while any of them are still live.
type WindowsProcess struct {
	handle  handle
	access  process.AccessRights
	regions int
	log     *logger.Logger
	mu      sync.Mutex
}

var _ process.Process = (*WindowsProcess)(nil)

// Open opens an existing process by id with the requested rights.
func Open(pid process.ProcessID, access process.AccessRights, inherit bool) (*WindowsProcess, error) {
	h, err := windows.OpenProcess(uint32(access), inherit, uint32(pid))
	if err != nil {
		return nil, process.NewOSCallError("OpenProcess", fmt.Errorf("pid %d: %w", pid, err))
	}

	p := &WindowsProcess{
		handle: newHandle("process", h),
		access: access,
		log:    processLogger(pid),
	}
	p.log.Infoln("Process opened")
	return p, nil
}

// OpenCurrent wraps the pseudo handle of the calling process. Closing it only
// invalidates the wrapper.
func OpenCurrent() (*WindowsProcess, error) {
	p := &WindowsProcess{
		handle: newPseudoHandle("process", windows.CurrentProcess()),
		access: process.ProcessAllAccess,
		log:    processLogger(process.ProcessID(windows.GetCurrentProcessId())),
	}
	if !p.handle.valid() {
		return nil, fmt.Errorf("current process: %w", process.ErrNullHandle)
	}
	p.log.Debugln("Current process opened")
	return p, nil
}

func processLogger(pid process.ProcessID) *logger.Logger {
	return logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, fmt.Sprintf("process-%d", pid)))
}

// Close releases the handle. It fails with ErrNullHandle on a second call and
// with ErrRegionsOutstanding while regions allocated against the process are live.
func (p *WindowsProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handle.valid() && p.regions > 0 {
		return fmt.Errorf("%d region(s) still allocated: %w", p.regions, process.ErrRegionsOutstanding)
	}
	if err := p.handle.close(); err != nil {
		return err
	}

	p.log.Infoln("Process closed")
	return nil
}

// Release is meant to be deferred right after Open. It closes the handle if it
// is still open and panics if that fails.
func (p *WindowsProcess) Release() {
	if !p.IsValid() {
		return
	}
	releaseOrDie("process", p.Close)
}

func (p *WindowsProcess) IsValid() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle.valid()
}

// Handle returns the OS handle or ErrNullHandle once closed.
func (p *WindowsProcess) Handle() (windows.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handle.raw()
}

func (p *WindowsProcess) Raw() (uintptr, error) {
	h, err := p.Handle()
	return uintptr(h), err
}

func (p *WindowsProcess) Access() process.AccessRights {
	return p.access
}

// PID resolves the process id from the handle on every call.
func (p *WindowsProcess) PID() (process.ProcessID, error) {
	h, err := p.Handle()
	if err != nil {
		return 0, err
	}

	pid, err := windows.GetProcessId(h)
	if err != nil {
		return 0, process.NewOSCallError("GetProcessId", err)
	}
	return process.ProcessID(pid), nil
}

// Snapshot captures the objects selected by flags, scoped to this process.
func (p *WindowsProcess) Snapshot(flags process.SnapshotFlags) (*Snapshot, error) {
	pid, err := p.PID()
	if err != nil {
		return nil, err
	}
	return NewSnapshot(pid, flags)
}

// MainThread opens the first thread the OS enumerates for this process. Thread
// enumeration order does not follow creation order, so this is "a" thread of
// the process, not necessarily the first one created. It returns nil, nil when
// the process has no threads left.
func (p *WindowsProcess) MainThread(access process.ThreadAccessRights, inherit bool) (*Thread, error) {
	pid, err := p.PID()
	if err != nil {
		return nil, err
	}

	snap, err := NewSnapshot(pid, process.SnapThread)
	if err != nil {
		return nil, err
	}
	defer snap.Release()

	for entry, err := range snap.ThreadEntries() {
		if err != nil {
			return nil, err
		}
		if entry.OwnerProcessID != pid {
			continue
		}
		return OpenThread(entry.ThreadID, access, inherit)
	}

	return nil, nil
}

// borrow registers a live region against the process and returns the handle
// to allocate with.
func (p *WindowsProcess) borrow() (windows.Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	h, err := p.handle.raw()
	if err != nil {
		return 0, err
	}
	p.regions++
	return h, nil
}

func (p *WindowsProcess) unborrow() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.regions > 0 {
		p.regions--
	}
}

// Regions returns the number of live regions borrowing this process.
func (p *WindowsProcess) Regions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.regions
}
