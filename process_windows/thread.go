//go:build windows

package process_windows

import (
	"fmt"

	"procvm/process"

	"golang.org/x/sys/windows"
)

// Thread owns a handle to one thread. It keeps no reference to the process or
// snapshot it was discovered through.
type Thread struct {
	handle handle
	id     process.ThreadID
	access process.ThreadAccessRights
}

// OpenThread opens an existing thread by id.
func OpenThread(tid process.ThreadID, access process.ThreadAccessRights, inherit bool) (*Thread, error) {
	h, err := windows.OpenThread(uint32(access), inherit, uint32(tid))
	if err != nil {
		return nil, process.NewOSCallError("OpenThread", fmt.Errorf("tid %d: %w", tid, err))
	}
	pkgLog.Debugln(fmt.Sprintf("thread %d opened", tid))
	return &Thread{handle: newHandle("thread", h), id: tid, access: access}, nil
}

func (t *Thread) ID() process.ThreadID {
	return t.id
}

func (t *Thread) Access() process.ThreadAccessRights {
	return t.access
}

func (t *Thread) Close() error {
	return t.handle.close()
}

// Release closes the thread handle if still open; a failed close panics.
func (t *Thread) Release() {
	if !t.handle.valid() {
		return
	}
	releaseOrDie(fmt.Sprintf("thread %d", t.id), t.Close)
}

func (t *Thread) IsValid() bool {
	return t.handle.valid()
}

func (t *Thread) Handle() (windows.Handle, error) {
	return t.handle.raw()
}

func (t *Thread) Raw() (uintptr, error) {
	h, err := t.handle.raw()
	return uintptr(h), err
}

// Suspend increments the suspend count and returns the previous count.
func (t *Thread) Suspend() (uint32, error) {
	h, err := t.handle.raw()
	if err != nil {
		return 0, err
	}
	prev, err := suspendThread(h)
	if err != nil {
		return 0, process.NewOSCallError("SuspendThread", err)
	}
	return prev, nil
}

// Resume decrements the suspend count and returns the previous count.
func (t *Thread) Resume() (uint32, error) {
	h, err := t.handle.raw()
	if err != nil {
		return 0, err
	}
	prev, err := resumeThread(h)
	if err != nil {
		return 0, process.NewOSCallError("ResumeThread", err)
	}
	return prev, nil
}

var (
	_ process.Resource = (*Thread)(nil)
	_ process.Resource = (*Snapshot)(nil)
)
