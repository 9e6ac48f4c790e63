//go:build windows

package process_windows

import (
	"fmt"

	"procvm/process"

	"golang.org/x/sys/windows"
)

// handle is the single-owner core every entity in this package embeds. It is
// closed at most once; after that every accessor reports ErrNullHandle.
type handle struct {
	h      windows.Handle
	kind   string // "process", "thread", "snapshot"
	pseudo bool   // GetCurrentProcess style handle, never passed to CloseHandle
	closed bool
}

func newHandle(kind string, h windows.Handle) handle {
	return handle{h: h, kind: kind}
}

func newPseudoHandle(kind string, h windows.Handle) handle {
	return handle{h: h, kind: kind, pseudo: true}
}

func (h *handle) valid() bool {
	if h.closed {
		return false
	}
	// the current-process pseudo handle shares its value with InvalidHandle
	if h.pseudo {
		return true
	}
	return h.h != 0 && h.h != windows.InvalidHandle
}

func (h *handle) raw() (windows.Handle, error) {
	if !h.valid() {
		return 0, fmt.Errorf("%s: %w", h.kind, process.ErrNullHandle)
	}
	return h.h, nil
}

func (h *handle) close() error {
	if !h.valid() {
		return fmt.Errorf("%s already closed: %w", h.kind, process.ErrNullHandle)
	}
	if !h.pseudo {
		if err := windows.CloseHandle(h.h); err != nil {
			return process.NewOSCallError("CloseHandle", err)
		}
	}
	h.h = 0
	h.closed = true
	return nil
}

// releaseOrDie is the scope-end path: a handle that is still valid must close
// cleanly, anything else is a leak or a use-after-close and aborts.
func releaseOrDie(name string, close func() error) {
	if err := close(); err != nil {
		pkgLog.Warn(fmt.Sprintf("%s: release failed: %v", name, err))
		panic(fmt.Sprintf("%s: release failed: %v", name, err))
	}
}
