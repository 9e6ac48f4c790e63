//go:build windows

package process_windows

import (
	"os"
	"testing"

	"procvm/process"

	"github.com/stretchr/testify/require"
)

func openSelf(t *testing.T) *WindowsProcess {
	t.Helper()
	p, err := Open(process.ProcessID(os.Getpid()), process.ProcessAllAccess, false)
	require.NoError(t, err, "open self")
	t.Cleanup(p.Release)
	return p
}

func allocRW(t *testing.T, p *WindowsProcess, size process.ProcessMemorySize) *VirtualMemory {
	t.Helper()
	m, err := Allocate(p, 0, size, process.MemCommitReserve, process.PageReadWrite)
	require.NoError(t, err, "allocate")
	t.Cleanup(m.Release)
	return m
}
