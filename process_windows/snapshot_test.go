//go:build windows

package process_windows

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"procvm/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThreadEntriesContainSelf(t *testing.T) {
	p := openSelf(t)
	pid, err := p.PID()
	require.NoError(t, err)

	snap, err := p.Snapshot(process.SnapThread)
	require.NoError(t, err)
	defer snap.Release()

	assert.Equal(t, pid, snap.PID())
	assert.Equal(t, process.SnapThread, snap.Flags())

	count := func() int {
		n := 0
		for entry, err := range snap.ThreadEntries() {
			require.NoError(t, err)
			if entry.OwnerProcessID == pid {
				n++
			}
		}
		return n
	}

	first := count()
	assert.Positive(t, first)
	// a second pass starts over and sees the same frozen state
	assert.Equal(t, first, count())
}

func TestThreadEntriesStopEarly(t *testing.T) {
	snap, err := NewSnapshot(0, process.SnapThread)
	require.NoError(t, err)
	defer snap.Release()

	seen := 0
	for _, err := range snap.ThreadEntries() {
		require.NoError(t, err)
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestProcessEntriesContainSelf(t *testing.T) {
	snap, err := NewSnapshot(0, process.SnapProcess)
	require.NoError(t, err)
	defer snap.Release()

	self := process.ProcessID(os.Getpid())
	var found *process.ProcessEntry
	for entry, err := range snap.ProcessEntries() {
		require.NoError(t, err)
		if entry.PID == self {
			e := entry
			found = &e
			break
		}
	}
	require.NotNil(t, found, "current pid %d not found in snapshot", self)
	assert.Positive(t, found.Threads)
	assert.Equal(t, process.ProcessID(os.Getppid()), found.ParentPID)
}

func TestClosedSnapshot(t *testing.T) {
	snap, err := NewSnapshot(0, process.SnapThread)
	require.NoError(t, err)
	require.NoError(t, snap.Close())

	assert.False(t, snap.IsValid())
	assert.ErrorIs(t, snap.Close(), process.ErrNullHandle)

	for _, err := range snap.ThreadEntries() {
		assert.ErrorIs(t, err, process.ErrNullHandle)
	}
	assert.NotPanics(t, snap.Release)
}

func TestOpenThreadLifecycle(t *testing.T) {
	p := openSelf(t)
	th, err := p.MainThread(process.ThreadQueryLimitedInformation, false)
	require.NoError(t, err)
	require.NotNil(t, th)

	again, err := OpenThread(th.ID(), process.ThreadQueryLimitedInformation, false)
	require.NoError(t, err)
	assert.Equal(t, th.ID(), again.ID())

	require.NoError(t, again.Close())
	require.NoError(t, th.Close())
	assert.ErrorIs(t, th.Close(), process.ErrNullHandle)
	_, err = th.Raw()
	assert.ErrorIs(t, err, process.ErrNullHandle)
}

func TestOpenMissingThread(t *testing.T) {
	_, err := OpenThread(process.ThreadID(0xFFFFFFF1), process.ThreadQueryLimitedInformation, false)
	assert.ErrorIs(t, err, process.ErrOSCall)
}

func TestFinder(t *testing.T) {
	f := NewProcessFinder()
	self := process.ProcessID(os.Getpid())

	entry, err := f.FindProcessByPID(self)
	require.NoError(t, err)
	assert.Equal(t, self, entry.PID)

	exe, err := os.Executable()
	require.NoError(t, err)
	name := strings.ToUpper(filepath.Base(exe))

	matches, err := f.FindProcessByName(name)
	require.NoError(t, err)
	pids := make([]process.ProcessID, 0, len(matches))
	for _, m := range matches {
		pids = append(pids, m.PID)
	}
	assert.Contains(t, pids, self)

	all, err := f.FindAllProcesses()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(all), len(matches))

	_, err = f.OpenProcessByName("definitely-not-running.exe", process.ProcessQueryLimitedInformation, false)
	assert.Error(t, err)
}

func TestOpenByName(t *testing.T) {
	f := NewProcessFinder()

	exe, err := os.Executable()
	require.NoError(t, err)
	name := filepath.Base(exe)

	matches, err := f.FindProcessByName(name)
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	p, err := f.OpenByName(name, process.ProcessQueryLimitedInformation, false)
	require.NoError(t, err)
	defer p.Release()

	pid, err := p.PID()
	require.NoError(t, err)
	assert.Equal(t, matches[0].PID, pid)

	opened, err := f.OpenProcessByName(name, process.ProcessQueryLimitedInformation, false)
	require.NoError(t, err)
	require.NoError(t, opened.Close())

	missing, err := f.OpenByName("definitely-not-running.exe", process.ProcessQueryLimitedInformation, false)
	assert.Error(t, err)
	assert.Nil(t, missing)
}

func TestFindChildProcesses(t *testing.T) {
	cmd := exec.Command("ping", "-n", "5", "127.0.0.1")
	require.NoError(t, cmd.Start())
	defer func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()

	children, err := NewProcessFinder().FindChildProcesses(process.ProcessID(os.Getpid()))
	require.NoError(t, err)

	pids := make([]process.ProcessID, 0, len(children))
	for _, c := range children {
		pids = append(pids, c.PID)
	}
	assert.Contains(t, pids, process.ProcessID(cmd.Process.Pid))
}

func TestSuspendResume(t *testing.T) {
	cmd := exec.Command("ping", "-n", "5", "127.0.0.1")
	require.NoError(t, cmd.Start())
	defer func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	}()

	p, err := Open(process.ProcessID(cmd.Process.Pid), process.ProcessQueryLimitedInformation, false)
	require.NoError(t, err)
	defer p.Release()

	th, err := p.MainThread(process.ThreadSuspendResume, false)
	require.NoError(t, err)
	require.NotNil(t, th)
	defer th.Release()

	prev, err := th.Suspend()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), prev)

	prev, err = th.Resume()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), prev)
}
