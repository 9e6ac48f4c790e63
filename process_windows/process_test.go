//go:build windows

package process_windows

import (
	"math"
	"os"
	"os/exec"
	"testing"

	"procvm/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCloseSelf(t *testing.T) {
	p, err := Open(process.ProcessID(os.Getpid()), process.ProcessMemoryAccess, false)
	require.NoError(t, err)

	assert.True(t, p.IsValid())
	raw, err := p.Raw()
	require.NoError(t, err)
	assert.NotZero(t, raw)
	assert.Equal(t, process.ProcessMemoryAccess, p.Access())

	require.NoError(t, p.Close())
	assert.False(t, p.IsValid())
}

func TestDoubleCloseIsRejected(t *testing.T) {
	p, err := Open(process.ProcessID(os.Getpid()), process.ProcessQueryLimitedInformation, false)
	require.NoError(t, err)
	require.NoError(t, p.Close())

	assert.ErrorIs(t, p.Close(), process.ErrNullHandle)

	// Release after an explicit close is a no-op
	assert.NotPanics(t, p.Release)
}

func TestPIDIsStable(t *testing.T) {
	p := openSelf(t)

	first, err := p.PID()
	require.NoError(t, err)
	second, err := p.PID()
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, process.ProcessID(os.Getpid()), first)
}

func TestOpenCurrent(t *testing.T) {
	p, err := OpenCurrent()
	require.NoError(t, err)

	pid, err := p.PID()
	require.NoError(t, err)
	assert.Equal(t, process.ProcessID(os.Getpid()), pid)

	require.NoError(t, p.Close())
	assert.ErrorIs(t, p.Close(), process.ErrNullHandle)
	_, err = p.PID()
	assert.ErrorIs(t, err, process.ErrNullHandle)
}

func TestOpenMissingProcess(t *testing.T) {
	// PIDs are multiples of four; this one is never handed out
	p, err := Open(process.ProcessID(math.MaxUint32-2), process.ProcessQueryLimitedInformation, false)
	require.Error(t, err)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, process.ErrOSCall)

	var oserr *process.OSCallError
	require.ErrorAs(t, err, &oserr)
	assert.Equal(t, "OpenProcess", oserr.Op)
	assert.NotZero(t, oserr.Code())
}

func TestClosedProcessRejectsOperations(t *testing.T) {
	p, err := Open(process.ProcessID(os.Getpid()), process.ProcessAllAccess, false)
	require.NoError(t, err)
	require.NoError(t, p.Close())

	buf := make([]byte, 4)
	_, err = p.ReadMemory(buf, 0x1000)
	assert.ErrorIs(t, err, process.ErrNullHandle)
	_, err = p.WriteMemory(buf, 0x1000)
	assert.ErrorIs(t, err, process.ErrNullHandle)
	_, err = p.VirtualProtect(0x1000, 4, process.PageReadOnly)
	assert.ErrorIs(t, err, process.ErrNullHandle)
	_, err = p.Snapshot(process.SnapThread)
	assert.ErrorIs(t, err, process.ErrNullHandle)
	_, err = p.Handle()
	assert.ErrorIs(t, err, process.ErrNullHandle)
	_, err = Allocate(p, 0, 16, process.MemCommitReserve, process.PageReadWrite)
	assert.ErrorIs(t, err, process.ErrNullHandle)
}

func TestMainThreadOfSelf(t *testing.T) {
	p := openSelf(t)

	th, err := p.MainThread(process.ThreadQueryLimitedInformation, false)
	require.NoError(t, err)
	require.NotNil(t, th)
	defer th.Release()

	assert.True(t, th.IsValid())
	assert.NotZero(t, th.ID())
}

func TestMainThreadOfExitedProcess(t *testing.T) {
	cmd := exec.Command("ping", "-n", "2", "127.0.0.1")
	require.NoError(t, cmd.Start())

	p, err := Open(process.ProcessID(cmd.Process.Pid), process.ProcessQueryLimitedInformation, false)
	require.NoError(t, err)
	defer p.Release()

	require.NoError(t, cmd.Wait())

	th, err := p.MainThread(process.ThreadQueryLimitedInformation, false)
	require.NoError(t, err)
	assert.Nil(t, th)
}
