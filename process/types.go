package process

// ProcessID represents a unique identifier for a process
type ProcessID uint32

// ThreadID represents a unique identifier for a thread
type ThreadID uint32

// ThreadEntry is one record of a thread snapshot. It is a value and owns
// nothing.
type ThreadEntry struct {
	ThreadID       ThreadID
	OwnerProcessID ProcessID
	BasePriority   int32
	DeltaPriority  int32
	Usage          uint32
	Flags          uint32
}

// ProcessEntry is one record of a process snapshot.
type ProcessEntry struct {
	PID       ProcessID // Process ID
	ParentPID ProcessID // Parent Process ID
	Threads   uint32    // Number of threads at snapshot time
	Exe       string    // Executable file name
}
