package process

// ProcessFinder defines operations for discovering processes
type ProcessFinder interface {
	// FindProcessByPID finds a process by its PID
	FindProcessByPID(pid ProcessID) (*ProcessEntry, error)

	// FindProcessByName finds processes by their executable name (case-insensitive)
	FindProcessByName(name string) ([]ProcessEntry, error)

	// FindAllProcesses returns a snapshot of all running processes
	FindAllProcesses() ([]ProcessEntry, error)

	// FindChildProcesses returns the direct children of parentPID
	FindChildProcesses(parentPID ProcessID) ([]ProcessEntry, error)
}

// ProcessOpener opens processes located through a ProcessFinder
type ProcessOpener interface {
	// OpenProcessByName opens the first process whose executable matches name
	OpenProcessByName(name string, access AccessRights, inherit bool) (Process, error)
}
