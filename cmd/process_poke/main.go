//go:build windows

package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"procvm/hexdump"
	"procvm/process"
	"procvm/process_windows"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
	"github.com/hashicorp/go-multierror"
)

var log = logger.NewLogger(coloransi.Color(coloransi.ColorPurple, coloransi.ColorOrange, "process-poke"))

func main() {
	pidFlag := flag.Int("pid", 0, "Process ID to open (0 for the current process)")
	nameFlag := flag.String("name", "", "Executable name to open instead of --pid")
	addrFlag := flag.String("addr", "", "Target address in hex")
	readFlag := flag.Int("read", 0, "Number of bytes to dump at --addr")
	writeFlag := flag.String("write", "", "Bytes to write at --addr (e.g. 'de,ad,be,ef')")
	protectFlag := flag.String("protect", "", "Protection for --write or --alloc (r, rw, rx, rwx or hex)")
	allocFlag := flag.Int("alloc", 0, "Allocate N bytes in the target and dump them")
	keepFlag := flag.Bool("keep", false, "Leave the --alloc region in the target on exit")
	threadsFlag := flag.Bool("threads", false, "List the threads of the target")
	mapFlag := flag.Bool("map", false, "Print the memory map of the target")
	flag.Parse()

	proc, err := openTarget(*pidFlag, *nameFlag)
	if err != nil {
		fmt.Printf("Error opening process: %v\n", err)
		os.Exit(1)
	}
	defer proc.Release()

	var result *multierror.Error

	if *mapFlag {
		result = multierror.Append(result, printMap(proc))
	}

	if *threadsFlag {
		result = multierror.Append(result, printThreads(proc))
	}

	if *allocFlag > 0 {
		result = multierror.Append(result, allocate(proc, *allocFlag, *protectFlag, *keepFlag))
	}

	if *addrFlag != "" {
		addr, err := parseAddress(*addrFlag)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			proc.Release()
			os.Exit(1)
		}

		if *writeFlag != "" {
			result = multierror.Append(result, poke(proc, addr, *writeFlag, *protectFlag))
		} else if *readFlag > 0 {
			result = multierror.Append(result, peek(proc, addr, *readFlag))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		fmt.Printf("Error: %v\n", err)
		proc.Release()
		os.Exit(1)
	}
}

func openTarget(pid int, name string) (*process_windows.WindowsProcess, error) {
	if name != "" {
		return process_windows.NewProcessFinder().OpenByName(name, process.ProcessMemoryAccess, false)
	}
	if pid == 0 {
		return process_windows.OpenCurrent()
	}
	return process_windows.Open(process.ProcessID(pid), process.ProcessMemoryAccess, false)
}

func printMap(proc *process_windows.WindowsProcess) error {
	mm, err := proc.MemoryMap()
	if err != nil {
		return fmt.Errorf("memory map: %w", err)
	}
	for _, item := range mm {
		fmt.Println(item.String())
	}
	return nil
}

func printThreads(proc *process_windows.WindowsProcess) error {
	pid, err := proc.PID()
	if err != nil {
		return err
	}

	snap, err := proc.Snapshot(process.SnapThread)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	defer snap.Release()

	count := 0
	for entry, err := range snap.ThreadEntries() {
		if err != nil {
			return err
		}
		if entry.OwnerProcessID != pid {
			continue
		}
		fmt.Printf("tid %6d  base priority %2d\n", entry.ThreadID, entry.BasePriority)
		count++
	}
	log.Infoln(fmt.Sprintf("%d thread(s) in process %d", count, pid))
	return nil
}

func allocate(proc *process_windows.WindowsProcess, size int, protect string, keep bool) error {
	prot := process.PageReadWrite
	if protect != "" {
		p, err := parseProtection(protect)
		if err != nil {
			return err
		}
		prot = p
	}

	region, err := process_windows.Allocate(proc, 0, process.ProcessMemorySize(size), process.MemCommitReserve, prot)
	if err != nil {
		return fmt.Errorf("allocate: %w", err)
	}
	region.SetFreeOnDrop(!keep)
	defer region.Release()

	fmt.Printf("Allocated %s at %s (%s)\n", region.Size().ToString(), region.Address().ToString(), prot)

	if !prot.Readable() {
		return nil
	}
	buf := make([]byte, min(size, 256))
	n, err := region.Read(buf, 0)
	if err != nil {
		return fmt.Errorf("read back: %w", err)
	}
	fmt.Print(hexdump.Region(buf[:n], uint64(region.Address()), nil))
	return nil
}

func peek(proc *process_windows.WindowsProcess, addr process.ProcessMemoryAddress, size int) error {
	buf := make([]byte, size)
	n, err := proc.ReadMemory(buf, addr)
	if err != nil && n == 0 {
		return fmt.Errorf("read %s: %w", addr.ToString(), err)
	}

	mm, mmErr := proc.MemoryMap()
	if mmErr != nil {
		log.Warn("memory map unavailable, no pointer preview:", mmErr)
	}
	fmt.Print(hexdump.Region(buf[:n], uint64(addr), mm))
	return nil
}

// poke writes data at addr and prints a diff of the bytes it replaced. With a
// protection given, the write runs under that protection and the old one is
// put back afterwards.
func poke(proc *process_windows.WindowsProcess, addr process.ProcessMemoryAddress, hexBytes, protect string) error {
	data, err := parseBytes(hexBytes)
	if err != nil {
		return err
	}

	before := make([]byte, len(data))
	if _, err := proc.ReadMemory(before, addr); err != nil {
		log.Warn("could not read original bytes:", err)
		before = nil
	}

	write := func() error {
		n, err := proc.WriteMemory(data, addr)
		if err != nil {
			return err
		}
		if n != len(data) {
			return fmt.Errorf("short write: %d of %d bytes", n, len(data))
		}
		return nil
	}

	if protect != "" {
		prot, perr := parseProtection(protect)
		if perr != nil {
			return perr
		}
		err = proc.WithProtection(addr, process.ProcessMemorySize(len(data)), prot, write)
	} else {
		err = write()
	}
	if err != nil {
		if errors.Is(err, process.ErrOSCall) {
			return fmt.Errorf("write %s (try --protect rw): %w", addr.ToString(), err)
		}
		return err
	}

	after := make([]byte, len(data))
	if _, err := proc.ReadMemory(after, addr); err != nil {
		return fmt.Errorf("read back: %w", err)
	}
	fmt.Print(hexdump.Diff(before, after, uint64(addr)))
	return nil
}
