//go:build !windows

package main

import (
	"fmt"
	"os"
	"runtime"
)

func main() {
	fmt.Printf("process_poke is only supported on windows, not %s\n", runtime.GOOS)
	os.Exit(1)
}
