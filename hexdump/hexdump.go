// Package hexdump renders byte ranges read out of a target process.
package hexdump

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"procvm/process/memory_map"

	"github.com/Moonlight-Companies/gologger/coloransi"
)

// Options controls the dump layout.
type Options struct {
	// BytesPerLine defines the number of bytes to display per line
	BytesPerLine int

	// StartAddress is the target address of data[0]
	StartAddress uint64

	// Color enables ANSI highlighting of changed bytes
	Color bool

	// Previous holds the bytes that were at the same address before a write;
	// differing bytes are marked
	Previous []byte

	// MaxLines is the maximum number of lines to show (0 for no limit)
	MaxLines int

	// MemoryMap enables the pointer column: 8-byte values at the start of the
	// line that land in a committed, readable region are printed after the ASCII
	MemoryMap []memory_map.MemoryMapItem
}

// DefaultOptions returns the default hexdump options
func DefaultOptions() Options {
	return Options{BytesPerLine: 16, Color: true}
}

// Dump creates a hex dump of the given data with specified options
func Dump(data []byte, options Options) string {
	var buffer bytes.Buffer
	DumpToWriter(&buffer, data, options)
	return buffer.String()
}

// DumpToWriter writes a hex dump of the given data to the specified writer
func DumpToWriter(writer io.Writer, data []byte, options Options) {
	if options.BytesPerLine <= 0 {
		options.BytesPerLine = 16
	}

	lineCount := 0
	for offset := 0; offset < len(data); offset += options.BytesPerLine {
		if options.MaxLines > 0 && lineCount >= options.MaxLines {
			fmt.Fprintf(writer, "... %d more bytes\n", len(data)-offset)
			break
		}

		end := offset + options.BytesPerLine
		if end > len(data) {
			end = len(data)
		}

		formatLine(writer, data[offset:end], offset, options)
		lineCount++
	}
}

// Region dumps a range read from addr, with pointer preview against mm.
func Region(data []byte, addr uint64, mm []memory_map.MemoryMapItem) string {
	options := DefaultOptions()
	options.StartAddress = addr
	options.MemoryMap = mm
	return Dump(data, options)
}

// Diff dumps after, marking the bytes that differ from before.
func Diff(before, after []byte, addr uint64) string {
	options := DefaultOptions()
	options.StartAddress = addr
	options.Previous = before
	return Dump(after, options)
}

func formatLine(writer io.Writer, data []byte, offset int, options Options) {
	fmt.Fprintf(writer, "%016x  ", options.StartAddress+uint64(offset))

	hexParts := make([]string, 0, options.BytesPerLine)
	for i, b := range data {
		hexParts = append(hexParts, mark(fmt.Sprintf("%02x", b), changed(options.Previous, offset+i, b), options.Color))
	}
	for len(hexParts) < options.BytesPerLine {
		hexParts = append(hexParts, "  ")
	}

	half := options.BytesPerLine / 2
	if options.BytesPerLine >= 8 {
		fmt.Fprint(writer, strings.Join(hexParts[:half], " "), " | ", strings.Join(hexParts[half:], " "))
	} else {
		fmt.Fprint(writer, strings.Join(hexParts, " "))
	}

	fmt.Fprint(writer, " | ")
	for i, b := range data {
		c := "."
		if b >= 0x20 && b < 0x7f {
			c = string(rune(b))
		}
		fmt.Fprint(writer, mark(c, changed(options.Previous, offset+i, b), options.Color))
	}

	if len(options.MemoryMap) > 0 {
		var ptrs []string
		for p := 0; p+8 <= len(data) && p < 16; p += 8 {
			ptr := binary.LittleEndian.Uint64(data[p : p+8])
			if memory_map.IsValidAddress(ptr, options.MemoryMap) {
				ptrs = append(ptrs, fmt.Sprintf("0x%x", ptr))
			}
		}
		if len(ptrs) > 0 {
			fmt.Fprint(writer, strings.Repeat(" ", options.BytesPerLine-len(data)), " | ", strings.Join(ptrs, " "))
		}
	}

	fmt.Fprintln(writer)
}

func changed(previous []byte, i int, b byte) bool {
	return i < len(previous) && previous[i] != b
}

// mark highlights s when it changed and color output is enabled.
func mark(s string, isChanged, color bool) string {
	if !isChanged || !color {
		return s
	}
	return coloransi.Color(coloransi.Red, coloransi.ColorOrange, s)
}
