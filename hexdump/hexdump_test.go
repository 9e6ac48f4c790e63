package hexdump

import (
	"encoding/binary"
	"strings"
	"testing"

	"procvm/process/memory_map"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plain() Options {
	return Options{BytesPerLine: 16}
}

func TestDumpLayout(t *testing.T) {
	data := []byte("ABCDEFGHIJKLMNOP\x00\x01\x02\x03")
	options := plain()
	options.StartAddress = 0x1000

	lines := strings.Split(strings.TrimSuffix(Dump(data, options), "\n"), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t, "0000000000001000  41 42 43 44 45 46 47 48 | 49 4a 4b 4c 4d 4e 4f 50 | ABCDEFGHIJKLMNOP", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0000000000001010  00 01 02 03"))
	assert.True(t, strings.HasSuffix(lines[1], " | ...."))
	// the ASCII column starts at the same position on short lines
	assert.Equal(t, strings.Index(lines[0], " | A"), strings.LastIndex(lines[1], " | "))
}

func TestDumpMaxLines(t *testing.T) {
	options := plain()
	options.MaxLines = 1

	out := Dump(make([]byte, 40), options)
	assert.Contains(t, out, "... 24 more bytes")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestDiffMarksChangedBytes(t *testing.T) {
	before := []byte{1, 2, 3, 4}
	after := []byte{1, 9, 3, 4}

	colored := Diff(before, after, 0x2000)
	assert.NotEqual(t, Dump(after, Options{BytesPerLine: 16, StartAddress: 0x2000}), colored)

	options := plain()
	options.Previous = before
	assert.Equal(t, Dump(after, plain()), Dump(after, options), "plain output carries no markers")
}

func TestRegionPointerColumn(t *testing.T) {
	mm := []memory_map.MemoryMapItem{
		{Address: 0x7000, Size: 0x1000, Perms: "rw-p", State: memory_map.StateCommit},
	}
	data := make([]byte, 16)
	binary.LittleEndian.PutUint64(data[0:], 0x7010)
	binary.LittleEndian.PutUint64(data[8:], 0x9999)

	options := plain()
	options.MemoryMap = mm
	out := Dump(data, options)

	assert.Contains(t, out, "| 0x7010")
	assert.NotContains(t, out, "0x9999")
	assert.Contains(t, Region(data, 0x400000, mm), "0x7010")
}
