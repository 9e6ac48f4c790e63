package main

import (
	"testing"

	"procvm/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBytes(t *testing.T) {
	got, err := parseBytes("de,ad be,0xef")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, got)

	_, err = parseBytes("de,??")
	assert.Error(t, err)

	_, err = parseBytes(" , ")
	assert.Error(t, err)

	_, err = parseBytes("100")
	assert.Error(t, err)
}

func TestParseAddress(t *testing.T) {
	addr, err := parseAddress("0x7FF612340000")
	require.NoError(t, err)
	assert.Equal(t, process.ProcessMemoryAddress(0x7ff612340000), addr)

	addr, err = parseAddress("1000")
	require.NoError(t, err)
	assert.Equal(t, process.ProcessMemoryAddress(0x1000), addr)

	_, err = parseAddress("nope")
	assert.Error(t, err)
}

func TestParseProtection(t *testing.T) {
	p, err := parseProtection("RW")
	require.NoError(t, err)
	assert.Equal(t, process.PageReadWrite, p)

	p, err = parseProtection("rx")
	require.NoError(t, err)
	assert.Equal(t, process.PageExecuteRead, p)

	p, err = parseProtection("0x104")
	require.NoError(t, err)
	assert.Equal(t, process.PageReadWrite|process.PageGuard, p)

	_, err = parseProtection("rwz")
	assert.Error(t, err)
}
