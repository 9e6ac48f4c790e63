package main

import (
	"fmt"
	"strconv"
	"strings"

	"procvm/process"
)

// parseBytes accepts "de,ad,be,ef" or "de ad be ef".
func parseBytes(s string) ([]byte, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
	if len(parts) == 0 {
		return nil, fmt.Errorf("no bytes in %q", s)
	}

	out := make([]byte, 0, len(parts))
	for _, part := range parts {
		val, err := strconv.ParseUint(strings.TrimPrefix(part, "0x"), 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid hex byte: %s", part)
		}
		out = append(out, byte(val))
	}
	return out, nil
}

func parseAddress(s string) (process.ProcessMemoryAddress, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %w", s, err)
	}
	return process.ProcessMemoryAddress(v), nil
}

var protections = map[string]process.Protection{
	"---":  process.PageNoAccess,
	"r":    process.PageReadOnly,
	"rw":   process.PageReadWrite,
	"x":    process.PageExecute,
	"rx":   process.PageExecuteRead,
	"rwx":  process.PageExecuteReadWrite,
	"wc":   process.PageWriteCopy,
	"rwxc": process.PageExecuteWriteCopy,
}

// parseProtection takes either a short form ("rw", "rx") or a raw hex value.
func parseProtection(s string) (process.Protection, error) {
	if p, ok := protections[strings.ToLower(s)]; ok {
		return p, nil
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("unknown protection %q", s)
	}
	return process.Protection(v), nil
}
