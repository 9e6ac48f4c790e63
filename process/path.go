package process

import (
	"fmt"
	"unsafe"
)

// ReadPath reads a value of type T at the end of a pointer path.
// It starts at base, adds the first offset, reads a pointer, adds the next offset, reads a pointer, etc.
// The last offset is added to the final pointer, and then T is read from that address.
// If offsets is empty, it reads T from base.
func ReadPath[T any](proc MemoryReader, base ProcessMemoryAddress, offsets ...ProcessMemorySize) (T, error) {
	var zero T
	currentAddr := base

	for i := 0; i < len(offsets)-1; i++ {
		ptrAddr := currentAddr + ProcessMemoryAddress(offsets[i])

		// Pointers are 8 bytes; 32-bit targets are not handled here.
		ptrVal, err := Read[uint64](proc, ptrAddr)
		if err != nil {
			return zero, fmt.Errorf("failed to read pointer at offset %d (addr 0x%x): %w", i, ptrAddr, err)
		}

		if ptrVal == 0 {
			return zero, fmt.Errorf("pointer at offset %d (addr 0x%x) is null: %w", i, ptrAddr, ErrInvalidArgument)
		}

		currentAddr = ProcessMemoryAddress(ptrVal)
	}

	finalOffset := ProcessMemorySize(0)
	if len(offsets) > 0 {
		finalOffset = offsets[len(offsets)-1]
	}

	finalAddr := currentAddr + ProcessMemoryAddress(finalOffset)

	val, err := Read[T](proc, finalAddr)
	if err != nil {
		return zero, fmt.Errorf("failed to read final value at 0x%x: %w", finalAddr, err)
	}

	return val, nil
}

// Read reads a single value of type T from memory. T must be a plain old data
// type; pointers inside T are copied as raw addresses of the target.
func Read[T any](proc MemoryReader, addr ProcessMemoryAddress) (T, error) {
	var t T
	size := int(unsafe.Sizeof(t))
	if size == 0 {
		return t, nil
	}

	dst := unsafe.Slice((*byte)(unsafe.Pointer(&t)), size)
	n, err := proc.ReadMemory(dst, addr)
	if err != nil {
		var zero T
		return zero, err
	}
	if n != size {
		var zero T
		return zero, fmt.Errorf("%w: %d of %d bytes at 0x%x", ErrShortRead, n, size, addr)
	}
	return t, nil
}

// Write stores a single value of type T at addr.
func Write[T any](proc MemoryWriter, addr ProcessMemoryAddress, value T) error {
	size := int(unsafe.Sizeof(value))
	if size == 0 {
		return nil
	}

	src := unsafe.Slice((*byte)(unsafe.Pointer(&value)), size)
	n, err := proc.WriteMemory(src, addr)
	if err != nil {
		return err
	}
	if n != size {
		return fmt.Errorf("short write: %d of %d bytes at 0x%x", n, size, addr)
	}
	return nil
}
