//go:build unix

package fixedarray

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// MappedStorage backs arrays with anonymous private memory mappings that
// live outside the Go heap. Destroying the array unmaps its buffer.
type MappedStorage struct{}

// Allocate maps size bytes of zeroed read-write memory.
func (MappedStorage) Allocate(size int) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %w", size, err)
	}
	return data, nil
}

// Free unmaps buf. The slice must not be touched afterwards.
func (MappedStorage) Free(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	if err := unix.Munmap(buf); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	return nil
}

// Name implements Storage.
func (MappedStorage) Name() string { return "mmap" }
