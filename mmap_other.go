//go:build !unix

package fixedarray

// MappedStorage falls back to heap buffers on platforms without mmap(2).
type MappedStorage struct{ HeapStorage }

// Name implements Storage.
func (MappedStorage) Name() string { return "mmap" }
