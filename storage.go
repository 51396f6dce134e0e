package fixedarray

// Storage supplies and reclaims the contiguous backing buffer of an Array.
// Allocate returns a buffer of exactly size bytes; Free is called once per
// buffer, when the owning array is destroyed.
type Storage interface {
	Allocate(size int) ([]byte, error)
	Free(buf []byte) error
	Name() string
}

// HeapStorage allocates zeroed buffers from the Go heap. Free drops the
// reference and leaves reclamation to the garbage collector.
type HeapStorage struct{}

// Allocate returns a zeroed buffer of size bytes.
func (HeapStorage) Allocate(size int) ([]byte, error) {
	if size == 0 {
		return nil, nil
	}
	return make([]byte, size), nil
}

// Free is a no-op for heap buffers.
func (HeapStorage) Free([]byte) error { return nil }

// Name implements Storage.
func (HeapStorage) Name() string { return "heap" }
