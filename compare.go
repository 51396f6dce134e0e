package fixedarray

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"math"
)

// Element encodings use the host byte order so that the byte container and
// Typed views agree on the representation of a value.

// EncodeInt32 returns the 4-byte representation of v.
func EncodeInt32(v int32) []byte {
	return binary.NativeEndian.AppendUint32(make([]byte, 0, 4), uint32(v))
}

// DecodeInt32 reads an int32 from the first 4 bytes of b.
func DecodeInt32(b []byte) int32 {
	return int32(binary.NativeEndian.Uint32(b))
}

// EncodeInt64 returns the 8-byte representation of v.
func EncodeInt64(v int64) []byte {
	return binary.NativeEndian.AppendUint64(make([]byte, 0, 8), uint64(v))
}

// DecodeInt64 reads an int64 from the first 8 bytes of b.
func DecodeInt64(b []byte) int64 {
	return int64(binary.NativeEndian.Uint64(b))
}

// CompareInt32 orders 4-byte signed integers.
func CompareInt32(element, target []byte) int {
	return cmp.Compare(DecodeInt32(element), DecodeInt32(target))
}

// CompareInt64 orders 8-byte signed integers.
func CompareInt64(element, target []byte) int {
	return cmp.Compare(DecodeInt64(element), DecodeInt64(target))
}

// CompareUint32 orders 4-byte unsigned integers.
func CompareUint32(element, target []byte) int {
	return cmp.Compare(binary.NativeEndian.Uint32(element), binary.NativeEndian.Uint32(target))
}

// CompareUint64 orders 8-byte unsigned integers.
func CompareUint64(element, target []byte) int {
	return cmp.Compare(binary.NativeEndian.Uint64(element), binary.NativeEndian.Uint64(target))
}

// CompareFloat64 orders 8-byte IEEE 754 floats. NaN sorts before every
// other value, as in cmp.Compare.
func CompareFloat64(element, target []byte) int {
	a := math.Float64frombits(binary.NativeEndian.Uint64(element))
	b := math.Float64frombits(binary.NativeEndian.Uint64(target))
	return cmp.Compare(a, b)
}

// CompareBytes orders elements lexicographically by their raw bytes.
func CompareBytes(element, target []byte) int {
	return bytes.Compare(element, target)
}
