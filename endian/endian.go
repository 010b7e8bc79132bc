// Package endian converts integers between host byte order and a fixed
// wire byte order.
//
// The LE and BE functions return a value whose in-memory representation on
// the current host is in the named byte order. They are their own inverse:
// LE16(LE16(x)) == x on every host.
package endian

import (
	"encoding/binary"
	"math/bits"
)

var hostLittle = func() bool {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	return b[0] == 1
}()

// HostLittleEndian reports whether the host stores integers little-endian
func HostLittleEndian() bool {
	return hostLittle
}

// Swap16 reverses the byte order of v
func Swap16(v uint16) uint16 { return bits.ReverseBytes16(v) }

// Swap32 reverses the byte order of v
func Swap32(v uint32) uint32 { return bits.ReverseBytes32(v) }

// Swap64 reverses the byte order of v
func Swap64(v uint64) uint64 { return bits.ReverseBytes64(v) }

// SwapBytes reverses b in place
func SwapBytes(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// LE16 returns v laid out little-endian in host memory
func LE16(v uint16) uint16 {
	if hostLittle {
		return v
	}
	return Swap16(v)
}

// LE32 returns v laid out little-endian in host memory
func LE32(v uint32) uint32 {
	if hostLittle {
		return v
	}
	return Swap32(v)
}

// BE16 returns v laid out big-endian in host memory
func BE16(v uint16) uint16 {
	if hostLittle {
		return Swap16(v)
	}
	return v
}

// BE32 returns v laid out big-endian in host memory
func BE32(v uint32) uint32 {
	if hostLittle {
		return Swap32(v)
	}
	return v
}

// PutLE16 writes v to b[0:2] little-endian
func PutLE16(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }

// PutBE16 writes v to b[0:2] big-endian
func PutBE16(b []byte, v uint16) { binary.BigEndian.PutUint16(b, v) }

// PutLE32 writes v to b[0:4] little-endian
func PutLE32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }

// PutBE32 writes v to b[0:4] big-endian
func PutBE32(b []byte, v uint32) { binary.BigEndian.PutUint32(b, v) }
