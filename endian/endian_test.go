package endian

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestSwap(t *testing.T) {
	assert.Equal(t, uint16(0x3412), Swap16(0x1234))
	assert.Equal(t, uint32(0x78563412), Swap32(0x12345678))
	assert.Equal(t, uint64(0x0807060504030201), Swap64(0x0102030405060708))
}

func TestSwapBytes(t *testing.T) {
	tests := []struct {
		in   []byte
		want []byte
	}{
		{in: nil, want: nil},
		{in: []byte{1}, want: []byte{1}},
		{in: []byte{1, 2}, want: []byte{2, 1}},
		{in: []byte{1, 2, 3, 4, 5}, want: []byte{5, 4, 3, 2, 1}},
	}
	for _, tt := range tests {
		SwapBytes(tt.in)
		assert.Equal(t, tt.want, tt.in)
	}
}

func TestHostOrder(t *testing.T) {
	x := uint16(1)
	first := *(*byte)(unsafe.Pointer(&x))
	assert.Equal(t, first == 1, HostLittleEndian())
}

// memory32 returns the bytes of v as laid out in host memory
func memory32(v uint32) []byte {
	b := make([]byte, 4)
	binary.NativeEndian.PutUint32(b, v)
	return b
}

func TestFixedOrderLayout(t *testing.T) {
	const v = 0x11223344

	assert.Equal(t, []byte{0x44, 0x33, 0x22, 0x11}, memory32(LE32(v)))
	assert.Equal(t, []byte{0x11, 0x22, 0x33, 0x44}, memory32(BE32(v)))

	b := make([]byte, 2)
	binary.NativeEndian.PutUint16(b, LE16(0xAABB))
	assert.Equal(t, []byte{0xBB, 0xAA}, b)
	binary.NativeEndian.PutUint16(b, BE16(0xAABB))
	assert.Equal(t, []byte{0xAA, 0xBB}, b)
}

func TestFixedOrderInvolution(t *testing.T) {
	for _, v := range []uint32{0, 1, 0xDEADBEEF, 0xFFFFFFFF} {
		assert.Equal(t, v, LE32(LE32(v)))
		assert.Equal(t, v, BE32(BE32(v)))
		assert.Equal(t, uint16(v), LE16(LE16(uint16(v))))
		assert.Equal(t, uint16(v), BE16(BE16(uint16(v))))
	}
}

func TestPut(t *testing.T) {
	b := make([]byte, 4)
	PutLE16(b, 0x0102)
	assert.Equal(t, []byte{0x02, 0x01}, b[:2])
	PutBE16(b, 0x0102)
	assert.Equal(t, []byte{0x01, 0x02}, b[:2])
	PutLE32(b, 0x01020304)
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, b)
	PutBE32(b, 0x01020304)
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, b)
}
