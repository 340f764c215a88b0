package bits

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReaderReadBits(t *testing.T) {
	// 0xAB 0xCD 0xEF
	r := NewReader([]byte{0xAB, 0xCD, 0xEF})

	v, err := r.ReadBits(4)
	assert.Nil(t, err)
	assert.Equal(t, uint32(0xA), v)

	v, err = r.ReadBits(4)
	assert.Nil(t, err)
	assert.Equal(t, uint32(0xB), v)

	v, err = r.ReadBits(16)
	assert.Nil(t, err)
	assert.Equal(t, uint32(0xCDEF), v)

	assert.Equal(t, uint32(24), r.NumBitsRead())
}

func TestReaderReadBitsAcrossBytes(t *testing.T) {
	r := NewReader([]byte{0xFF, 0x00, 0xFF, 0x00})

	v, err := r.ReadBits(12)
	assert.Nil(t, err)
	assert.Equal(t, uint32(0xFF0), v)

	v, err = r.ReadBits(20)
	assert.Nil(t, err)
	assert.Equal(t, uint32(0x0FF00), v)
}

func TestReaderReadBitsTooMany(t *testing.T) {
	r := NewReader([]byte{0, 0, 0, 0, 0})
	_, err := r.ReadBits(33)
	assert.NotNil(t, err)
}

func TestReaderReadBitsShortBuffer(t *testing.T) {
	r := NewReader([]byte{0xFF})
	_, err := r.ReadBits(8)
	assert.Nil(t, err)
	_, err = r.ReadBits(8)
	assert.NotNil(t, err)
}

func TestReaderReadGolomb(t *testing.T) {
	// ue(v) codewords: 1 -> 0, 010 -> 1, 011 -> 2, 00100 -> 3, 00101 -> 4
	// packed bitstream: 1 010 011 00100 00101 -> pad to bytes
	// bits: 1 0 1 0 0 1 1 0 0 1 0 0 0 0 1 0 1 -> pad with zero bits to 24
	bitstr := "10100110010000101" + "0000000"
	buf := bitsToBytes(bitstr)
	r := NewReader(buf)

	expected := []uint32{0, 1, 2, 3, 4}
	for _, want := range expected {
		got, err := r.ReadGolomb()
		assert.Nil(t, err)
		assert.Equal(t, want, got)
	}
}

func bitsToBytes(s string) []byte {
	out := make([]byte, (len(s)+7)/8)
	for i, c := range s {
		if c == '1' {
			out[i/8] |= 1 << uint(7-i%8)
		}
	}
	return out
}
