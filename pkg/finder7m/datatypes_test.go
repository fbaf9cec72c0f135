package finder7m

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Expected values below are the worked examples from the Finder 7M register
// table.

func TestDecodeT1(t *testing.T) {
	assert.Equal(t, uint16(12345), decodeT1(0x3039))
}

func TestDecodeT2(t *testing.T) {
	assert.Equal(t, int16(-12345), decodeT2(0xCFC7))
	assert.Equal(t, int16(12345), decodeT2(0x3039))
}

func TestDecodeT3(t *testing.T) {
	assert.Equal(t, int32(123456789), decodeT3(0x075B, 0xCD15))
	assert.Equal(t, int32(-78), decodeT3(0xFFFF, 0xFFB2))
	assert.Equal(t, int32(0), decodeT3(0, 0))
}

func TestDecodeT5(t *testing.T) {
	// 123456 * 10^-3
	assert.InDelta(t, 123.456, decodeT5(0xFD01, 0xE240), 1e-9)
	assert.InDelta(t, 50.02, decodeT5(0xFE00, 0x138A), 1e-9)
	assert.InDelta(t, 0, decodeT5(0x0000, 0x0000), 1e-9)
}

func TestDecodeT6(t *testing.T) {
	// -123456 * 10^-3
	assert.InDelta(t, -123.456, decodeT6(0xFDFE, 0x1DC0), 1e-9)
	assert.InDelta(t, 283.5, decodeT6(0xFF00, 0x0B13), 1e-9)
	assert.InDelta(t, -45.6, decodeT6(0xFFFF, 0xFE38), 1e-9)
}

func TestDecodeT7(t *testing.T) {
	assert.Equal(t, int32(9876), decodeT7(0x0000, 0x2694))
	assert.Equal(t, int32(-9876), decodeT7(0xFF00, 0x2694))
	// the inductive/capacitive byte does not affect the value
	assert.Equal(t, int32(9876), decodeT7(0x00FF, 0x2694))
}

func TestDecodeT17(t *testing.T) {
	assert.InDelta(t, -123.45, decodeT17(0xCFC7), 1e-9)
	assert.InDelta(t, 36.75, decodeT17(0x0E5B), 1e-9)
}

func TestDecodeFloat(t *testing.T) {
	assert.InDelta(t, 123.45, decodeFloat(0x42F6, 0xE666), 1e-4)
	assert.InDelta(t, -780.0, decodeFloat(0xC443, 0x0000), 1e-9)
	assert.InDelta(t, 0, decodeFloat(0x0000, 0x0000), 1e-9)
}

func TestEncodingWords(t *testing.T) {
	assert.Equal(t, uint16(1), EncT2.Words())
	assert.Equal(t, uint16(1), EncT17.Words())
	assert.Equal(t, uint16(2), EncT3.Words())
	assert.Equal(t, uint16(2), EncFloat.Words())
}

// The register map itself: every field fits inside the snapshot block and
// no two fields overlap.
func TestSnapshotMapLayout(t *testing.T) {
	used := make(map[uint16]string)
	for name, def := range SnapshotMap {
		for i := uint16(0); i < def.Enc.Words(); i++ {
			off := def.Offset + i
			assert.Less(t, int(off), SnapshotWords, "field %s overruns the block", name)
			if prev, ok := used[off]; ok {
				t.Errorf("fields %s and %s overlap at offset %d", prev, name, off)
			}
			used[off] = name
		}
	}
	assert.Len(t, used, SnapshotWords)
}
