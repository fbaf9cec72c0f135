package finder7m

import "math"

// Decoders for the register datatypes of the Finder 7M series, as defined in
// the manufacturer's Modbus register table. All multi-word types are encoded
// high word first.

// decodeT1 returns an unsigned 16-bit value.
func decodeT1(w uint16) uint16 {
	return w
}

// decodeT2 returns a signed 16-bit value.
func decodeT2(w uint16) int16 {
	return int16(w)
}

// decodeT3 returns a signed 32-bit value from a register pair.
func decodeT3(hi, lo uint16) int32 {
	return int32(uint32(hi)<<16 | uint32(lo))
}

// decodeT5 returns an unsigned measurement: bits 31..24 hold a signed decade
// exponent, bits 23..0 an unsigned binary value. 123456*10^-3 is stored as
// FD01 E240.
func decodeT5(hi, lo uint16) float64 {
	exp := int8(hi >> 8)
	val := uint32(hi&0x00FF)<<16 | uint32(lo)
	return float64(val) * math.Pow(10, float64(exp))
}

// decodeT6 returns a signed measurement: bits 31..24 hold a signed decade
// exponent, bits 23..0 a 24-bit two's-complement value. -123456*10^-3 is
// stored as FDFE 1DC0.
func decodeT6(hi, lo uint16) float64 {
	exp := int8(hi >> 8)
	raw := uint32(hi&0x00FF)<<16 | uint32(lo)
	if raw&0x00800000 != 0 {
		raw |= 0xFF000000
	}
	return float64(int32(raw)) * math.Pow(10, float64(exp))
}

// decodeT7 returns a power factor in the meter's native integer encoding:
// the import/export sign byte applied to an unsigned 16-bit value with four
// implied decimal places. The inductive/capacitive sign byte is not part of
// the stored value.
func decodeT7(hi, lo uint16) int32 {
	sign := int32(1)
	if hi>>8 == 0xFF {
		sign = -1
	}
	return sign * int32(lo)
}

// decodeT17 returns a signed 16-bit value with two implied decimal places.
func decodeT17(w uint16) float64 {
	return float64(int16(w)) / 100
}

// decodeFloat reinterprets a register pair as an IEEE 754 binary32 value.
func decodeFloat(hi, lo uint16) float64 {
	return float64(math.Float32frombits(uint32(hi)<<16 | uint32(lo)))
}
