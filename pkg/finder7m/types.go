package finder7m

import "math"

// HarmonicChannel is one energy/harmonic channel of the meter. The same
// physical quantity is carried three ways: the exponent/mantissa derivation
// (Value), the meter's alternate x10 register (X10Value) and an independent
// IEEE 754 register pair (FloatValue). All three are kept so that a decode
// bug or register-map drift stays observable.
type HarmonicChannel struct {
	Exponent   int16
	Mantissa   int32
	Value      float64
	X10Value   float64
	FloatValue float64
}

// Diverges reports whether Value and FloatValue disagree beyond tol,
// relative to the float facet with an absolute floor of 1.
func (c HarmonicChannel) Diverges(tol float64) bool {
	return math.Abs(c.Value-c.FloatValue) > tol*math.Max(1, math.Abs(c.FloatValue))
}

// MeasurementSnapshot is one fully decoded set of simultaneous readings.
// Constructed once per poll, immutable afterwards.
type MeasurementSnapshot struct {
	DeviceTimestamp     int32
	Frequency           float64
	VoltageL1           float64
	CurrentL1           float64
	ActivePowerTotal    float64
	ReactivePowerTotal  float64
	ApparentPowerTotal  float64
	PowerFactorTotal    int32 // meter-native encoding, four implied decimals
	InternalTemperature float64
	VoltageTHD          float64
	CurrentTHD          float64

	C1 HarmonicChannel // channel 1, MID certified
	C4 HarmonicChannel // channel 4, MID certified
	X3 HarmonicChannel // channel x3, not certified
}
