package finder7m

import (
	"fmt"
	"math"
)

// Plausibility bounds from the meter datasheet. Values outside these are a
// wiring or register-map problem, not a measurement.
const (
	minFrequencyHz  = 10
	maxFrequencyHz  = 100
	minTemperatureC = -40
	maxTemperatureC = 125
)

// DecodeSnapshot interprets a snapshot register block according to
// SnapshotMap. Decoding is all-or-nothing: the first problem aborts the
// whole snapshot and no partial result is returned.
func DecodeSnapshot(frame *RegisterFrame) (*MeasurementSnapshot, error) {
	if len(frame.Words) != SnapshotWords {
		return nil, fmt.Errorf("finder7m: snapshot block needs %d registers, got %d", SnapshotWords, len(frame.Words))
	}

	d := &frameDecoder{frame: frame}
	snap := &MeasurementSnapshot{
		DeviceTimestamp:     d.t3(FieldDeviceTimestamp),
		Frequency:           d.inRange(FieldFrequency, d.t5(FieldFrequency), minFrequencyHz, maxFrequencyHz),
		VoltageL1:           d.t5(FieldVoltageL1),
		CurrentL1:           d.t5(FieldCurrentL1),
		ActivePowerTotal:    d.t6(FieldActivePower),
		ReactivePowerTotal:  d.t6(FieldReactivePower),
		ApparentPowerTotal:  d.t5(FieldApparentPower),
		PowerFactorTotal:    d.t7(FieldPowerFactor),
		InternalTemperature: d.inRange(FieldTemperature, d.t17(FieldTemperature), minTemperatureC, maxTemperatureC),
		VoltageTHD:          d.t17(FieldVoltageTHD),
		CurrentTHD:          d.t17(FieldCurrentTHD),

		C1: d.channel(FieldC1Exp, FieldC1Mantissa, FieldC1X10, FieldC1Float),
		C4: d.channel(FieldC4Exp, FieldC4Mantissa, FieldC4X10, FieldC4Float),
		X3: d.channel(FieldX3Exp, FieldX3Mantissa, FieldX3X10, FieldX3Float),
	}
	if d.err != nil {
		return nil, d.err
	}
	return snap, nil
}

// frameDecoder walks the register map with a sticky error: the first decode
// problem wins, later fields are still read but their values are discarded.
type frameDecoder struct {
	frame *RegisterFrame
	err   error
}

func (d *frameDecoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *frameDecoder) reg(name string) (hi, lo uint16, def RegisterDef) {
	def = SnapshotMap[name]
	hi = d.frame.Words[def.Offset]
	if def.Enc.Words() == 2 {
		lo = d.frame.Words[def.Offset+1]
	}
	return hi, lo, def
}

func (d *frameDecoder) register(def RegisterDef) uint16 {
	return d.frame.Base + def.Offset
}

func (d *frameDecoder) t2(name string) int16 {
	hi, _, def := d.reg(name)
	if hi == unavailable16 {
		d.fail(&UnavailableFieldError{Field: name, Register: d.register(def)})
		return 0
	}
	return decodeT2(hi)
}

func (d *frameDecoder) t3(name string) int32 {
	hi, lo, _ := d.reg(name)
	return decodeT3(hi, lo)
}

func (d *frameDecoder) t3Checked(name string) int32 {
	hi, lo, def := d.reg(name)
	v := decodeT3(hi, lo)
	if uint32(v) == unavailable32 {
		d.fail(&UnavailableFieldError{Field: name, Register: d.register(def)})
		return 0
	}
	return v
}

func (d *frameDecoder) t5(name string) float64 {
	hi, lo, _ := d.reg(name)
	return decodeT5(hi, lo)
}

func (d *frameDecoder) t6(name string) float64 {
	hi, lo, _ := d.reg(name)
	return decodeT6(hi, lo)
}

func (d *frameDecoder) t7(name string) int32 {
	hi, lo, _ := d.reg(name)
	return decodeT7(hi, lo)
}

func (d *frameDecoder) t17(name string) float64 {
	hi, _, _ := d.reg(name)
	return decodeT17(hi)
}

func (d *frameDecoder) float(name string) float64 {
	hi, lo, def := d.reg(name)
	v := decodeFloat(hi, lo)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		d.fail(&InvalidFloatError{Field: name, Register: d.register(def)})
		return 0
	}
	return v
}

func (d *frameDecoder) inRange(name string, v, lo, hi float64) float64 {
	if d.err == nil && (v < lo || v > hi) {
		d.fail(&OutOfRangeError{Field: name, Value: v})
	}
	return v
}

// channel assembles one harmonic channel. Value is derived from the
// exponent/mantissa pair with the meter's decade rule; X10Value and
// FloatValue come from their own registers and cross-check the derivation.
func (d *frameDecoder) channel(expField, mantissaField, x10Field, floatField string) HarmonicChannel {
	exp := d.t2(expField)
	mantissa := d.t3Checked(mantissaField)
	x10 := d.t3Checked(x10Field)
	f := d.float(floatField)
	return HarmonicChannel{
		Exponent:   exp,
		Mantissa:   mantissa,
		Value:      float64(mantissa) * math.Pow(10, float64(exp)),
		X10Value:   float64(x10) / 10,
		FloatValue: f,
	}
}
