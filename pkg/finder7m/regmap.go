package finder7m

// Encoding identifies one of the meter's register datatypes.
type Encoding uint8

const (
	EncT1    Encoding = iota + 1 // unsigned 16-bit
	EncT2                        // signed 16-bit
	EncT3                        // signed 32-bit
	EncT5                        // unsigned measurement with decade exponent
	EncT6                        // signed measurement with decade exponent
	EncT7                        // power factor with import/export sign byte
	EncT17                       // signed 16-bit, two implied decimals
	EncFloat                     // IEEE 754 binary32, high word first
)

// Words returns how many registers the encoding occupies.
func (e Encoding) Words() uint16 {
	switch e {
	case EncT1, EncT2, EncT17:
		return 1
	default:
		return 2
	}
}

// RegisterDef locates one field inside the snapshot block.
type RegisterDef struct {
	Offset uint16
	Enc    Encoding
}

// Snapshot field names. They double as column names in the persisted row.
const (
	FieldDeviceTimestamp = "device_timestamp"
	FieldFrequency       = "frequency"
	FieldVoltageL1       = "u1"
	FieldCurrentL1       = "i1"
	FieldActivePower     = "pt"
	FieldReactivePower   = "qt"
	FieldApparentPower   = "st"
	FieldPowerFactor     = "pft"
	FieldTemperature     = "int_temp"
	FieldVoltageTHD      = "u1_thd"
	FieldCurrentTHD      = "i1_thd"

	FieldC1Exp      = "c1_exp"
	FieldC1Mantissa = "c1_mantissa"
	FieldC1X10      = "c1_x10"
	FieldC1Float    = "c1_float"
	FieldC4Exp      = "c4_exp"
	FieldC4Mantissa = "c4_mantissa"
	FieldC4X10      = "c4_x10"
	FieldC4Float    = "c4_float"
	FieldX3Exp      = "x3_exp"
	FieldX3Mantissa = "x3_mantissa"
	FieldX3X10      = "x3_x10"
	FieldX3Float    = "x3_float"
)

// SnapshotWords is the size of the register block one poll reads.
const SnapshotWords = 40

// SnapshotMap is the meter's register map as exposed by the gateway's
// mirror block: field name to offset (relative to the configured base
// address) and encoding. Flat and data-driven so the map itself can be
// checked independently of the decode logic.
var SnapshotMap = map[string]RegisterDef{
	FieldDeviceTimestamp: {Offset: 0, Enc: EncT3},
	FieldFrequency:       {Offset: 2, Enc: EncT5},
	FieldVoltageL1:       {Offset: 4, Enc: EncT5},
	FieldCurrentL1:       {Offset: 6, Enc: EncT5},
	FieldActivePower:     {Offset: 8, Enc: EncT6},
	FieldReactivePower:   {Offset: 10, Enc: EncT6},
	FieldApparentPower:   {Offset: 12, Enc: EncT5},
	FieldPowerFactor:     {Offset: 14, Enc: EncT7},
	FieldTemperature:     {Offset: 16, Enc: EncT17},
	FieldVoltageTHD:      {Offset: 17, Enc: EncT17},
	FieldCurrentTHD:      {Offset: 18, Enc: EncT17},

	FieldC1Exp:      {Offset: 19, Enc: EncT2},
	FieldC1Mantissa: {Offset: 20, Enc: EncT3},
	FieldC1X10:      {Offset: 22, Enc: EncT3},
	FieldC1Float:    {Offset: 24, Enc: EncFloat},

	FieldC4Exp:      {Offset: 26, Enc: EncT2},
	FieldC4Mantissa: {Offset: 27, Enc: EncT3},
	FieldC4X10:      {Offset: 29, Enc: EncT3},
	FieldC4Float:    {Offset: 31, Enc: EncFloat},

	FieldX3Exp:      {Offset: 33, Enc: EncT2},
	FieldX3Mantissa: {Offset: 34, Enc: EncT3},
	FieldX3X10:      {Offset: 36, Enc: EncT3},
	FieldX3Float:    {Offset: 38, Enc: EncFloat},
}

// "Not available" sentinels, one per register width.
const (
	unavailable16 = 0x8000
	unavailable32 = 0x80000000
)
