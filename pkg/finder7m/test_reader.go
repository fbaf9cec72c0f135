package finder7m

// TestMeterReader serves a canned snapshot without touching the network.
type TestMeterReader struct {
	Err error
}

func CreateTestMeterReader() *TestMeterReader {
	return &TestMeterReader{}
}

func (r *TestMeterReader) ReadSnapshot() (*MeasurementSnapshot, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	return &MeasurementSnapshot{
		DeviceTimestamp:     123456789,
		Frequency:           50.02,
		VoltageL1:           230.07,
		CurrentL1:           1.234,
		ActivePowerTotal:    283.5,
		ReactivePowerTotal:  -45.6,
		ApparentPowerTotal:  287.0,
		PowerFactorTotal:    9876,
		InternalTemperature: 36.75,
		VoltageTHD:          2.34,
		CurrentTHD:          4.56,
		C1: HarmonicChannel{
			Exponent: 2, Mantissa: 345, Value: 34500, X10Value: 34500, FloatValue: 34500,
		},
		C4: HarmonicChannel{
			Exponent: 1, Mantissa: -78, Value: -780, X10Value: -780, FloatValue: -780,
		},
		X3: HarmonicChannel{},
	}, nil
}
