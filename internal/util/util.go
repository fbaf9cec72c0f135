package util

import (
	"finder2db/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		DeviceId: 3,
		MeterModbusTcp: config.MeterModbusTCPConfig{
			Host:          "-.-.-.-",
			Port:          502,
			UnitId:        9,
			BaseAddress:   1000,
			TimeoutMillis: 1000,
		},
		Store: config.StoreConfig{
			SQLitePath: "energy.db",
		},
		MQTT: config.MQTTConfig{
			Enable:    true,
			Host:      "localhost",
			Port:      1883,
			BaseTopic: "finder2db",
		},
	}
}
