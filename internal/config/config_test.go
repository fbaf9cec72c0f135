package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func validConfig() Config {
	return Config{
		LogLevel: zap.InfoLevel,
		DeviceId: 3,
		MeterModbusTcp: MeterModbusTCPConfig{
			Host:          "10.0.0.20",
			Port:          502,
			UnitId:        9,
			BaseAddress:   1000,
			TimeoutMillis: 1000,
		},
		Store: StoreConfig{SQLitePath: "energy.db"},
		MQTT: MQTTConfig{
			Enable:    true,
			Host:      "localhost",
			Port:      1883,
			BaseTopic: "Finder2DB",
		},
	}
}

func TestValidateOk(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
	// topic is normalized in place
	assert.Equal(t, "finder2db", cfg.MQTT.BaseTopic)
}

func TestValidateBounds(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"device id", func(c *Config) { c.DeviceId = 0 }},
		{"missing host", func(c *Config) { c.MeterModbusTcp.Host = "" }},
		{"unit id", func(c *Config) { c.MeterModbusTcp.UnitId = 248 }},
		{"base address", func(c *Config) { c.MeterModbusTcp.BaseAddress = 65500 }},
		{"timeout low", func(c *Config) { c.MeterModbusTcp.TimeoutMillis = 50 }},
		{"timeout high", func(c *Config) { c.MeterModbusTcp.TimeoutMillis = 120000 }},
		{"sqlite path", func(c *Config) { c.Store.SQLitePath = "" }},
		{"mqtt host", func(c *Config) { c.MQTT.Host = "" }},
		{"mqtt topic", func(c *Config) { c.MQTT.BaseTopic = "bad/topic" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestCheckMQTTTopic(t *testing.T) {
	topic, err := CheckMQTTTopic("Energy_1")
	assert.NoError(t, err)
	assert.Equal(t, "energy_1", topic)

	_, err = CheckMQTTTopic("a topic")
	assert.Error(t, err)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zap.DebugLevel, ParseLogLevel("trace"))
	assert.Equal(t, zap.DebugLevel, ParseLogLevel("debug"))
	assert.Equal(t, zap.WarnLevel, ParseLogLevel("warn"))
	assert.Equal(t, zap.InfoLevel, ParseLogLevel("bogus"))
}
