package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"finder2db/pkg/finder7m"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	LogLevel       zapcore.Level
	DeviceId       int                  `mapstructure:"device_id"`
	MeterModbusTcp MeterModbusTCPConfig `mapstructure:"meter_modbus_tcp"`
	Store          StoreConfig          `mapstructure:"store"`
	MQTT           MQTTConfig           `mapstructure:"mqtt"`
}

type MeterModbusTCPConfig struct {
	Host          string
	Port          uint
	UnitId        uint   `mapstructure:"unit_id"`
	BaseAddress   uint   `mapstructure:"base_address"`
	TimeoutMillis uint32 `mapstructure:"timeout_millis"`
}

type StoreConfig struct {
	SQLitePath string `mapstructure:"sqlite_path"`
}

type MQTTConfig struct {
	Enable    bool
	Host      string
	Port      int
	Username  string
	Password  string
	BaseTopic string `mapstructure:"base_topic"`
}

// Load reads configuration from the environment (prefix FINDER2DB) and,
// when CONFIG_FILE is set, from a YAML file. The result is validated.
func Load() (*Config, error) {
	setDefaults()

	viper.SetEnvPrefix("finder2db")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile := os.Getenv("CONFIG_FILE"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config file %s: %w", cfgFile, err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.LogLevel = ParseLogLevel(viper.GetString("log_level"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("log_level", "info")
	viper.SetDefault("device_id", 1)
	viper.SetDefault("meter_modbus_tcp.port", 502)
	viper.SetDefault("meter_modbus_tcp.unit_id", 1)
	viper.SetDefault("meter_modbus_tcp.base_address", 1000)
	viper.SetDefault("meter_modbus_tcp.timeout_millis", 1000)
	viper.SetDefault("store.sqlite_path", "energy.db")
	viper.SetDefault("mqtt.enable", false)
	viper.SetDefault("mqtt.port", 1883)
	viper.SetDefault("mqtt.base_topic", "finder2db")
}

func ParseLogLevel(level string) zapcore.Level {
	switch level {
	case "trace", "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	case "fatal":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}

func (c *Config) Validate() error {
	if c.DeviceId <= 0 {
		return errors.New("config param device_id must be > 0")
	}
	m := c.MeterModbusTcp
	if m.Host == "" {
		return errors.New("config param meter_modbus_tcp.host is required")
	}
	if m.Port == 0 || m.Port > 65535 {
		return errors.New("config param meter_modbus_tcp.port must be 1..65535")
	}
	if m.UnitId == 0 || m.UnitId > 247 {
		return errors.New("config param meter_modbus_tcp.unit_id must be 1..247")
	}
	if m.BaseAddress+finder7m.SnapshotWords > 0x10000 {
		return errors.New("config param meter_modbus_tcp.base_address leaves no room for the snapshot block")
	}
	if m.TimeoutMillis < 100 || m.TimeoutMillis > 60000 {
		return errors.New("config param meter_modbus_tcp.timeout_millis must be 100..60000")
	}
	if c.Store.SQLitePath == "" {
		return errors.New("config param store.sqlite_path is required")
	}
	if c.MQTT.Enable {
		if c.MQTT.Host == "" {
			return errors.New("config param mqtt.host is required when mqtt is enabled")
		}
		baseTopic, err := CheckMQTTTopic(c.MQTT.BaseTopic)
		if err != nil {
			return err
		}
		c.MQTT.BaseTopic = baseTopic
	}
	return nil
}

// CheckMQTTTopic lower-cases and validates a topic segment.
func CheckMQTTTopic(baseTopic string) (string, error) {
	lowerBaseTopic := strings.ToLower(baseTopic)
	baseTopicRegexp := regexp.MustCompile("^[a-z0-9_]+$")
	if !baseTopicRegexp.MatchString(lowerBaseTopic) {
		return "", errors.New("invalid topic. can only contain letters, numbers and underscores")
	}
	return lowerBaseTopic, nil
}
