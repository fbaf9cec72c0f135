package main

import (
	"log/slog"
	"os"
	"time"

	"finder2db/internal/config"
	fmqtt "finder2db/internal/mqtt"
	"finder2db/internal/poller"
	"finder2db/internal/store"
	"finder2db/pkg/finder7m"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	"github.com/lmittmann/tint"
	"go.uber.org/zap"
)

// One invocation is one poll: read the meter once, persist one row, exit.
// Retry policy belongs to whatever scheduler re-invokes this process.
func main() {
	os.Exit(run())
}

func run() int {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config errors", "error", err)
		return 1
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	logger := zap.Must(zapCfg.Build())
	defer logger.Sync()

	logger.Info("finder2db starting",
		zap.String("version", versioninfo.Short()),
		zap.Int("device_id", cfg.DeviceId),
		zap.String("gateway", cfg.MeterModbusTcp.Host))

	st, err := store.OpenSQLite(cfg.Store.SQLitePath)
	if err != nil {
		logger.Error("open store", zap.Error(err))
		return 1
	}
	defer st.Close()

	writers := []poller.RecordWriter{st}
	if cfg.MQTT.Enable {
		pub := fmqtt.CreatePublisher(cfg, fmqtt.OptsFromConfig(cfg))
		if err := pub.Connect(); err != nil {
			logger.Error("mqtt connect", zap.Error(err))
			return 1
		}
		defer pub.Disconnect()
		writers = append(writers, pub)
	}

	reader := finder7m.CreateMeterReader(
		cfg.MeterModbusTcp.Host,
		cfg.MeterModbusTcp.Port,
		uint8(cfg.MeterModbusTcp.UnitId),
		uint16(cfg.MeterModbusTcp.BaseAddress),
		time.Duration(cfg.MeterModbusTcp.TimeoutMillis)*time.Millisecond,
		logger)

	p := poller.New(cfg.DeviceId, reader, writers, logger)
	if err := p.Run(); err != nil {
		logger.Error("poll failed", zap.Error(err))
		return 1
	}
	return 0
}
