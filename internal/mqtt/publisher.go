// Package mqtt mirrors persisted snapshots to an MQTT broker. The broker is
// a convenience surface for dashboards; the SQLite store stays the system of
// record.
package mqtt

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"finder2db/internal/config"
	"finder2db/internal/poller"
	"finder2db/pkg/finder7m"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	MQTT_PAYLOAD_ONLINE  = "online"
	MQTT_PAYLOAD_OFFLINE = "offline"

	connectTimeout = 5 * time.Second
	publishTimeout = 5 * time.Second
)

func OptsFromConfig(cfg *config.Config) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTT.Host, cfg.MQTT.Port))
	opts.SetClientID(fmt.Sprintf("finder2db_%d", rand.Intn(1000)))
	if cfg.MQTT.Username != "" && cfg.MQTT.Password != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}
	opts.WillEnabled = true
	opts.WillPayload = []byte(MQTT_PAYLOAD_OFFLINE)
	opts.WillRetained = true
	opts.WillTopic = bridgeStateTopic(cfg.MQTT.BaseTopic)
	opts.WillQos = 0

	return opts
}

func CreatePublisher(cfg *config.Config, opts *mqtt.ClientOptions) *Publisher {
	return &Publisher{
		client: mqtt.NewClient(opts),
		cfg:    cfg.MQTT,
	}
}

// Publisher is a one-shot mirror: connect, publish one retained state
// message per poll, disconnect. It implements poller.RecordWriter.
type Publisher struct {
	client mqtt.Client
	cfg    config.MQTTConfig
}

// statePayload is the JSON shape published per snapshot. Field names match
// the columns of the energy table.
type statePayload struct {
	DeviceId        int     `json:"device_id"`
	DbTimestamp     string  `json:"db_timestamp"`
	DeviceTimestamp int32   `json:"device_timestamp"`
	Frequency       float64 `json:"frequency"`
	U1              float64 `json:"u1"`
	I1              float64 `json:"i1"`
	Pt              float64 `json:"pt"`
	Qt              float64 `json:"qt"`
	St              float64 `json:"st"`
	Pft             int32   `json:"pft"`
	IntTemp         float64 `json:"int_temp"`
	U1THD           float64 `json:"u1_thd"`
	I1THD           float64 `json:"i1_thd"`

	C1 channelPayload `json:"c1"`
	C4 channelPayload `json:"c4"`
	X3 channelPayload `json:"x3"`
}

type channelPayload struct {
	Exp      int16   `json:"exp"`
	Mantissa int32   `json:"mantissa"`
	Val      float64 `json:"val"`
	X10      float64 `json:"x10"`
	Float    float64 `json:"float"`
}

func (p *Publisher) Connect() error {
	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt: connect timed out after %s", connectTimeout)
	}
	return token.Error()
}

func (p *Publisher) Disconnect() {
	p.client.Disconnect(250)
}

func (p *Publisher) WriteRecord(rec poller.Record) error {
	payload, err := json.Marshal(payloadFromRecord(rec))
	if err != nil {
		return fmt.Errorf("mqtt: encode state: %w", err)
	}
	if err := p.publish(bridgeStateTopic(p.cfg.BaseTopic), []byte(MQTT_PAYLOAD_ONLINE)); err != nil {
		return err
	}
	return p.publish(p.SensorStateTopic(rec.DeviceId), payload)
}

func (p *Publisher) publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, 0, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt: publish to %s timed out after %s", topic, publishTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: publish to %s: %w", topic, err)
	}
	return nil
}

func (p *Publisher) SensorStateTopic(deviceId int) string {
	return sensorStateTopic(p.cfg.BaseTopic, deviceId)
}

func payloadFromRecord(rec poller.Record) statePayload {
	snap := rec.Snapshot
	return statePayload{
		DeviceId:        rec.DeviceId,
		DbTimestamp:     rec.PolledAt.UTC().Format(time.RFC3339),
		DeviceTimestamp: snap.DeviceTimestamp,
		Frequency:       snap.Frequency,
		U1:              snap.VoltageL1,
		I1:              snap.CurrentL1,
		Pt:              snap.ActivePowerTotal,
		Qt:              snap.ReactivePowerTotal,
		St:              snap.ApparentPowerTotal,
		Pft:             snap.PowerFactorTotal,
		IntTemp:         snap.InternalTemperature,
		U1THD:           snap.VoltageTHD,
		I1THD:           snap.CurrentTHD,
		C1:              channelPayloadFrom(snap.C1),
		C4:              channelPayloadFrom(snap.C4),
		X3:              channelPayloadFrom(snap.X3),
	}
}

func channelPayloadFrom(ch finder7m.HarmonicChannel) channelPayload {
	return channelPayload{
		Exp:      ch.Exponent,
		Mantissa: ch.Mantissa,
		Val:      ch.Value,
		X10:      ch.X10Value,
		Float:    ch.FloatValue,
	}
}

func bridgeStateTopic(baseTopic string) string {
	return fmt.Sprintf("%s/bridge/state", baseTopic)
}

func sensorStateTopic(baseTopic string, deviceId int) string {
	return fmt.Sprintf("%s/sensor/%d/state", baseTopic, deviceId)
}
