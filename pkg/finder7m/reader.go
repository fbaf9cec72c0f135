package finder7m

import (
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// SnapshotReader is the read side of one meter.
type SnapshotReader interface {
	ReadSnapshot() (*MeasurementSnapshot, error)
}

// MeterReader reads snapshots from a Finder 7M meter behind a Modbus-TCP
// gateway. Each ReadSnapshot opens its own session and closes it before
// returning, so the gateway never sees a lingering half-open socket.
type MeterReader struct {
	host        string
	port        uint
	unitID      uint8
	baseAddress uint16
	timeout     time.Duration
	logger      *zap.Logger
	txn         uint16
}

func CreateMeterReader(host string, port uint, unitID uint8, baseAddress uint16,
	timeout time.Duration, logger *zap.Logger) *MeterReader {
	return &MeterReader{
		host:        host,
		port:        port,
		unitID:      unitID,
		baseAddress: baseAddress,
		timeout:     timeout,
		logger:      logger.With(zap.String("target", "meter"), zap.Uint8("unit", unitID)),
		txn:         uint16(rand.Intn(0x10000)),
	}
}

// ReadSnapshot performs one complete poll: connect, read the snapshot
// block, decode it. The first error wins and the session is closed on
// every path.
func (r *MeterReader) ReadSnapshot() (*MeasurementSnapshot, error) {
	session, err := Connect(r.host, r.port, r.timeout)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	r.txn++
	req := ReadRequest{
		TransactionID: r.txn,
		UnitID:        r.unitID,
		Start:         r.baseAddress,
		Count:         SnapshotWords,
	}
	adu, err := req.Encode()
	if err != nil {
		return nil, err
	}

	r.logger.Debug("reading snapshot block",
		zap.Uint16("start", r.baseAddress), zap.Uint16("count", SnapshotWords))

	resp, err := session.Request(adu)
	if err != nil {
		return nil, err
	}
	frame, err := req.DecodeResponse(resp)
	if err != nil {
		return nil, err
	}
	return DecodeSnapshot(frame)
}
