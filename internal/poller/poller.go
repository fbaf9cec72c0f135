package poller

import (
	"fmt"
	"time"

	"finder2db/pkg/finder7m"

	"go.uber.org/zap"
)

// crossCheckTolerance is the relative disagreement between the
// exponent/mantissa derivation and the float facet that gets reported.
const crossCheckTolerance = 1e-3

// Record is what one poll hands to the persistence side: the decoded
// snapshot plus the wall-clock timestamp attached at this boundary.
type Record struct {
	DeviceId int
	PolledAt time.Time
	Snapshot *finder7m.MeasurementSnapshot
}

// RecordWriter is a persistence collaborator: one record, one row.
type RecordWriter interface {
	WriteRecord(rec Record) error
}

// Poller runs exactly one poll per invocation. No state survives between
// polls and nothing is retried; the external scheduler re-invokes the
// process if it wants another attempt.
type Poller struct {
	deviceId int
	reader   finder7m.SnapshotReader
	writers  []RecordWriter
	logger   *zap.Logger
}

func New(deviceId int, reader finder7m.SnapshotReader, writers []RecordWriter, logger *zap.Logger) *Poller {
	return &Poller{
		deviceId: deviceId,
		reader:   reader,
		writers:  writers,
		logger:   logger,
	}
}

// PollOnce reads and decodes one snapshot and stamps it. All-or-nothing:
// any error means no record.
func (p *Poller) PollOnce() (Record, error) {
	snap, err := p.reader.ReadSnapshot()
	if err != nil {
		return Record{}, fmt.Errorf("poll device %d: %w", p.deviceId, err)
	}
	p.reportDivergence(snap)
	return Record{
		DeviceId: p.deviceId,
		PolledAt: time.Now(),
		Snapshot: snap,
	}, nil
}

// Run polls once and hands the record to every writer. The first error
// stops the run; partial rows are never written for a failed poll.
func (p *Poller) Run() error {
	rec, err := p.PollOnce()
	if err != nil {
		return err
	}
	for _, w := range p.writers {
		if err := w.WriteRecord(rec); err != nil {
			return err
		}
	}
	p.logger.Info("snapshot persisted",
		zap.Int("device_id", rec.DeviceId),
		zap.Int32("device_timestamp", rec.Snapshot.DeviceTimestamp),
		zap.Float64("frequency", rec.Snapshot.Frequency),
		zap.Float64("pt", rec.Snapshot.ActivePowerTotal))
	return nil
}

// A channel whose facets disagree points at a decode bug or register-map
// drift on the meter side. Worth a warning, not a failed poll.
func (p *Poller) reportDivergence(snap *finder7m.MeasurementSnapshot) {
	channels := map[string]finder7m.HarmonicChannel{
		"c1": snap.C1,
		"c4": snap.C4,
		"x3": snap.X3,
	}
	for name, ch := range channels {
		if ch.Diverges(crossCheckTolerance) {
			p.logger.Warn("harmonic channel facets diverge",
				zap.String("channel", name),
				zap.Float64("value", ch.Value),
				zap.Float64("x10", ch.X10Value),
				zap.Float64("float", ch.FloatValue))
		}
	}
}
