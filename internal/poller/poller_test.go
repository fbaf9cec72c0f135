package poller

import (
	"errors"
	"testing"
	"time"

	"finder2db/pkg/finder7m"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureWriter struct {
	records []Record
	err     error
}

func (w *captureWriter) WriteRecord(rec Record) error {
	if w.err != nil {
		return w.err
	}
	w.records = append(w.records, rec)
	return nil
}

func TestPollOnce(t *testing.T) {
	p := New(3, finder7m.CreateTestMeterReader(), nil, zap.NewNop())

	before := time.Now()
	rec, err := p.PollOnce()
	require.NoError(t, err)

	assert.Equal(t, 3, rec.DeviceId)
	assert.False(t, rec.PolledAt.Before(before))
	assert.InDelta(t, 50.02, rec.Snapshot.Frequency, 1e-9)
}

func TestPollOnceReadError(t *testing.T) {
	reader := finder7m.CreateTestMeterReader()
	reader.Err = errors.New("gateway down")
	p := New(3, reader, nil, zap.NewNop())

	_, err := p.PollOnce()
	assert.ErrorContains(t, err, "gateway down")
}

func TestRunWritesEveryWriter(t *testing.T) {
	w1 := &captureWriter{}
	w2 := &captureWriter{}
	p := New(3, finder7m.CreateTestMeterReader(), []RecordWriter{w1, w2}, zap.NewNop())

	require.NoError(t, p.Run())
	require.Len(t, w1.records, 1)
	require.Len(t, w2.records, 1)
	assert.Equal(t, w1.records[0].Snapshot, w2.records[0].Snapshot)
}

func TestRunWriterErrorStops(t *testing.T) {
	w1 := &captureWriter{err: errors.New("disk full")}
	w2 := &captureWriter{}
	p := New(3, finder7m.CreateTestMeterReader(), []RecordWriter{w1, w2}, zap.NewNop())

	err := p.Run()
	assert.ErrorContains(t, err, "disk full")
	assert.Empty(t, w2.records)
}

func TestRunReadErrorWritesNothing(t *testing.T) {
	reader := finder7m.CreateTestMeterReader()
	reader.Err = errors.New("timeout")
	w := &captureWriter{}
	p := New(3, reader, []RecordWriter{w}, zap.NewNop())

	assert.Error(t, p.Run())
	assert.Empty(t, w.records)
}
