package store

import (
	"path/filepath"
	"testing"
	"time"

	"finder2db/internal/poller"
	"finder2db/pkg/finder7m"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(t *testing.T) poller.Record {
	t.Helper()
	snap, err := finder7m.CreateTestMeterReader().ReadSnapshot()
	require.NoError(t, err)
	return poller.Record{
		DeviceId: 3,
		PolledAt: time.Date(2026, 8, 30, 11, 15, 0, 0, time.UTC),
		Snapshot: snap,
	}
}

func TestWriteAndReadBack(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "energy.db"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.WriteRecord(testRecord(t)))

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM energy").Scan(&count))
	assert.Equal(t, 1, count)

	var (
		deviceId  int
		dbTs      string
		deviceTs  int64
		frequency float64
		pft       int64
		c1Val     float64
		c4Val     float64
	)
	row := s.db.QueryRow(`SELECT device_id, db_timestamp, device_timestamp,
		frequency, pft, c1_val, c4_val FROM energy`)
	require.NoError(t, row.Scan(&deviceId, &dbTs, &deviceTs, &frequency, &pft, &c1Val, &c4Val))

	assert.Equal(t, 3, deviceId)
	assert.Equal(t, "2026-08-30T11:15:00Z", dbTs)
	assert.Equal(t, int64(123456789), deviceTs)
	assert.InDelta(t, 50.02, frequency, 1e-9)
	assert.Equal(t, int64(9876), pft)
	assert.InDelta(t, 34500, c1Val, 1e-9)
	assert.InDelta(t, -780, c4Val, 1e-9)
}

func TestOneRowPerPoll(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "energy.db"))
	require.NoError(t, err)
	defer s.Close()

	rec := testRecord(t)
	require.NoError(t, s.WriteRecord(rec))
	require.NoError(t, s.WriteRecord(rec))

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM energy").Scan(&count))
	assert.Equal(t, 2, count)
}

func TestSchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "energy.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.WriteRecord(testRecord(t)))
	require.NoError(t, s.Close())

	// reopen over the same file, data survives
	s, err = OpenSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM energy").Scan(&count))
	assert.Equal(t, 1, count)
}
