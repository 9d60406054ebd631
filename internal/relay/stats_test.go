package relay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats_StartsZeroed(t *testing.T) {
	s := NewStats()

	assert.Zero(t, s.LastFlush())
	assert.Zero(t, s.LastException())
	assert.Zero(t, s.FlushTime())
	assert.Zero(t, s.FlushLength())
}

func TestStats_RoundTrip(t *testing.T) {
	s := NewStats()
	now := time.Unix(1700000000, 0)

	s.SetLastFlush(now)
	s.RecordException(now.Add(time.Minute))
	s.SetFlushTime(1500 * time.Millisecond)
	s.SetFlushLength(42)

	assert.EqualValues(t, 1700000000, s.LastFlush())
	assert.EqualValues(t, 1700000060, s.LastException())
	assert.EqualValues(t, 1500, s.FlushTime())
	assert.EqualValues(t, 42, s.FlushLength())
}

func TestStats_WriteStatus(t *testing.T) {
	s := NewStats()
	s.SetLastFlush(time.Unix(100, 0))
	s.SetFlushLength(7)

	type row struct {
		field string
		value int64
	}

	var rows []row

	s.WriteStatus(func(err error, category, field string, value int64) {
		require.NoError(t, err)
		require.Equal(t, "zabbix", category)

		rows = append(rows, row{field: field, value: value})
	})

	assert.Equal(t, []row{
		{"last_flush", 100},
		{"last_exception", 0},
		{"flush_time", 0},
		{"flush_length", 7},
	}, rows)
}
