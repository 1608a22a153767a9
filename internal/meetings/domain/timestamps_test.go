package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	want := time.Date(2026, time.October, 12, 10, 0, 0, 0, ist)

	for _, value := range []string{
		"2026-10-12T10:00:00+05:30",
		"2026-10-12T04:30:00Z",
		"2026-10-12T10:00:00",
		"2026-10-12T10:00",
		" 2026-10-12 10:00 ",
	} {
		got, err := ParseTimestamp(value, ist)
		require.NoError(t, err, value)
		assert.True(t, want.Equal(got), value)
		assert.Equal(t, ist, got.Location(), value)
	}

	_, err := ParseTimestamp("tomorrow at ten", ist)
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestSplitAttendees(t *testing.T) {
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, SplitAttendees(" a@x.com, ,b@x.com ,"))
	assert.Empty(t, SplitAttendees(" , "))
	assert.Empty(t, SplitAttendees(""))
}
