package sqlite

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimeForDB(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2024, 3, 5, 14, 30, 0, 123, loc)

	formatted := FormatTimeForDB(ts)

	assert.Equal(t, "2024-03-05T12:30:00.000000123Z", formatted)
	parsed, err := ParseTimeFromDB(formatted)
	require.NoError(t, err)
	assert.True(t, ts.Equal(parsed))
}

func TestParseTimeFromDB_Invalid(t *testing.T) {
	_, err := ParseTimeFromDB("2024-03-05 12:30:00")
	assert.Error(t, err)
}
