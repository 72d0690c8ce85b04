package dbx

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatParseRoundTrip(t *testing.T) {
	in := time.Date(2025, 3, 1, 9, 30, 15, 123456789, time.FixedZone("CET", 3600))
	out, err := ParseTime(FormatTime(in))
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
	assert.Equal(t, time.UTC, out.Location())
}

func TestParseTime_Invalid(t *testing.T) {
	_, err := ParseTime("yesterday")
	assert.Error(t, err)
}

func TestNullArgs(t *testing.T) {
	assert.Nil(t, NullStringArg(nil))
	s := "x"
	assert.Equal(t, "x", NullStringArg(&s))

	assert.Nil(t, NullTimeArg(nil))
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-01T09:00:00.000000000Z", NullTimeArg(&now))
}

func TestScanNulls(t *testing.T) {
	assert.Nil(t, ScanNullString(sql.NullString{}))
	got := ScanNullString(sql.NullString{String: "v", Valid: true})
	require.NotNil(t, got)
	assert.Equal(t, "v", *got)

	tm, err := ScanNullTime(sql.NullString{})
	require.NoError(t, err)
	assert.Nil(t, tm)

	tm, err = ScanNullTime(sql.NullString{String: "2025-03-01T09:00:00Z", Valid: true})
	require.NoError(t, err)
	require.NotNil(t, tm)
	assert.Equal(t, time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), *tm)
}
