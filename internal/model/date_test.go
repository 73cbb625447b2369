package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", d.String())

	_, err = ParseDate("14-03-2026")
	assert.Error(t, err)
	_, err = ParseDate("2026-03-14T00:00:00Z")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	d, err := ParseDate("2026-03-14")
	require.NoError(t, err)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-14"`, string(b))

	var got Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-03-15"`), &got))
	assert.Equal(t, "2026-03-15", got.String())

	assert.Error(t, json.Unmarshal([]byte(`"not-a-date"`), &got))
}

func TestDateScan(t *testing.T) {
	var d Date

	// The mysql driver hands back time.Time with parseTime=true, raw
	// bytes without it.
	require.NoError(t, d.Scan(time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2026-03-14", d.String())

	require.NoError(t, d.Scan([]byte("2026-03-15")))
	assert.Equal(t, "2026-03-15", d.String())

	require.NoError(t, d.Scan("2026-03-16"))
	assert.Equal(t, "2026-03-16", d.String())

	assert.Error(t, d.Scan(12345))
}

func TestDateValue(t *testing.T) {
	d, err := ParseDate("2026-03-14")
	require.NoError(t, err)
	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14", v)
}
